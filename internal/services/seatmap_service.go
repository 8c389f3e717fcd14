package services

import (
	"fmt"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/utils"
)

// SeatMapService manages the per-bus seat catalogs that bookings reference.
type SeatMapService struct {
	SeatMaps SeatMapStore
	Buses    BusStore
	Trips    TripStore
	Bookings BookingStore
}

func NewSeatMapService(seatMaps SeatMapStore, buses BusStore, trips TripStore, bookings BookingStore) *SeatMapService {
	return &SeatMapService{SeatMaps: seatMaps, Buses: buses, Trips: trips, Bookings: bookings}
}

func validateLayout(layout []models.Seat) error {
	if len(layout) == 0 {
		return domain.ValidationError{Field: "layout", Msg: "layout must contain at least one seat"}
	}
	seen := map[string]bool{}
	for _, seat := range layout {
		if seat.SeatNumber == "" {
			return domain.ValidationError{Field: "layout", Msg: "seat number is required"}
		}
		if seen[seat.SeatNumber] {
			return domain.ValidationError{Field: "layout", Msg: fmt.Sprintf("duplicate seat number %s", seat.SeatNumber)}
		}
		seen[seat.SeatNumber] = true
		if seat.Row < 0 || seat.Column < 0 {
			return domain.ValidationError{Field: "layout", Msg: fmt.Sprintf("seat %s has invalid position", seat.SeatNumber)}
		}
		switch seat.Type {
		case models.SeatTypeRegular, models.SeatTypeLuxury, models.SeatTypeDisabled:
		default:
			return domain.ValidationError{Field: "layout", Msg: fmt.Sprintf("seat %s has invalid type %s", seat.SeatNumber, seat.Type)}
		}
	}
	return nil
}

// CreateSeatMap attaches a seat catalog to a bus. A bus has at most one map.
func (s *SeatMapService) CreateSeatMap(busID int64, layout []models.Seat) (models.SeatMap, error) {
	if _, err := s.Buses.GetBus(busID); err != nil {
		return models.SeatMap{}, err
	}
	if err := validateLayout(layout); err != nil {
		return models.SeatMap{}, err
	}

	_, err := s.SeatMaps.GetSeatMapByBus(busID)
	if err == nil {
		return models.SeatMap{}, domain.ConflictError{Resource: "seat_map", Msg: "bus already has a seat map"}
	}
	if !domain.IsNotFound(err) {
		return models.SeatMap{}, err
	}

	return s.SeatMaps.InsertSeatMap(models.SeatMap{
		BusID:      busID,
		TotalSeats: activeSeatCount(layout),
		Layout:     layout,
	})
}

// UpdateSeatMap replaces the layout. Seats kept by number retain their IDs so
// existing bookings stay valid. While the bus has scheduled or in-progress
// trips, seats held by confirmed bookings on those trips may not be removed,
// deactivated or retyped.
func (s *SeatMapService) UpdateSeatMap(seatMapID int64, layout []models.Seat) (models.SeatMap, error) {
	existing, err := s.SeatMaps.GetSeatMap(seatMapID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if err := validateLayout(layout); err != nil {
		return models.SeatMap{}, err
	}

	held, err := s.heldSeatNumbers(existing.BusID)
	if err != nil {
		return models.SeatMap{}, err
	}
	if len(held) > 0 {
		byNumber := map[string]models.Seat{}
		for _, seat := range layout {
			byNumber[seat.SeatNumber] = seat
		}
		oldByNumber := map[string]models.Seat{}
		for _, seat := range existing.Layout {
			oldByNumber[seat.SeatNumber] = seat
		}
		for number := range held {
			seat, ok := byNumber[number]
			if !ok {
				return models.SeatMap{}, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %s is held by a confirmed booking and cannot be removed", number)}
			}
			if !seat.IsActive {
				return models.SeatMap{}, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %s is held by a confirmed booking and cannot be deactivated", number)}
			}
			if old, ok := oldByNumber[number]; ok && seat.Type != old.Type {
				return models.SeatMap{}, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %s is held by a confirmed booking and cannot change type", number)}
			}
		}
	}

	return s.SeatMaps.UpdateSeatMap(seatMapID, layout, activeSeatCount(layout))
}

// heldSeatNumbers collects seat numbers of confirmed bookings on the bus's
// scheduled and in-progress trips.
func (s *SeatMapService) heldSeatNumbers(busID int64) (map[string]bool, error) {
	trips, err := s.Trips.ListActiveTripsByBus(busID)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, nil
	}
	tripIDs := make([]int64, 0, len(trips))
	for _, t := range trips {
		tripIDs = append(tripIDs, t.ID)
	}
	bookings, err := s.Bookings.ListBookingsByTrips(tripIDs, models.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	held := map[string]bool{}
	for _, b := range bookings {
		for _, number := range b.SeatNumbers {
			held[number] = true
		}
	}
	return held, nil
}

// DeleteSeatMap removes a bus's seat catalog. Blocked while the bus has
// scheduled or in-progress trips, which book against these seats.
func (s *SeatMapService) DeleteSeatMap(seatMapID int64) error {
	existing, err := s.SeatMaps.GetSeatMap(seatMapID)
	if err != nil {
		return err
	}
	trips, err := s.Trips.ListActiveTripsByBus(existing.BusID)
	if err != nil {
		return err
	}
	if len(trips) > 0 {
		return domain.ConflictError{Resource: "seat_map", Msg: "cannot delete seat map while bus has active trips"}
	}
	return s.SeatMaps.DeleteSeatMap(seatMapID)
}

func (s *SeatMapService) GetSeatMap(seatMapID int64) (models.SeatMap, error) {
	return s.SeatMaps.GetSeatMap(seatMapID)
}

func (s *SeatMapService) GetSeatMapByBus(busID int64) (models.SeatMap, error) {
	return s.SeatMaps.GetSeatMapByBus(busID)
}

// AvailabilityMatrix reports, for each seat of the bus, whether it is free on
// each trip the bus runs on the given day. Only confirmed bookings mark a
// seat as taken here; unpaid pending holds show as free in this reporting
// view, while the booking path still honours them.
func (s *SeatMapService) AvailabilityMatrix(busID int64, date time.Time) ([]models.SeatMatrixEntry, error) {
	seatMap, err := s.SeatMaps.GetSeatMapByBus(busID)
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	trips, err := s.Trips.ListTripsByBusBetween(busID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	takenByTrip := map[int64]map[int64]bool{}
	for _, trip := range trips {
		bookings, err := s.Bookings.ListBookingsByTrip(trip.ID, models.BookingStatusConfirmed)
		if err != nil {
			return nil, err
		}
		taken := map[int64]bool{}
		for _, b := range bookings {
			for _, id := range b.SeatIDs {
				taken[id] = true
			}
		}
		takenByTrip[trip.ID] = taken
	}

	out := make([]models.SeatMatrixEntry, 0, len(seatMap.Layout))
	for _, seat := range seatMap.Layout {
		entry := models.SeatMatrixEntry{Seat: seat}
		for _, trip := range trips {
			entry.Availability = append(entry.Availability, models.SeatTripAvailability{
				TripID:        trip.ID,
				DepartureDate: utils.FormatDateTime(trip.DepartureDate),
				Available:     seat.IsActive && !takenByTrip[trip.ID][seat.ID],
			})
		}
		out = append(out, entry)
	}
	return out, nil
}
