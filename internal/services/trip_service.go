package services

import (
	"fmt"
	"strconv"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/notify"
	"busbooking/internal/utils"
)

// stopDwell is how long the bus waits at each intermediate stop.
const stopDwell = 5 * time.Minute

// TripService schedules trips on routes and buses and owns the trip
// lifecycle including cascading booking cancellation.
type TripService struct {
	Trips    TripStore
	Routes   RouteStore
	Buses    BusStore
	SeatMaps SeatMapStore
	Bookings BookingStore
	Users    UserStore
	Mailer   notify.Sender
}

func NewTripService(trips TripStore, routes RouteStore, buses BusStore, seatMaps SeatMapStore, bookings BookingStore, users UserStore, mailer notify.Sender) *TripService {
	return &TripService{
		Trips:    trips,
		Routes:   routes,
		Buses:    buses,
		SeatMaps: seatMaps,
		Bookings: bookings,
		Users:    users,
		Mailer:   mailer,
	}
}

type CreateTripRequest struct {
	RouteID         int64     `json:"route_id"`
	BusID           int64     `json:"bus_id"`
	DepartureDate   time.Time `json:"departure_date"`
	ArrivalDate     time.Time `json:"arrival_date"`
	PaymentRequired bool      `json:"payment_required"`
}

// CreateTrip schedules a new trip. Stop times and cumulative fares are
// derived from the route once, here; trips never re-read the route afterwards.
func (s *TripService) CreateTrip(req CreateTripRequest) (models.Trip, error) {
	route, err := s.Routes.GetRoute(req.RouteID)
	if err != nil {
		return models.Trip{}, err
	}

	bus, err := s.Buses.GetBus(req.BusID)
	if err != nil {
		return models.Trip{}, err
	}
	if bus.Status != models.BusStatusActive {
		return models.Trip{}, domain.StateViolationError{Resource: "bus", Msg: "bus is not active"}
	}

	if !req.ArrivalDate.After(req.DepartureDate) {
		return models.Trip{}, domain.ValidationError{Field: "arrival_date", Msg: "arrival must be after departure"}
	}

	overlapping, err := s.Trips.HasOverlappingTrip(req.BusID, req.DepartureDate, req.ArrivalDate)
	if err != nil {
		return models.Trip{}, err
	}
	if overlapping {
		return models.Trip{}, domain.ConflictError{Resource: "trip", Msg: "bus is already scheduled for an overlapping trip"}
	}

	seatMap, err := s.SeatMaps.GetSeatMapByBus(req.BusID)
	if err != nil {
		return models.Trip{}, err
	}

	stops, err := deriveTripStops(route, req.DepartureDate)
	if err != nil {
		return models.Trip{}, err
	}

	trip := models.Trip{
		RouteID:           req.RouteID,
		BusID:             req.BusID,
		DepartureDate:     req.DepartureDate,
		ArrivalDate:       req.ArrivalDate,
		Status:            models.TripStatusScheduled,
		AvailableSeats:    activeSeatCount(seatMap.Layout),
		PaymentRequired:   req.PaymentRequired,
		IntermediateStops: stops,
	}
	return s.Trips.InsertTrip(trip)
}

// deriveTripStops maps route stops onto the concrete departure. Arrival at a
// stop is departure plus the stop's minutes offset; the bus then dwells a
// fixed window before departing. Fares are prorated by cumulative distance.
func deriveTripStops(route models.Route, departure time.Time) ([]models.TripStop, error) {
	stops := make([]models.TripStop, 0, len(route.Stops))
	for _, stop := range route.Stops {
		minutes, err := strconv.ParseFloat(stop.TimeFromStart, 64)
		if err != nil {
			return nil, domain.ValidationError{
				Field: "stops",
				Msg:   fmt.Sprintf("invalid time offset %q for stop %s", stop.TimeFromStart, stop.Name),
			}
		}
		arrival := departure.Add(time.Duration(minutes * float64(time.Minute)))
		fare := 0.0
		if route.Distance > 0 {
			fare = route.Fare / route.Distance * stop.Distance
		}
		stops = append(stops, models.TripStop{
			StopName:      stop.Name,
			ArrivalTime:   arrival,
			DepartureTime: arrival.Add(stopDwell),
			FareFromStart: fare,
		})
	}
	return stops, nil
}

// UpdateTrip applies a partial edit. Once the trip has confirmed bookings
// only status and arrival date survive the patch; departure and the payment
// flag are dropped without error because passengers already hold tickets
// against them. Cancelling cascades to the trip's confirmed bookings.
func (s *TripService) UpdateTrip(tripID int64, patch models.TripPatch) (models.Trip, error) {
	trip, err := s.Trips.GetTrip(tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if trip.Status == models.TripStatusCompleted || trip.Status == models.TripStatusCancelled {
		return models.Trip{}, domain.StateViolationError{Resource: "trip", Msg: "trip can no longer be modified"}
	}

	confirmed, err := s.Bookings.CountByTrip(tripID, models.BookingStatusConfirmed)
	if err != nil {
		return models.Trip{}, err
	}
	if confirmed > 0 {
		patch.DepartureDate = nil
		patch.PaymentRequired = nil
	}

	if patch.DepartureDate != nil || patch.ArrivalDate != nil {
		departure := trip.DepartureDate
		if patch.DepartureDate != nil {
			departure = *patch.DepartureDate
		}
		arrival := trip.ArrivalDate
		if patch.ArrivalDate != nil {
			arrival = *patch.ArrivalDate
		}
		if !arrival.After(departure) {
			return models.Trip{}, domain.ValidationError{Field: "arrival_date", Msg: "arrival must be after departure"}
		}
		others, err := s.Trips.ListTripsByBusBetween(trip.BusID, departure, arrival)
		if err != nil {
			return models.Trip{}, err
		}
		for _, other := range others {
			if other.ID != tripID {
				return models.Trip{}, domain.ConflictError{Resource: "trip", Msg: "bus is already scheduled for an overlapping trip"}
			}
		}
	}

	cancelling := patch.Status != nil && *patch.Status == models.TripStatusCancelled

	updated, err := s.Trips.UpdateTrip(tripID, patch)
	if err != nil {
		return models.Trip{}, err
	}

	if cancelling {
		s.cascadeCancel(trip)
	}
	return updated, nil
}

// cascadeCancel voids the trip's confirmed bookings and tells their holders.
// Mail failures are logged and do not unwind the cancellation.
func (s *TripService) cascadeCancel(trip models.Trip) {
	bookings, err := s.Bookings.ListBookingsByTrip(trip.ID, models.BookingStatusConfirmed)
	if err != nil {
		utils.LogEvent("", "trip", "cascade_cancel", fmt.Sprintf("trip=%d err=%v", trip.ID, err))
		return
	}
	if err := s.Bookings.CancelConfirmedByTrip(trip.ID); err != nil {
		utils.LogEvent("", "trip", "cascade_cancel", fmt.Sprintf("trip=%d err=%v", trip.ID, err))
		return
	}
	s.notifyHolders(trip, bookings)
}

func (s *TripService) notifyHolders(trip models.Trip, bookings []models.Booking) {
	if s.Mailer == nil || len(bookings) == 0 {
		return
	}
	route, _ := s.Routes.GetRoute(trip.RouteID)
	for _, b := range bookings {
		user, err := s.Users.GetUser(b.UserID)
		if err != nil {
			continue
		}
		if err := s.Mailer.Send(notify.TripCancelled(user, trip, route)); err != nil {
			utils.LogEvent("", "trip", "notify", fmt.Sprintf("booking=%d err=%v", b.ID, err))
		}
	}
}

// DeleteTrip removes a trip outright. Confirmed bookings block deletion;
// pending holds are cancelled and their holders notified.
func (s *TripService) DeleteTrip(tripID int64) error {
	trip, err := s.Trips.GetTrip(tripID)
	if err != nil {
		return err
	}

	confirmed, err := s.Bookings.CountByTrip(tripID, models.BookingStatusConfirmed)
	if err != nil {
		return err
	}
	if confirmed > 0 {
		return domain.ConflictError{Resource: "trip", Msg: "cannot delete trip with confirmed bookings"}
	}

	pending, err := s.Bookings.ListBookingsByTrip(tripID, models.BookingStatusPending)
	if err != nil {
		return err
	}
	for _, b := range pending {
		status := models.BookingStatusCancelled
		paymentStatus := models.PaymentStatusCancelled
		if _, err := s.Bookings.UpdateBooking(b.ID, models.BookingPatch{Status: &status, PaymentStatus: &paymentStatus}); err != nil {
			utils.LogEvent("", "trip", "delete", fmt.Sprintf("booking=%d err=%v", b.ID, err))
		}
	}
	s.notifyHolders(trip, pending)

	return s.Trips.DeleteTrip(tripID)
}

// GetTripDetails returns the trip with route, bus and confirmed bookings count.
func (s *TripService) GetTripDetails(tripID int64) (models.TripDetails, error) {
	trip, err := s.Trips.GetTrip(tripID)
	if err != nil {
		return models.TripDetails{}, err
	}
	details := models.TripDetails{Trip: trip}
	if route, err := s.Routes.GetRoute(trip.RouteID); err == nil {
		details.Route = &route
	}
	if bus, err := s.Buses.GetBus(trip.BusID); err == nil {
		details.Bus = &bus
	}
	if count, err := s.Bookings.CountByTrip(tripID, models.BookingStatusConfirmed); err == nil {
		details.BookingsCount = count
	}
	return details, nil
}

// ListTrips lists trips matching the filter with route and bus attached.
func (s *TripService) ListTrips(f models.TripFilter) ([]models.TripDetails, error) {
	trips, err := s.Trips.ListTrips(f)
	if err != nil {
		return nil, err
	}
	out := make([]models.TripDetails, 0, len(trips))
	for _, trip := range trips {
		details := models.TripDetails{Trip: trip}
		if route, err := s.Routes.GetRoute(trip.RouteID); err == nil {
			details.Route = &route
		}
		if bus, err := s.Buses.GetBus(trip.BusID); err == nil {
			details.Bus = &bus
		}
		out = append(out, details)
	}
	return out, nil
}
