package services

import (
	"fmt"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/metrics"
	"busbooking/internal/notify"
	"busbooking/internal/utils"
)

// BookingService owns the seat/segment booking lifecycle: availability
// scans, fare computation, state transitions and the trip seat counter.
type BookingService struct {
	Trips    TripStore
	Bookings BookingStore
	SeatMaps SeatMapStore
	Routes   RouteStore
	Buses    BusStore
	Users    UserStore
	Mailer   notify.Sender
	Metrics  *metrics.Collector

	locks *tripLocks
}

func NewBookingService(trips TripStore, bookings BookingStore, seatMaps SeatMapStore, routes RouteStore, buses BusStore, users UserStore, mailer notify.Sender, collector *metrics.Collector) *BookingService {
	return &BookingService{
		Trips:    trips,
		Bookings: bookings,
		SeatMaps: seatMaps,
		Routes:   routes,
		Buses:    buses,
		Users:    users,
		Mailer:   mailer,
		Metrics:  collector,
		locks:    newTripLocks(),
	}
}

type CreateBookingRequest struct {
	TripID         int64                  `json:"trip_id"`
	UserID         int64                  `json:"user_id"`
	SeatIDs        []int64                `json:"seat_ids"`
	FromStop       string                 `json:"from_stop"`
	ToStop         string                 `json:"to_stop"`
	PaymentDetails *models.PaymentDetails `json:"payment_details,omitempty"`
}

// segmentsOverlap reproduces the stored comparison rule: containment in
// either direction under string order on stop names. Route position is NOT
// consulted; this matches the data already written by the system and must
// not be "fixed" to positional comparison without a data migration.
func segmentsOverlap(bFrom, bTo, qFrom, qTo string) bool {
	if bFrom <= qFrom && bTo >= qTo {
		return true
	}
	if bFrom >= qFrom && bTo <= qTo {
		return true
	}
	return false
}

// SeatAvailability reports every seat of the trip's bus with its
// availability over the [fromStop, toStop) segment, in layout order.
func (s *BookingService) SeatAvailability(tripID int64, fromStop, toStop string) ([]models.SeatAvailability, error) {
	return s.availability(tripID, fromStop, toStop, 0)
}

func (s *BookingService) availability(tripID int64, fromStop, toStop string, excludeBookingID int64) ([]models.SeatAvailability, error) {
	trip, err := s.Trips.GetTrip(tripID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.Bookings.ListBookingsByTrip(tripID, models.BookingStatusConfirmed, models.BookingStatusPending)
	if err != nil {
		return nil, err
	}

	seatMap, err := s.SeatMaps.GetSeatMapByBus(trip.BusID)
	if err != nil {
		return nil, err
	}

	taken := map[int64]bool{}
	for _, b := range bookings {
		if b.ID == excludeBookingID {
			continue
		}
		if !segmentsOverlap(b.FromStop, b.ToStop, fromStop, toStop) {
			continue
		}
		for _, seatID := range b.SeatIDs {
			taken[seatID] = true
		}
	}

	if s.Metrics != nil {
		s.Metrics.AvailabilityChecks.Inc()
	}

	out := make([]models.SeatAvailability, 0, len(seatMap.Layout))
	for _, seat := range seatMap.Layout {
		out = append(out, models.SeatAvailability{Seat: seat, IsAvailable: !taken[seat.ID]})
	}
	return out, nil
}

// CreateBooking reserves seats over a segment. The whole check-then-write
// sequence runs under the trip's lock so concurrent requests for the same
// seats cannot both succeed.
func (s *BookingService) CreateBooking(req CreateBookingRequest) (models.Booking, error) {
	unlock := s.locks.lock(req.TripID)
	defer unlock()

	trip, err := s.Trips.GetTrip(req.TripID)
	if err != nil {
		return models.Booking{}, s.failBooking("trip_not_found", err)
	}
	if trip.Status != models.TripStatusScheduled {
		return models.Booking{}, s.failBooking("trip_not_bookable",
			domain.StateViolationError{Resource: "trip", Msg: "trip is not available for booking"})
	}

	if trip.PaymentRequired && req.PaymentDetails == nil {
		return models.Booking{}, s.failBooking("payment_required",
			domain.ValidationError{Field: "payment_details", Msg: "payment details are required for this booking"})
	}

	seatMap, err := s.SeatMaps.GetSeatMapByBus(trip.BusID)
	if err != nil {
		return models.Booking{}, s.failBooking("seat_map_not_found", err)
	}

	seatNumbers, err := seatNumbersFor(seatMap, req.SeatIDs)
	if err != nil {
		return models.Booking{}, s.failBooking("invalid_seat_id", err)
	}

	avail, err := s.availability(req.TripID, req.FromStop, req.ToStop, 0)
	if err != nil {
		return models.Booking{}, err
	}
	if !allAvailable(avail, req.SeatIDs) {
		return models.Booking{}, s.failBooking("seat_unavailable",
			domain.ConflictError{Resource: "seat", Msg: "one or more selected seats are not available"})
	}

	farePerSeat, err := fareBetween(trip, req.FromStop, req.ToStop)
	if err != nil {
		return models.Booking{}, s.failBooking("invalid_segment", err)
	}
	totalFare := farePerSeat * float64(len(req.SeatIDs))

	booking := models.Booking{
		TripID:      req.TripID,
		UserID:      req.UserID,
		SeatIDs:     req.SeatIDs,
		SeatNumbers: seatNumbers,
		FromStop:    req.FromStop,
		ToStop:      req.ToStop,
		BookingDate: time.Now(),
		TotalFare:   totalFare,
	}
	if trip.PaymentRequired {
		booking.Status = models.BookingStatusPending
		booking.PaymentStatus = models.PaymentStatusPending
		booking.PaymentDetails = req.PaymentDetails
		expiry := time.Now().Add(models.BookingExpiry)
		booking.ExpiryDate = &expiry
	} else {
		booking.Status = models.BookingStatusConfirmed
		booking.PaymentStatus = models.PaymentStatusNotRequired
	}

	booking, err = s.Bookings.InsertBooking(booking)
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.Trips.AdjustAvailableSeats(req.TripID, -len(req.SeatIDs)); err != nil {
		utils.LogEvent("", "booking", "adjust_seats", fmt.Sprintf("booking=%d err=%v", booking.ID, err))
	}

	if s.Metrics != nil {
		s.Metrics.BookingsCreated.Inc()
	}

	s.notifyBooking(booking, trip, notify.BookingConfirmation)

	return booking, nil
}

// UpdateBooking applies a partial edit. For trips requiring payment only
// payment details may change; otherwise a seat change releases the old hold,
// re-checks the segment excluding this booking and re-reserves.
func (s *BookingService) UpdateBooking(bookingID int64, patch models.BookingPatch) (models.Booking, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.Status == models.BookingStatusCancelled {
		return models.Booking{}, domain.StateViolationError{Resource: "booking", Msg: "cannot update cancelled booking"}
	}

	trip, err := s.Trips.GetTrip(booking.TripID)
	if err != nil {
		return models.Booking{}, err
	}

	if trip.PaymentRequired {
		if booking.PaymentStatus == models.PaymentStatusCompleted {
			return models.Booking{}, domain.StateViolationError{Resource: "booking", Msg: "cannot update a paid booking"}
		}
		if patch.TouchesNonPayment() {
			return models.Booking{}, domain.StateViolationError{
				Resource: "booking",
				Msg:      "only payment details can be updated for bookings requiring payment",
			}
		}
	}

	effectiveFrom := booking.FromStop
	if patch.FromStop != nil {
		effectiveFrom = *patch.FromStop
	}
	effectiveTo := booking.ToStop
	if patch.ToStop != nil {
		effectiveTo = *patch.ToStop
	}

	if !trip.PaymentRequired && (patch.SeatIDs != nil || patch.FromStop != nil || patch.ToStop != nil) {
		unlock := s.locks.lock(booking.TripID)
		defer unlock()

		effectiveSeats := booking.SeatIDs
		if patch.SeatIDs != nil {
			seatMap, err := s.SeatMaps.GetSeatMapByBus(trip.BusID)
			if err != nil {
				return models.Booking{}, err
			}
			seatNumbers, err := seatNumbersFor(seatMap, patch.SeatIDs)
			if err != nil {
				return models.Booking{}, err
			}
			patch.SeatNumbers = seatNumbers
			effectiveSeats = patch.SeatIDs
		}

		// Re-check the effective segment excluding this booking's own hold.
		avail, err := s.availability(booking.TripID, effectiveFrom, effectiveTo, booking.ID)
		if err != nil {
			return models.Booking{}, err
		}
		if !allAvailable(avail, effectiveSeats) {
			return models.Booking{}, domain.ConflictError{Resource: "seat", Msg: "one or more selected seats are not available"}
		}

		farePerSeat, err := fareBetween(trip, effectiveFrom, effectiveTo)
		if err != nil {
			return models.Booking{}, err
		}
		totalFare := farePerSeat * float64(len(effectiveSeats))
		patch.TotalFare = &totalFare

		// Release the old hold, reserve the new one.
		delta := len(booking.SeatIDs) - len(effectiveSeats)
		if delta != 0 {
			if err := s.Trips.AdjustAvailableSeats(booking.TripID, delta); err != nil {
				utils.LogEvent("", "booking", "adjust_seats", fmt.Sprintf("booking=%d err=%v", booking.ID, err))
			}
		}
	}

	updated, err := s.Bookings.UpdateBooking(bookingID, patch)
	if err != nil {
		return models.Booking{}, err
	}

	s.notifyBooking(updated, trip, notify.BookingUpdated)

	return updated, nil
}

// CancelBooking transitions a booking to cancelled and releases its seats.
// Cancelled is terminal; cancelling twice fails without touching counters.
func (s *BookingService) CancelBooking(bookingID int64) (models.Booking, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.Status == models.BookingStatusCancelled {
		return models.Booking{}, domain.StateViolationError{Resource: "booking", Msg: "booking is already cancelled"}
	}

	trip, err := s.Trips.GetTrip(booking.TripID)
	if err != nil {
		return models.Booking{}, err
	}
	if trip.Status != models.TripStatusScheduled {
		return models.Booking{}, domain.StateViolationError{
			Resource: "trip",
			Msg:      "cannot cancel booking for trip that has started or completed",
		}
	}

	unlock := s.locks.lock(booking.TripID)
	defer unlock()

	status := models.BookingStatusCancelled
	paymentStatus := models.PaymentStatusCancelled
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		paymentStatus = models.PaymentStatusRefunded
	}

	updated, err := s.Bookings.UpdateBooking(bookingID, models.BookingPatch{
		Status:        &status,
		PaymentStatus: &paymentStatus,
	})
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.Trips.AdjustAvailableSeats(booking.TripID, len(booking.SeatIDs)); err != nil {
		utils.LogEvent("", "booking", "adjust_seats", fmt.Sprintf("booking=%d err=%v", booking.ID, err))
	}

	if s.Metrics != nil {
		s.Metrics.BookingsCancelled.Inc()
	}

	return updated, nil
}

// FindAvailableTrips returns scheduled trips departing on the given day that
// serve both stops and still have seats, annotated with the segment fare.
func (s *BookingService) FindAvailableTrips(fromStop, toStop string, date time.Time) ([]models.TripWithFare, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	trips, err := s.Trips.ListScheduledBetween(day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := []models.TripWithFare{}
	for _, trip := range trips {
		if trip.AvailableSeats <= 0 {
			continue
		}
		if !hasStop(trip, fromStop) || !hasStop(trip, toStop) {
			continue
		}
		fare, err := fareBetween(trip, fromStop, toStop)
		if err != nil {
			continue
		}
		out = append(out, models.TripWithFare{Trip: trip, CalculatedFare: fare})
	}
	return out, nil
}

// CheckTripAvailability reports aggregate headroom for a segment at a
// requested seat count, scanning confirmed bookings only.
func (s *BookingService) CheckTripAvailability(tripID int64, fromStop, toStop string, seatCount int) (models.TripAvailability, error) {
	trip, err := s.Trips.GetTrip(tripID)
	if err != nil {
		return models.TripAvailability{}, err
	}
	if !hasStop(trip, fromStop) || !hasStop(trip, toStop) {
		return models.TripAvailability{}, domain.ValidationError{Field: "stops", Msg: "invalid stops for this trip"}
	}

	bookings, err := s.Bookings.ListBookingsByTrip(tripID, models.BookingStatusConfirmed)
	if err != nil {
		return models.TripAvailability{}, err
	}

	seatMap, err := s.SeatMaps.GetSeatMapByBus(trip.BusID)
	if err != nil {
		return models.TripAvailability{}, err
	}

	totalSeats := activeSeatCount(seatMap.Layout)
	bookedSeats := 0
	for _, b := range bookings {
		// Endpoint-in-range rule under string order, as stored.
		if (b.FromStop >= fromStop && b.FromStop < toStop) || (b.ToStop > fromStop && b.ToStop <= toStop) {
			bookedSeats += len(b.SeatNumbers)
		}
	}

	return models.TripAvailability{
		Available:      totalSeats-bookedSeats >= seatCount,
		TotalSeats:     totalSeats,
		BookedSeats:    bookedSeats,
		AvailableSeats: totalSeats - bookedSeats,
	}, nil
}

// BookingDetails returns a booking with its trip, route and bus fetched
// explicitly.
func (s *BookingService) BookingDetails(bookingID int64) (models.BookingDetails, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.BookingDetails{}, err
	}

	details := models.BookingDetails{Booking: booking}
	if trip, err := s.Trips.GetTrip(booking.TripID); err == nil {
		details.Trip = &trip
		if route, err := s.Routes.GetRoute(trip.RouteID); err == nil {
			details.Route = &route
		}
		if bus, err := s.Buses.GetBus(trip.BusID); err == nil {
			details.Bus = &bus
		}
	}
	return details, nil
}

// UserBookings lists a user's bookings, newest first; status filters when set.
func (s *BookingService) UserBookings(userID int64, status string) ([]models.Booking, error) {
	return s.Bookings.ListBookingsByUser(userID, status)
}

// AllBookings lists every booking, newest first.
func (s *BookingService) AllBookings() ([]models.Booking, error) {
	return s.Bookings.ListAllBookings()
}

// ReconcileAvailableSeats recomputes the trip's seat counter from the
// booking scan. The counter is a cache; the scan is ground truth.
func (s *BookingService) ReconcileAvailableSeats(tripID int64) (int, error) {
	unlock := s.locks.lock(tripID)
	defer unlock()

	trip, err := s.Trips.GetTrip(tripID)
	if err != nil {
		return 0, err
	}
	seatMap, err := s.SeatMaps.GetSeatMapByBus(trip.BusID)
	if err != nil {
		return 0, err
	}
	bookings, err := s.Bookings.ListBookingsByTrip(tripID, models.BookingStatusConfirmed, models.BookingStatusPending)
	if err != nil {
		return 0, err
	}

	held := 0
	for _, b := range bookings {
		held += len(b.SeatIDs)
	}

	available := activeSeatCount(seatMap.Layout) - held
	if err := s.Trips.SetAvailableSeats(tripID, available); err != nil {
		return 0, err
	}
	return available, nil
}

func (s *BookingService) failBooking(reason string, err error) error {
	if s.Metrics != nil {
		s.Metrics.BookingFailures.WithLabelValues(reason).Inc()
	}
	return err
}

// notifyBooking sends a booking mail best-effort; failure is logged only.
func (s *BookingService) notifyBooking(booking models.Booking, trip models.Trip, build func(models.User, models.Booking, models.Route, models.Bus) notify.Message) {
	if s.Mailer == nil {
		return
	}
	user, err := s.Users.GetUser(booking.UserID)
	if err != nil {
		return
	}
	route, _ := s.Routes.GetRoute(trip.RouteID)
	bus, _ := s.Buses.GetBus(trip.BusID)

	if err := s.Mailer.Send(build(user, booking, route, bus)); err != nil {
		utils.LogEvent("", "booking", "notify", fmt.Sprintf("booking=%d err=%v", booking.ID, err))
	}
}

func seatNumbersFor(seatMap models.SeatMap, seatIDs []int64) ([]string, error) {
	byID := map[int64]string{}
	for _, seat := range seatMap.Layout {
		byID[seat.ID] = seat.SeatNumber
	}
	out := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		number, ok := byID[id]
		if !ok {
			return nil, domain.ValidationError{Field: "seat_ids", Msg: "one or more invalid seat IDs"}
		}
		out = append(out, number)
	}
	return out, nil
}

func allAvailable(avail []models.SeatAvailability, seatIDs []int64) bool {
	free := map[int64]bool{}
	for _, seat := range avail {
		if seat.IsAvailable {
			free[seat.ID] = true
		}
	}
	for _, id := range seatIDs {
		if !free[id] {
			return false
		}
	}
	return true
}

func activeSeatCount(layout []models.Seat) int {
	count := 0
	for _, seat := range layout {
		if seat.IsActive {
			count++
		}
	}
	return count
}
