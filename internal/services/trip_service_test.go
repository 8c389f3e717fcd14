package services

import (
	"testing"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

func TestTripStopDerivation(t *testing.T) {
	w := newTestWorld(t, false)

	stops := w.trip.IntermediateStops
	if len(stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(stops))
	}

	wantFares := []float64{0, 50, 100}
	for i, want := range wantFares {
		if stops[i].FareFromStart != want {
			t.Fatalf("stop %s fareFromStart = %v, want %v", stops[i].StopName, stops[i].FareFromStart, want)
		}
	}

	b := stops[1]
	wantArrival := time.Date(2024, 1, 1, 8, 15, 0, 0, time.UTC)
	if !b.ArrivalTime.Equal(wantArrival) {
		t.Fatalf("B arrival = %v, want %v", b.ArrivalTime, wantArrival)
	}
	if !b.DepartureTime.Equal(wantArrival.Add(5 * time.Minute)) {
		t.Fatalf("B departure = %v, want %v", b.DepartureTime, wantArrival.Add(5*time.Minute))
	}

	if w.trip.AvailableSeats != 4 {
		t.Fatalf("initial available seats = %d, want 4", w.trip.AvailableSeats)
	}
	if w.trip.Status != models.TripStatusScheduled {
		t.Fatalf("status = %s, want scheduled", w.trip.Status)
	}
}

func TestCreateTripRejectsNonNumericStopOffset(t *testing.T) {
	w := newTestWorld(t, false)

	route, err := w.store.InsertRoute(models.Route{
		RouteNumber:   "87",
		StartLocation: "X",
		EndLocation:   "Y",
		Distance:      10,
		Fare:          50,
		Status:        models.RouteStatusActive,
		Stops: []models.RouteStop{
			{Name: "X", Distance: 0, TimeFromStart: "0"},
			{Name: "Y", Distance: 10, TimeFromStart: "08:00"},
		},
	})
	if err != nil {
		t.Fatalf("insert route: %v", err)
	}

	departure := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	_, err = w.trips.CreateTrip(CreateTripRequest{
		RouteID:       route.ID,
		BusID:         w.trip.BusID,
		DepartureDate: departure,
		ArrivalDate:   departure.Add(time.Hour),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTripRejectsOverlappingSchedule(t *testing.T) {
	w := newTestWorld(t, false)

	// Window nested inside the existing 08:00-08:30 trip.
	departure := time.Date(2024, 1, 1, 8, 10, 0, 0, time.UTC)
	_, err := w.trips.CreateTrip(CreateTripRequest{
		RouteID:       w.trip.RouteID,
		BusID:         w.trip.BusID,
		DepartureDate: departure,
		ArrivalDate:   departure.Add(10 * time.Minute),
	})
	if !domain.IsConflict(err) {
		t.Fatalf("nested window: expected conflict, got %v", err)
	}

	// Same bus later the same day is fine.
	departure = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if _, err := w.trips.CreateTrip(CreateTripRequest{
		RouteID:       w.trip.RouteID,
		BusID:         w.trip.BusID,
		DepartureDate: departure,
		ArrivalDate:   departure.Add(30 * time.Minute),
	}); err != nil {
		t.Fatalf("disjoint window: %v", err)
	}
}

func TestCancelledTripFreesBusWindow(t *testing.T) {
	w := newTestWorld(t, false)

	cancelled := models.TripStatusCancelled
	if _, err := w.trips.UpdateTrip(w.trip.ID, models.TripPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel trip: %v", err)
	}

	if _, err := w.trips.CreateTrip(CreateTripRequest{
		RouteID:       w.trip.RouteID,
		BusID:         w.trip.BusID,
		DepartureDate: w.trip.DepartureDate,
		ArrivalDate:   w.trip.ArrivalDate,
	}); err != nil {
		t.Fatalf("rescheduling over a cancelled trip: %v", err)
	}
}

func TestCreateTripRejectsInactiveBus(t *testing.T) {
	w := newTestWorld(t, false)

	bus, err := w.store.InsertBus(models.Bus{
		RegistrationNumber: "NB-9999",
		Capacity:           4,
		Status:             models.BusStatusMaintenance,
	})
	if err != nil {
		t.Fatalf("insert bus: %v", err)
	}

	departure := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err = w.trips.CreateTrip(CreateTripRequest{
		RouteID:       w.trip.RouteID,
		BusID:         bus.ID,
		DepartureDate: departure,
		ArrivalDate:   departure.Add(time.Hour),
	})
	if !domain.IsStateViolation(err) {
		t.Fatalf("expected state violation, got %v", err)
	}
}

func TestCreateTripRequiresSeatMap(t *testing.T) {
	w := newTestWorld(t, false)

	bus, err := w.store.InsertBus(models.Bus{
		RegistrationNumber: "NB-0001",
		Capacity:           4,
		Status:             models.BusStatusActive,
	})
	if err != nil {
		t.Fatalf("insert bus: %v", err)
	}

	departure := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err = w.trips.CreateTrip(CreateTripRequest{
		RouteID:       w.trip.RouteID,
		BusID:         bus.ID,
		DepartureDate: departure,
		ArrivalDate:   departure.Add(time.Hour),
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTripDropsScheduleWithConfirmedBookings(t *testing.T) {
	w := newTestWorld(t, false)

	w.mustBook(t, "A", "C", "1A")

	newDeparture := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	newArrival := newDeparture.Add(30 * time.Minute)
	payment := true
	updated, err := w.trips.UpdateTrip(w.trip.ID, models.TripPatch{
		DepartureDate:   &newDeparture,
		ArrivalDate:     &newArrival,
		PaymentRequired: &payment,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.DepartureDate.Equal(w.trip.DepartureDate) {
		t.Fatalf("departure changed despite confirmed bookings")
	}
	if updated.PaymentRequired {
		t.Fatalf("payment flag changed despite confirmed bookings")
	}
	if !updated.ArrivalDate.Equal(newArrival) {
		t.Fatalf("arrival date should still be editable with confirmed bookings")
	}
}

func TestCancelTripCascadesToBookings(t *testing.T) {
	w := newTestWorld(t, false)

	b := w.mustBook(t, "A", "C", "1A")

	cancelled := models.TripStatusCancelled
	updated, err := w.trips.UpdateTrip(w.trip.ID, models.TripPatch{Status: &cancelled})
	if err != nil {
		t.Fatalf("cancel trip: %v", err)
	}
	if updated.Status != models.TripStatusCancelled {
		t.Fatalf("trip status = %s, want cancelled", updated.Status)
	}

	got, _ := w.store.GetBooking(b.ID)
	if got.Status != models.BookingStatusCancelled {
		t.Fatalf("booking status = %s, want cancelled", got.Status)
	}
	if got.PaymentStatus != models.PaymentStatusRefunded {
		t.Fatalf("payment status = %s, want refunded", got.PaymentStatus)
	}
}

func TestUpdateTerminalTripFails(t *testing.T) {
	w := newTestWorld(t, false)

	cancelled := models.TripStatusCancelled
	if _, err := w.trips.UpdateTrip(w.trip.ID, models.TripPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	scheduled := models.TripStatusScheduled
	_, err := w.trips.UpdateTrip(w.trip.ID, models.TripPatch{Status: &scheduled})
	if !domain.IsStateViolation(err) {
		t.Fatalf("expected state violation, got %v", err)
	}
}

func TestDeleteTripBlockedByConfirmedBookings(t *testing.T) {
	w := newTestWorld(t, false)

	w.mustBook(t, "A", "B", "1A")

	err := w.trips.DeleteTrip(w.trip.ID)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteTripCancelsPendingHolds(t *testing.T) {
	w := newTestWorld(t, true)

	b, err := w.booking.CreateBooking(CreateBookingRequest{
		TripID:         w.trip.ID,
		UserID:         7,
		SeatIDs:        []int64{w.seats["1A"]},
		FromStop:       "A",
		ToStop:         "C",
		PaymentDetails: &models.PaymentDetails{PaymentMethod: "card"},
	})
	if err != nil {
		t.Fatalf("create pending booking: %v", err)
	}

	if err := w.trips.DeleteTrip(w.trip.ID); err != nil {
		t.Fatalf("delete trip: %v", err)
	}

	got, _ := w.store.GetBooking(b.ID)
	if got.Status != models.BookingStatusCancelled {
		t.Fatalf("pending booking status = %s, want cancelled", got.Status)
	}
	if _, err := w.store.GetTrip(w.trip.ID); !domain.IsNotFound(err) {
		t.Fatalf("trip still present after delete")
	}
}

func TestGetTripDetailsIncludesBookingsCount(t *testing.T) {
	w := newTestWorld(t, false)

	w.mustBook(t, "A", "B", "1A")
	w.mustBook(t, "B", "C", "2A")

	details, err := w.trips.GetTripDetails(w.trip.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.BookingsCount != 2 {
		t.Fatalf("bookings count = %d, want 2", details.BookingsCount)
	}
	if details.Route == nil || details.Bus == nil {
		t.Fatalf("route/bus not attached")
	}
}
