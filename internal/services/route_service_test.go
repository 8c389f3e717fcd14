package services

import (
	"testing"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

func newRouteService() (*RouteService, *memStore) {
	store := newMemStore()
	return NewRouteService(store, store, store), store
}

func colomboKandyRoute() models.Route {
	return models.Route{
		RouteNumber:   "1",
		StartLocation: "Colombo",
		EndLocation:   "Kandy",
		Distance:      115,
		Fare:          580,
		Stops: []models.RouteStop{
			{Name: "Kadawatha", Distance: 15, TimeFromStart: "30"},
			{Name: "Kegalle", Distance: 78, TimeFromStart: "120"},
		},
		Schedules: []models.RouteSchedule{
			{DepartureTime: "06:00", ArrivalTime: "09:30", Frequency: 1, DaysOperating: []string{"mon", "tue", "wed", "thu", "fri"}},
		},
	}
}

func TestCreateRouteSynthesizesTerminalStops(t *testing.T) {
	svc, _ := newRouteService()

	created, err := svc.CreateRoute(colomboKandyRoute())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(created.Stops) != 4 {
		t.Fatalf("stops = %d, want 4", len(created.Stops))
	}
	first, last := created.Stops[0], created.Stops[3]
	if first.Name != "Colombo" || first.Distance != 0 || first.TimeFromStart != "0" {
		t.Fatalf("origin stop = %+v", first)
	}
	if last.Name != "Kandy" || last.Distance != 115 {
		t.Fatalf("terminus stop = %+v", last)
	}
	// 06:00 -> 09:30 is 210 minutes.
	if last.TimeFromStart != "210" {
		t.Fatalf("terminus offset = %s, want 210", last.TimeFromStart)
	}
	if created.Status != models.RouteStatusActive {
		t.Fatalf("status = %s, want active", created.Status)
	}
}

func TestCreateRouteValidation(t *testing.T) {
	svc, _ := newRouteService()

	missing := colomboKandyRoute()
	missing.RouteNumber = ""
	if _, err := svc.CreateRoute(missing); !domain.IsValidation(err) {
		t.Fatalf("missing route number: expected validation error, got %v", err)
	}

	noSchedule := colomboKandyRoute()
	noSchedule.Schedules = nil
	if _, err := svc.CreateRoute(noSchedule); !domain.IsValidation(err) {
		t.Fatalf("missing schedule: expected validation error, got %v", err)
	}

	badOrder := colomboKandyRoute()
	badOrder.Stops[1].Distance = 10 // before Kadawatha's 15
	if _, err := svc.CreateRoute(badOrder); !domain.IsValidation(err) {
		t.Fatalf("distance ordering: expected validation error, got %v", err)
	}

	badOffset := colomboKandyRoute()
	badOffset.Stops[0].TimeFromStart = "half past six"
	if _, err := svc.CreateRoute(badOffset); !domain.IsValidation(err) {
		t.Fatalf("non-numeric offset: expected validation error, got %v", err)
	}

	tooFar := colomboKandyRoute()
	tooFar.Stops[1].Distance = 200 // beyond total distance
	if _, err := svc.CreateRoute(tooFar); !domain.IsValidation(err) {
		t.Fatalf("distance beyond total: expected validation error, got %v", err)
	}
}

func TestUpdateRouteKeepsStops(t *testing.T) {
	svc, _ := newRouteService()

	created, err := svc.CreateRoute(colomboKandyRoute())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := created
	edit.Fare = 650
	edit.Stops = nil
	updated, err := svc.UpdateRoute(created.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Fare != 650 {
		t.Fatalf("fare = %v, want 650", updated.Fare)
	}
	if len(updated.Stops) != 4 {
		t.Fatalf("stops = %d, want original 4 preserved", len(updated.Stops))
	}
}

func TestDeleteRouteBlockedByScheduledTrips(t *testing.T) {
	w := newTestWorld(t, false)
	svc := NewRouteService(w.store, w.store, w.store)

	if err := svc.DeleteRoute(w.trip.RouteID); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	cancelled := models.TripStatusCancelled
	if _, err := w.store.UpdateTrip(w.trip.ID, models.TripPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel trip: %v", err)
	}
	if err := svc.DeleteRoute(w.trip.RouteID); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}
}
