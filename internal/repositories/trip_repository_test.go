package repositories

import (
	"testing"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var tripCols = []string{"id", "route_id", "bus_id", "departure_date", "arrival_date", "status", "available_seats", "payment_required"}

func TestTripRepositoryGetLoadsStopsInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	departure := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	arrival := departure.Add(30 * time.Minute)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(tripCols).
			AddRow(9, 1, 2, departure, arrival, "scheduled", 4, false))
	mock.ExpectQuery("FROM trip_stops").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"stop_name", "arrival_time", "departure_time", "fare_from_start"}).
			AddRow("A", departure, departure.Add(5*time.Minute), 0.0).
			AddRow("B", departure.Add(15*time.Minute), departure.Add(20*time.Minute), 50.0).
			AddRow("C", arrival, arrival.Add(5*time.Minute), 100.0))

	repo := TripRepository{DB: db}
	trip, err := repo.GetTrip(9)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(trip.IntermediateStops) != 3 {
		t.Fatalf("stops = %d, want 3", len(trip.IntermediateStops))
	}
	if trip.IntermediateStops[1].StopName != "B" || trip.IntermediateStops[1].FareFromStart != 50 {
		t.Fatalf("stop[1] = %+v", trip.IntermediateStops[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(tripCols))

	repo := TripRepository{DB: db}
	if _, err := repo.GetTrip(404); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTripRepositoryHasOverlappingTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	departure := time.Date(2024, 1, 1, 8, 10, 0, 0, time.UTC)
	arrival := departure.Add(10 * time.Minute)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM trips\\s+WHERE bus_id=\\? AND status!='cancelled'").
		WithArgs(int64(2), departure, departure, departure, arrival).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := TripRepository{DB: db}
	overlapping, err := repo.HasOverlappingTrip(2, departure, arrival)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if !overlapping {
		t.Fatalf("expected overlap")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepositoryAdjustAvailableSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips SET available_seats = available_seats \\+ \\?").
		WithArgs(-2, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := TripRepository{DB: db}
	if err := repo.AdjustAvailableSeats(9, -2); err != nil {
		t.Fatalf("adjust error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepositoryUpdatePatchBuildsDynamicSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	departure := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	arrival := departure.Add(30 * time.Minute)

	mock.ExpectExec("UPDATE trips SET status=\\? WHERE id=\\?").
		WithArgs("cancelled", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(tripCols).
			AddRow(9, 1, 2, departure, arrival, "cancelled", 4, false))
	mock.ExpectQuery("FROM trip_stops").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"stop_name", "arrival_time", "departure_time", "fare_from_start"}))

	cancelled := models.TripStatusCancelled
	repo := TripRepository{DB: db}
	trip, err := repo.UpdateTrip(9, models.TripPatch{Status: &cancelled})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if trip.Status != models.TripStatusCancelled {
		t.Fatalf("status = %s, want cancelled", trip.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
