package repositories

import (
	"database/sql"
	"strings"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

const tripColumns = `id, route_id, bus_id, departure_date, arrival_date, status, available_seats, payment_required`

func (r TripRepository) GetTrip(id int64) (models.Trip, error) {
	var t models.Trip
	err := r.DB.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id=?`, id).Scan(
		&t.ID, &t.RouteID, &t.BusID, &t.DepartureDate, &t.ArrivalDate, &t.Status, &t.AvailableSeats, &t.PaymentRequired,
	)
	if err == sql.ErrNoRows {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, err
	}

	stops, err := r.loadStops(t.ID)
	if err != nil {
		return models.Trip{}, err
	}
	t.IntermediateStops = stops
	return t, nil
}

func (r TripRepository) InsertTrip(t models.Trip) (models.Trip, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.Trip{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO trips (route_id, bus_id, departure_date, arrival_date, status, available_seats, payment_required)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.RouteID, t.BusID, t.DepartureDate, t.ArrivalDate, t.Status, t.AvailableSeats, t.PaymentRequired)
	if err != nil {
		return models.Trip{}, err
	}
	t.ID, _ = res.LastInsertId()

	for i, stop := range t.IntermediateStops {
		if _, err := tx.Exec(`
			INSERT INTO trip_stops (trip_id, position, stop_name, arrival_time, departure_time, fare_from_start)
			VALUES (?, ?, ?, ?, ?, ?)
		`, t.ID, i, stop.StopName, stop.ArrivalTime, stop.DepartureTime, stop.FareFromStart); err != nil {
			return models.Trip{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Trip{}, err
	}
	return t, nil
}

func (r TripRepository) UpdateTrip(id int64, patch models.TripPatch) (models.Trip, error) {
	sets := []string{}
	args := []any{}
	if patch.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *patch.Status)
	}
	if patch.DepartureDate != nil {
		sets = append(sets, "departure_date=?")
		args = append(args, *patch.DepartureDate)
	}
	if patch.ArrivalDate != nil {
		sets = append(sets, "arrival_date=?")
		args = append(args, *patch.ArrivalDate)
	}
	if patch.PaymentRequired != nil {
		sets = append(sets, "payment_required=?")
		args = append(args, *patch.PaymentRequired)
	}

	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.Exec(`UPDATE trips SET `+strings.Join(sets, ",")+` WHERE id=?`, args...); err != nil {
			return models.Trip{}, err
		}
	}
	return r.GetTrip(id)
}

func (r TripRepository) DeleteTrip(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM trips WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	if _, err := tx.Exec(`DELETE FROM trip_stops WHERE trip_id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r TripRepository) ListTrips(f models.TripFilter) ([]models.Trip, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.RouteID > 0 {
		where = append(where, "route_id=?")
		args = append(args, f.RouteID)
	}
	if f.BusID > 0 {
		where = append(where, "bus_id=?")
		args = append(args, f.BusID)
	}
	if !f.DateFrom.IsZero() {
		where = append(where, "departure_date>=?")
		args = append(args, f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		where = append(where, "departure_date<=?")
		args = append(args, f.DateTo)
	}

	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY departure_date DESC
	`, args...)
}

// ListScheduledBetween returns scheduled trips departing inside [start, end).
func (r TripRepository) ListScheduledBetween(start, end time.Time) ([]models.Trip, error) {
	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE status=? AND departure_date>=? AND departure_date<?
		ORDER BY departure_date ASC
	`, models.TripStatusScheduled, start, end)
}

func (r TripRepository) ListActiveTripsByBus(busID int64) ([]models.Trip, error) {
	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE bus_id=? AND status IN (?, ?)
		ORDER BY departure_date ASC
	`, busID, models.TripStatusScheduled, models.TripStatusInProgress)
}

// ListTripsByBusBetween returns the bus's trips whose [departure, arrival]
// window intersects [start, end].
func (r TripRepository) ListTripsByBusBetween(busID int64, start, end time.Time) ([]models.Trip, error) {
	return r.queryTrips(`
		SELECT `+tripColumns+` FROM trips
		WHERE bus_id=? AND departure_date<=? AND arrival_date>=?
		ORDER BY departure_date ASC
	`, busID, end, start)
}

// HasOverlappingTrip checks both directions: the new departure inside an
// existing window, or an existing departure inside the new window. Cancelled
// trips no longer occupy the bus and are ignored.
func (r TripRepository) HasOverlappingTrip(busID int64, departure, arrival time.Time) (bool, error) {
	var count int
	err := r.DB.QueryRow(`
		SELECT COUNT(*) FROM trips
		WHERE bus_id=? AND status!='cancelled'
		  AND ((departure_date<=? AND arrival_date>=?) OR (departure_date>=? AND departure_date<=?))
	`, busID, departure, departure, departure, arrival).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AdjustAvailableSeats applies a relative delta atomically in one statement.
func (r TripRepository) AdjustAvailableSeats(tripID int64, delta int) error {
	_, err := r.DB.Exec(`UPDATE trips SET available_seats = available_seats + ? WHERE id=?`, delta, tripID)
	return err
}

func (r TripRepository) SetAvailableSeats(tripID int64, n int) error {
	_, err := r.DB.Exec(`UPDATE trips SET available_seats=? WHERE id=?`, n, tripID)
	return err
}

func (r TripRepository) queryTrips(query string, args ...any) ([]models.Trip, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.BusID, &t.DepartureDate, &t.ArrivalDate, &t.Status, &t.AvailableSeats, &t.PaymentRequired); err != nil {
			return out, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	for i := range out {
		stops, err := r.loadStops(out[i].ID)
		if err != nil {
			return out, err
		}
		out[i].IntermediateStops = stops
	}
	return out, nil
}

func (r TripRepository) loadStops(tripID int64) ([]models.TripStop, error) {
	rows, err := r.DB.Query(`
		SELECT stop_name, arrival_time, departure_time, fare_from_start
		FROM trip_stops
		WHERE trip_id=?
		ORDER BY position ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TripStop{}
	for rows.Next() {
		var s models.TripStop
		if err := rows.Scan(&s.StopName, &s.ArrivalTime, &s.DepartureTime, &s.FareFromStart); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
