package repositories

import (
	"database/sql"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) GetRoute(id int64) (models.Route, error) {
	var rt models.Route
	err := r.DB.QueryRow(`
		SELECT id, route_number, start_location, end_location, distance, fare, status
		FROM routes
		WHERE id=?
	`, id).Scan(&rt.ID, &rt.RouteNumber, &rt.StartLocation, &rt.EndLocation, &rt.Distance, &rt.Fare, &rt.Status)
	if err == sql.ErrNoRows {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	if err != nil {
		return models.Route{}, err
	}

	stops, err := r.loadStops(rt.ID)
	if err != nil {
		return models.Route{}, err
	}
	rt.Stops = stops

	schedules, err := r.loadSchedules(rt.ID)
	if err != nil {
		return models.Route{}, err
	}
	rt.Schedules = schedules
	return rt, nil
}

func (r RouteRepository) InsertRoute(rt models.Route) (models.Route, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.Route{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO routes (route_number, start_location, end_location, distance, fare, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rt.RouteNumber, rt.StartLocation, rt.EndLocation, rt.Distance, rt.Fare, rt.Status)
	if err != nil {
		return models.Route{}, err
	}
	rt.ID, _ = res.LastInsertId()

	for i, stop := range rt.Stops {
		if _, err := tx.Exec(`
			INSERT INTO route_stops (route_id, position, name, distance, time_from_start)
			VALUES (?, ?, ?, ?, ?)
		`, rt.ID, i, stop.Name, stop.Distance, stop.TimeFromStart); err != nil {
			return models.Route{}, err
		}
	}
	for _, sch := range rt.Schedules {
		if _, err := tx.Exec(`
			INSERT INTO route_schedules (route_id, departure_time, arrival_time, frequency, days_operating)
			VALUES (?, ?, ?, ?, ?)
		`, rt.ID, sch.DepartureTime, sch.ArrivalTime, sch.Frequency, strings.Join(sch.DaysOperating, ",")); err != nil {
			return models.Route{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Route{}, err
	}
	return rt, nil
}

func (r RouteRepository) UpdateRoute(id int64, rt models.Route) (models.Route, error) {
	if _, err := r.GetRoute(id); err != nil {
		return models.Route{}, err
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return models.Route{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE routes
		SET route_number=?, start_location=?, end_location=?, distance=?, fare=?, status=?
		WHERE id=?
	`, rt.RouteNumber, rt.StartLocation, rt.EndLocation, rt.Distance, rt.Fare, rt.Status, id); err != nil {
		return models.Route{}, err
	}

	if rt.Stops != nil {
		if _, err := tx.Exec(`DELETE FROM route_stops WHERE route_id=?`, id); err != nil {
			return models.Route{}, err
		}
		for i, stop := range rt.Stops {
			if _, err := tx.Exec(`
				INSERT INTO route_stops (route_id, position, name, distance, time_from_start)
				VALUES (?, ?, ?, ?, ?)
			`, id, i, stop.Name, stop.Distance, stop.TimeFromStart); err != nil {
				return models.Route{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Route{}, err
	}
	rt.ID = id
	return rt, nil
}

func (r RouteRepository) DeleteRoute(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM routes WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	if _, err := tx.Exec(`DELETE FROM route_stops WHERE route_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM route_schedules WHERE route_id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r RouteRepository) ListRoutes(f models.RouteFilter) ([]models.Route, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.RouteNumber != "" {
		where = append(where, "route_number=?")
		args = append(args, f.RouteNumber)
	}

	rows, err := r.DB.Query(`
		SELECT id, route_number, start_location, end_location, distance, fare, status
		FROM routes
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY route_number DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.RouteNumber, &rt.StartLocation, &rt.EndLocation, &rt.Distance, &rt.Fare, &rt.Status); err != nil {
			return out, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	for i := range out {
		stops, err := r.loadStops(out[i].ID)
		if err != nil {
			return out, err
		}
		out[i].Stops = stops
	}
	return out, nil
}

// RoutesExist reports whether every id has a matching route row.
func (r RouteRepository) RoutesExist(ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	var count int
	if err := r.DB.QueryRow(`SELECT COUNT(DISTINCT id) FROM routes WHERE id IN (`+placeholders+`)`, args...).Scan(&count); err != nil {
		return false, err
	}
	return count == len(ids), nil
}

func (r RouteRepository) loadStops(routeID int64) ([]models.RouteStop, error) {
	rows, err := r.DB.Query(`
		SELECT name, distance, time_from_start
		FROM route_stops
		WHERE route_id=?
		ORDER BY position ASC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RouteStop{}
	for rows.Next() {
		var s models.RouteStop
		if err := rows.Scan(&s.Name, &s.Distance, &s.TimeFromStart); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r RouteRepository) loadSchedules(routeID int64) ([]models.RouteSchedule, error) {
	rows, err := r.DB.Query(`
		SELECT departure_time, arrival_time, frequency, days_operating
		FROM route_schedules
		WHERE route_id=?
		ORDER BY id ASC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RouteSchedule{}
	for rows.Next() {
		var s models.RouteSchedule
		var days string
		if err := rows.Scan(&s.DepartureTime, &s.ArrivalTime, &s.Frequency, &days); err != nil {
			return out, err
		}
		if days != "" {
			s.DaysOperating = strings.Split(days, ",")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
