package repositories

import (
	"database/sql"
	"strings"

	"busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type BusRepository struct {
	DB *sql.DB
}

func (r BusRepository) GetBus(id int64) (models.Bus, error) {
	var b models.Bus
	err := r.DB.QueryRow(`
		SELECT id, registration_number, permit_id, capacity, manufacturer, COALESCE(model,''), year_of_manufacture, status
		FROM buses
		WHERE id=?
	`, id).Scan(&b.ID, &b.RegistrationNumber, &b.PermitID, &b.Capacity, &b.Manufacturer, &b.Model, &b.YearOfManufacture, &b.Status)
	if err == sql.ErrNoRows {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	if err != nil {
		return models.Bus{}, err
	}

	routeIDs, err := r.loadRouteIDs(id)
	if err != nil {
		return models.Bus{}, err
	}
	b.RouteIDs = routeIDs
	return b, nil
}

func (r BusRepository) InsertBus(b models.Bus) (models.Bus, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.Bus{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO buses (registration_number, permit_id, capacity, manufacturer, model, year_of_manufacture, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.RegistrationNumber, b.PermitID, b.Capacity, b.Manufacturer, db.NullIfEmpty(b.Model), b.YearOfManufacture, b.Status)
	if err != nil {
		return models.Bus{}, err
	}
	b.ID, _ = res.LastInsertId()

	for _, routeID := range b.RouteIDs {
		if _, err := tx.Exec(`INSERT INTO bus_routes (bus_id, route_id) VALUES (?, ?)`, b.ID, routeID); err != nil {
			return models.Bus{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Bus{}, err
	}
	return b, nil
}

func (r BusRepository) UpdateBus(id int64, b models.Bus) (models.Bus, error) {
	if _, err := r.GetBus(id); err != nil {
		return models.Bus{}, err
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return models.Bus{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE buses
		SET registration_number=?, permit_id=?, capacity=?, manufacturer=?, model=?, year_of_manufacture=?, status=?
		WHERE id=?
	`, b.RegistrationNumber, b.PermitID, b.Capacity, b.Manufacturer, db.NullIfEmpty(b.Model), b.YearOfManufacture, b.Status, id); err != nil {
		return models.Bus{}, err
	}

	if b.RouteIDs != nil {
		if _, err := tx.Exec(`DELETE FROM bus_routes WHERE bus_id=?`, id); err != nil {
			return models.Bus{}, err
		}
		for _, routeID := range b.RouteIDs {
			if _, err := tx.Exec(`INSERT INTO bus_routes (bus_id, route_id) VALUES (?, ?)`, id, routeID); err != nil {
				return models.Bus{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Bus{}, err
	}
	b.ID = id
	return b, nil
}

func (r BusRepository) DeleteBus(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM buses WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "bus"}
	}
	if _, err := tx.Exec(`DELETE FROM bus_routes WHERE bus_id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r BusRepository) ListBuses(f models.BusFilter) ([]models.Bus, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.Manufacturer != "" {
		where = append(where, "manufacturer=?")
		args = append(args, f.Manufacturer)
	}

	rows, err := r.DB.Query(`
		SELECT id, registration_number, permit_id, capacity, manufacturer, COALESCE(model,''), year_of_manufacture, status
		FROM buses
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY year_of_manufacture DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		var b models.Bus
		if err := rows.Scan(&b.ID, &b.RegistrationNumber, &b.PermitID, &b.Capacity, &b.Manufacturer, &b.Model, &b.YearOfManufacture, &b.Status); err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BusRepository) loadRouteIDs(busID int64) ([]int64, error) {
	rows, err := r.DB.Query(`SELECT route_id FROM bus_routes WHERE bus_id=? ORDER BY route_id`, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
