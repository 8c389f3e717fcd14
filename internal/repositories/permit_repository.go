package repositories

import (
	"database/sql"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type PermitRepository struct {
	DB *sql.DB
}

func (r PermitRepository) GetPermit(id int64) (models.Permit, error) {
	var p models.Permit
	err := r.DB.QueryRow(`
		SELECT id, permit_number, holder_name, vehicle_type, status, issued_date, expiry_date
		FROM permits
		WHERE id=?
	`, id).Scan(&p.ID, &p.PermitNumber, &p.HolderName, &p.VehicleType, &p.Status, &p.IssuedDate, &p.ExpiryDate)
	if err == sql.ErrNoRows {
		return models.Permit{}, domain.NotFoundError{Resource: "permit"}
	}
	if err != nil {
		return models.Permit{}, err
	}
	return p, nil
}

func (r PermitRepository) InsertPermit(p models.Permit) (models.Permit, error) {
	res, err := r.DB.Exec(`
		INSERT INTO permits (permit_number, holder_name, vehicle_type, status, issued_date, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.PermitNumber, p.HolderName, p.VehicleType, p.Status, p.IssuedDate, p.ExpiryDate)
	if err != nil {
		return models.Permit{}, err
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (r PermitRepository) UpdatePermit(id int64, p models.Permit) (models.Permit, error) {
	res, err := r.DB.Exec(`
		UPDATE permits
		SET permit_number=?, holder_name=?, vehicle_type=?, status=?, issued_date=?, expiry_date=?
		WHERE id=?
	`, p.PermitNumber, p.HolderName, p.VehicleType, p.Status, p.IssuedDate, p.ExpiryDate, id)
	if err != nil {
		return models.Permit{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no change" from "no row".
		if _, err := r.GetPermit(id); err != nil {
			return models.Permit{}, err
		}
	}
	p.ID = id
	return p, nil
}

func (r PermitRepository) DeletePermit(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM permits WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "permit"}
	}
	return nil
}

func (r PermitRepository) ListPermits(f models.PermitFilter) ([]models.Permit, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.VehicleType != "" {
		where = append(where, "vehicle_type=?")
		args = append(args, f.VehicleType)
	}

	rows, err := r.DB.Query(`
		SELECT id, permit_number, holder_name, vehicle_type, status, issued_date, expiry_date
		FROM permits
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY issued_date DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Permit{}
	for rows.Next() {
		var p models.Permit
		if err := rows.Scan(&p.ID, &p.PermitNumber, &p.HolderName, &p.VehicleType, &p.Status, &p.IssuedDate, &p.ExpiryDate); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
