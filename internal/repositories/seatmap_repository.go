package repositories

import (
	"database/sql"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type SeatMapRepository struct {
	DB *sql.DB
}

func (r SeatMapRepository) GetSeatMap(id int64) (models.SeatMap, error) {
	return r.getSeatMap(`SELECT id, bus_id, total_seats FROM seat_maps WHERE id=?`, id)
}

func (r SeatMapRepository) GetSeatMapByBus(busID int64) (models.SeatMap, error) {
	return r.getSeatMap(`SELECT id, bus_id, total_seats FROM seat_maps WHERE bus_id=?`, busID)
}

func (r SeatMapRepository) getSeatMap(query string, arg int64) (models.SeatMap, error) {
	var m models.SeatMap
	err := r.DB.QueryRow(query, arg).Scan(&m.ID, &m.BusID, &m.TotalSeats)
	if err == sql.ErrNoRows {
		return models.SeatMap{}, domain.NotFoundError{Resource: "seat map"}
	}
	if err != nil {
		return models.SeatMap{}, err
	}

	layout, err := r.loadLayout(m.ID)
	if err != nil {
		return models.SeatMap{}, err
	}
	m.Layout = layout
	return m, nil
}

func (r SeatMapRepository) InsertSeatMap(m models.SeatMap) (models.SeatMap, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.SeatMap{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO seat_maps (bus_id, total_seats) VALUES (?, ?)`, m.BusID, m.TotalSeats)
	if err != nil {
		return models.SeatMap{}, err
	}
	m.ID, _ = res.LastInsertId()

	for i := range m.Layout {
		seat := &m.Layout[i]
		seatRes, err := tx.Exec(`
			INSERT INTO seat_map_seats (seat_map_id, position, seat_number, row_no, col_no, seat_type, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, m.ID, i, seat.SeatNumber, seat.Row, seat.Column, seat.Type, seat.IsActive)
		if err != nil {
			return models.SeatMap{}, err
		}
		seat.ID, _ = seatRes.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return models.SeatMap{}, err
	}
	return m, nil
}

// UpdateSeatMap replaces the layout while preserving seat ids for seats whose
// seat number survives the edit; bookings reference seats by id.
func (r SeatMapRepository) UpdateSeatMap(id int64, layout []models.Seat, totalSeats int) (models.SeatMap, error) {
	existing, err := r.GetSeatMap(id)
	if err != nil {
		return models.SeatMap{}, err
	}

	existingByNumber := map[string]int64{}
	for _, seat := range existing.Layout {
		existingByNumber[seat.SeatNumber] = seat.ID
	}
	keep := map[string]bool{}
	for _, seat := range layout {
		keep[seat.SeatNumber] = true
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return models.SeatMap{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE seat_maps SET total_seats=? WHERE id=?`, totalSeats, id); err != nil {
		return models.SeatMap{}, err
	}

	for _, seat := range existing.Layout {
		if !keep[seat.SeatNumber] {
			if _, err := tx.Exec(`DELETE FROM seat_map_seats WHERE id=?`, seat.ID); err != nil {
				return models.SeatMap{}, err
			}
		}
	}

	out := make([]models.Seat, len(layout))
	copy(out, layout)
	for i := range out {
		seat := &out[i]
		if seatID, ok := existingByNumber[seat.SeatNumber]; ok {
			seat.ID = seatID
			if _, err := tx.Exec(`
				UPDATE seat_map_seats
				SET position=?, row_no=?, col_no=?, seat_type=?, is_active=?
				WHERE id=?
			`, i, seat.Row, seat.Column, seat.Type, seat.IsActive, seatID); err != nil {
				return models.SeatMap{}, err
			}
			continue
		}
		seatRes, err := tx.Exec(`
			INSERT INTO seat_map_seats (seat_map_id, position, seat_number, row_no, col_no, seat_type, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, seat.SeatNumber, seat.Row, seat.Column, seat.Type, seat.IsActive)
		if err != nil {
			return models.SeatMap{}, err
		}
		seat.ID, _ = seatRes.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return models.SeatMap{}, err
	}

	return models.SeatMap{ID: id, BusID: existing.BusID, TotalSeats: totalSeats, Layout: out}, nil
}

func (r SeatMapRepository) DeleteSeatMap(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM seat_maps WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "seat map"}
	}
	if _, err := tx.Exec(`DELETE FROM seat_map_seats WHERE seat_map_id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r SeatMapRepository) ListSeatMaps(busID int64) ([]models.SeatMap, error) {
	where := ""
	args := []any{}
	if busID > 0 {
		where = " WHERE bus_id=?"
		args = append(args, busID)
	}

	rows, err := r.DB.Query(`SELECT id, bus_id, total_seats FROM seat_maps`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeatMap{}
	for rows.Next() {
		var m models.SeatMap
		if err := rows.Scan(&m.ID, &m.BusID, &m.TotalSeats); err != nil {
			return out, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	for i := range out {
		layout, err := r.loadLayout(out[i].ID)
		if err != nil {
			return out, err
		}
		out[i].Layout = layout
	}
	return out, nil
}

func (r SeatMapRepository) loadLayout(seatMapID int64) ([]models.Seat, error) {
	rows, err := r.DB.Query(`
		SELECT id, seat_number, row_no, col_no, seat_type, is_active
		FROM seat_map_seats
		WHERE seat_map_id=?
		ORDER BY position ASC
	`, seatMapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Seat{}
	for rows.Next() {
		var s models.Seat
		if err := rows.Scan(&s.ID, &s.SeatNumber, &s.Row, &s.Column, &s.Type, &s.IsActive); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
