package repositories

import (
	"database/sql"
	"strings"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, trip_id, user_id, from_stop, to_stop, booking_date, total_fare, status, payment_status,
	amount_paid, COALESCE(payment_method,''), COALESCE(transaction_id,''), payment_date, remaining_amount, expiry_date`

func (r BookingRepository) GetBooking(id int64) (models.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, err
	}
	if err := r.attachSeats([]*models.Booking{&b}); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r BookingRepository) InsertBooking(b models.Booking) (models.Booking, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	pd := b.PaymentDetails
	if pd == nil {
		pd = &models.PaymentDetails{}
	}

	res, err := tx.Exec(`
		INSERT INTO bookings (trip_id, user_id, from_stop, to_stop, booking_date, total_fare, status, payment_status,
			amount_paid, payment_method, transaction_id, payment_date, remaining_amount, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.TripID, b.UserID, b.FromStop, b.ToStop, b.BookingDate, b.TotalFare, b.Status, b.PaymentStatus,
		pd.AmountPaid, pd.PaymentMethod, pd.TransactionID, intdb.NullTime(pd.PaymentDate), pd.RemainingAmount, intdb.NullTime(b.ExpiryDate))
	if err != nil {
		return models.Booking{}, err
	}
	b.ID, _ = res.LastInsertId()

	for i, seatID := range b.SeatIDs {
		seatNumber := ""
		if i < len(b.SeatNumbers) {
			seatNumber = b.SeatNumbers[i]
		}
		if _, err := tx.Exec(`
			INSERT INTO booking_seats (booking_id, seat_id, seat_number) VALUES (?, ?, ?)
		`, b.ID, seatID, seatNumber); err != nil {
			return models.Booking{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r BookingRepository) UpdateBooking(id int64, patch models.BookingPatch) (models.Booking, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	sets := []string{}
	args := []any{}
	if patch.FromStop != nil {
		sets = append(sets, "from_stop=?")
		args = append(args, *patch.FromStop)
	}
	if patch.ToStop != nil {
		sets = append(sets, "to_stop=?")
		args = append(args, *patch.ToStop)
	}
	if patch.TotalFare != nil {
		sets = append(sets, "total_fare=?")
		args = append(args, *patch.TotalFare)
	}
	if patch.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *patch.Status)
	}
	if patch.PaymentStatus != nil {
		sets = append(sets, "payment_status=?")
		args = append(args, *patch.PaymentStatus)
	}
	if patch.PaymentDetails != nil {
		pd := patch.PaymentDetails
		sets = append(sets, "amount_paid=?", "payment_method=?", "transaction_id=?", "payment_date=?", "remaining_amount=?")
		args = append(args, pd.AmountPaid, pd.PaymentMethod, pd.TransactionID, intdb.NullTime(pd.PaymentDate), pd.RemainingAmount)
	}

	if len(sets) > 0 {
		args = append(args, id)
		if _, err := tx.Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...); err != nil {
			return models.Booking{}, err
		}
	}

	if patch.SeatIDs != nil {
		if _, err := tx.Exec(`DELETE FROM booking_seats WHERE booking_id=?`, id); err != nil {
			return models.Booking{}, err
		}
		for i, seatID := range patch.SeatIDs {
			seatNumber := ""
			if i < len(patch.SeatNumbers) {
				seatNumber = patch.SeatNumbers[i]
			}
			if _, err := tx.Exec(`
				INSERT INTO booking_seats (booking_id, seat_id, seat_number) VALUES (?, ?, ?)
			`, id, seatID, seatNumber); err != nil {
				return models.Booking{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return r.GetBooking(id)
}

func (r BookingRepository) ListBookingsByTrip(tripID int64, statuses ...string) ([]models.Booking, error) {
	where := "trip_id=?"
	args := []any{tripID}
	if len(statuses) > 0 {
		where += " AND status IN (" + strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",") + ")"
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	return r.queryBookings(`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY booking_date DESC`, args...)
}

func (r BookingRepository) ListBookingsByTrips(tripIDs []int64, statuses ...string) ([]models.Booking, error) {
	if len(tripIDs) == 0 {
		return []models.Booking{}, nil
	}
	where := "trip_id IN (" + strings.TrimSuffix(strings.Repeat("?,", len(tripIDs)), ",") + ")"
	args := []any{}
	for _, id := range tripIDs {
		args = append(args, id)
	}
	if len(statuses) > 0 {
		where += " AND status IN (" + strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",") + ")"
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	return r.queryBookings(`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY booking_date DESC`, args...)
}

func (r BookingRepository) ListBookingsByUser(userID int64, status string) ([]models.Booking, error) {
	where := "user_id=?"
	args := []any{userID}
	if status != "" {
		where += " AND status=?"
		args = append(args, status)
	}
	return r.queryBookings(`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY booking_date DESC`, args...)
}

func (r BookingRepository) ListAllBookings() ([]models.Booking, error) {
	return r.queryBookings(`SELECT ` + bookingColumns + ` FROM bookings ORDER BY booking_date DESC`)
}

func (r BookingRepository) CountByTrip(tripID int64, status string) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE trip_id=? AND status=?`, tripID, status).Scan(&count)
	return count, err
}

// CancelConfirmedByTrip bulk-transitions confirmed bookings of a cancelled
// trip to cancelled/refunded.
func (r BookingRepository) CancelConfirmedByTrip(tripID int64) error {
	_, err := r.DB.Exec(`
		UPDATE bookings SET status=?, payment_status=?
		WHERE trip_id=? AND status=?
	`, models.BookingStatusCancelled, models.PaymentStatusRefunded, tripID, models.BookingStatusConfirmed)
	return err
}

func (r BookingRepository) queryBookings(query string, args ...any) ([]models.Booking, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	refs := make([]*models.Booking, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.attachSeats(refs); err != nil {
		return out, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b           models.Booking
		pd          models.PaymentDetails
		paymentDate sql.NullTime
		expiryDate  sql.NullTime
	)
	err := row.Scan(
		&b.ID, &b.TripID, &b.UserID, &b.FromStop, &b.ToStop, &b.BookingDate, &b.TotalFare, &b.Status, &b.PaymentStatus,
		&pd.AmountPaid, &pd.PaymentMethod, &pd.TransactionID, &paymentDate, &pd.RemainingAmount, &expiryDate,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if paymentDate.Valid {
		t := paymentDate.Time
		pd.PaymentDate = &t
	}
	if pd.AmountPaid != 0 || pd.PaymentMethod != "" || pd.TransactionID != "" || pd.PaymentDate != nil || pd.RemainingAmount != 0 {
		b.PaymentDetails = &pd
	}
	if expiryDate.Valid {
		t := expiryDate.Time
		b.ExpiryDate = &t
	}
	return b, nil
}

func (r BookingRepository) attachSeats(bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]any, 0, len(bookings))
	byID := map[int64]*models.Booking{}
	for _, b := range bookings {
		ids = append(ids, b.ID)
		byID[b.ID] = b
		b.SeatIDs = []int64{}
		b.SeatNumbers = []string{}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := r.DB.Query(`
		SELECT booking_id, seat_id, seat_number
		FROM booking_seats
		WHERE booking_id IN (`+placeholders+`)
		ORDER BY booking_id, id
	`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID, seatID int64
		var seatNumber string
		if err := rows.Scan(&bookingID, &seatID, &seatNumber); err != nil {
			return err
		}
		if b, ok := byID[bookingID]; ok {
			b.SeatIDs = append(b.SeatIDs, seatID)
			b.SeatNumbers = append(b.SeatNumbers, seatNumber)
		}
	}
	return rows.Err()
}
