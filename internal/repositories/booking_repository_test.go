package repositories

import (
	"testing"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var bookingCols = []string{
	"id", "trip_id", "user_id", "from_stop", "to_stop", "booking_date", "total_fare", "status", "payment_status",
	"amount_paid", "payment_method", "transaction_id", "payment_date", "remaining_amount", "expiry_date",
}

func TestBookingRepositoryInsertWritesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO booking_seats").
		WithArgs(int64(7), int64(11), "1A").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").
		WithArgs(int64(7), int64(12), "1B").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := BookingRepository{DB: db}
	b, err := repo.InsertBooking(models.Booking{
		TripID:      3,
		UserID:      5,
		SeatIDs:     []int64{11, 12},
		SeatNumbers: []string{"1A", "1B"},
		FromStop:    "Colombo",
		ToStop:      "Kandy",
		BookingDate: time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC),
		TotalFare:   1160,
		Status:      models.BookingStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if b.ID != 7 {
		t.Fatalf("id = %d, want 7", b.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	repo := BookingRepository{DB: db}
	_, err = repo.GetBooking(42)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingRepositoryGetAttachesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	booked := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(7, 3, 5, "Colombo", "Kandy", booked, 1160.0, "confirmed", "not_required",
				0.0, "", "", nil, 0.0, nil))
	mock.ExpectQuery("FROM booking_seats").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "seat_id", "seat_number"}).
			AddRow(7, 11, "1A").
			AddRow(7, 12, "1B"))

	repo := BookingRepository{DB: db}
	b, err := repo.GetBooking(7)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(b.SeatIDs) != 2 || b.SeatIDs[0] != 11 || b.SeatNumbers[1] != "1B" {
		t.Fatalf("seats = %v %v", b.SeatIDs, b.SeatNumbers)
	}
	if b.PaymentDetails != nil {
		t.Fatalf("empty payment columns should leave PaymentDetails nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryUpdateReplacesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET total_fare=\\? WHERE id=\\?").
		WithArgs(100.0, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM booking_seats").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO booking_seats").
		WithArgs(int64(7), int64(13), "2A").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	booked := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(7, 3, 5, "Colombo", "Kandy", booked, 100.0, "confirmed", "not_required",
				0.0, "", "", nil, 0.0, nil))
	mock.ExpectQuery("FROM booking_seats").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "seat_id", "seat_number"}).
			AddRow(7, 13, "2A"))

	fare := 100.0
	repo := BookingRepository{DB: db}
	b, err := repo.UpdateBooking(7, models.BookingPatch{
		SeatIDs:     []int64{13},
		SeatNumbers: []string{"2A"},
		TotalFare:   &fare,
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if len(b.SeatIDs) != 1 || b.SeatIDs[0] != 13 {
		t.Fatalf("seats = %v", b.SeatIDs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryCancelConfirmedByTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=\\?, payment_status=\\?").
		WithArgs(models.BookingStatusCancelled, models.PaymentStatusRefunded, int64(3), models.BookingStatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := BookingRepository{DB: db}
	if err := repo.CancelConfirmedByTrip(3); err != nil {
		t.Fatalf("cancel error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
