package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusExpired   = "expired"
)

const (
	PaymentStatusNotRequired = "not_required"
	PaymentStatusPending     = "pending"
	PaymentStatusPartial     = "partial"
	PaymentStatusCompleted   = "completed"
	PaymentStatusCancelled   = "cancelled"
	PaymentStatusFailed      = "failed"
	PaymentStatusRefunded    = "refunded"
)

// BookingExpiry is how long an unpaid pending booking holds its seats.
const BookingExpiry = 30 * time.Minute

type PaymentDetails struct {
	AmountPaid      float64    `json:"amount_paid"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	TransactionID   string     `json:"transaction_id,omitempty"`
	PaymentDate     *time.Time `json:"payment_date,omitempty"`
	RemainingAmount float64    `json:"remaining_amount,omitempty"`
}

// Booking reserves a set of seats over a [FromStop, ToStop) segment of one
// trip. Seats are owned by the bus's seat map and referenced here by id.
type Booking struct {
	ID             int64           `json:"id"`
	TripID         int64           `json:"trip_id"`
	UserID         int64           `json:"user_id"`
	SeatIDs        []int64         `json:"seat_ids"`
	SeatNumbers    []string        `json:"seat_numbers"`
	FromStop       string          `json:"from_stop"`
	ToStop         string          `json:"to_stop"`
	BookingDate    time.Time       `json:"booking_date"`
	TotalFare      float64         `json:"total_fare"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
}

// BookingPatch carries mutable booking fields; nil leaves a field unchanged.
// SeatIDs replaces the whole seat selection when non-nil.
type BookingPatch struct {
	SeatIDs        []int64         `json:"seat_ids,omitempty"`
	SeatNumbers    []string        `json:"-"`
	FromStop       *string         `json:"from_stop,omitempty"`
	ToStop         *string         `json:"to_stop,omitempty"`
	TotalFare      *float64        `json:"-"`
	Status         *string         `json:"-"`
	PaymentStatus  *string         `json:"-"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
}

// TouchesNonPayment reports whether the patch changes anything besides
// payment details. Payment-required bookings only accept payment edits.
func (p BookingPatch) TouchesNonPayment() bool {
	return p.SeatIDs != nil || p.FromStop != nil || p.ToStop != nil
}

// BookingDetails joins a booking with its trip, route and bus, fetched
// explicitly rather than via lazy joins.
type BookingDetails struct {
	Booking
	Trip  *Trip  `json:"trip,omitempty"`
	Route *Route `json:"route,omitempty"`
	Bus   *Bus   `json:"bus,omitempty"`
}
