package models

import "time"

const (
	TripStatusScheduled  = "scheduled"
	TripStatusInProgress = "in-progress"
	TripStatusCompleted  = "completed"
	TripStatusCancelled  = "cancelled"
)

// TripStop is a denormalized stop on a trip, derived once from the route at
// creation time and never re-derived. FareFromStart is the cumulative fare
// attributed to the stop.
type TripStop struct {
	StopName      string    `json:"stop_name"`
	ArrivalTime   time.Time `json:"arrival_time"`
	DepartureTime time.Time `json:"departure_time"`
	FareFromStart float64   `json:"fare_from_start"`
}

// Trip instantiates a route on a bus at a concrete departure window.
// AvailableSeats is a best-effort counter; the booking scan is ground truth.
type Trip struct {
	ID                int64      `json:"id"`
	RouteID           int64      `json:"route_id"`
	BusID             int64      `json:"bus_id"`
	DepartureDate     time.Time  `json:"departure_date"`
	ArrivalDate       time.Time  `json:"arrival_date"`
	Status            string     `json:"status"`
	AvailableSeats    int        `json:"available_seats"`
	PaymentRequired   bool       `json:"payment_required"`
	IntermediateStops []TripStop `json:"intermediate_stops"`
}

// TripPatch carries the mutable trip fields; nil means leave unchanged.
type TripPatch struct {
	Status          *string    `json:"status,omitempty"`
	DepartureDate   *time.Time `json:"departure_date,omitempty"`
	ArrivalDate     *time.Time `json:"arrival_date,omitempty"`
	PaymentRequired *bool      `json:"payment_required,omitempty"`
}

type TripFilter struct {
	Status    string
	RouteID   int64
	BusID     int64
	DateFrom  time.Time
	DateTo    time.Time
}

// TripDetails joins a trip with its route and bus plus the confirmed
// bookings count, fetched explicitly rather than via lazy joins.
type TripDetails struct {
	Trip
	Route         *Route `json:"route,omitempty"`
	Bus           *Bus   `json:"bus,omitempty"`
	BookingsCount int    `json:"bookings_count"`
}

// TripWithFare is a search result annotated with the fare of the queried segment.
type TripWithFare struct {
	Trip
	CalculatedFare float64 `json:"calculated_fare"`
}

// TripAvailability summarizes seat headroom for a segment at a requested count.
type TripAvailability struct {
	Available      bool `json:"available"`
	TotalSeats     int  `json:"total_seats"`
	BookedSeats    int  `json:"booked_seats"`
	AvailableSeats int  `json:"available_seats"`
}
