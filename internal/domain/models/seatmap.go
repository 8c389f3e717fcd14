package models

const (
	SeatTypeRegular  = "regular"
	SeatTypeLuxury   = "luxury"
	SeatTypeDisabled = "disabled"
)

// Seat is one position in a bus layout. SeatNumber is unique within a map.
type Seat struct {
	ID         int64  `json:"id"`
	SeatNumber string `json:"seat_number"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	Type       string `json:"type"`
	IsActive   bool   `json:"is_active"`
}

// SeatMap is the fixed seat catalog of a bus; exactly one per bus.
// TotalSeats caches the active-seat count of Layout.
type SeatMap struct {
	ID         int64  `json:"id"`
	BusID      int64  `json:"bus_id"`
	TotalSeats int    `json:"total_seats"`
	Layout     []Seat `json:"layout"`
}

// SeatAvailability pairs a seat with its availability over a queried segment.
type SeatAvailability struct {
	Seat
	IsAvailable bool `json:"is_available"`
}

// SeatTripAvailability is one trip's availability entry in the per-seat matrix.
type SeatTripAvailability struct {
	TripID        int64  `json:"trip_id"`
	DepartureDate string `json:"departure_date"`
	Available     bool   `json:"available"`
}

// SeatMatrixEntry is the availability of one seat across all trips of a day.
type SeatMatrixEntry struct {
	Seat         Seat                   `json:"seat"`
	Availability []SeatTripAvailability `json:"availability"`
}
