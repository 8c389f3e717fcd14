package models

const (
	RouteStatusActive    = "active"
	RouteStatusSuspended = "suspended"
	RouteStatusCancelled = "cancelled"
)

// RouteStop is one named stop along a route. Distance is cumulative from the
// origin in km; TimeFromStart is a numeric string holding minutes from the
// origin (kept as string for compatibility with imported route data).
type RouteStop struct {
	Name          string  `json:"name"`
	Distance      float64 `json:"distance"`
	TimeFromStart string  `json:"time_from_start"`
}

// RouteSchedule captures a recurring departure pattern on the route.
type RouteSchedule struct {
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
	Frequency     int      `json:"frequency"`
	DaysOperating []string `json:"days_operating"`
}

type Route struct {
	ID            int64           `json:"id"`
	RouteNumber   string          `json:"route_number"`
	StartLocation string          `json:"start_location"`
	EndLocation   string          `json:"end_location"`
	Distance      float64         `json:"distance"`
	Fare          float64         `json:"fare"`
	Status        string          `json:"status"`
	Stops         []RouteStop     `json:"stops"`
	Schedules     []RouteSchedule `json:"schedules,omitempty"`
}

// RouteFilter narrows route listings.
type RouteFilter struct {
	Status      string
	RouteNumber string
}
