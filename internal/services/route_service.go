package services

import (
	"fmt"
	"strconv"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// RouteService manages routes and their stop sequences.
type RouteService struct {
	Routes RouteStore
	Buses  BusStore
	Trips  TripStore
}

func NewRouteService(routes RouteStore, buses BusStore, trips TripStore) *RouteService {
	return &RouteService{Routes: routes, Buses: buses, Trips: trips}
}

// CreateRoute stores a route. The caller supplies intermediate stops only;
// origin and terminus stops are synthesized from the route's locations, with
// the terminus minute offset taken from the first schedule's clock times.
func (s *RouteService) CreateRoute(rt models.Route) (models.Route, error) {
	if rt.RouteNumber == "" || rt.StartLocation == "" || rt.EndLocation == "" {
		return models.Route{}, domain.ValidationError{Field: "route", Msg: "route number, start and end locations are required"}
	}
	if rt.Distance <= 0 {
		return models.Route{}, domain.ValidationError{Field: "distance", Msg: "distance must be positive"}
	}
	if rt.Fare <= 0 || len(rt.Schedules) == 0 {
		return models.Route{}, domain.ValidationError{Field: "route", Msg: "fare and at least one schedule are required"}
	}

	duration, err := scheduleDuration(rt.Schedules[0])
	if err != nil {
		return models.Route{}, err
	}

	if err := validateStops(rt.Stops, rt.Distance, duration); err != nil {
		return models.Route{}, err
	}

	stops := make([]models.RouteStop, 0, len(rt.Stops)+2)
	stops = append(stops, models.RouteStop{Name: rt.StartLocation, Distance: 0, TimeFromStart: "0"})
	stops = append(stops, rt.Stops...)
	stops = append(stops, models.RouteStop{
		Name:          rt.EndLocation,
		Distance:      rt.Distance,
		TimeFromStart: strconv.Itoa(duration),
	})
	rt.Stops = stops

	if rt.Status == "" {
		rt.Status = models.RouteStatusActive
	}
	return s.Routes.InsertRoute(rt)
}

// scheduleDuration returns the minutes between a schedule's departure and
// arrival clock times, wrapping overnight runs past midnight.
func scheduleDuration(sched models.RouteSchedule) (int, error) {
	dep, err := time.Parse("15:04", sched.DepartureTime)
	if err != nil {
		return 0, domain.ValidationError{Field: "schedules", Msg: "invalid departure time"}
	}
	arr, err := time.Parse("15:04", sched.ArrivalTime)
	if err != nil {
		return 0, domain.ValidationError{Field: "schedules", Msg: "invalid arrival time"}
	}
	minutes := int(arr.Sub(dep).Minutes())
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutes, nil
}

// validateStops checks the intermediate stop sequence: cumulative distances
// strictly increasing inside (0, total) and minute offsets numeric and
// increasing within the journey duration.
func validateStops(stops []models.RouteStop, totalDistance float64, duration int) error {
	prevDistance := 0.0
	prevMinutes := 0.0
	for _, stop := range stops {
		if stop.Name == "" {
			return domain.ValidationError{Field: "stops", Msg: "stop name is required"}
		}
		if stop.Distance <= prevDistance || stop.Distance >= totalDistance {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %s breaks the distance ordering", stop.Name)}
		}
		minutes, err := strconv.ParseFloat(stop.TimeFromStart, 64)
		if err != nil {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("invalid time offset %q for stop %s", stop.TimeFromStart, stop.Name)}
		}
		if minutes <= prevMinutes || minutes >= float64(duration) {
			return domain.ValidationError{Field: "stops", Msg: fmt.Sprintf("stop %s breaks the time ordering", stop.Name)}
		}
		prevDistance = stop.Distance
		prevMinutes = minutes
	}
	return nil
}

func (s *RouteService) GetRoute(routeID int64) (models.Route, error) {
	return s.Routes.GetRoute(routeID)
}

func (s *RouteService) ListRoutes(f models.RouteFilter) ([]models.Route, error) {
	return s.Routes.ListRoutes(f)
}

// UpdateRoute replaces the route's scalar fields and schedules. Stops are
// immutable after creation; trips denormalize them and never re-derive.
func (s *RouteService) UpdateRoute(routeID int64, rt models.Route) (models.Route, error) {
	existing, err := s.Routes.GetRoute(routeID)
	if err != nil {
		return models.Route{}, err
	}
	rt.Stops = existing.Stops
	return s.Routes.UpdateRoute(routeID, rt)
}

// DeleteRoute removes a route. Blocked while scheduled trips reference it.
func (s *RouteService) DeleteRoute(routeID int64) error {
	if _, err := s.Routes.GetRoute(routeID); err != nil {
		return err
	}
	trips, err := s.Trips.ListTrips(models.TripFilter{RouteID: routeID, Status: models.TripStatusScheduled})
	if err != nil {
		return err
	}
	if len(trips) > 0 {
		return domain.ConflictError{Resource: "route", Msg: "cannot delete route with scheduled trips"}
	}
	return s.Routes.DeleteRoute(routeID)
}
