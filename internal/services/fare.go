package services

import (
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// fareBetween derives the per-seat fare of a [fromStop, toStop) segment from
// the trip's precomputed cumulative fares. Stops are matched by exact name;
// with duplicate stop names the first match wins.
func fareBetween(trip models.Trip, fromStop, toStop string) (float64, error) {
	fromFare, fromOK := fareFromStart(trip, fromStop)
	toFare, toOK := fareFromStart(trip, toStop)
	if !fromOK || !toOK {
		return 0, domain.ValidationError{Field: "stops", Msg: "invalid stops for this trip"}
	}
	return toFare - fromFare, nil
}

func fareFromStart(trip models.Trip, stopName string) (float64, bool) {
	for _, stop := range trip.IntermediateStops {
		if stop.StopName == stopName {
			return stop.FareFromStart, true
		}
	}
	return 0, false
}

func hasStop(trip models.Trip, stopName string) bool {
	_, ok := fareFromStart(trip, stopName)
	return ok
}
