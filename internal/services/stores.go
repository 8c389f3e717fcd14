package services

import (
	"time"

	"busbooking/internal/domain/models"
)

// Store interfaces abstract the SQL repositories so services can be exercised
// against in-memory fakes. The repositories package provides the production
// implementations.

type RouteStore interface {
	GetRoute(id int64) (models.Route, error)
	InsertRoute(rt models.Route) (models.Route, error)
	UpdateRoute(id int64, rt models.Route) (models.Route, error)
	DeleteRoute(id int64) error
	ListRoutes(f models.RouteFilter) ([]models.Route, error)
	RoutesExist(ids []int64) (bool, error)
}

type PermitStore interface {
	GetPermit(id int64) (models.Permit, error)
	InsertPermit(p models.Permit) (models.Permit, error)
	UpdatePermit(id int64, p models.Permit) (models.Permit, error)
	DeletePermit(id int64) error
	ListPermits(f models.PermitFilter) ([]models.Permit, error)
}

type BusStore interface {
	GetBus(id int64) (models.Bus, error)
	InsertBus(b models.Bus) (models.Bus, error)
	UpdateBus(id int64, b models.Bus) (models.Bus, error)
	DeleteBus(id int64) error
	ListBuses(f models.BusFilter) ([]models.Bus, error)
}

type SeatMapStore interface {
	GetSeatMap(id int64) (models.SeatMap, error)
	GetSeatMapByBus(busID int64) (models.SeatMap, error)
	InsertSeatMap(m models.SeatMap) (models.SeatMap, error)
	UpdateSeatMap(id int64, layout []models.Seat, totalSeats int) (models.SeatMap, error)
	DeleteSeatMap(id int64) error
	ListSeatMaps(busID int64) ([]models.SeatMap, error)
}

type TripStore interface {
	GetTrip(id int64) (models.Trip, error)
	InsertTrip(t models.Trip) (models.Trip, error)
	UpdateTrip(id int64, patch models.TripPatch) (models.Trip, error)
	DeleteTrip(id int64) error
	ListTrips(f models.TripFilter) ([]models.Trip, error)
	ListScheduledBetween(start, end time.Time) ([]models.Trip, error)
	ListActiveTripsByBus(busID int64) ([]models.Trip, error)
	ListTripsByBusBetween(busID int64, start, end time.Time) ([]models.Trip, error)
	HasOverlappingTrip(busID int64, departure, arrival time.Time) (bool, error)
	AdjustAvailableSeats(tripID int64, delta int) error
	SetAvailableSeats(tripID int64, n int) error
}

type BookingStore interface {
	GetBooking(id int64) (models.Booking, error)
	InsertBooking(b models.Booking) (models.Booking, error)
	UpdateBooking(id int64, patch models.BookingPatch) (models.Booking, error)
	ListBookingsByTrip(tripID int64, statuses ...string) ([]models.Booking, error)
	ListBookingsByTrips(tripIDs []int64, statuses ...string) ([]models.Booking, error)
	ListBookingsByUser(userID int64, status string) ([]models.Booking, error)
	ListAllBookings() ([]models.Booking, error)
	CountByTrip(tripID int64, status string) (int, error)
	CancelConfirmedByTrip(tripID int64) error
}

type UserStore interface {
	GetUser(id int64) (models.User, error)
	ListUsersByIDs(ids []int64) ([]models.User, error)
	EmailExists(email string) (bool, error)
	CreateUser(u models.User, passwordHash string) (models.User, error)
	DeleteUser(id int64) error
}
