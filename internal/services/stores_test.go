package services

import (
	"sort"
	"sync"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// memStore is an in-memory implementation of every store interface, used to
// exercise services without a database.
type memStore struct {
	mu sync.Mutex

	routes   map[int64]models.Route
	permits  map[int64]models.Permit
	buses    map[int64]models.Bus
	seatMaps map[int64]models.SeatMap
	trips    map[int64]models.Trip
	bookings map[int64]models.Booking
	users    map[int64]models.User

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		routes:   map[int64]models.Route{},
		permits:  map[int64]models.Permit{},
		buses:    map[int64]models.Bus{},
		seatMaps: map[int64]models.SeatMap{},
		trips:    map[int64]models.Trip{},
		bookings: map[int64]models.Booking{},
		users:    map[int64]models.User{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// RouteStore

func (m *memStore) GetRoute(id int64) (models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	return rt, nil
}

func (m *memStore) InsertRoute(rt models.Route) (models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt.ID = m.id()
	m.routes[rt.ID] = rt
	return rt, nil
}

func (m *memStore) UpdateRoute(id int64, rt models.Route) (models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	rt.ID = id
	m.routes[id] = rt
	return rt, nil
}

func (m *memStore) DeleteRoute(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return domain.NotFoundError{Resource: "route"}
	}
	delete(m.routes, id)
	return nil
}

func (m *memStore) ListRoutes(f models.RouteFilter) ([]models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Route{}
	for _, rt := range m.routes {
		if f.Status != "" && rt.Status != f.Status {
			continue
		}
		if f.RouteNumber != "" && rt.RouteNumber != f.RouteNumber {
			continue
		}
		out = append(out, rt)
	}
	return out, nil
}

func (m *memStore) RoutesExist(ids []int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.routes[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// PermitStore

func (m *memStore) GetPermit(id int64) (models.Permit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.permits[id]
	if !ok {
		return models.Permit{}, domain.NotFoundError{Resource: "permit"}
	}
	return p, nil
}

func (m *memStore) InsertPermit(p models.Permit) (models.Permit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	m.permits[p.ID] = p
	return p, nil
}

func (m *memStore) UpdatePermit(id int64, p models.Permit) (models.Permit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.permits[id]; !ok {
		return models.Permit{}, domain.NotFoundError{Resource: "permit"}
	}
	p.ID = id
	m.permits[id] = p
	return p, nil
}

func (m *memStore) DeletePermit(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.permits[id]; !ok {
		return domain.NotFoundError{Resource: "permit"}
	}
	delete(m.permits, id)
	return nil
}

func (m *memStore) ListPermits(f models.PermitFilter) ([]models.Permit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Permit{}
	for _, p := range m.permits {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.VehicleType != "" && p.VehicleType != f.VehicleType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// BusStore

func (m *memStore) GetBus(id int64) (models.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buses[id]
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	return b, nil
}

func (m *memStore) InsertBus(b models.Bus) (models.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.id()
	m.buses[b.ID] = b
	return b, nil
}

func (m *memStore) UpdateBus(id int64, b models.Bus) (models.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buses[id]; !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	b.ID = id
	m.buses[id] = b
	return b, nil
}

func (m *memStore) DeleteBus(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buses[id]; !ok {
		return domain.NotFoundError{Resource: "bus"}
	}
	delete(m.buses, id)
	return nil
}

func (m *memStore) ListBuses(f models.BusFilter) ([]models.Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Bus{}
	for _, b := range m.buses {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Manufacturer != "" && b.Manufacturer != f.Manufacturer {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// SeatMapStore

func (m *memStore) GetSeatMap(id int64) (models.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm, ok := m.seatMaps[id]
	if !ok {
		return models.SeatMap{}, domain.NotFoundError{Resource: "seat map"}
	}
	return sm, nil
}

func (m *memStore) GetSeatMapByBus(busID int64) (models.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sm := range m.seatMaps {
		if sm.BusID == busID {
			return sm, nil
		}
	}
	return models.SeatMap{}, domain.NotFoundError{Resource: "seat map"}
}

func (m *memStore) InsertSeatMap(sm models.SeatMap) (models.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm.ID = m.id()
	for i := range sm.Layout {
		sm.Layout[i].ID = m.id()
	}
	m.seatMaps[sm.ID] = sm
	return sm, nil
}

func (m *memStore) UpdateSeatMap(id int64, layout []models.Seat, totalSeats int) (models.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm, ok := m.seatMaps[id]
	if !ok {
		return models.SeatMap{}, domain.NotFoundError{Resource: "seat map"}
	}
	byNumber := map[string]int64{}
	for _, seat := range sm.Layout {
		byNumber[seat.SeatNumber] = seat.ID
	}
	for i := range layout {
		if prev, ok := byNumber[layout[i].SeatNumber]; ok {
			layout[i].ID = prev
		} else {
			layout[i].ID = m.id()
		}
	}
	sm.Layout = layout
	sm.TotalSeats = totalSeats
	m.seatMaps[id] = sm
	return sm, nil
}

func (m *memStore) DeleteSeatMap(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seatMaps[id]; !ok {
		return domain.NotFoundError{Resource: "seat map"}
	}
	delete(m.seatMaps, id)
	return nil
}

func (m *memStore) ListSeatMaps(busID int64) ([]models.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SeatMap{}
	for _, sm := range m.seatMaps {
		if busID == 0 || sm.BusID == busID {
			out = append(out, sm)
		}
	}
	return out, nil
}

// TripStore

func (m *memStore) GetTrip(id int64) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (m *memStore) InsertTrip(t models.Trip) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	m.trips[t.ID] = t
	return t, nil
}

func (m *memStore) UpdateTrip(id int64, patch models.TripPatch) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.DepartureDate != nil {
		t.DepartureDate = *patch.DepartureDate
	}
	if patch.ArrivalDate != nil {
		t.ArrivalDate = *patch.ArrivalDate
	}
	if patch.PaymentRequired != nil {
		t.PaymentRequired = *patch.PaymentRequired
	}
	m.trips[id] = t
	return t, nil
}

func (m *memStore) DeleteTrip(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return domain.NotFoundError{Resource: "trip"}
	}
	delete(m.trips, id)
	return nil
}

func (m *memStore) ListTrips(f models.TripFilter) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Trip{}
	for _, t := range m.trips {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.RouteID != 0 && t.RouteID != f.RouteID {
			continue
		}
		if f.BusID != 0 && t.BusID != f.BusID {
			continue
		}
		if !f.DateFrom.IsZero() && t.DepartureDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && t.DepartureDate.After(f.DateTo) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) ListScheduledBetween(start, end time.Time) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.Status != models.TripStatusScheduled {
			continue
		}
		if t.DepartureDate.Before(start) || !t.DepartureDate.Before(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) ListActiveTripsByBus(busID int64) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.BusID != busID {
			continue
		}
		if t.Status == models.TripStatusScheduled || t.Status == models.TripStatusInProgress {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ListTripsByBusBetween(busID int64, start, end time.Time) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.BusID != busID {
			continue
		}
		if t.DepartureDate.After(end) || t.ArrivalDate.Before(start) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) HasOverlappingTrip(busID int64, departure, arrival time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trips {
		if t.BusID != busID || t.Status == models.TripStatusCancelled {
			continue
		}
		if (!t.DepartureDate.After(departure) && !t.ArrivalDate.Before(departure)) ||
			(!t.DepartureDate.Before(departure) && !t.DepartureDate.After(arrival)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AdjustAvailableSeats(tripID int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return domain.NotFoundError{Resource: "trip"}
	}
	t.AvailableSeats += delta
	m.trips[tripID] = t
	return nil
}

func (m *memStore) SetAvailableSeats(tripID int64, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return domain.NotFoundError{Resource: "trip"}
	}
	t.AvailableSeats = n
	m.trips[tripID] = t
	return nil
}

// BookingStore

func (m *memStore) GetBooking(id int64) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

func (m *memStore) InsertBooking(b models.Booking) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.id()
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memStore) UpdateBooking(id int64, patch models.BookingPatch) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if patch.SeatIDs != nil {
		b.SeatIDs = patch.SeatIDs
		b.SeatNumbers = patch.SeatNumbers
	}
	if patch.FromStop != nil {
		b.FromStop = *patch.FromStop
	}
	if patch.ToStop != nil {
		b.ToStop = *patch.ToStop
	}
	if patch.TotalFare != nil {
		b.TotalFare = *patch.TotalFare
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		b.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentDetails != nil {
		b.PaymentDetails = patch.PaymentDetails
	}
	m.bookings[id] = b
	return b, nil
}

func matchesStatus(b models.Booking, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

func (m *memStore) ListBookingsByTrip(tripID int64, statuses ...string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.TripID == tripID && matchesStatus(b, statuses) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListBookingsByTrips(tripIDs []int64, statuses ...string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range tripIDs {
		want[id] = true
	}
	out := []models.Booking{}
	for _, b := range m.bookings {
		if want[b.TripID] && matchesStatus(b, statuses) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListBookingsByUser(userID int64, status string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (m *memStore) ListAllBookings() ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (m *memStore) CountByTrip(tripID int64, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, b := range m.bookings {
		if b.TripID == tripID && b.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CancelConfirmedByTrip(tripID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.bookings {
		if b.TripID == tripID && b.Status == models.BookingStatusConfirmed {
			b.Status = models.BookingStatusCancelled
			b.PaymentStatus = models.PaymentStatusRefunded
			m.bookings[id] = b
		}
	}
	return nil
}

// UserStore

func (m *memStore) GetUser(id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (m *memStore) ListUsersByIDs(ids []int64) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) EmailExists(email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateUser(u models.User, passwordHash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) DeleteUser(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	delete(m.users, id)
	return nil
}
