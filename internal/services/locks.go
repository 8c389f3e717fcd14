package services

import "sync"

// tripLocks serializes the availability-check-then-write window per trip.
// Without it two concurrent bookings could both see a seat as free and both
// persist, double-booking the seat.
type tripLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTripLocks() *tripLocks {
	return &tripLocks{locks: map[int64]*sync.Mutex{}}
}

// lock acquires the mutex for a trip and returns the unlock func.
func (l *tripLocks) lock(tripID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[tripID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tripID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
