package services

import (
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// BusService manages the bus fleet and its permit/route references.
type BusService struct {
	Buses   BusStore
	Permits PermitStore
	Routes  RouteStore
	Trips   TripStore
}

func NewBusService(buses BusStore, permits PermitStore, routes RouteStore, trips TripStore) *BusService {
	return &BusService{Buses: buses, Permits: permits, Routes: routes, Trips: trips}
}

func (s *BusService) validateRefs(b models.Bus) error {
	if b.RegistrationNumber == "" {
		return domain.ValidationError{Field: "registration_number", Msg: "registration number is required"}
	}
	if b.Capacity <= 0 {
		return domain.ValidationError{Field: "capacity", Msg: "capacity must be positive"}
	}

	permit, err := s.Permits.GetPermit(b.PermitID)
	if err != nil {
		return err
	}
	if permit.Status != models.PermitStatusActive {
		return domain.StateViolationError{Resource: "permit", Msg: "permit is not active"}
	}

	if len(b.RouteIDs) > 0 {
		ok, err := s.Routes.RoutesExist(b.RouteIDs)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "route"}
		}
	}
	return nil
}

func (s *BusService) CreateBus(b models.Bus) (models.Bus, error) {
	if err := s.validateRefs(b); err != nil {
		return models.Bus{}, err
	}
	if b.Status == "" {
		b.Status = models.BusStatusActive
	}
	return s.Buses.InsertBus(b)
}

func (s *BusService) UpdateBus(busID int64, b models.Bus) (models.Bus, error) {
	if _, err := s.Buses.GetBus(busID); err != nil {
		return models.Bus{}, err
	}
	if err := s.validateRefs(b); err != nil {
		return models.Bus{}, err
	}
	return s.Buses.UpdateBus(busID, b)
}

// DeleteBus removes a bus. Blocked while scheduled or in-progress trips use it.
func (s *BusService) DeleteBus(busID int64) error {
	if _, err := s.Buses.GetBus(busID); err != nil {
		return err
	}
	trips, err := s.Trips.ListActiveTripsByBus(busID)
	if err != nil {
		return err
	}
	if len(trips) > 0 {
		return domain.ConflictError{Resource: "bus", Msg: "cannot delete bus with active trips"}
	}
	return s.Buses.DeleteBus(busID)
}

func (s *BusService) GetBus(busID int64) (models.Bus, error) {
	return s.Buses.GetBus(busID)
}

func (s *BusService) ListBuses(f models.BusFilter) ([]models.Bus, error) {
	return s.Buses.ListBuses(f)
}
