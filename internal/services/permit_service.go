package services

import (
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// PermitService manages operating permits referenced by buses.
type PermitService struct {
	Permits PermitStore
	Buses   BusStore
}

func NewPermitService(permits PermitStore, buses BusStore) *PermitService {
	return &PermitService{Permits: permits, Buses: buses}
}

func validatePermit(p models.Permit) error {
	if p.PermitNumber == "" || p.HolderName == "" {
		return domain.ValidationError{Field: "permit", Msg: "permit number and holder name are required"}
	}
	switch p.VehicleType {
	case "bus", "minibus", "luxury":
	default:
		return domain.ValidationError{Field: "vehicle_type", Msg: "vehicle type must be bus, minibus or luxury"}
	}
	if !p.ExpiryDate.After(p.IssuedDate) {
		return domain.ValidationError{Field: "expiry_date", Msg: "expiry must be after issue date"}
	}
	return nil
}

func (s *PermitService) CreatePermit(p models.Permit) (models.Permit, error) {
	if err := validatePermit(p); err != nil {
		return models.Permit{}, err
	}
	if p.Status == "" {
		p.Status = models.PermitStatusActive
	}
	return s.Permits.InsertPermit(p)
}

func (s *PermitService) UpdatePermit(permitID int64, p models.Permit) (models.Permit, error) {
	if _, err := s.Permits.GetPermit(permitID); err != nil {
		return models.Permit{}, err
	}
	if err := validatePermit(p); err != nil {
		return models.Permit{}, err
	}
	return s.Permits.UpdatePermit(permitID, p)
}

// DeletePermit removes a permit unless a bus still references it.
func (s *PermitService) DeletePermit(permitID int64) error {
	if _, err := s.Permits.GetPermit(permitID); err != nil {
		return err
	}
	buses, err := s.Buses.ListBuses(models.BusFilter{})
	if err != nil {
		return err
	}
	for _, b := range buses {
		if b.PermitID == permitID {
			return domain.ConflictError{Resource: "permit", Msg: "permit is assigned to a bus"}
		}
	}
	return s.Permits.DeletePermit(permitID)
}

func (s *PermitService) GetPermit(permitID int64) (models.Permit, error) {
	return s.Permits.GetPermit(permitID)
}

func (s *PermitService) ListPermits(f models.PermitFilter) ([]models.Permit, error) {
	return s.Permits.ListPermits(f)
}
