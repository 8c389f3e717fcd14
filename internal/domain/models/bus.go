package models

const (
	BusStatusActive      = "active"
	BusStatusMaintenance = "maintenance"
	BusStatusRetired     = "retired"
)

type Bus struct {
	ID                 int64   `json:"id"`
	RegistrationNumber string  `json:"registration_number"`
	PermitID           int64   `json:"permit_id"`
	Capacity           int     `json:"capacity"`
	Manufacturer       string  `json:"manufacturer"`
	Model              string  `json:"model,omitempty"`
	YearOfManufacture  int     `json:"year_of_manufacture"`
	Status             string  `json:"status"`
	RouteIDs           []int64 `json:"route_ids,omitempty"`
}

type BusFilter struct {
	Status       string
	Manufacturer string
}
