package models

import "time"

const (
	PermitStatusActive    = "active"
	PermitStatusExpired   = "expired"
	PermitStatusSuspended = "suspended"
	PermitStatusCancelled = "cancelled"
)

type Permit struct {
	ID           int64     `json:"id"`
	PermitNumber string    `json:"permit_number"`
	HolderName   string    `json:"holder_name"`
	VehicleType  string    `json:"vehicle_type"` // bus, minibus, luxury
	Status       string    `json:"status"`
	IssuedDate   time.Time `json:"issued_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
}

type PermitFilter struct {
	Status      string
	VehicleType string
}
