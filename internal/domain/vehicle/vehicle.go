package vehicle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the vehicle class used for pricing tiers
type Type string

const (
	TypeEconomy Type = "economy"
	TypePremium Type = "premium"
	TypeLuxury  Type = "luxury"
)

// Vehicle represents a driver's registered vehicle
type Vehicle struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	VehicleType Type      `json:"vehicle_type"`
	PlateNumber string    `json:"plate_number"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository defines vehicle data access
type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*Vehicle, error)
}

// IsValid validates the vehicle type
func (t Type) IsValid() bool {
	switch t {
	case TypeEconomy, TypePremium, TypeLuxury:
		return true
	}
	return false
}

var (
	ErrNotFound    = errors.New("vehicle not found")
	ErrInvalidType = errors.New("invalid vehicle type")
)
