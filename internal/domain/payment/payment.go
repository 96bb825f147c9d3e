package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is a payment's processing state
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payment records the settlement of a completed trip
type Payment struct {
	ID            uuid.UUID `json:"id"`
	TripID        uuid.UUID `json:"trip_id"`
	DriverID      uuid.UUID `json:"driver_id"`
	RiderID       uuid.UUID `json:"rider_id"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	Amount        float64   `json:"amount"`
	Status        Status    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	PaidAt        time.Time `json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Repository defines payment data access
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*Payment, error)
}

var ErrNotFound = errors.New("payment not found")
