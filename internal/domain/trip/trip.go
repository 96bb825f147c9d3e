package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is a trip's lifecycle state
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Trip is a persisted ride, created the moment a driver accepts a
// trip request.
type Trip struct {
	ID               uuid.UUID  `json:"id"`
	RiderID          uuid.UUID  `json:"rider_id"`
	DriverID         uuid.UUID  `json:"driver_id"`
	VehicleID        uuid.UUID  `json:"vehicle_id"`
	PickupLongitude  float64    `json:"pickup_longitude"`
	PickupLatitude   float64    `json:"pickup_latitude"`
	DropoffLongitude float64    `json:"dropoff_longitude"`
	DropoffLatitude  float64    `json:"dropoff_latitude"`
	DistanceKM       float64    `json:"distance"`
	DurationMinutes  int        `json:"duration"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	Status           Status     `json:"status"`
	Fare             float64    `json:"fare"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Filter narrows trip listings
type Filter struct {
	RiderID  *uuid.UUID
	DriverID *uuid.UUID
	Status   *Status
}

// Page is a paginated trip listing
type Page struct {
	Rows       []*Trip `json:"rows"`
	Count      int     `json:"count"`
	PageNumber int     `json:"page"`
	TotalPages int     `json:"total"`
}

// Repository defines trip data access
type Repository interface {
	// CreateTx inserts a trip inside a caller-owned transaction, so
	// acceptance can pair it with the driver-availability update.
	CreateTx(ctx context.Context, tx *sql.Tx, t *Trip) error

	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	List(ctx context.Context, f Filter, page, limit int) (*Page, error)

	// Complete transitions accepted -> completed, stamping the end time
	// and duration.
	Complete(ctx context.Context, id uuid.UUID, endTime time.Time, durationMinutes int) error

	// Cancel transitions accepted -> cancelled.
	Cancel(ctx context.Context, id uuid.UUID) error
}

// CanTransitionTo reports whether the status change is legal
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusAccepted:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

var (
	ErrNotFound         = errors.New("trip not found")
	ErrAlreadyCompleted = errors.New("trip already completed")
	ErrNotAccepted      = errors.New("trip is not in accepted state")
)
