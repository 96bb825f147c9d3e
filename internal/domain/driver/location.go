package driver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Location is a driver's last reported position. One row per driver;
// updates are in-place.
type Location struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	Longitude   float64   `json:"longitude"`
	Latitude    float64   `json:"latitude"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NearbyDriver is a proximity-search result annotated with the distance
// (meters) computed by the database.
type NearbyDriver struct {
	Location
	DriverName       string  `json:"name"`
	DistanceInMeters float64 `json:"distance_in_meters"`
}

// NearbyPage is a paginated proximity-search result
type NearbyPage struct {
	Rows       []*NearbyDriver `json:"drivers"`
	Count      int             `json:"total_count"`
	PageNumber int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

// LocationRepository defines persistent driver-location access
type LocationRepository interface {
	// Upsert inserts the location row for a driver, or updates it in place
	// when one already exists.
	Upsert(ctx context.Context, loc *Location) error

	// GetByDriverID returns the driver's location row
	GetByDriverID(ctx context.Context, driverID uuid.UUID) (*Location, error)

	// FindWithinRadius returns available drivers within radiusKm of the
	// point, closest first. The boundary is inclusive.
	FindWithinRadius(ctx context.Context, lon, lat, radiusKm float64, page, limit int) (*NearbyPage, error)

	// SetAvailability flips the availability flag.
	SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error

	// SetAvailabilityTx flips the availability flag inside a caller-owned
	// transaction.
	SetAvailabilityTx(ctx context.Context, tx *sql.Tx, driverID uuid.UUID, available bool) error
}

var ErrLocationNotFound = errors.New("driver location not found")
