package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/driver"
)

// DriverLocationRepository persists driver locations on a PostGIS
// geography column. Radius comparisons run in meters on the sphere.
type DriverLocationRepository struct {
	db *sql.DB
}

// NewDriverLocationRepository creates a DriverLocationRepository
func NewDriverLocationRepository(db *sql.DB) *DriverLocationRepository {
	return &DriverLocationRepository{db: db}
}

// Upsert inserts or updates the single location row for a driver
func (r *DriverLocationRepository) Upsert(ctx context.Context, loc *driver.Location) error {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO driver_locations (id, driver_id, location, is_available, created_at, updated_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, NOW(), NOW())
		ON CONFLICT (driver_id) DO UPDATE SET
			location = EXCLUDED.location,
			is_available = EXCLUDED.is_available,
			updated_at = NOW()
	`, loc.ID, loc.DriverID, loc.Longitude, loc.Latitude, loc.IsAvailable)

	if err != nil {
		return fmt.Errorf("failed to upsert driver location: %w", err)
	}
	return nil
}

// GetByDriverID returns the location row for a driver
func (r *DriverLocationRepository) GetByDriverID(ctx context.Context, driverID uuid.UUID) (*driver.Location, error) {
	var loc driver.Location
	err := r.db.QueryRowContext(ctx, `
		SELECT id, driver_id, ST_X(location::geometry), ST_Y(location::geometry), is_available, updated_at
		FROM driver_locations
		WHERE driver_id = $1
	`, driverID).Scan(&loc.ID, &loc.DriverID, &loc.Longitude, &loc.Latitude, &loc.IsAvailable, &loc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, driver.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver location: %w", err)
	}
	return &loc, nil
}

// FindWithinRadius returns available drivers within radiusKm of the point,
// ordered ascending by distance. The radius boundary is inclusive.
func (r *DriverLocationRepository) FindWithinRadius(ctx context.Context, lon, lat, radiusKm float64, page, limit int) (*driver.NearbyPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	radiusMeters := radiusKm * 1000

	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM driver_locations dl
		WHERE dl.is_available = true
		  AND ST_DWithin(dl.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
	`, lon, lat, radiusMeters).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count nearby drivers: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT dl.id, dl.driver_id, u.name,
		       ST_X(dl.location::geometry), ST_Y(dl.location::geometry),
		       dl.is_available, dl.updated_at,
		       ST_Distance(dl.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
		FROM driver_locations dl
		JOIN users u ON u.id = dl.driver_id
		WHERE dl.is_available = true
		  AND ST_DWithin(dl.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance ASC
		OFFSET $4 LIMIT $5
	`, lon, lat, radiusMeters, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby drivers: %w", err)
	}
	defer rows.Close()

	drivers := make([]*driver.NearbyDriver, 0, limit)
	for rows.Next() {
		var d driver.NearbyDriver
		if err := rows.Scan(&d.ID, &d.DriverID, &d.DriverName,
			&d.Longitude, &d.Latitude,
			&d.IsAvailable, &d.UpdatedAt, &d.DistanceInMeters); err != nil {
			return nil, fmt.Errorf("failed to scan nearby driver row: %w", err)
		}
		drivers = append(drivers, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &driver.NearbyPage{
		Rows:       drivers,
		Count:      count,
		PageNumber: page,
		TotalPages: int(math.Ceil(float64(count) / float64(limit))),
	}, nil
}

// SetAvailability flips the availability flag
func (r *DriverLocationRepository) SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE driver_locations
		SET is_available = $1, updated_at = NOW()
		WHERE driver_id = $2
	`, available, driverID)
	if err != nil {
		return fmt.Errorf("failed to update driver availability: %w", err)
	}
	return checkAffected(res)
}

// SetAvailabilityTx flips the availability flag inside a transaction
func (r *DriverLocationRepository) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, driverID uuid.UUID, available bool) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE driver_locations
		SET is_available = $1, updated_at = NOW()
		WHERE driver_id = $2
	`, available, driverID)
	if err != nil {
		return fmt.Errorf("failed to update driver availability: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return driver.ErrLocationNotFound
	}
	return nil
}
