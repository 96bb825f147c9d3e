package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
)

// TripLocationRepository persists trip breadcrumbs on a PostGIS geography
// column, same storage shape as driver locations but append-only.
type TripLocationRepository struct {
	db *sql.DB
}

// NewTripLocationRepository creates a TripLocationRepository
func NewTripLocationRepository(db *sql.DB) *TripLocationRepository {
	return &TripLocationRepository{db: db}
}

// Append inserts a breadcrumb for a trip
func (r *TripLocationRepository) Append(ctx context.Context, loc *trip.Location) error {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trip_locations (id, trip_id, location, created_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, NOW())
	`, loc.ID, loc.TripID, loc.Longitude, loc.Latitude)

	if err != nil {
		return fmt.Errorf("failed to append trip location: %w", err)
	}
	return nil
}

// ListByTrip returns a page of breadcrumbs for a trip, oldest first so
// the rows replay the route in travel order.
func (r *TripLocationRepository) ListByTrip(ctx context.Context, tripID uuid.UUID, page, limit int) (*trip.LocationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM trip_locations WHERE trip_id = $1
	`, tripID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count trip locations: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trip_id, ST_X(location::geometry), ST_Y(location::geometry), created_at
		FROM trip_locations
		WHERE trip_id = $1
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`, tripID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip locations: %w", err)
	}
	defer rows.Close()

	locations := make([]*trip.Location, 0, limit)
	for rows.Next() {
		var loc trip.Location
		if err := rows.Scan(&loc.ID, &loc.TripID, &loc.Longitude, &loc.Latitude, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip location row: %w", err)
		}
		locations = append(locations, &loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &trip.LocationPage{
		Rows:       locations,
		Count:      count,
		PageNumber: page,
		TotalPages: int(math.Ceil(float64(count) / float64(limit))),
	}, nil
}
