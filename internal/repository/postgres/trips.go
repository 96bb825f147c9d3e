package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
)

const tripColumns = `id, rider_id, driver_id, vehicle_id,
	pickup_longitude, pickup_latitude, dropoff_longitude, dropoff_latitude,
	distance_km, duration_minutes, start_time, end_time, status, fare,
	created_at, updated_at`

// TripRepository persists trips via database/sql
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a TripRepository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// CreateTx inserts a trip inside a caller-owned transaction
func (r *TripRepository) CreateTx(ctx context.Context, tx *sql.Tx, t *trip.Trip) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO trips (
			id, rider_id, driver_id, vehicle_id,
			pickup_longitude, pickup_latitude, dropoff_longitude, dropoff_latitude,
			distance_km, duration_minutes, start_time, status, fare,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`, t.ID, t.RiderID, t.DriverID, t.VehicleID,
		t.PickupLongitude, t.PickupLatitude, t.DropoffLongitude, t.DropoffLatitude,
		t.DistanceKM, t.DurationMinutes, t.StartTime, t.Status, t.Fare)

	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by id
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1`, tripColumns), id)

	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, trip.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return t, nil
}

// List returns a filtered page of trips with the total count
func (r *TripRepository) List(ctx context.Context, f trip.Filter, page, limit int) (*trip.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	where, args := buildTripFilter(f)

	var count int
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM trips %s`, where), args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}

	args = append(args, offset, limit)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM trips %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		tripColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]*trip.Trip, 0, limit)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &trip.Page{
		Rows:       trips,
		Count:      count,
		PageNumber: page,
		TotalPages: int(math.Ceil(float64(count) / float64(limit))),
	}, nil
}

// Complete transitions an accepted trip to completed
func (r *TripRepository) Complete(ctx context.Context, id uuid.UUID, endTime time.Time, durationMinutes int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET status = $1, end_time = $2, duration_minutes = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, trip.StatusCompleted, endTime, durationMinutes, id, trip.StatusAccepted)
	if err != nil {
		return fmt.Errorf("failed to complete trip: %w", err)
	}
	return r.checkTransition(ctx, res, id)
}

// Cancel transitions an accepted trip to cancelled
func (r *TripRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, trip.StatusCancelled, id, trip.StatusAccepted)
	if err != nil {
		return fmt.Errorf("failed to cancel trip: %w", err)
	}
	return r.checkTransition(ctx, res, id)
}

// checkTransition distinguishes "no such trip" from "wrong state" when a
// guarded UPDATE touched zero rows.
func (r *TripRepository) checkTransition(ctx context.Context, res sql.Result, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var status trip.Status
	err = r.db.QueryRowContext(ctx, `SELECT status FROM trips WHERE id = $1`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return trip.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status == trip.StatusCompleted {
		return trip.ErrAlreadyCompleted
	}
	return trip.ErrNotAccepted
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrip(row rowScanner) (*trip.Trip, error) {
	var t trip.Trip
	var endTime sql.NullTime
	err := row.Scan(&t.ID, &t.RiderID, &t.DriverID, &t.VehicleID,
		&t.PickupLongitude, &t.PickupLatitude, &t.DropoffLongitude, &t.DropoffLatitude,
		&t.DistanceKM, &t.DurationMinutes, &t.StartTime, &endTime, &t.Status, &t.Fare,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		t.EndTime = &endTime.Time
	}
	return &t, nil
}

func buildTripFilter(f trip.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.RiderID != nil {
		args = append(args, *f.RiderID)
		conds = append(conds, fmt.Sprintf("rider_id = $%d", len(args)))
	}
	if f.DriverID != nil {
		args = append(args, *f.DriverID)
		conds = append(conds, fmt.Sprintf("driver_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
