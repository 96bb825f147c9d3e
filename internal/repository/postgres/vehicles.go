package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/vehicle"
)

// VehicleRepository persists vehicles via database/sql
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository creates a VehicleRepository
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a new vehicle
func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (id, driver_id, vehicle_type, plate_number, model, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, v.ID, v.DriverID, v.VehicleType, v.PlateNumber, v.Model, v.Color)

	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetByID retrieves a vehicle by id
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := r.db.QueryRowContext(ctx, `
		SELECT id, driver_id, vehicle_type, plate_number, model, color, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`, id).Scan(&v.ID, &v.DriverID, &v.VehicleType, &v.PlateNumber, &v.Model, &v.Color, &v.CreatedAt, &v.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, vehicle.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &v, nil
}

// ListByDriver returns the vehicles registered by a driver
func (r *VehicleRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*vehicle.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, driver_id, vehicle_type, plate_number, model, color, created_at, updated_at
		FROM vehicles
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*vehicle.Vehicle, 0)
	for rows.Next() {
		var v vehicle.Vehicle
		if err := rows.Scan(&v.ID, &v.DriverID, &v.VehicleType, &v.PlateNumber, &v.Model, &v.Color, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	return vehicles, rows.Err()
}
