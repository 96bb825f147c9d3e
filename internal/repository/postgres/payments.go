package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/payment"
)

const paymentColumns = `id, trip_id, driver_id, rider_id, vehicle_id,
	amount, status, transaction_id, paid_at, created_at, updated_at`

// PaymentRepository persists payments via database/sql
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a PaymentRepository
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (
			id, trip_id, driver_id, rider_id, vehicle_id,
			amount, status, transaction_id, paid_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, p.ID, p.TripID, p.DriverID, p.RiderID, p.VehicleID,
		p.Amount, p.Status, p.TransactionID, p.PaidAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by id
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns), id)

	var p payment.Payment
	err := row.Scan(&p.ID, &p.TripID, &p.DriverID, &p.RiderID, &p.VehicleID,
		&p.Amount, &p.Status, &p.TransactionID, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, payment.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

// ListByTrip returns all payments recorded against a trip
func (r *PaymentRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*payment.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM payments WHERE trip_id = $1 ORDER BY created_at DESC`, paymentColumns), tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*payment.Payment, 0)
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(&p.ID, &p.TripID, &p.DriverID, &p.RiderID, &p.VehicleID,
			&p.Amount, &p.Status, &p.TransactionID, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
