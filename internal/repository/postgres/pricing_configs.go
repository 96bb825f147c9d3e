package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/pricing"
)

const pricingColumns = `id, base_fare, per_km_rate, per_minute_rate, booking_fee,
	surge_multiplier, effective_from, effective_to, created_at, updated_at`

// PricingConfigRepository persists pricing configs via database/sql
type PricingConfigRepository struct {
	db *sql.DB
}

// NewPricingConfigRepository creates a PricingConfigRepository
func NewPricingConfigRepository(db *sql.DB) *PricingConfigRepository {
	return &PricingConfigRepository{db: db}
}

// Create inserts a new pricing config
func (r *PricingConfigRepository) Create(ctx context.Context, c *pricing.Config) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pricing_configs (
			id, base_fare, per_km_rate, per_minute_rate, booking_fee,
			surge_multiplier, effective_from, effective_to, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, c.ID, c.BaseFare, c.PerKMRate, c.PerMinuteRate, c.BookingFee,
		c.SurgeMultiplier, c.EffectiveFrom, c.EffectiveTo)

	if err != nil {
		return fmt.Errorf("failed to create pricing config: %w", err)
	}
	return nil
}

// ActiveAt returns the config effective at the given instant. When several
// windows overlap, the one with the latest effective_from wins.
func (r *PricingConfigRepository) ActiveAt(ctx context.Context, at time.Time) (*pricing.Config, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM pricing_configs
		WHERE effective_from <= $1 AND effective_to >= $1
		ORDER BY effective_from DESC
		LIMIT 1
	`, pricingColumns), at)

	var c pricing.Config
	err := row.Scan(&c.ID, &c.BaseFare, &c.PerKMRate, &c.PerMinuteRate, &c.BookingFee,
		&c.SurgeMultiplier, &c.EffectiveFrom, &c.EffectiveTo, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, pricing.ErrNoActiveConfig
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active pricing config: %w", err)
	}
	return &c, nil
}

// List returns a page of pricing configs, most recent window first
func (r *PricingConfigRepository) List(ctx context.Context, page, limit int) ([]*pricing.Config, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM pricing_configs
		ORDER BY effective_from DESC
		OFFSET $1 LIMIT $2
	`, pricingColumns), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing configs: %w", err)
	}
	defer rows.Close()

	configs := make([]*pricing.Config, 0, limit)
	for rows.Next() {
		var c pricing.Config
		if err := rows.Scan(&c.ID, &c.BaseFare, &c.PerKMRate, &c.PerMinuteRate, &c.BookingFee,
			&c.SurgeMultiplier, &c.EffectiveFrom, &c.EffectiveTo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pricing config row: %w", err)
		}
		configs = append(configs, &c)
	}
	return configs, rows.Err()
}
