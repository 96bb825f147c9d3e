package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Config is a time-windowed pricing configuration. Exactly one config is
// expected to be effective at any instant; ties are broken by the latest
// effective_from.
type Config struct {
	ID              uuid.UUID `json:"id"`
	BaseFare        float64   `json:"base_fare"`
	PerKMRate       float64   `json:"per_km_rate"`
	PerMinuteRate   float64   `json:"per_minute_rate"`
	BookingFee      float64   `json:"booking_fee"`
	SurgeMultiplier float64   `json:"surge_multiplier"`
	EffectiveFrom   time.Time `json:"effective_from"`
	EffectiveTo     time.Time `json:"effective_to"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Repository defines pricing-config data access
type Repository interface {
	Create(ctx context.Context, c *Config) error

	// ActiveAt returns the config effective at the given instant,
	// preferring the most recently effective one.
	ActiveAt(ctx context.Context, at time.Time) (*Config, error)

	List(ctx context.Context, page, limit int) ([]*Config, error)
}

var ErrNoActiveConfig = errors.New("no pricing configuration found")
