package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithilesh-08/ride-hailing/internal/domain/pricing"
)

func newPricingMock(t *testing.T) (*PricingConfigRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPricingConfigRepository(db), mock
}

func pricingRows(cfg *pricing.Config) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "base_fare", "per_km_rate", "per_minute_rate", "booking_fee",
		"surge_multiplier", "effective_from", "effective_to", "created_at", "updated_at",
	}).AddRow(cfg.ID, cfg.BaseFare, cfg.PerKMRate, cfg.PerMinuteRate, cfg.BookingFee,
		cfg.SurgeMultiplier, cfg.EffectiveFrom, cfg.EffectiveTo, time.Now(), time.Now())
}

// TestActiveAt tests that the query filters by the effective window
func TestActiveAt(t *testing.T) {
	repo, mock := newPricingMock(t)
	now := time.Now().UTC()

	cfg := &pricing.Config{
		ID:            uuid.New(),
		BaseFare:      10,
		PerKMRate:     1,
		EffectiveFrom: now.Add(-time.Hour),
		EffectiveTo:   now.Add(time.Hour),
	}

	mock.ExpectQuery("effective_from <= \\$1 AND effective_to >= \\$1(.+)ORDER BY effective_from DESC").
		WithArgs(now).
		WillReturnRows(pricingRows(cfg))

	got, err := repo.ActiveAt(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, cfg.ID, got.ID)
	assert.Equal(t, 10.0, got.BaseFare)
	assert.Equal(t, 1.0, got.PerKMRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestActiveAt_NoWindow tests the no-active-config error
func TestActiveAt_NoWindow(t *testing.T) {
	repo, mock := newPricingMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("effective_from <= \\$1 AND effective_to >= \\$1").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "base_fare", "per_km_rate", "per_minute_rate", "booking_fee",
			"surge_multiplier", "effective_from", "effective_to", "created_at", "updated_at",
		}))

	_, err := repo.ActiveAt(context.Background(), now)
	assert.ErrorIs(t, err, pricing.ErrNoActiveConfig)
}

// TestCreatePricingConfig tests the insert statement
func TestCreatePricingConfig(t *testing.T) {
	repo, mock := newPricingMock(t)

	cfg := &pricing.Config{
		BaseFare:      50,
		PerKMRate:     10,
		EffectiveFrom: time.Now(),
		EffectiveTo:   time.Now().Add(24 * time.Hour),
	}

	mock.ExpectExec("INSERT INTO pricing_configs").
		WithArgs(sqlmock.AnyArg(), 50.0, 10.0, 0.0, 0.0, 0.0, cfg.EffectiveFrom, cfg.EffectiveTo).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
