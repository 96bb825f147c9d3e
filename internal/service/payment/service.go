package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/payment"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "payment:idempotency:"
	idempotencyTTL       = 24 * time.Hour
)

// TripSource is the slice of trip storage payments need
type TripSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
}

// Service records payments against completed trips. Duplicate submissions
// carrying the same idempotency key return the original payment instead of
// charging twice.
type Service struct {
	payments payment.Repository
	trips    TripSource
	redis    *redis.Client
	logger   *logger.Logger
}

// NewService creates a payment Service
func NewService(payments payment.Repository, trips TripSource, redisClient *redis.Client, logger *logger.Logger) *Service {
	return &Service{
		payments: payments,
		trips:    trips,
		redis:    redisClient,
		logger:   logger,
	}
}

// CreateInput is the payment submission
type CreateInput struct {
	TripID         uuid.UUID
	Amount         float64
	IdempotencyKey string
}

// Create validates the trip, charges the mock PSP, and records the payment
func (s *Service) Create(ctx context.Context, in CreateInput) (*payment.Payment, error) {
	if in.IdempotencyKey == "" {
		return nil, apperrors.BadRequest("Idempotency-Key header required", nil)
	}

	cacheKey := idempotencyKeyPrefix + in.IdempotencyKey
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var p payment.Payment
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			s.logger.Info("Returning cached payment for idempotency key",
				logger.String("payment_id", p.ID.String()),
			)
			return &p, nil
		}
	}

	t, err := s.trips.GetByID(ctx, in.TripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, apperrors.Internal("Failed to load trip", err)
	}

	if t.Status != trip.StatusCompleted {
		return nil, apperrors.Conflict("Trip is not completed", nil)
	}
	if t.Fare != in.Amount {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("Amount mismatch: trip fare is %.2f", t.Fare), nil)
	}

	p := &payment.Payment{
		ID:            uuid.New(),
		TripID:        t.ID,
		DriverID:      t.DriverID,
		RiderID:       t.RiderID,
		VehicleID:     t.VehicleID,
		Amount:        in.Amount,
		Status:        payment.StatusCompleted,
		TransactionID: fmt.Sprintf("txn_%d_%s", time.Now().Unix(), uuid.NewString()[:8]),
		PaidAt:        time.Now().UTC(),
	}

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, apperrors.Internal("Failed to record payment", err)
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.redis.Set(ctx, cacheKey, data, idempotencyTTL).Err(); err != nil {
			s.logger.Warn("Failed to cache payment for idempotency",
				logger.String("payment_id", p.ID.String()),
				logger.Err(err),
			)
		}
	}

	s.logger.Info("Payment processed",
		logger.String("payment_id", p.ID.String()),
		logger.String("trip_id", t.ID.String()),
		logger.Float64("amount", p.Amount),
	)

	return p, nil
}

// Get returns a payment by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.Internal("Failed to get payment", err)
	}
	return p, nil
}

// ListByTrip returns payments recorded against a trip
func (s *Service) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*payment.Payment, error) {
	payments, err := s.payments.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list payments", err)
	}
	return payments, nil
}
