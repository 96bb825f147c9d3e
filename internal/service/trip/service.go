package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/driver"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
	pricingsvc "github.com/mithilesh-08/ride-hailing/internal/service/pricing"
	"github.com/mithilesh-08/ride-hailing/pkg/database"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// RequestStore is the slice of the trip-request cache the orchestrator
// needs: a side-effect-free read and an atomic claim.
type RequestStore interface {
	Get(ctx context.Context, id string) (*triprequest.TripRequest, error)
	Claim(ctx context.Context, id string) (*triprequest.TripRequest, error)
}

// FareEstimator computes distance and fare between two places
type FareEstimator interface {
	Estimate(ctx context.Context, pickup, dropoff triprequest.Place) (*pricingsvc.Estimate, error)
}

// Service orchestrates the trip lifecycle: the request-to-trip acceptance
// transition plus completion and cancellation.
type Service struct {
	db        *sql.DB
	requests  RequestStore
	estimator FareEstimator
	trips     trip.Repository
	locations driver.LocationRepository
	logger    *logger.Logger
}

// NewService creates a trip Service
func NewService(db *sql.DB, requests RequestStore, estimator FareEstimator, trips trip.Repository, locations driver.LocationRepository, logger *logger.Logger) *Service {
	return &Service{
		db:        db,
		requests:  requests,
		estimator: estimator,
		trips:     trips,
		locations: locations,
		logger:    logger,
	}
}

// AcceptInput identifies the request being accepted and the accepting
// driver. DriverID comes from the authenticated caller, never the payload.
type AcceptInput struct {
	TripRequestID string
	DriverID      uuid.UUID
	VehicleID     uuid.UUID
}

// Accept turns a cached trip request into a persisted trip. The request is
// claimed atomically before any persistent write, so two concurrent
// accepts of the same request produce exactly one trip: the loser gets a
// not-found error and must re-poll nearby requests. If the transaction
// then fails the request is already gone, which is the failure mode we
// accept in exchange for never creating duplicate trips.
func (s *Service) Accept(ctx context.Context, in AcceptInput) (*trip.Trip, error) {
	req, err := s.requests.Get(ctx, in.TripRequestID)
	if err != nil {
		if errors.Is(err, triprequest.ErrNotFound) {
			return nil, apperrors.ErrTripRequestNotFound
		}
		s.logger.Error("Trip request cache unavailable", logger.Err(err))
		return nil, apperrors.ErrCacheUnavailable
	}

	if err := req.Validate(); err != nil {
		return nil, apperrors.BadRequest("Trip request is missing pickup or dropoff", err)
	}

	riderID, err := uuid.Parse(req.RiderID)
	if err != nil {
		return nil, apperrors.BadRequest("Trip request has an invalid rider id", err)
	}

	estimate, err := s.estimator.Estimate(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		return nil, err
	}

	claimed, err := s.requests.Claim(ctx, in.TripRequestID)
	if err != nil {
		if errors.Is(err, triprequest.ErrNotFound) {
			// Another driver won the race between Get and Claim.
			return nil, apperrors.ErrTripRequestNotFound
		}
		s.logger.Error("Trip request cache unavailable", logger.Err(err))
		return nil, apperrors.ErrCacheUnavailable
	}

	now := time.Now().UTC()
	t := &trip.Trip{
		ID:               uuid.New(),
		RiderID:          riderID,
		DriverID:         in.DriverID,
		VehicleID:        in.VehicleID,
		PickupLongitude:  claimed.Pickup.Longitude,
		PickupLatitude:   claimed.Pickup.Latitude,
		DropoffLongitude: claimed.Dropoff.Longitude,
		DropoffLatitude:  claimed.Dropoff.Latitude,
		DistanceKM:       estimate.DistanceKM,
		StartTime:        now,
		Status:           trip.StatusAccepted,
		Fare:             estimate.Fare,
	}

	err = database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.trips.CreateTx(ctx, tx, t); err != nil {
			return err
		}
		return s.locations.SetAvailabilityTx(ctx, tx, in.DriverID, false)
	})
	if err != nil {
		s.logger.Error("Trip acceptance transaction failed, request already claimed",
			logger.String("trip_request_id", in.TripRequestID),
			logger.String("driver_id", in.DriverID.String()),
			logger.Err(err),
		)
		if errors.Is(err, driver.ErrLocationNotFound) {
			return nil, apperrors.ErrDriverLocationUnknown
		}
		return nil, apperrors.Internal("Failed to accept trip", err)
	}

	s.logger.Info("Trip accepted",
		logger.String("trip_id", t.ID.String()),
		logger.String("trip_request_id", in.TripRequestID),
		logger.String("driver_id", in.DriverID.String()),
		logger.Float64("distance_km", t.DistanceKM),
		logger.Float64("fare", t.Fare),
	)

	return t, nil
}

// Complete transitions an accepted trip to completed, stamping the end
// time and duration, and returns the driver to the available pool. The
// availability flip is best-effort: the trip row is authoritative.
func (s *Service) Complete(ctx context.Context, tripID uuid.UUID) (*trip.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, apperrors.Internal("Failed to load trip", err)
	}

	endTime := time.Now().UTC()
	duration := int(endTime.Sub(t.StartTime).Minutes())
	if duration < 0 {
		duration = 0
	}

	if err := s.trips.Complete(ctx, tripID, endTime, duration); err != nil {
		return nil, transitionError(err)
	}

	if err := s.locations.SetAvailability(ctx, t.DriverID, true); err != nil {
		s.logger.Warn("Failed to mark driver available after trip completion",
			logger.String("driver_id", t.DriverID.String()),
			logger.Err(err),
		)
	}

	return s.trips.GetByID(ctx, tripID)
}

// Cancel transitions an accepted trip to cancelled and frees the driver
func (s *Service) Cancel(ctx context.Context, tripID uuid.UUID) (*trip.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, apperrors.Internal("Failed to load trip", err)
	}

	if err := s.trips.Cancel(ctx, tripID); err != nil {
		return nil, transitionError(err)
	}

	if err := s.locations.SetAvailability(ctx, t.DriverID, true); err != nil {
		s.logger.Warn("Failed to mark driver available after trip cancellation",
			logger.String("driver_id", t.DriverID.String()),
			logger.Err(err),
		)
	}

	return s.trips.GetByID(ctx, tripID)
}

// Get returns a trip by id
func (s *Service) Get(ctx context.Context, tripID uuid.UUID) (*trip.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, apperrors.Internal("Failed to load trip", err)
	}
	return t, nil
}

// List returns a filtered page of trips
func (s *Service) List(ctx context.Context, f trip.Filter, page, limit int) (*trip.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	result, err := s.trips.List(ctx, f, page, limit)
	if err != nil {
		return nil, apperrors.Internal("Failed to list trips", err)
	}
	return result, nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		return apperrors.ErrTripNotFound
	case errors.Is(err, trip.ErrAlreadyCompleted):
		return apperrors.ErrTripAlreadyCompleted
	case errors.Is(err, trip.ErrNotAccepted):
		return apperrors.Conflict("Trip is not in accepted state", err)
	default:
		return apperrors.Internal("Failed to update trip", err)
	}
}
