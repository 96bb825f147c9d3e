package trip

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithilesh-08/ride-hailing/internal/domain/driver"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
	pricingsvc "github.com/mithilesh-08/ride-hailing/internal/service/pricing"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// fakeRequestStore mimics the cache's get/claim semantics in memory
type fakeRequestStore struct {
	mu     sync.Mutex
	reqs   map[string]*triprequest.TripRequest
	getErr error
}

func newFakeRequestStore(reqs ...*triprequest.TripRequest) *fakeRequestStore {
	s := &fakeRequestStore{reqs: make(map[string]*triprequest.TripRequest)}
	for _, r := range reqs {
		s.reqs[r.ID] = r
	}
	return s
}

func (s *fakeRequestStore) Get(ctx context.Context, id string) (*triprequest.TripRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	req, ok := s.reqs[id]
	if !ok {
		return nil, triprequest.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *fakeRequestStore) Claim(ctx context.Context, id string) (*triprequest.TripRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.reqs[id]
	if !ok {
		return nil, triprequest.ErrNotFound
	}
	delete(s.reqs, id)
	return req, nil
}

func (s *fakeRequestStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reqs[id]
	return ok
}

// fakeEstimator returns a fixed estimate or error
type fakeEstimator struct {
	estimate *pricingsvc.Estimate
	err      error
}

func (e *fakeEstimator) Estimate(ctx context.Context, pickup, dropoff triprequest.Place) (*pricingsvc.Estimate, error) {
	return e.estimate, e.err
}

// fakeTripRepo stores trips in memory
type fakeTripRepo struct {
	mu        sync.Mutex
	trips     map[uuid.UUID]*trip.Trip
	createErr error
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[uuid.UUID]*trip.Trip)}
}

func (r *fakeTripRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *trip.Trip) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.trips[t.ID] = &copied
	return nil
}

func (r *fakeTripRepo) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTripRepo) List(ctx context.Context, f trip.Filter, page, limit int) (*trip.Page, error) {
	return &trip.Page{Rows: []*trip.Trip{}}, nil
}

func (r *fakeTripRepo) Complete(ctx context.Context, id uuid.UUID, endTime time.Time, durationMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return trip.ErrNotFound
	}
	if t.Status == trip.StatusCompleted {
		return trip.ErrAlreadyCompleted
	}
	if t.Status != trip.StatusAccepted {
		return trip.ErrNotAccepted
	}
	t.Status = trip.StatusCompleted
	t.EndTime = &endTime
	t.DurationMinutes = durationMinutes
	return nil
}

func (r *fakeTripRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return trip.ErrNotFound
	}
	if t.Status != trip.StatusAccepted {
		return trip.ErrNotAccepted
	}
	t.Status = trip.StatusCancelled
	return nil
}

func (r *fakeTripRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trips)
}

// fakeLocationRepo records availability flips
type fakeLocationRepo struct {
	mu           sync.Mutex
	availability map[uuid.UUID]bool
	txErr        error
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{availability: make(map[uuid.UUID]bool)}
}

func (r *fakeLocationRepo) Upsert(ctx context.Context, loc *driver.Location) error { return nil }

func (r *fakeLocationRepo) GetByDriverID(ctx context.Context, driverID uuid.UUID) (*driver.Location, error) {
	return nil, driver.ErrLocationNotFound
}

func (r *fakeLocationRepo) FindWithinRadius(ctx context.Context, lon, lat, radiusKm float64, page, limit int) (*driver.NearbyPage, error) {
	return &driver.NearbyPage{}, nil
}

func (r *fakeLocationRepo) SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.availability[driverID] = available
	return nil
}

func (r *fakeLocationRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, driverID uuid.UUID, available bool) error {
	if r.txErr != nil {
		return r.txErr
	}
	return r.SetAvailability(ctx, driverID, available)
}

func (r *fakeLocationRepo) available(driverID uuid.UUID) (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.availability[driverID]
	return v, ok
}

func liveRequest(id string) *triprequest.TripRequest {
	return &triprequest.TripRequest{
		ID:      id,
		RiderID: uuid.NewString(),
		Pickup:  triprequest.Place{Longitude: 77.5946, Latitude: 12.9716},
		Dropoff: triprequest.Place{Longitude: 77.6408, Latitude: 12.9784},
	}
}

type acceptFixture struct {
	svc       *Service
	store     *fakeRequestStore
	trips     *fakeTripRepo
	locations *fakeLocationRepo
	mock      sqlmock.Sqlmock
}

func newAcceptFixture(t *testing.T, store *fakeRequestStore, estimator FareEstimator) *acceptFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	trips := newFakeTripRepo()
	locations := newFakeLocationRepo()
	svc := NewService(db, store, estimator, trips, locations, logger.NewNop())

	return &acceptFixture{svc: svc, store: store, trips: trips, locations: locations, mock: mock}
}

// TestAccept_HappyPath tests the full acceptance flow
func TestAccept_HappyPath(t *testing.T) {
	req := liveRequest("req-1")
	fx := newAcceptFixture(t, newFakeRequestStore(req),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	driverID := uuid.New()
	vehicleID := uuid.New()

	created, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1",
		DriverID:      driverID,
		VehicleID:     vehicleID,
	})
	require.NoError(t, err)

	assert.Equal(t, trip.StatusAccepted, created.Status)
	assert.Equal(t, driverID, created.DriverID)
	assert.Equal(t, vehicleID, created.VehicleID)
	assert.Equal(t, req.RiderID, created.RiderID.String())
	assert.Equal(t, req.Pickup.Longitude, created.PickupLongitude)
	assert.Equal(t, req.Dropoff.Latitude, created.DropoffLatitude)
	assert.Equal(t, 5.5, created.DistanceKM)
	assert.Equal(t, 65.0, created.Fare)
	assert.False(t, created.StartTime.IsZero())

	assert.False(t, fx.store.has("req-1"), "Accepted request must leave the cache")
	assert.Equal(t, 1, fx.trips.count())

	available, flipped := fx.locations.available(driverID)
	assert.True(t, flipped, "Driver availability should be updated")
	assert.False(t, available, "Accepting driver should become unavailable")

	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

// TestAccept_UnknownRequest tests accepting an expired or never-stored
// request
func TestAccept_UnknownRequest(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 1, Fare: 11}})

	_, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "gone",
		DriverID:      uuid.New(),
		VehicleID:     uuid.New(),
	})

	assert.ErrorIs(t, err, apperrors.ErrTripRequestNotFound)
	assert.Equal(t, 0, fx.trips.count(), "No trip may be written for a missing request")
	assert.NoError(t, fx.mock.ExpectationsWereMet(), "No transaction may start")
}

// TestAccept_SecondDriverLoses tests that only the first of two accepts
// of the same request creates a trip
func TestAccept_SecondDriverLoses(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	ctx := context.Background()

	_, err := fx.svc.Accept(ctx, AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = fx.svc.Accept(ctx, AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})
	assert.ErrorIs(t, err, apperrors.ErrTripRequestNotFound, "Losing driver gets not-found")
	assert.Equal(t, 1, fx.trips.count(), "Exactly one trip for one request")
}

// TestAccept_EstimatorErrorPropagates tests that a pricing failure leaves
// the request claimable
func TestAccept_EstimatorErrorPropagates(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{err: apperrors.ErrNoPricingConfig})

	_, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})

	assert.ErrorIs(t, err, apperrors.ErrNoPricingConfig, "Estimator errors pass through unchanged")
	assert.True(t, fx.store.has("req-1"), "Request must not be claimed before estimation succeeds")
	assert.Equal(t, 0, fx.trips.count())
}

// TestAccept_TransactionFailure tests the claim-before-commit tradeoff:
// the request is consumed even though no trip was written
func TestAccept_TransactionFailure(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.trips.createErr = errors.New("insert failed")
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	_, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)

	assert.False(t, fx.store.has("req-1"), "Claim happens before the transaction")
	assert.Equal(t, 0, fx.trips.count(), "No duplicate or partial trip may exist")
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

// TestAccept_DriverWithoutLocation tests that a driver who never reported
// a position gets the dedicated not-found error instead of a 500
func TestAccept_DriverWithoutLocation(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.locations.txErr = driver.ErrLocationNotFound
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	_, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})

	assert.ErrorIs(t, err, apperrors.ErrDriverLocationUnknown)
	assert.Equal(t, 0, fx.trips.count())
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

// TestAccept_CacheDown tests that a cache outage surfaces as 503, not 500
func TestAccept_CacheDown(t *testing.T) {
	store := newFakeRequestStore(liveRequest("req-1"))
	store.getErr = errors.New("connection refused")
	fx := newAcceptFixture(t, store,
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})

	_, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})

	assert.ErrorIs(t, err, apperrors.ErrCacheUnavailable)
	assert.Equal(t, 0, fx.trips.count())
	assert.NoError(t, fx.mock.ExpectationsWereMet(), "No transaction may start")
}

// TestComplete_HappyPath tests completion stamps and frees the driver
func TestComplete_HappyPath(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	driverID := uuid.New()
	created, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: driverID, VehicleID: uuid.New(),
	})
	require.NoError(t, err)

	completed, err := fx.svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, trip.StatusCompleted, completed.Status)
	require.NotNil(t, completed.EndTime)
	assert.GreaterOrEqual(t, completed.DurationMinutes, 0)

	available, _ := fx.locations.available(driverID)
	assert.True(t, available, "Completed driver returns to the pool")
}

// TestComplete_Twice tests that a second completion is rejected
func TestComplete_Twice(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	created, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: uuid.New(), VehicleID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = fx.svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = fx.svc.Complete(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTripAlreadyCompleted)
}

// TestComplete_UnknownTrip tests completing a trip that does not exist
func TestComplete_UnknownTrip(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(),
		&fakeEstimator{estimate: &pricingsvc.Estimate{}})

	_, err := fx.svc.Complete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrTripNotFound)
}

// TestCancel_HappyPath tests cancellation frees the driver
func TestCancel_HappyPath(t *testing.T) {
	fx := newAcceptFixture(t, newFakeRequestStore(liveRequest("req-1")),
		&fakeEstimator{estimate: &pricingsvc.Estimate{DistanceKM: 5.5, Fare: 65.0}})
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	driverID := uuid.New()
	created, err := fx.svc.Accept(context.Background(), AcceptInput{
		TripRequestID: "req-1", DriverID: driverID, VehicleID: uuid.New(),
	})
	require.NoError(t, err)

	cancelled, err := fx.svc.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.StatusCancelled, cancelled.Status)

	available, _ := fx.locations.available(driverID)
	assert.True(t, available)
}
