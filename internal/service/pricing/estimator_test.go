package pricing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithilesh-08/ride-hailing/internal/domain/pricing"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
)

// stubConfigSource serves a fixed pricing config, or an error
type stubConfigSource struct {
	cfg *pricing.Config
	err error
}

func (s *stubConfigSource) ActiveAt(ctx context.Context, at time.Time) (*pricing.Config, error) {
	return s.cfg, s.err
}

func testConfig(baseFare, perKmRate float64) *stubConfigSource {
	return &stubConfigSource{cfg: &pricing.Config{
		BaseFare:  baseFare,
		PerKMRate: perKmRate,
	}}
}

// TestHaversine_KnownDistance checks the formula against a well-known
// city pair: New York to Boston is about 306 km
func TestHaversine_KnownDistance(t *testing.T) {
	distance := Haversine(40.7128, -74.0060, 42.3601, -71.0589)

	assert.InDelta(t, 306, distance, 5, "NYC to Boston should be around 306 km")
}

// TestHaversine_ZeroDistance tests identical endpoints
func TestHaversine_ZeroDistance(t *testing.T) {
	distance := Haversine(12.9716, 77.5946, 12.9716, 77.5946)

	assert.Equal(t, 0.0, distance)
}

// TestHaversine_Symmetry tests that distance is direction-independent
func TestHaversine_Symmetry(t *testing.T) {
	forward := Haversine(40.7128, -74.0060, 42.3601, -71.0589)
	backward := Haversine(42.3601, -71.0589, 40.7128, -74.0060)

	assert.InDelta(t, forward, backward, 1e-9)
}

// TestEstimate_LinearFare tests fare = baseFare + perKmRate * distance
func TestEstimate_LinearFare(t *testing.T) {
	estimator := NewEstimator(testConfig(500, 100))

	est, err := estimator.Estimate(context.Background(),
		triprequest.Place{Longitude: -74.0060, Latitude: 40.7128},
		triprequest.Place{Longitude: -71.0589, Latitude: 42.3601},
	)
	require.NoError(t, err)

	assert.InDelta(t, 306, est.DistanceKM, 5)
	assert.InDelta(t, 500+100*est.DistanceKM, est.Fare, 0.01)
}

// TestEstimate_ZeroDistanceFare tests that a zero-length trip costs
// exactly the base fare
func TestEstimate_ZeroDistanceFare(t *testing.T) {
	estimator := NewEstimator(testConfig(50, 10))

	place := triprequest.Place{Longitude: 77.5946, Latitude: 12.9716}
	est, err := estimator.Estimate(context.Background(), place, place)
	require.NoError(t, err)

	assert.Equal(t, 0.0, est.DistanceKM)
	assert.Equal(t, 50.0, est.Fare, "Zero distance should cost the base fare")
}

// TestEstimate_Rounding tests that distance and fare are rounded to two
// decimal places
func TestEstimate_Rounding(t *testing.T) {
	estimator := NewEstimator(testConfig(10, 1))

	est, err := estimator.Estimate(context.Background(),
		triprequest.Place{Longitude: 77.5946, Latitude: 12.9716},
		triprequest.Place{Longitude: 77.6408, Latitude: 12.9784},
	)
	require.NoError(t, err)

	assert.Equal(t, est.DistanceKM, math.Round(est.DistanceKM*100)/100)
	assert.Equal(t, est.Fare, math.Round(est.Fare*100)/100)
}

// TestEstimate_MonotonicInDistance tests that a longer trip never costs
// less under a non-negative rate
func TestEstimate_MonotonicInDistance(t *testing.T) {
	estimator := NewEstimator(testConfig(50, 10))
	origin := triprequest.Place{Longitude: 77.5946, Latitude: 12.9716}

	short, err := estimator.Estimate(context.Background(), origin,
		triprequest.Place{Longitude: 77.6408, Latitude: 12.9784})
	require.NoError(t, err)

	long, err := estimator.Estimate(context.Background(), origin,
		triprequest.Place{Longitude: 77.7946, Latitude: 12.9716})
	require.NoError(t, err)

	assert.Greater(t, long.DistanceKM, short.DistanceKM)
	assert.GreaterOrEqual(t, long.Fare, short.Fare)
}

// TestEstimate_NoActiveConfig tests that estimation fails fast when no
// pricing config is in force
func TestEstimate_NoActiveConfig(t *testing.T) {
	estimator := NewEstimator(&stubConfigSource{err: pricing.ErrNoActiveConfig})

	_, err := estimator.Estimate(context.Background(),
		triprequest.Place{Longitude: 77.5946, Latitude: 12.9716},
		triprequest.Place{Longitude: 77.6408, Latitude: 12.9784},
	)
	assert.ErrorIs(t, err, pricing.ErrNoActiveConfig)
}

// BenchmarkHaversine benchmarks the distance calculation
func BenchmarkHaversine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Haversine(40.7128, -74.0060, 42.3601, -71.0589)
	}
}
