package pricing

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/mithilesh-08/ride-hailing/internal/domain/pricing"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
)

// earthRadiusKM is the mean Earth radius used by the haversine formula
const earthRadiusKM = 6371

// ConfigSource resolves the pricing config in force at a point in time
type ConfigSource interface {
	ActiveAt(ctx context.Context, at time.Time) (*pricing.Config, error)
}

// Estimate is the estimator's output
type Estimate struct {
	DistanceKM float64 `json:"distance"`
	Fare       float64 `json:"fare"`
}

// Estimator computes trip distance and fare from the active pricing config
type Estimator struct {
	configs ConfigSource
}

// NewEstimator creates an Estimator
func NewEstimator(configs ConfigSource) *Estimator {
	return &Estimator{configs: configs}
}

// Estimate computes haversine distance between pickup and dropoff and the
// linear fare baseFare + perKmRate * distance, both rounded to 2 decimals.
// Fails before any fare arithmetic when no pricing config is effective.
func (e *Estimator) Estimate(ctx context.Context, pickup, dropoff triprequest.Place) (*Estimate, error) {
	cfg, err := e.configs.ActiveAt(ctx, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pricing.ErrNoActiveConfig) {
			return nil, apperrors.NotFound("No pricing configuration found", err)
		}
		return nil, err
	}
	if cfg == nil {
		return nil, apperrors.NotFound("No pricing configuration found", pricing.ErrNoActiveConfig)
	}

	distance := round2(Haversine(pickup.Latitude, pickup.Longitude, dropoff.Latitude, dropoff.Longitude))
	fare := round2(cfg.BaseFare + cfg.PerKMRate*distance)

	return &Estimate{
		DistanceKM: distance,
		Fare:       fare,
	}, nil
}

// Haversine returns the great-circle distance in kilometers between two
// latitude/longitude points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
