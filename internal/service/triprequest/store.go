package triprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix is the payload namespace; the full key is trip:requests:<id>
	keyPrefix = "trip:requests:"
	// geoKey holds the pickup coordinates of every live request
	geoKey = "trip:requests:geo"

	// DefaultTTL is how long a request stays acceptable
	DefaultTTL = 5 * time.Minute
)

// Store manages ephemeral trip requests in Redis: a JSON payload per
// request plus a shared geo-sorted index over pickup coordinates. The
// payload carries the TTL; the index entry is removed on delete or claim
// and may briefly outlive an expired payload, which nearby queries
// tolerate by dropping dead ids.
type Store struct {
	client *redis.Client
	logger *logger.Logger
	ttl    time.Duration
}

// NewStore creates a Store. A non-positive ttl falls back to DefaultTTL.
func NewStore(client *redis.Client, logger *logger.Logger, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Create assigns an id (when absent) and creation time, stores the JSON
// payload with the TTL, and indexes the pickup point.
func (s *Store) Create(ctx context.Context, req *triprequest.TripRequest) (*triprequest.TripRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stored := *req
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trip request: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+stored.ID, payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store trip request: %w", err)
	}

	if err := s.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      stored.ID,
		Longitude: stored.Pickup.Longitude,
		Latitude:  stored.Pickup.Latitude,
	}).Err(); err != nil {
		// Keep payload and index consistent when the second write fails.
		s.client.Del(ctx, keyPrefix+stored.ID)
		return nil, fmt.Errorf("failed to index trip request: %w", err)
	}

	s.logger.Info("Trip request stored",
		logger.String("trip_request_id", stored.ID),
		logger.String("rider_id", stored.RiderID),
		logger.Float64("pickup_lon", stored.Pickup.Longitude),
		logger.Float64("pickup_lat", stored.Pickup.Latitude),
	)

	return &stored, nil
}

// Nearby returns live trip requests within radiusKm of the point, closest
// first, capped at limit. Requests whose payload expired between indexing
// and fetch are dropped silently. Distance comes from the geo index and is
// not recomputed.
func (s *Store) Nearby(ctx context.Context, lon, lat, radiusKm float64, limit int) ([]*triprequest.Match, error) {
	if radiusKm <= 0 {
		radiusKm = 5
	}
	if limit <= 0 {
		limit = 20
	}

	results, err := s.client.GeoRadius(ctx, geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Count:    limit,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby trip requests: %w", err)
	}

	if len(results) == 0 {
		return []*triprequest.Match{}, nil
	}

	matches := make([]*triprequest.Match, 0, len(results))
	for _, result := range results {
		payload, err := s.client.Get(ctx, keyPrefix+result.Name).Result()
		if err == redis.Nil {
			// Payload expired but the index entry survived.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch trip request %s: %w", result.Name, err)
		}

		var req triprequest.TripRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			s.logger.Warn("Dropping undecodable trip request payload",
				logger.String("trip_request_id", result.Name),
				logger.Err(err),
			)
			continue
		}

		matches = append(matches, &triprequest.Match{
			TripRequest: req,
			Distance:    result.Dist,
		})
	}

	return matches, nil
}

// Get fetches a trip request by id. Returns triprequest.ErrNotFound when
// the payload is missing or expired.
func (s *Store) Get(ctx context.Context, id string) (*triprequest.TripRequest, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return nil, triprequest.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trip request: %w", err)
	}

	var req triprequest.TripRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("failed to decode trip request: %w", err)
	}
	return &req, nil
}

// Delete removes a trip request from the index and drops its payload.
// Best-effort: errors are logged and reported as false, never propagated,
// since deletion normally runs after the request has already served its
// purpose.
func (s *Store) Delete(ctx context.Context, id string) bool {
	if err := s.client.ZRem(ctx, geoKey, id).Err(); err != nil {
		s.logger.Error("Failed to remove trip request from geo index",
			logger.String("trip_request_id", id),
			logger.Err(err),
		)
		return false
	}

	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		s.logger.Error("Failed to delete trip request payload",
			logger.String("trip_request_id", id),
			logger.Err(err),
		)
		return false
	}

	return true
}

// Claim atomically takes ownership of a trip request. GETDEL guarantees
// that of any number of concurrent claimers exactly one receives the
// payload; the rest see ErrNotFound and must re-poll. The geo index entry
// is removed best-effort afterwards.
func (s *Store) Claim(ctx context.Context, id string) (*triprequest.TripRequest, error) {
	payload, err := s.client.GetDel(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return nil, triprequest.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim trip request: %w", err)
	}

	if err := s.client.ZRem(ctx, geoKey, id).Err(); err != nil {
		// The payload is gone, so nearby queries will skip this id anyway.
		s.logger.Warn("Failed to remove claimed trip request from geo index",
			logger.String("trip_request_id", id),
			logger.Err(err),
		)
	}

	var req triprequest.TripRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("failed to decode claimed trip request: %w", err)
	}
	return &req, nil
}

// IsNotFound reports whether err means the request is gone or expired
func IsNotFound(err error) bool {
	return errors.Is(err, triprequest.ErrNotFound)
}
