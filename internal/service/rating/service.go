package rating

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/rating"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// Service manages user ratings and per-user averages
type Service struct {
	ratings rating.Repository
	logger  *logger.Logger
}

// NewService creates a rating Service
func NewService(ratings rating.Repository, logger *logger.Logger) *Service {
	return &Service{ratings: ratings, logger: logger}
}

// CreateInput is a new rating. RaterID comes from the authenticated
// caller, never the payload.
type CreateInput struct {
	UserID  uuid.UUID
	RaterID uuid.UUID
	Score   int
	Comment string
}

// Create records a rating about a user
func (s *Service) Create(ctx context.Context, in CreateInput) (*rating.Rating, error) {
	rt := &rating.Rating{
		ID:      uuid.New(),
		UserID:  in.UserID,
		RaterID: in.RaterID,
		Score:   in.Score,
		Comment: in.Comment,
	}
	if err := rt.Validate(); err != nil {
		return nil, apperrors.BadRequest("Invalid rating", err)
	}

	if err := s.ratings.Create(ctx, rt); err != nil {
		return nil, apperrors.Internal("Failed to create rating", err)
	}

	s.logger.Info("Rating created",
		logger.String("rating_id", rt.ID.String()),
		logger.String("user_id", rt.UserID.String()),
		logger.Int("score", rt.Score),
	)
	return rt, nil
}

// Update rewrites the score and comment of a rating. Only the user who
// left the rating may change it.
func (s *Service) Update(ctx context.Context, id, raterID uuid.UUID, score int, comment string) (*rating.Rating, error) {
	rt, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Failed to load rating")
	}
	if rt.RaterID != raterID {
		return nil, apperrors.Forbidden("Rating belongs to another user", nil)
	}

	rt.Score = score
	rt.Comment = comment
	if err := rt.Validate(); err != nil {
		return nil, apperrors.BadRequest("Invalid rating", err)
	}

	if err := s.ratings.Update(ctx, rt); err != nil {
		return nil, notFoundOr(err, "Failed to update rating")
	}
	return s.ratings.GetByID(ctx, id)
}

// Delete removes a rating. Only the user who left it may delete it.
func (s *Service) Delete(ctx context.Context, id, raterID uuid.UUID) error {
	rt, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Failed to load rating")
	}
	if rt.RaterID != raterID {
		return apperrors.Forbidden("Rating belongs to another user", nil)
	}

	if err := s.ratings.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Failed to delete rating")
	}
	return nil
}

// SummaryFor returns a user's ratings plus their average score. A user
// with no ratings gets an empty list and a zero average.
func (s *Service) SummaryFor(ctx context.Context, userID uuid.UUID) (*rating.Summary, error) {
	ratings, err := s.ratings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list ratings", err)
	}

	var total int
	for _, rt := range ratings {
		total += rt.Score
	}
	avg := 0.0
	if len(ratings) > 0 {
		avg = float64(total) / float64(len(ratings))
	}

	return &rating.Summary{Ratings: ratings, AvgRating: avg}, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, rating.ErrNotFound) {
		return apperrors.NotFound("Rating not found", err)
	}
	return apperrors.Internal(message, err)
}
