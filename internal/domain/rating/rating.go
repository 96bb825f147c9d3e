package rating

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating is feedback left about a user after a trip. Riders rate drivers
// and drivers rate riders; both land in the same table keyed by the rated
// user.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	RaterID   uuid.UUID `json:"rater_id"`
	Score     int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is a user's ratings plus their running average. AvgRating is 0
// when the user has no ratings yet.
type Summary struct {
	Ratings   []*Rating `json:"ratings"`
	AvgRating float64   `json:"avg_rating"`
}

// Repository defines rating data access
type Repository interface {
	Create(ctx context.Context, r *Rating) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rating, error)
	Update(ctx context.Context, r *Rating) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Rating, error)
}

// Validate checks the score bounds and required ids
func (r *Rating) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrMissingUser
	}
	if r.Score < MinScore || r.Score > MaxScore {
		return ErrScoreOutOfRange
	}
	return nil
}

const (
	MinScore = 1
	MaxScore = 5
)

var (
	ErrNotFound        = errors.New("rating not found")
	ErrMissingUser     = errors.New("rating has no rated user")
	ErrScoreOutOfRange = errors.New("rating score out of range")
)
