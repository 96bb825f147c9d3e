package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/rating"
)

// RatingRepository persists user ratings via database/sql
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a RatingRepository
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a new rating
func (r *RatingRepository) Create(ctx context.Context, rt *rating.Rating) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ratings (id, user_id, rater_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, rt.ID, rt.UserID, rt.RaterID, rt.Score, rt.Comment)

	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// GetByID retrieves a rating by id
func (r *RatingRepository) GetByID(ctx context.Context, id uuid.UUID) (*rating.Rating, error) {
	var rt rating.Rating
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, rater_id, rating, COALESCE(comment, ''), created_at, updated_at
		FROM ratings
		WHERE id = $1
	`, id).Scan(&rt.ID, &rt.UserID, &rt.RaterID, &rt.Score, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, rating.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rt, nil
}

// Update rewrites the score and comment of an existing rating
func (r *RatingRepository) Update(ctx context.Context, rt *rating.Rating) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ratings
		SET rating = $1, comment = $2, updated_at = NOW()
		WHERE id = $3
	`, rt.Score, rt.Comment, rt.ID)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return rating.ErrNotFound
	}
	return nil
}

// Delete removes a rating
func (r *RatingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM ratings WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return rating.ErrNotFound
	}
	return nil
}

// ListByUser returns all ratings left about a user, newest first
func (r *RatingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*rating.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, rater_id, rating, COALESCE(comment, ''), created_at, updated_at
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]*rating.Rating, 0)
	for rows.Next() {
		var rt rating.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.RaterID, &rt.Score, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings = append(ratings, &rt)
	}
	return ratings, rows.Err()
}
