package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
)

// UserRepository persists users via database/sql
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, user_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.UserType)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("email %s: %w", u.Email, user.ErrEmailTaken)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, user_type, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, user_type, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

// List returns a page of users with the total count
func (r *UserRepository) List(ctx context.Context, page, limit int) (*user.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash, user_type, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0, limit)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserType, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &user.Page{
		Rows:       users,
		Count:      count,
		PageNumber: page,
		TotalPages: int(math.Ceil(float64(count) / float64(limit))),
	}, nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserType, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
