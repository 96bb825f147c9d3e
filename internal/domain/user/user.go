package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type distinguishes riders from drivers
type Type string

const (
	TypeRider  Type = "RIDER"
	TypeDriver Type = "DRIVER"
)

// User represents a registered rider or driver
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     Type      `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Page is a paginated listing of users
type Page struct {
	Rows       []*User `json:"results"`
	Count      int     `json:"total_count"`
	PageNumber int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}

// Repository defines user data access
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page, limit int) (*Page, error)
}

// IsValid validates the user type
func (t Type) IsValid() bool {
	switch t {
	case TypeRider, TypeDriver:
		return true
	}
	return false
}

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidType = errors.New("invalid user type")
)
