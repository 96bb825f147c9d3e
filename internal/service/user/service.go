package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/auth"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Service handles rider and driver registration and login
type Service struct {
	users  user.Repository
	tokens *auth.TokenIssuer
	logger *logger.Logger
}

// NewService creates a user Service
func NewService(users user.Repository, tokens *auth.TokenIssuer, logger *logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput is the registration payload
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	UserType user.Type
}

// LoginResult carries the issued bearer token
type LoginResult struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
}

// Register creates a new rider or driver with a hashed password
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	if !in.UserType.IsValid() {
		return nil, apperrors.BadRequest("User type must be RIDER or DRIVER", user.ErrInvalidType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		UserType:     in.UserType,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.logger.Info("User registered",
		logger.String("user_id", u.ID.String()),
		logger.String("user_type", string(u.UserType)),
	)

	return u, nil
}

// Login verifies credentials and issues a bearer token
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &LoginResult{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}

// Get returns a user by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}
	return u, nil
}

// List returns a page of users
func (s *Service) List(ctx context.Context, page, limit int) (*user.Page, error) {
	result, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}
	return result, nil
}
