package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mithilesh-08/ride-hailing/internal/auth"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// memoryUserRepo is an in-memory user.Repository
type memoryUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return user.ErrEmailTaken
	}
	copied := *u
	r.byID[u.ID] = &copied
	r.byEmail[u.Email] = &copied
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) List(ctx context.Context, page, limit int) (*user.Page, error) {
	rows := make([]*user.User, 0, len(r.byID))
	for _, u := range r.byID {
		copied := *u
		rows = append(rows, &copied)
	}
	return &user.Page{Rows: rows, Count: len(rows), PageNumber: page, TotalPages: 1}, nil
}

func newUserService() (*Service, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, tokens, logger.NewNop()), repo
}

// TestRegister_HashesPassword tests that the stored hash verifies against
// the plaintext and the plaintext is never stored
func TestRegister_HashesPassword(t *testing.T) {
	svc, repo := newUserService()

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		UserType: user.TypeRider,
	})
	require.NoError(t, err)

	stored := repo.byEmail["asha@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, u.ID, stored.ID)
}

// TestRegister_InvalidType tests rejection of unknown user types
func TestRegister_InvalidType(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		UserType: user.Type("ADMIN"),
	})

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// TestRegister_DuplicateEmail tests the email uniqueness conflict
func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	in := RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		UserType: user.TypeRider,
	}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

// TestLogin_Roundtrip tests register-then-login issues a verifiable token
func TestLogin_Roundtrip(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Name:     "Dev",
		Email:    "dev@example.com",
		Password: "driver-pass",
		UserType: user.TypeDriver,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "dev@example.com", "driver-pass")
	require.NoError(t, err)

	assert.Equal(t, registered.ID, result.UserID)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	claims, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, user.TypeDriver, claims.UserType)
}

// TestLogin_WrongPassword tests that the same error hides whether the
// email exists
func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Name:     "Dev",
		Email:    "dev@example.com",
		Password: "driver-pass",
		UserType: user.TypeDriver,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "dev@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "driver-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
