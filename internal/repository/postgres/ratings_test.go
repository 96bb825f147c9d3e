package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithilesh-08/ride-hailing/internal/domain/rating"
)

func newRatingMock(t *testing.T) (*RatingRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRatingRepository(db), mock
}

var ratingColumns = []string{"id", "user_id", "rater_id", "rating", "coalesce", "created_at", "updated_at"}

// TestCreateRating tests the insert statement
func TestCreateRating(t *testing.T) {
	repo, mock := newRatingMock(t)

	rt := &rating.Rating{
		UserID:  uuid.New(),
		RaterID: uuid.New(),
		Score:   5,
		Comment: "smooth ride",
	}

	mock.ExpectExec("INSERT INTO ratings").
		WithArgs(sqlmock.AnyArg(), rt.UserID, rt.RaterID, 5, "smooth ride").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), rt)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGetRatingByID_NotFound tests the missing-row mapping
func TestGetRatingByID_NotFound(t *testing.T) {
	repo, mock := newRatingMock(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM ratings").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(ratingColumns))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, rating.ErrNotFound)
}

// TestUpdateRating tests that the update targets score and comment only
func TestUpdateRating(t *testing.T) {
	repo, mock := newRatingMock(t)

	rt := &rating.Rating{
		ID:      uuid.New(),
		Score:   3,
		Comment: "late pickup",
	}

	mock.ExpectExec("UPDATE ratings").
		WithArgs(3, "late pickup", rt.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), rt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdateRating_NotFound tests the zero-rows-affected mapping
func TestUpdateRating_NotFound(t *testing.T) {
	repo, mock := newRatingMock(t)

	rt := &rating.Rating{ID: uuid.New(), Score: 4}

	mock.ExpectExec("UPDATE ratings").
		WithArgs(4, "", rt.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), rt)
	assert.ErrorIs(t, err, rating.ErrNotFound)
}

// TestDeleteRating tests delete plus the zero-rows-affected mapping
func TestDeleteRating(t *testing.T) {
	repo, mock := newRatingMock(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM ratings").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec("DELETE FROM ratings").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), id), rating.ErrNotFound)
}

// TestListRatingsByUser tests row mapping and ordering args
func TestListRatingsByUser(t *testing.T) {
	repo, mock := newRatingMock(t)
	userID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(ratingColumns).
		AddRow(uuid.New(), userID, uuid.New(), 5, "great", now, now).
		AddRow(uuid.New(), userID, uuid.New(), 4, "", now, now)

	mock.ExpectQuery("FROM ratings(.+)WHERE user_id = \\$1(.+)ORDER BY created_at DESC").
		WithArgs(userID).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Score)
	assert.Equal(t, "great", got[0].Comment)
	assert.Equal(t, userID, got[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
