package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
)

func newTripLocationMock(t *testing.T) (*TripLocationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTripLocationRepository(db), mock
}

// TestAppendTripLocation tests the breadcrumb insert, longitude first
func TestAppendTripLocation(t *testing.T) {
	repo, mock := newTripLocationMock(t)
	tripID := uuid.New()

	mock.ExpectExec("INSERT INTO trip_locations").
		WithArgs(sqlmock.AnyArg(), tripID, 77.5946, 12.9716).
		WillReturnResult(sqlmock.NewResult(0, 1))

	loc := &trip.Location{TripID: tripID, Longitude: 77.5946, Latitude: 12.9716}
	err := repo.Append(context.Background(), loc)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, loc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestListTripLocations tests pagination math and oldest-first ordering
func TestListTripLocations(t *testing.T) {
	repo, mock := newTripLocationMock(t)
	tripID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT(.+) FROM trip_locations").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	rows := sqlmock.NewRows([]string{"id", "trip_id", "st_x", "st_y", "created_at"}).
		AddRow(uuid.New(), tripID, 77.5946, 12.9716, now).
		AddRow(uuid.New(), tripID, 77.5950, 12.9720, now.Add(5*time.Second))

	mock.ExpectQuery("FROM trip_locations(.+)ORDER BY created_at ASC").
		WithArgs(tripID, 10, 10).
		WillReturnRows(rows)

	got, err := repo.ListByTrip(context.Background(), tripID, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 25, got.Count)
	assert.Equal(t, 2, got.PageNumber)
	assert.Equal(t, 3, got.TotalPages)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, 77.5946, got.Rows[0].Longitude)
	assert.Equal(t, 12.9716, got.Rows[0].Latitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}
