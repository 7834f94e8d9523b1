package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

func TestRatingRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ratings`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rating := &models.Rating{WorkshopID: "ws-1", ProfileID: "profile-1", Rating: 5}
	err := repo.Upsert(context.Background(), rating)
	require.NoError(t, err)
	assert.NotEmpty(t, rating.ID)
	assert.False(t, rating.CreatedAt.IsZero())
}

func TestRatingRepositoryUpsertMissingReference(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ratings`)).
		WillReturnError(&pq.Error{Code: "23503"})

	rating := &models.Rating{WorkshopID: "ws-gone", ProfileID: "profile-1", Rating: 4}
	err := repo.Upsert(context.Background(), rating)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRatingRepositoryAggregateByWorkshops(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	rows := sqlmock.NewRows([]string{"workshop_id", "average", "count"}).
		AddRow("ws-1", 4.25, 8).
		AddRow("ws-2", 3.0, 2)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT workshop_id, AVG(rating) AS average, COUNT(*) AS count`)).
		WithArgs(pq.Array([]string{"ws-1", "ws-2", "ws-3"})).
		WillReturnRows(rows)

	aggregates, err := repo.AggregateByWorkshops(context.Background(), []string{"ws-1", "ws-2", "ws-3"})
	require.NoError(t, err)
	require.Len(t, aggregates, 2)
	assert.Equal(t, 4.25, aggregates["ws-1"].Average)
	assert.Equal(t, 8, aggregates["ws-1"].Count)
	_, ok := aggregates["ws-3"]
	assert.False(t, ok)
}

func TestRatingRepositoryAggregateByWorkshopsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	aggregates, err := repo.AggregateByWorkshops(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, aggregates)
}

func TestRatingRepositoryInstructorAggregate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	rows := sqlmock.NewRows([]string{"average", "count"}).AddRow(4.333333, 9)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(AVG(r.rating), 0) AS average`)).
		WithArgs("profile-1").
		WillReturnRows(rows)

	average, total, err := repo.InstructorAggregate(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.333333, average, 0.0001)
	assert.Equal(t, 9, total)
}

func TestRatingRepositoryInstructorAggregateNoRatings(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	rows := sqlmock.NewRows([]string{"average", "count"}).AddRow(0, 0)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(AVG(r.rating), 0) AS average`)).
		WithArgs("profile-1").
		WillReturnRows(rows)

	average, total, err := repo.InstructorAggregate(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Zero(t, average)
	assert.Zero(t, total)
}
