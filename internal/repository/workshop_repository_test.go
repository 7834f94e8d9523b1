package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/models"
)

func TestWorkshopRepositoryApprove(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkshopRepository(db)

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE workshops`)).
		WithArgs("ws-1", models.WorkshopStatusPublished, "uni-1", "room-1", date, "18:30", models.WorkshopStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Approve(context.Background(), "ws-1", "uni-1", "room-1", date, "18:30")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkshopRepositoryApproveNotPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkshopRepository(db)

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE workshops`)).
		WithArgs("ws-1", models.WorkshopStatusPublished, "uni-1", "room-1", date, "18:30", models.WorkshopStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Approve(context.Background(), "ws-1", "uni-1", "room-1", date, "18:30")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkshopRepositoryReject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkshopRepository(db)

	reason := "overlaps with an existing session"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE workshops SET status = $2, rejection_reason = $3 WHERE id = $1 AND status = $4`)).
		WithArgs("ws-1", models.WorkshopStatusRejected, &reason, models.WorkshopStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Reject(context.Background(), "ws-1", &reason)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWorkshopRepositoryStatusCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkshopRepository(db)

	rows := sqlmock.NewRows([]string{"pending", "published", "total"}).AddRow(4, 11, 20)
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER")).WillReturnRows(rows)

	pending, published, total, err := repo.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, pending)
	assert.Equal(t, 11, published)
	assert.Equal(t, 20, total)
}

func TestWorkshopRepositoryCategories(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkshopRepository(db)

	rows := sqlmock.NewRows([]string{"category"}).AddRow("arte").AddRow("tecnologia")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT category FROM workshops`)).
		WithArgs(models.WorkshopStatusPublished).
		WillReturnRows(rows)

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"arte", "tecnologia"}, categories)
}

func TestWorkshopRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkshopRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO workshops`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	workshop := &models.Workshop{
		Title:        "Introduccion a la ceramica",
		Description:  "Un taller practico de ceramica para principiantes, cubriendo modelado y esmaltado.",
		Category:     "arte",
		Duration:     120,
		Status:       models.WorkshopStatusPending,
		InstructorID: "profile-1",
		Capacity:     25,
	}
	err := repo.Create(context.Background(), workshop)
	require.NoError(t, err)
	assert.NotEmpty(t, workshop.ID)
	assert.False(t, workshop.CreatedAt.IsZero())
}
