package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

func TestProfileRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"id", "auth_user_id", "full_name", "email", "rut", "role", "created_at"}).
		AddRow("profile-1", "auth-1", "Ana Soto", "ana@uc.cl", "123456785", "student", time.Now().UTC())
	mock.ExpectQuery(regexp.QuoteMeta(`FROM profiles WHERE email = $1`)).
		WithArgs("ana@uc.cl").
		WillReturnRows(rows)

	profile, err := repo.FindByEmail(context.Background(), "ana@uc.cl")
	require.NoError(t, err)
	assert.Equal(t, "profile-1", profile.ID)
	assert.Equal(t, models.RoleStudent, profile.Role)
}

func TestProfileRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profiles`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &models.Profile{AuthUserID: "auth-1", FullName: "Ana Soto", Email: "ana@uc.cl", RUT: "123456785"}
	err := repo.Create(context.Background(), profile)
	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, models.RoleStudent, profile.Role)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestProfileRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profiles`)).
		WillReturnError(&pq.Error{Code: "23505"})

	profile := &models.Profile{AuthUserID: "auth-1", FullName: "Ana Soto", Email: "ana@uc.cl", RUT: "123456785"}
	err := repo.Create(context.Background(), profile)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestProfileRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM profiles`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, total)
}
