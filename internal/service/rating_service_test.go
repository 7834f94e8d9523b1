package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

type mockRatingRepo struct {
	stored    map[string]*models.Rating
	upsertErr error
}

func ratingKey(workshopID, profileID string) string {
	return workshopID + "/" + profileID
}

func (m *mockRatingRepo) Upsert(_ context.Context, rating *models.Rating) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.stored == nil {
		m.stored = make(map[string]*models.Rating)
	}
	rating.ID = "rating-1"
	m.stored[ratingKey(rating.WorkshopID, rating.ProfileID)] = rating
	return nil
}

func (m *mockRatingRepo) FindByWorkshopAndProfile(_ context.Context, workshopID, profileID string) (*models.Rating, error) {
	if r, ok := m.stored[ratingKey(workshopID, profileID)]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

type mockWorkshopFinder struct {
	workshops map[string]*models.Workshop
}

func (m *mockWorkshopFinder) FindByID(_ context.Context, id string) (*models.Workshop, error) {
	if w, ok := m.workshops[id]; ok {
		return w, nil
	}
	return nil, sql.ErrNoRows
}

func newRatingService(repo *mockRatingRepo) *RatingService {
	finder := &mockWorkshopFinder{workshops: map[string]*models.Workshop{
		"ws-1": {ID: "ws-1", Status: models.WorkshopStatusPublished},
	}}
	return NewRatingService(repo, finder, nil)
}

func TestRatingServiceSubmit(t *testing.T) {
	repo := &mockRatingRepo{}
	svc := newRatingService(repo)

	comment := "  excelente taller  "
	rating, err := svc.Submit(context.Background(), "ws-1", "profile-1", SubmitRatingRequest{Rating: 5, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)
	require.NotNil(t, rating.Comment)
	assert.Equal(t, "excelente taller", *rating.Comment)
	require.Len(t, repo.stored, 1)
}

func TestRatingServiceSubmitOverwrites(t *testing.T) {
	repo := &mockRatingRepo{}
	svc := newRatingService(repo)

	_, err := svc.Submit(context.Background(), "ws-1", "profile-1", SubmitRatingRequest{Rating: 2})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "ws-1", "profile-1", SubmitRatingRequest{Rating: 4})
	require.NoError(t, err)

	require.Len(t, repo.stored, 1)
	assert.Equal(t, 4, repo.stored[ratingKey("ws-1", "profile-1")].Rating)
}

func TestRatingServiceSubmitOutOfRange(t *testing.T) {
	svc := newRatingService(&mockRatingRepo{})

	for _, value := range []int{0, -1, 6, 100} {
		_, err := svc.Submit(context.Background(), "ws-1", "profile-1", SubmitRatingRequest{Rating: value})
		assert.ErrorIs(t, err, appErrors.ErrInvalidRating)
	}
}

func TestRatingServiceSubmitUnknownWorkshop(t *testing.T) {
	svc := newRatingService(&mockRatingRepo{})

	_, err := svc.Submit(context.Background(), "ws-missing", "profile-1", SubmitRatingRequest{Rating: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRatingServiceSubmitKeepsTypedRepositoryError(t *testing.T) {
	repo := &mockRatingRepo{upsertErr: appErrors.Clone(appErrors.ErrNotFound, "workshop or profile not found")}
	svc := newRatingService(repo)

	_, err := svc.Submit(context.Background(), "ws-1", "profile-1", SubmitRatingRequest{Rating: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRatingServiceSubmitBlankCommentDropped(t *testing.T) {
	repo := &mockRatingRepo{}
	svc := newRatingService(repo)

	blank := "   "
	rating, err := svc.Submit(context.Background(), "ws-1", "profile-1", SubmitRatingRequest{Rating: 3, Comment: &blank})
	require.NoError(t, err)
	assert.Nil(t, rating.Comment)
}

func TestRatingServiceUserRatingNone(t *testing.T) {
	svc := newRatingService(&mockRatingRepo{})

	rating, err := svc.UserRating(context.Background(), "ws-1", "profile-1")
	require.NoError(t, err)
	assert.Nil(t, rating)
}
