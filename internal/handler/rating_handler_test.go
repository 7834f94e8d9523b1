package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa-uc/impulsa-api/internal/middleware"
	"github.com/impulsa-uc/impulsa-api/internal/models"
	"github.com/impulsa-uc/impulsa-api/internal/service"
)

type fakeRatingRepo struct {
	stored *models.Rating
}

func (f *fakeRatingRepo) Upsert(_ context.Context, rating *models.Rating) error {
	rating.ID = "rating-1"
	f.stored = rating
	return nil
}

func (f *fakeRatingRepo) FindByWorkshopAndProfile(context.Context, string, string) (*models.Rating, error) {
	if f.stored != nil {
		return f.stored, nil
	}
	return nil, sql.ErrNoRows
}

type fakeWorkshopFinder struct{}

func (fakeWorkshopFinder) FindByID(_ context.Context, id string) (*models.Workshop, error) {
	if id == "ws-1" {
		return &models.Workshop{ID: id, Status: models.WorkshopStatusPublished}, nil
	}
	return nil, sql.ErrNoRows
}

func ratingContext(t *testing.T, method string, payload []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, "/workshops/ws-1/rating", bytes.NewReader(payload))
	c.Params = gin.Params{{Key: "id", Value: "ws-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{ProfileID: "profile-1"})
	return c, rec
}

func TestRatingHandlerSubmit(t *testing.T) {
	repo := &fakeRatingRepo{}
	handler := NewRatingHandler(service.NewRatingService(repo, fakeWorkshopFinder{}, nil))

	c, rec := ratingContext(t, http.MethodPut, []byte(`{"rating":4,"comment":"muy bueno"}`))
	handler.Submit(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.stored)
	assert.Equal(t, 4, repo.stored.Rating)
	assert.Equal(t, "profile-1", repo.stored.ProfileID)
}

func TestRatingHandlerSubmitOutOfRange(t *testing.T) {
	handler := NewRatingHandler(service.NewRatingService(&fakeRatingRepo{}, fakeWorkshopFinder{}, nil))

	c, rec := ratingContext(t, http.MethodPut, []byte(`{"rating":9}`))
	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_RATING", body.Error.Code)
}

func TestRatingHandlerGetNone(t *testing.T) {
	handler := NewRatingHandler(service.NewRatingService(&fakeRatingRepo{}, fakeWorkshopFinder{}, nil))

	c, rec := ratingContext(t, http.MethodGet, nil)
	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Data)
}
