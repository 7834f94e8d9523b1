package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

type ratingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	FindByWorkshopAndProfile(ctx context.Context, workshopID, profileID string) (*models.Rating, error)
}

type workshopFinder interface {
	FindByID(ctx context.Context, id string) (*models.Workshop, error)
}

// SubmitRatingRequest is a user's score for a workshop they attended.
type SubmitRatingRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// RatingService records workshop ratings. Submissions are idempotent
// per (workshop, profile): re-rating overwrites the previous score.
type RatingService struct {
	ratings   ratingRepository
	workshops workshopFinder
	logger    *zap.Logger
}

// NewRatingService constructs RatingService.
func NewRatingService(ratings ratingRepository, workshops workshopFinder, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{ratings: ratings, workshops: workshops, logger: logger}
}

// Submit stores the caller's rating for a workshop, replacing any
// previous rating they gave it.
func (s *RatingService) Submit(ctx context.Context, workshopID, profileID string, req SubmitRatingRequest) (*models.Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, appErrors.ErrInvalidRating
	}

	if _, err := s.workshops.FindByID(ctx, workshopID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}

	comment := req.Comment
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}

	rating := &models.Rating{
		WorkshopID: workshopID,
		ProfileID:  profileID,
		Rating:     req.Rating,
		Comment:    comment,
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save rating")
	}

	s.logger.Info("rating recorded",
		zap.String("workshop_id", workshopID),
		zap.String("profile_id", profileID),
		zap.Int("rating", req.Rating),
	)
	return rating, nil
}

// UserRating returns the caller's rating for a workshop, or nil when
// they have not rated it.
func (s *RatingService) UserRating(ctx context.Context, workshopID, profileID string) (*models.Rating, error) {
	rating, err := s.ratings.FindByWorkshopAndProfile(ctx, workshopID, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rating")
	}
	return rating, nil
}
