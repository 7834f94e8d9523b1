package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/impulsa-uc/impulsa-api/internal/dto"
	"github.com/impulsa-uc/impulsa-api/internal/models"
	"github.com/impulsa-uc/impulsa-api/internal/repository"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

type enrollmentLister interface {
	ListDetailsByProfile(ctx context.Context, profileID string) ([]models.EnrollmentDetail, error)
}

type instructorWorkshopReader interface {
	ListDetailsByInstructor(ctx context.Context, instructorID string) ([]models.WorkshopDetail, error)
	CountByInstructor(ctx context.Context, instructorID string) (int, error)
}

type ratingAggregator interface {
	AggregateByWorkshops(ctx context.Context, workshopIDs []string) (map[string]repository.WorkshopAggregate, error)
	InstructorAggregate(ctx context.Context, instructorID string) (average float64, total int, err error)
}

// ProfileService serves the "my account" surface: the profile itself,
// its enrollments, its proposals and the impulsor reputation.
type ProfileService struct {
	profiles    profileRepository
	enrollments enrollmentLister
	workshops   instructorWorkshopReader
	ratings     ratingAggregator
	logger      *zap.Logger
	now         func() time.Time
}

// NewProfileService constructs ProfileService.
func NewProfileService(profiles profileRepository, enrollments enrollmentLister, workshops instructorWorkshopReader, ratings ratingAggregator, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		profiles:    profiles,
		enrollments: enrollments,
		workshops:   workshops,
		ratings:     ratings,
		logger:      logger,
		now:         time.Now,
	}
}

// Get loads a profile by ID.
func (s *ProfileService) Get(ctx context.Context, profileID string) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// Enrollments returns the caller's bookings split into upcoming and
// past by workshop date. A workshop without an assigned date has not
// happened yet, so it counts as upcoming.
func (s *ProfileService) Enrollments(ctx context.Context, profileID string) (*dto.UserEnrollments, error) {
	details, err := s.enrollments.ListDetailsByProfile(ctx, profileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	result := &dto.UserEnrollments{
		Upcoming: []models.EnrollmentDetail{},
		Past:     []models.EnrollmentDetail{},
	}
	for _, detail := range details {
		if detail.Date != nil && detail.Date.Before(today) {
			result.Past = append(result.Past, detail)
		} else {
			result.Upcoming = append(result.Upcoming, detail)
		}
	}
	return result, nil
}

// Proposals returns an impulsor's own workshops annotated with rating
// aggregates. Workshops nobody has rated carry a nil average.
func (s *ProfileService) Proposals(ctx context.Context, instructorID string) ([]dto.ProposalSummary, error) {
	workshops, err := s.workshops.ListDetailsByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}

	ids := make([]string, 0, len(workshops))
	for _, w := range workshops {
		ids = append(ids, w.ID)
	}
	aggregates, err := s.ratings.AggregateByWorkshops(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate ratings")
	}

	summaries := make([]dto.ProposalSummary, 0, len(workshops))
	for _, w := range workshops {
		summary := dto.ProposalSummary{WorkshopDetail: w}
		if agg, ok := aggregates[w.ID]; ok {
			avg := roundToTenth(agg.Average)
			summary.AvgRating = &avg
			summary.RatingsCount = agg.Count
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Reputation aggregates the impulsor's standing across all of their
// workshops. An impulsor with no workshops, or with workshops nobody
// has rated yet, gets a zero average rather than an error.
func (s *ProfileService) Reputation(ctx context.Context, instructorID string) (*models.ReputationSummary, error) {
	workshopCount, err := s.workshops.CountByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count workshops")
	}
	if workshopCount == 0 {
		return &models.ReputationSummary{}, nil
	}

	average, total, err := s.ratings.InstructorAggregate(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate reputation")
	}
	return &models.ReputationSummary{
		Average:       roundToTenth(average),
		TotalRatings:  total,
		WorkshopCount: workshopCount,
	}, nil
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
