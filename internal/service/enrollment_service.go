package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

type enrollmentRepository interface {
	Enroll(ctx context.Context, profileID, workshopID string) (*models.Enrollment, error)
	ListDetailsByProfile(ctx context.Context, profileID string) ([]models.EnrollmentDetail, error)
}

type profileReader interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// EnrollmentService books profiles into published workshops. The
// capacity and uniqueness guarantees live in the repository's
// transaction; this layer resolves the caller and classifies outcomes.
type EnrollmentService struct {
	repo     enrollmentRepository
	profiles profileReader
	metrics  enrollmentObserver
	logger   *zap.Logger
}

type enrollmentObserver interface {
	ObserveEnrollment(outcome string)
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, profiles profileReader, metrics enrollmentObserver, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, profiles: profiles, metrics: metrics, logger: logger}
}

// Enroll books the profile into the workshop. Exactly one enrollment
// row is created on success; every failure leaves no trace.
func (s *EnrollmentService) Enroll(ctx context.Context, profileID, workshopID string) (*models.Enrollment, error) {
	if _, err := s.profiles.FindByID(ctx, profileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	enrollment, err := s.repo.Enroll(ctx, profileID, workshopID)
	if err != nil {
		s.observe(err)
		return nil, err
	}

	s.observeOutcome("success")
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("profile_id", profileID),
		zap.String("workshop_id", workshopID),
	)
	return enrollment, nil
}

func (s *EnrollmentService) observe(err error) {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrAlreadyEnrolled.Code:
		s.observeOutcome("already_enrolled")
	case appErrors.ErrCapacityExceeded.Code:
		s.observeOutcome("capacity_exceeded")
	case appErrors.ErrWorkshopNotPublished.Code:
		s.observeOutcome("not_published")
	case appErrors.ErrNotFound.Code:
		s.observeOutcome("not_found")
	default:
		s.observeOutcome("error")
	}
}

func (s *EnrollmentService) observeOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveEnrollment(outcome)
	}
}
