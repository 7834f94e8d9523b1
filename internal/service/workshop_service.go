package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

// DefaultCapacity is applied to proposals that leave capacity unset.
// Admins can adjust it at any point before or after publication.
const DefaultCapacity = 25

type workshopRepository interface {
	ListDetails(ctx context.Context, filter models.WorkshopFilter) ([]models.WorkshopDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.WorkshopDetail, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, workshop *models.Workshop) error
}

// ProposeWorkshopRequest describes a workshop proposal payload.
type ProposeWorkshopRequest struct {
	Title       string `json:"title" validate:"required,min=10"`
	Description string `json:"description" validate:"required,min=50"`
	Category    string `json:"category" validate:"required"`
	Duration    int    `json:"duration" validate:"required,oneof=60 120 180"`
	Capacity    int    `json:"capacity" validate:"omitempty,gt=0"`
}

// WorkshopService serves the marketplace reads and the proposal flow.
type WorkshopService struct {
	repo      workshopRepository
	profiles  profileReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkshopService constructs WorkshopService.
func NewWorkshopService(repo workshopRepository, profiles profileReader, validate *validator.Validate, logger *zap.Logger) *WorkshopService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkshopService{repo: repo, profiles: profiles, validator: validate, logger: logger}
}

// ListPublished returns published workshops, optionally filtered by
// category, with live enrollment counts.
func (s *WorkshopService) ListPublished(ctx context.Context, category string) ([]models.WorkshopDetail, error) {
	filter := models.WorkshopFilter{Status: models.WorkshopStatusPublished, Category: strings.TrimSpace(category)}
	workshops, err := s.repo.ListDetails(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workshops")
	}
	return workshops, nil
}

// GetByID returns one workshop with joined names and enrollment count.
func (s *WorkshopService) GetByID(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}
	return detail, nil
}

// Categories returns the distinct categories currently published.
func (s *WorkshopService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Propose submits a workshop proposal on behalf of an impulsor. The
// proposal is created directly in pending state awaiting admin review.
func (s *WorkshopService) Propose(ctx context.Context, instructorID string, req ProposeWorkshopRequest) (*models.Workshop, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal payload")
	}

	if _, err := s.profiles.FindByID(ctx, instructorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	workshop := &models.Workshop{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Duration:     req.Duration,
		Status:       models.WorkshopStatusPending,
		InstructorID: instructorID,
		Capacity:     capacity,
	}
	if err := s.repo.Create(ctx, workshop); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create proposal")
	}

	s.logger.Info("workshop proposed",
		zap.String("workshop_id", workshop.ID),
		zap.String("instructor_id", instructorID),
		zap.String("category", workshop.Category),
	)
	return workshop, nil
}
