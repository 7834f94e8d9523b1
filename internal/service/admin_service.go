package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/impulsa-uc/impulsa-api/internal/dto"
	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/export"
	"github.com/impulsa-uc/impulsa-api/pkg/rut"
)

const statsCacheKey = "dashboard:stats"

type adminWorkshopRepository interface {
	ListDetails(ctx context.Context, filter models.WorkshopFilter) ([]models.WorkshopDetail, error)
	FindByID(ctx context.Context, id string) (*models.Workshop, error)
	FindDetailByID(ctx context.Context, id string) (*models.WorkshopDetail, error)
	Approve(ctx context.Context, id, universityID, roomID string, date time.Time, timeOfDay string) (bool, error)
	Reject(ctx context.Context, id string, reason *string) (bool, error)
	StatusCounts(ctx context.Context) (pending, published, total int, err error)
}

type universityReader interface {
	List(ctx context.Context) ([]models.University, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	FindRoom(ctx context.Context, id string) (*models.Room, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type participantLister interface {
	Participants(ctx context.Context, workshopID string) ([]models.Participant, error)
	Count(ctx context.Context) (int, error)
}

type profileCounter interface {
	Count(ctx context.Context) (int, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

// ApproveWorkshopRequest carries the resource assignment performed on
// approval. All four fields are set together or not at all.
type ApproveWorkshopRequest struct {
	UniversityID string `json:"university_id" validate:"required"`
	RoomID       string `json:"room_id" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required,datetime=15:04"`
}

// RejectWorkshopRequest carries the optional rejection reason.
type RejectWorkshopRequest struct {
	Reason *string `json:"reason"`
}

// AdminService hosts the review workflow and the admin dashboard.
type AdminService struct {
	workshops    adminWorkshopRepository
	universities universityReader
	enrollments  participantLister
	profiles     profileCounter
	cache        statsCache
	metrics      *MetricsService
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	validator    *validator.Validate
	logger       *zap.Logger
	statsTTL     time.Duration
}

// AdminServiceParams groups constructor dependencies.
type AdminServiceParams struct {
	Workshops    adminWorkshopRepository
	Universities universityReader
	Enrollments  participantLister
	Profiles     profileCounter
	Cache        statsCache
	Metrics      *MetricsService
	Validator    *validator.Validate
	Logger       *zap.Logger
	StatsTTL     time.Duration
}

// NewAdminService constructs AdminService.
func NewAdminService(params AdminServiceParams) *AdminService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.StatsTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AdminService{
		workshops:    params.Workshops,
		universities: params.Universities,
		enrollments:  params.Enrollments,
		profiles:     params.Profiles,
		cache:        params.Cache,
		metrics:      params.Metrics,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		validator:    validate,
		logger:       logger,
		statsTTL:     ttl,
	}
}

// Pending returns proposals awaiting review, newest first.
func (s *AdminService) Pending(ctx context.Context) ([]models.WorkshopDetail, error) {
	workshops, err := s.workshops.ListDetails(ctx, models.WorkshopFilter{Status: models.WorkshopStatusPending})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}
	return workshops, nil
}

// All returns every workshop, optionally filtered by status.
func (s *AdminService) All(ctx context.Context, status models.WorkshopStatus) ([]models.WorkshopDetail, error) {
	switch status {
	case "", models.WorkshopStatusDraft, models.WorkshopStatusPending, models.WorkshopStatusPublished, models.WorkshopStatusRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown workshop status")
	}
	workshops, err := s.workshops.ListDetails(ctx, models.WorkshopFilter{Status: status})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workshops")
	}
	return workshops, nil
}

// Approve publishes a pending workshop, assigning university, room,
// date and time in the same write as the status change. Approvals are
// final: only pending workshops qualify.
func (s *AdminService) Approve(ctx context.Context, workshopID string, req ApproveWorkshopRequest) (*models.WorkshopDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}

	workshop, err := s.workshops.FindByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}
	if workshop.Status != models.WorkshopStatusPending {
		return nil, appErrors.ErrInvalidTransition
	}

	exists, err := s.universities.Exists(ctx, req.UniversityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check university")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
	}

	room, err := s.universities.FindRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if room.UniversityID != req.UniversityID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room does not belong to the selected university")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	ok, err := s.workshops.Approve(ctx, workshopID, req.UniversityID, req.RoomID, date, req.Time)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve workshop")
	}
	if !ok {
		// Lost a race with another reviewer; the guard kept the row untouched.
		return nil, appErrors.ErrInvalidTransition
	}

	s.cache.Delete(ctx, statsCacheKey)
	s.logger.Info("workshop approved",
		zap.String("workshop_id", workshopID),
		zap.String("university_id", req.UniversityID),
		zap.String("room_id", req.RoomID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	)

	detail, err := s.workshops.FindDetailByID(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop detail")
	}
	return detail, nil
}

// Reject marks a pending workshop as rejected. The reason is persisted
// and logged but has no effect on the transition itself.
func (s *AdminService) Reject(ctx context.Context, workshopID string, req RejectWorkshopRequest) (*models.WorkshopDetail, error) {
	workshop, err := s.workshops.FindByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}
	if workshop.Status != models.WorkshopStatusPending {
		return nil, appErrors.ErrInvalidTransition
	}

	ok, err := s.workshops.Reject(ctx, workshopID, req.Reason)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject workshop")
	}
	if !ok {
		return nil, appErrors.ErrInvalidTransition
	}

	s.cache.Delete(ctx, statsCacheKey)
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	s.logger.Info("workshop rejected",
		zap.String("workshop_id", workshopID),
		zap.String("reason", reason),
	)

	detail, err := s.workshops.FindDetailByID(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop detail")
	}
	return detail, nil
}

// UniversitiesWithRooms returns the venue picker data.
func (s *AdminService) UniversitiesWithRooms(ctx context.Context) ([]models.UniversityWithRooms, error) {
	universities, err := s.universities.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list universities")
	}
	rooms, err := s.universities.ListRooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}

	byUniversity := make(map[string][]models.Room, len(universities))
	for _, room := range rooms {
		byUniversity[room.UniversityID] = append(byUniversity[room.UniversityID], room)
	}

	result := make([]models.UniversityWithRooms, 0, len(universities))
	for _, uni := range universities {
		result = append(result, models.UniversityWithRooms{University: uni, Rooms: byUniversity[uni.ID]})
	}
	return result, nil
}

// Stats returns the dashboard headline counts, cached with a short TTL
// and invalidated on every review decision.
func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStats, bool, error) {
	var cached dto.AdminStats
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		s.metrics.RecordCacheOperation(true)
		return &cached, true, nil
	}
	s.metrics.RecordCacheOperation(false)

	pending, published, total, err := s.workshops.StatusCounts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count workshops")
	}
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count profiles")
	}
	enrollments, err := s.enrollments.Count(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	stats := &dto.AdminStats{
		PendingWorkshops:   pending,
		PublishedWorkshops: published,
		TotalWorkshops:     total,
		TotalUsers:         users,
		TotalEnrollments:   enrollments,
	}
	if err := s.cache.Set(ctx, statsCacheKey, stats, s.statsTTL); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}
	return stats, false, nil
}

// ExportParticipants renders a workshop's attendance list as CSV or PDF.
func (s *AdminService) ExportParticipants(ctx context.Context, workshopID, format string) (content []byte, filename, contentType string, err error) {
	workshop, err := s.workshops.FindByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}

	participants, err := s.enrollments.Participants(ctx, workshopID)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "RUT", "Enrolled At"},
		Rows:    make([]map[string]string, 0, len(participants)),
	}
	for _, p := range participants {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":        p.FullName,
			"Email":       p.Email,
			"RUT":         rut.Format(p.RUT),
			"Enrolled At": p.EnrolledAt.Format(time.RFC3339),
		})
	}

	switch format {
	case "", "csv":
		content, err = s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return content, fmt.Sprintf("participants-%s.csv", workshopID), "text/csv", nil
	case "pdf":
		content, err = s.pdf.Render(dataset, workshop.Title)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return content, fmt.Sprintf("participants-%s.pdf", workshopID), "application/pdf", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
