package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll books a profile into a workshop. The whole sequence runs in
// one transaction: the workshop row is locked FOR UPDATE, which
// serializes concurrent enrollments for the same workshop, so the
// capacity count cannot go stale between the check and the insert.
// The unique index on (profile_id, workshop_id) plus ON CONFLICT DO
// NOTHING turns a duplicate into a distinguishable AlreadyEnrolled
// outcome instead of a second row. Nothing is written on any error
// path.
func (r *EnrollmentRepository) Enroll(ctx context.Context, profileID, workshopID string) (enrollment *models.Enrollment, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var workshop struct {
		Status   models.WorkshopStatus `db:"status"`
		Capacity int                   `db:"capacity"`
	}
	const lockQuery = `SELECT status, capacity FROM workshops WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &workshop, lockQuery, workshopID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, fmt.Errorf("lock workshop: %w", err)
	}

	if workshop.Status != models.WorkshopStatusPublished {
		return nil, appErrors.ErrWorkshopNotPublished
	}

	var enrolled int
	if err = tx.GetContext(ctx, &enrolled, `SELECT COUNT(*) FROM enrollments WHERE workshop_id = $1`, workshopID); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	if enrolled >= workshop.Capacity {
		return nil, appErrors.ErrCapacityExceeded
	}

	record := &models.Enrollment{
		ID:         uuid.NewString(),
		ProfileID:  profileID,
		WorkshopID: workshopID,
		EnrolledAt: time.Now().UTC(),
	}
	const insertQuery = `INSERT INTO enrollments (id, profile_id, workshop_id, enrolled_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (profile_id, workshop_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, insertQuery, record.ID, record.ProfileID, record.WorkshopID, record.EnrolledAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("insert enrollment result: %w", err)
	}
	if affected == 0 {
		return nil, appErrors.ErrAlreadyEnrolled
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	}
	return record, nil
}

// ListDetailsByProfile returns a profile's enrollments with workshop
// context, newest booking first.
func (r *EnrollmentRepository) ListDetailsByProfile(ctx context.Context, profileID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.profile_id, e.workshop_id, e.enrolled_at,
        w.title AS workshop_title, w.category, w.status AS workshop_status, w.date, w.time,
        p.full_name AS instructor_name, u.name AS university_name, r.name AS room_name
        FROM enrollments e
        JOIN workshops w ON w.id = e.workshop_id
        JOIN profiles p ON p.id = w.instructor_id
        LEFT JOIN universities u ON u.id = w.university_id
        LEFT JOIN rooms r ON r.id = w.room_id
        WHERE e.profile_id = $1
        ORDER BY e.enrolled_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, profileID); err != nil {
		return nil, fmt.Errorf("list profile enrollments: %w", err)
	}
	return enrollments, nil
}

// Participants returns a workshop's attendees for export, ordered by name.
func (r *EnrollmentRepository) Participants(ctx context.Context, workshopID string) ([]models.Participant, error) {
	const query = `SELECT p.full_name, p.email, p.rut, e.enrolled_at
        FROM enrollments e
        JOIN profiles p ON p.id = e.profile_id
        WHERE e.workshop_id = $1
        ORDER BY p.full_name`
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query, workshopID); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// Count returns the total number of enrollments.
func (r *EnrollmentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM enrollments`); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return total, nil
}
