package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/impulsa-uc/impulsa-api/internal/models"
)

// WorkshopRepository handles persistence of workshops.
type WorkshopRepository struct {
	db *sqlx.DB
}

// NewWorkshopRepository constructs the repository.
func NewWorkshopRepository(db *sqlx.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

const workshopDetailSelect = `SELECT w.id, w.title, w.description, w.category, w.duration, w.status,
        w.instructor_id, w.university_id, w.room_id, w.date, w.time, w.capacity, w.rejection_reason, w.created_at,
        p.full_name AS instructor_name, p.email AS instructor_email,
        u.name AS university_name, r.name AS room_name,
        COUNT(e.id) AS enrolled
        FROM workshops w
        JOIN profiles p ON p.id = w.instructor_id
        LEFT JOIN universities u ON u.id = w.university_id
        LEFT JOIN rooms r ON r.id = w.room_id
        LEFT JOIN enrollments e ON e.workshop_id = w.id`

const workshopDetailGroup = ` GROUP BY w.id, p.full_name, p.email, u.name, r.name`

// ListDetails returns workshops with joined names and live enrollment
// counts. Published listings sort by session date; review views sort
// newest first.
func (r *WorkshopRepository) ListDetails(ctx context.Context, filter models.WorkshopFilter) ([]models.WorkshopDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("w.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("w.category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := " ORDER BY w.created_at DESC"
	if filter.Status == models.WorkshopStatusPublished {
		orderBy = " ORDER BY w.date ASC NULLS LAST, w.created_at DESC"
	}

	query := workshopDetailSelect + clause + workshopDetailGroup + orderBy

	var workshops []models.WorkshopDetail
	if err := r.db.SelectContext(ctx, &workshops, query, args...); err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}

// ListDetailsByInstructor returns an impulsor's workshops, newest first.
func (r *WorkshopRepository) ListDetailsByInstructor(ctx context.Context, instructorID string) ([]models.WorkshopDetail, error) {
	query := workshopDetailSelect + " WHERE w.instructor_id = $1" + workshopDetailGroup + " ORDER BY w.created_at DESC"
	var workshops []models.WorkshopDetail
	if err := r.db.SelectContext(ctx, &workshops, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor workshops: %w", err)
	}
	return workshops, nil
}

// FindByID returns a workshop by its ID.
func (r *WorkshopRepository) FindByID(ctx context.Context, id string) (*models.Workshop, error) {
	const query = `SELECT id, title, description, category, duration, status, instructor_id,
        university_id, room_id, date, time, capacity, rejection_reason, created_at
        FROM workshops WHERE id = $1`
	var workshop models.Workshop
	if err := r.db.GetContext(ctx, &workshop, query, id); err != nil {
		return nil, err
	}
	return &workshop, nil
}

// FindDetailByID returns a workshop with joined names and enrollment count.
func (r *WorkshopRepository) FindDetailByID(ctx context.Context, id string) (*models.WorkshopDetail, error) {
	query := workshopDetailSelect + " WHERE w.id = $1" + workshopDetailGroup
	var detail models.WorkshopDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Categories returns the distinct categories of published workshops.
func (r *WorkshopRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM workshops WHERE status = $1 AND category <> '' ORDER BY category`
	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query, models.WorkshopStatusPublished); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create persists a new workshop proposal.
func (r *WorkshopRepository) Create(ctx context.Context, workshop *models.Workshop) error {
	if workshop.ID == "" {
		workshop.ID = uuid.NewString()
	}
	if workshop.CreatedAt.IsZero() {
		workshop.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO workshops (id, title, description, category, duration, status, instructor_id, capacity, created_at)
        VALUES (:id, :title, :description, :category, :duration, :status, :instructor_id, :capacity, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, workshop); err != nil {
		return fmt.Errorf("create workshop: %w", err)
	}
	return nil
}

// Approve publishes a pending workshop, assigning all four resource
// fields together with the status flip. The pending guard in the WHERE
// clause makes the transition atomic: zero rows affected means the
// workshop was not awaiting review (or does not exist).
func (r *WorkshopRepository) Approve(ctx context.Context, id, universityID, roomID string, date time.Time, timeOfDay string) (bool, error) {
	const query = `UPDATE workshops
        SET status = $2, university_id = $3, room_id = $4, date = $5, time = $6, rejection_reason = NULL
        WHERE id = $1 AND status = $7`
	res, err := r.db.ExecContext(ctx, query, id, models.WorkshopStatusPublished, universityID, roomID, date, timeOfDay, models.WorkshopStatusPending)
	if err != nil {
		return false, fmt.Errorf("approve workshop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("approve workshop result: %w", err)
	}
	return affected == 1, nil
}

// Reject marks a pending workshop as rejected with an optional reason.
// Same conditional-update guard as Approve.
func (r *WorkshopRepository) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	const query = `UPDATE workshops SET status = $2, rejection_reason = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, models.WorkshopStatusRejected, reason, models.WorkshopStatusPending)
	if err != nil {
		return false, fmt.Errorf("reject workshop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reject workshop result: %w", err)
	}
	return affected == 1, nil
}

// StatusCounts returns the pending, published and total workshop counts.
func (r *WorkshopRepository) StatusCounts(ctx context.Context) (pending, published, total int, err error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE status = 'pending') AS pending,
        COUNT(*) FILTER (WHERE status = 'published') AS published,
        COUNT(*) AS total
        FROM workshops`
	var row struct {
		Pending   int `db:"pending"`
		Published int `db:"published"`
		Total     int `db:"total"`
	}
	if err = r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, 0, fmt.Errorf("count workshops: %w", err)
	}
	return row.Pending, row.Published, row.Total, nil
}

// CountByInstructor returns how many workshops an impulsor has proposed.
func (r *WorkshopRepository) CountByInstructor(ctx context.Context, instructorID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM workshops WHERE instructor_id = $1`, instructorID); err != nil {
		return 0, fmt.Errorf("count instructor workshops: %w", err)
	}
	return total, nil
}
