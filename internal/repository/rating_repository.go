package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
)

// RatingRepository handles persistence of workshop ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores a rating, overwriting any previous rating by the same
// profile for the same workshop. A single statement with ON CONFLICT
// keeps concurrent submissions from the same user to one row,
// converging last-writer-wins.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ratings (id, workshop_id, profile_id, rating, comment, created_at)
        VALUES (:id, :workshop_id, :profile_id, :rating, :comment, :created_at)
        ON CONFLICT (workshop_id, profile_id)
        DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, created_at = EXCLUDED.created_at`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		if isForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "workshop or profile not found")
		}
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// FindByWorkshopAndProfile returns the caller's rating for a workshop.
func (r *RatingRepository) FindByWorkshopAndProfile(ctx context.Context, workshopID, profileID string) (*models.Rating, error) {
	const query = `SELECT id, workshop_id, profile_id, rating, comment, created_at
        FROM ratings WHERE workshop_id = $1 AND profile_id = $2`
	var rating models.Rating
	if err := r.db.GetContext(ctx, &rating, query, workshopID, profileID); err != nil {
		return nil, err
	}
	return &rating, nil
}

// WorkshopAggregate is the per-workshop rating summary used on
// proposal listings.
type WorkshopAggregate struct {
	WorkshopID string  `db:"workshop_id"`
	Average    float64 `db:"average"`
	Count      int     `db:"count"`
}

// AggregateByWorkshops returns rating averages and counts for the
// given workshop IDs, keyed by workshop.
func (r *RatingRepository) AggregateByWorkshops(ctx context.Context, workshopIDs []string) (map[string]WorkshopAggregate, error) {
	if len(workshopIDs) == 0 {
		return map[string]WorkshopAggregate{}, nil
	}
	const query = `SELECT workshop_id, AVG(rating) AS average, COUNT(*) AS count
        FROM ratings WHERE workshop_id = ANY($1) GROUP BY workshop_id`
	var aggregates []WorkshopAggregate
	if err := r.db.SelectContext(ctx, &aggregates, query, pq.Array(workshopIDs)); err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	result := make(map[string]WorkshopAggregate, len(aggregates))
	for _, agg := range aggregates {
		result[agg.WorkshopID] = agg
	}
	return result, nil
}

// InstructorAggregate returns the average and count across every
// rating of an impulsor's workshops. Zero values when none exist.
func (r *RatingRepository) InstructorAggregate(ctx context.Context, instructorID string) (average float64, total int, err error) {
	const query = `SELECT COALESCE(AVG(r.rating), 0) AS average, COUNT(r.id) AS count
        FROM ratings r
        JOIN workshops w ON w.id = r.workshop_id
        WHERE w.instructor_id = $1`
	var row struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	if err = r.db.GetContext(ctx, &row, query, instructorID); err != nil {
		return 0, 0, fmt.Errorf("aggregate instructor ratings: %w", err)
	}
	return row.Average, row.Count, nil
}
