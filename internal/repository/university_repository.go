package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/impulsa-uc/impulsa-api/internal/models"
)

// UniversityRepository handles universities and their rooms.
type UniversityRepository struct {
	db *sqlx.DB
}

// NewUniversityRepository constructs the repository.
func NewUniversityRepository(db *sqlx.DB) *UniversityRepository {
	return &UniversityRepository{db: db}
}

// List returns all universities ordered by name.
func (r *UniversityRepository) List(ctx context.Context) ([]models.University, error) {
	var universities []models.University
	if err := r.db.SelectContext(ctx, &universities, `SELECT id, name FROM universities ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

// ListRooms returns all rooms ordered by name.
func (r *UniversityRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, `SELECT id, university_id, name FROM rooms ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindRoom returns a room by its ID.
func (r *UniversityRepository) FindRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.db.GetContext(ctx, &room, `SELECT id, university_id, name FROM rooms WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// Exists reports whether a university with the given ID exists.
func (r *UniversityRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM universities WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check university: %w", err)
	}
	return true, nil
}
