package models

import "time"

// Rating is one user's score for one workshop. Unique per
// (workshop_id, profile_id); re-submission overwrites in place.
type Rating struct {
	ID         string    `db:"id" json:"id"`
	WorkshopID string    `db:"workshop_id" json:"workshop_id"`
	ProfileID  string    `db:"profile_id" json:"profile_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ReputationSummary aggregates an impulsor's ratings across all of
// their workshops. Zero values mean "no ratings yet", not an error.
type ReputationSummary struct {
	Average       float64 `json:"average"`
	TotalRatings  int     `json:"total_ratings"`
	WorkshopCount int     `json:"workshop_count"`
}
