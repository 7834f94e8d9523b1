package dto

import "github.com/impulsa-uc/impulsa-api/internal/models"

// UserEnrollments splits a profile's bookings around the current date.
// Enrollments without an assigned date count as upcoming.
type UserEnrollments struct {
	Upcoming []models.EnrollmentDetail `json:"upcoming"`
	Past     []models.EnrollmentDetail `json:"past"`
}

// ProposalSummary is one of an impulsor's workshops with its live
// enrollment count and rating aggregate.
type ProposalSummary struct {
	models.WorkshopDetail
	AvgRating    *float64 `json:"avg_rating,omitempty"`
	RatingsCount int      `json:"ratings_count"`
}
