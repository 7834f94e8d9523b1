package dto

// AdminStats is the admin dashboard headline payload.
type AdminStats struct {
	PendingWorkshops   int `json:"pending_workshops"`
	PublishedWorkshops int `json:"published_workshops"`
	TotalWorkshops     int `json:"total_workshops"`
	TotalUsers         int `json:"total_users"`
	TotalEnrollments   int `json:"total_enrollments"`
}
