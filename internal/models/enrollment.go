package models

import "time"

// Enrollment is a confirmed booking of one profile into one published
// workshop. Unique per (profile_id, workshop_id); created only through
// the atomic enroll path and never updated.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	ProfileID  string    `db:"profile_id" json:"profile_id"`
	WorkshopID string    `db:"workshop_id" json:"workshop_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail carries the workshop context a profile page needs.
type EnrollmentDetail struct {
	Enrollment
	WorkshopTitle  string         `db:"workshop_title" json:"workshop_title"`
	Category       string         `db:"category" json:"category"`
	WorkshopStatus WorkshopStatus `db:"workshop_status" json:"workshop_status"`
	Date           *time.Time     `db:"date" json:"date,omitempty"`
	Time           *string        `db:"time" json:"time,omitempty"`
	InstructorName string         `db:"instructor_name" json:"instructor_name"`
	UniversityName *string        `db:"university_name" json:"university_name,omitempty"`
	RoomName       *string        `db:"room_name" json:"room_name,omitempty"`
}

// Participant is one row of a workshop's attendance export.
type Participant struct {
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	RUT        string    `db:"rut" json:"rut"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}
