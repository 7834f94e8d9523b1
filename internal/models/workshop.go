package models

import "time"

// WorkshopStatus represents the review lifecycle of a workshop.
type WorkshopStatus string

// Workshop statuses. Proposals enter as pending; published and
// rejected are terminal. Draft exists for forward compatibility and
// no operation currently produces it.
const (
	WorkshopStatusDraft     WorkshopStatus = "draft"
	WorkshopStatusPending   WorkshopStatus = "pending"
	WorkshopStatusPublished WorkshopStatus = "published"
	WorkshopStatusRejected  WorkshopStatus = "rejected"
)

// Workshop is a proposed or published workshop. University, room,
// date and time stay null until approval sets all four together.
type Workshop struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	Category        string         `db:"category" json:"category"`
	Duration        int            `db:"duration" json:"duration"`
	Status          WorkshopStatus `db:"status" json:"status"`
	InstructorID    string         `db:"instructor_id" json:"instructor_id"`
	UniversityID    *string        `db:"university_id" json:"university_id,omitempty"`
	RoomID          *string        `db:"room_id" json:"room_id,omitempty"`
	Date            *time.Time     `db:"date" json:"date,omitempty"`
	Time            *string        `db:"time" json:"time,omitempty"`
	Capacity        int            `db:"capacity" json:"capacity"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// WorkshopDetail enriches Workshop with joined names and the live
// enrollment count. Recomputed on every read, never persisted.
type WorkshopDetail struct {
	Workshop
	InstructorName  string  `db:"instructor_name" json:"instructor_name"`
	InstructorEmail string  `db:"instructor_email" json:"instructor_email"`
	UniversityName  *string `db:"university_name" json:"university_name,omitempty"`
	RoomName        *string `db:"room_name" json:"room_name,omitempty"`
	Enrolled        int     `db:"enrolled" json:"enrolled"`
}

// WorkshopFilter provides filters for listing workshops.
type WorkshopFilter struct {
	Status   WorkshopStatus
	Category string
}
