package models

// University is static reference data for venue assignment.
type University struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Room belongs to exactly one university.
type Room struct {
	ID           string `db:"id" json:"id"`
	UniversityID string `db:"university_id" json:"university_id"`
	Name         string `db:"name" json:"name"`
}

// UniversityWithRooms groups a university with its rooms for admin pickers.
type UniversityWithRooms struct {
	University
	Rooms []Room `json:"rooms"`
}
