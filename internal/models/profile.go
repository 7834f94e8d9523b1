package models

import "time"

// ProfileRole classifies what a profile can do in the marketplace.
type ProfileRole string

// Possible profile roles. Impulsores carry the instructor role.
const (
	RoleStudent    ProfileRole = "student"
	RoleInstructor ProfileRole = "instructor"
	RoleAdmin      ProfileRole = "admin"
)

// Profile is a registered user of the marketplace. Created on first
// successful OTP verification; the role is mutated only by admins.
type Profile struct {
	ID         string      `db:"id" json:"id"`
	AuthUserID string      `db:"auth_user_id" json:"auth_user_id"`
	FullName   string      `db:"full_name" json:"full_name"`
	Email      string      `db:"email" json:"email"`
	RUT        string      `db:"rut" json:"rut"`
	Role       ProfileRole `db:"role" json:"role"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
