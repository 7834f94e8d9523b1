package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the session token payload issued after OTP verification.
type JWTClaims struct {
	ProfileID string      `json:"profile_id"`
	Email     string      `json:"email"`
	Role      ProfileRole `json:"role"`
	jwt.RegisteredClaims
}

// OTPChallenge is the transient state of an in-flight email code,
// stored in Redis under the requesting email with a TTL. The code
// itself is never stored, only its bcrypt hash.
type OTPChallenge struct {
	CodeHash string    `json:"code_hash"`
	Attempts int       `json:"attempts"`
	Signup   bool      `json:"signup"`
	FullName string    `json:"full_name,omitempty"`
	RUT      string    `json:"rut,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}
