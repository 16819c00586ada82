package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType is a role of the platform user
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTutor   UserType = "tutor"
	UserTypeAdmin   UserType = "admin"
)

// Valid reports whether t is a known user type
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeTutor, UserTypeAdmin:
		return true
	}
	return false
}

// User is the custom user model (users.CustomUser)
type User struct {
	UUID         uuid.UUID `json:"uuid" db:"uuid"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	UserType     UserType  `json:"user_type" db:"user_type"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OutstandingToken is an issued refresh token tracked by the blacklist
type OutstandingToken struct {
	JTI           uuid.UUID  `json:"jti" db:"jti"`
	UserUUID      uuid.UUID  `json:"user_uuid" db:"user_uuid"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
	BlacklistedAt *time.Time `json:"blacklisted_at,omitempty" db:"blacklisted_at"`
}
