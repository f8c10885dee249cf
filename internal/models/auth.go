package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole identifies one of the four calling surfaces.
type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleFaculty  UserRole = "faculty"
	RoleSecurity UserRole = "security"
	RoleAdmin    UserRole = "admin"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleSecurity, RoleAdmin:
		return true
	default:
		return false
	}
}

// Credential is a seeded login record. There is no real identity provider
// behind this service; the table exists so demo logins behave like the
// production flow.
type Credential struct {
	Role         UserRole
	UserID       string
	Name         string
	PasswordHash string
}

// LoginRequest is the authenticate payload.
type LoginRequest struct {
	Role     UserRole `json:"role" validate:"required"`
	UserID   string   `json:"user_id" validate:"required"`
	Password string   `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      UserRole  `json:"role"`
	Name      string    `json:"name"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
}

// JWTClaims is the session token body: proof of "authenticated as role R,
// identity I" and nothing more.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
