package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies who is acting on the system.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleWaliKelas Role = "WALI_KELAS"
	RoleOrangTua  Role = "ORANG_TUA"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWaliKelas, RoleOrangTua:
		return true
	default:
		return false
	}
}

// LoginRequest carries credentials. Teachers log in with username+password,
// parents with their child's NISN as username.
type LoginRequest struct {
	Role     string `json:"role" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token and resolved identity.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo describes the authenticated identity.
type UserInfo struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	ClassID string `json:"class_id,omitempty"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	UserID  string `json:"user_id"`
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	ClassID string `json:"class_id,omitempty"`
	jwt.RegisteredClaims
}
