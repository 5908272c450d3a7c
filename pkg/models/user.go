package models

import (
	"time"
)

// UserRole represents valid user roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserProfile is the public-facing profile with no sensitive data.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the bearer token and the user's profile.
type LoginResponse struct {
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	ExpiresIn int         `json:"expires_in"` // seconds
}

// HasRole checks whether the user satisfies the required role.
func (u *User) HasRole(required UserRole) bool {
	if required == UserRoleAdmin {
		return u.Role == UserRoleAdmin
	}
	return true
}
