// models/user.go
package models

import "time"

// Roles known to the marketplace.
const (
	RolePoster   = "poster"
	RoleNeighbor = "neighbor"
	RoleAdmin    = "admin"
)

// User statuses managed from the admin screens.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is a marketplace account as returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Profile is the editable part of a user shown on the settings screen.
type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Address   string   `json:"address,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Role      string   `json:"role"`
	Verified  bool     `json:"verified"`
	Skills    []string `json:"skills,omitempty"`
}

// AuthResult is what the backend returns from login and OTP verification.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SignupResult is what the backend returns once a signup is accepted.
type SignupResult struct {
	UserID  string `json:"userId"`
	Message string `json:"message,omitempty"`
}
