package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies how a user account was created
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderGithub AuthProvider = "github"
)

// User represents an authenticated user of the application
type User struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Provider  AuthProvider `json:"provider"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewUser creates a new user
func NewUser(name, email string, provider AuthProvider) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Provider:  provider,
		CreatedAt: time.Now(),
	}
}
