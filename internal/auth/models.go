package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account roles. The role is assigned at provisioning time and checked via
// the token claims, never by comparing emails in control flow.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account represents an authenticated identity with a storage namespace.
type Account struct {
	ID           uuid.UUID
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// IsAdmin reports whether the account carries the admin role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// SafeAccount removes sensitive fields for response payloads.
func (a Account) SafeAccount() Account {
	a.PasswordHash = ""
	return a
}

// TokenPair bundles access and refresh tokens.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}
