package auth

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// IsValidUsername checks if a username meets format requirements.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser can read projects.
	RoleUser Role = "user"

	// RoleAdmin can additionally create, update and delete projects
	// and read the audit trail.
	RoleAdmin Role = "admin"
)

// ValidRoles is the closed set of account roles.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidRole returns true if r is one of ValidRoles.
func IsValidRole(r Role) bool {
	return slices.Contains(ValidRoles, r)
}

// User represents an account. It is owned by the UserRepository and
// re-read on every authenticated request.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrMissingSubject     = errors.New("token has no usable subject")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrPasswordTooLong    = errors.New("password too long for the configured hasher")
	ErrSelfModification   = errors.New("cannot change or delete your own account")
)

// ErrTokenExpired wraps ErrTokenInvalid so callers that only check for an
// invalid token also catch expiry.
var ErrTokenExpired = fmt.Errorf("%w: expired", ErrTokenInvalid)

// ErrConflict is returned by Register for a duplicate username.
var ErrConflict = ErrUsernameExists
