package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// UserLookup is the part of UserRepository the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}

// Resolver maps verified token claims to the live user record.
type Resolver struct {
	users UserLookup
}

// NewResolver creates a Resolver backed by users.
func NewResolver(users UserLookup) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the user named by claims.Subject.
//
// The subject must be a positive decimal user ID, otherwise ErrMissingSubject
// is returned. A subject with no matching user returns ErrUserNotFound.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (*User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrMissingSubject
	}

	user, err := r.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving subject: %w", err)
	}

	return user, nil
}
