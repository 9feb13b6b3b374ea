package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

const (
	// seedPasswordBytes is the number of random bytes in the seed admin password.
	seedPasswordBytes = 16

	// SeedAdminUsername is the account created by SeedAdmin.
	SeedAdminUsername = "admin"
)

// SeedAdmin creates the initial admin account when the user table is empty.
// The generated password is logged once and returned; it is empty when
// seeding was skipped.
//
// It is only needed when admin self-registration is disabled, otherwise the
// first admin can simply register.
func (s *Service) SeedAdmin(ctx context.Context, logger *slog.Logger) (string, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking user count: %w", err)
	}

	if count > 0 {
		logger.Info("users exist, skipping admin seed")
		return "", nil
	}

	raw := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(raw); err != nil { //nolint:govet // shadow
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(raw)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &User{
		Username:     SeedAdminUsername,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"username", SeedAdminUsername,
		"password", password,
		"action_required", "store this password now, it is not shown again",
	)

	return password, nil
}
