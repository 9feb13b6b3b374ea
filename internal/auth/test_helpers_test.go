package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/projecthub/internal/infrastructure/config"
	"github.com/nerrad567/projecthub/internal/infrastructure/database"
	_ "github.com/nerrad567/projecthub/migrations"
)

// testSecret meets the 32-character minimum.
const testSecret = "test-secret-key-at-least-32-chars!"

// testDB creates a temporary SQLite database with the full schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "auth-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	return db.DB
}

// testHasher returns an argon2id hasher with a work factor small enough for tests.
func testHasher(t *testing.T) *Hasher {
	t.Helper()

	h, err := NewHasher(config.PasswordConfig{
		Algorithm:   "argon2id",
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
	})
	if err != nil {
		t.Fatalf("NewHasher() error = %v", err)
	}
	return h
}

// testCodec returns an HS256 codec with the given lifetime.
func testCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()

	c, err := NewTokenCodec(testSecret, "HS256", ttl)
	if err != nil {
		t.Fatalf("NewTokenCodec() error = %v", err)
	}
	return c
}

// seedTestUser inserts a user whose password is "test-password".
func seedTestUser(t *testing.T, db *sql.DB, username string, role Role) *User {
	t.Helper()

	hash, err := testHasher(t).Hash("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := NewUserRepository(db).Create(t.Context(), user); err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return user
}
