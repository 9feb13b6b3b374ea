package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func newTestService(t *testing.T, allowAdmin bool) (*Service, *SQLiteUserRepository) {
	t.Helper()

	repo := NewUserRepository(testDB(t))
	svc, err := NewService(ServiceDeps{
		Users:                  repo,
		Hasher:                 testHasher(t),
		Codec:                  testCodec(t, 30*time.Minute),
		AllowAdminRegistration: allowAdmin,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, repo
}

func TestSeedAdmin_CreatesOnEmptyDB(t *testing.T) {
	svc, repo := newTestService(t, false)
	ctx := context.Background()

	password, err := svc.SeedAdmin(ctx, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if password == "" {
		t.Fatal("SeedAdmin() should return generated password")
	}

	admin, err := repo.GetByUsername(ctx, SeedAdminUsername)
	if err != nil {
		t.Fatalf("GetByUsername(admin) error = %v", err)
	}
	if admin.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", admin.Role, RoleAdmin)
	}

	// The generated password logs in.
	if _, err := svc.Login(ctx, SeedAdminUsername, password); err != nil {
		t.Errorf("Login() with seed password error = %v", err)
	}
}

func TestSeedAdmin_SkipsWhenUsersExist(t *testing.T) {
	svc, repo := newTestService(t, false)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "existing", "pw", RoleUser); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	password, err := svc.SeedAdmin(ctx, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if password != "" {
		t.Error("SeedAdmin() should return empty password when users exist")
	}

	if count, _ := repo.Count(ctx); count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}
