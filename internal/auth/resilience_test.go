package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestResilience_ConcurrentAuthenticate checks the codec, hasher and
// resolver under concurrent requests.
func TestResilience_ConcurrentAuthenticate(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()

	const users = 4
	tokens := make([]string, users)
	ids := make([]int64, users)
	for i := range users {
		name := fmt.Sprintf("user%d", i)
		u, err := svc.Register(ctx, name, "pw", RoleUser)
		if err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
		login, err := svc.Login(ctx, name, "pw")
		if err != nil {
			t.Fatalf("Login(%s) error = %v", name, err)
		}
		tokens[i], ids[i] = login.Token, u.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, users*10)
	for n := range users * 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			i := n % users
			got, err := svc.Authenticate(ctx, tokens[i])
			if err != nil {
				errs <- err
				return
			}
			if got.ID != ids[i] {
				errs <- fmt.Errorf("token %d resolved to user %d, want %d", i, got.ID, ids[i])
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// TestResilience_ConcurrentDuplicateRegistration checks that exactly one of
// several racing registrations for the same username wins.
func TestResilience_ConcurrentDuplicateRegistration(t *testing.T) {
	svc, repo := newTestService(t, true)
	ctx := context.Background()

	const racers = 5
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "contested", "pw", RoleUser)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != racers-1 {
		t.Errorf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, racers-1)
	}

	if count, _ := repo.Count(ctx); count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestResilience_ContextCancellation_RepositoryOps(t *testing.T) {
	userRepo := NewUserRepository(testDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := userRepo.GetByUsername(ctx, "nonexistent"); err == nil {
		t.Error("GetByUsername with cancelled context should return error")
	}
	if _, err := userRepo.GetByID(ctx, 1); err == nil {
		t.Error("GetByID with cancelled context should return error")
	}
	if _, err := userRepo.Count(ctx); err == nil {
		t.Error("Count with cancelled context should return error")
	}
	if err := userRepo.Create(ctx, &User{Username: "cancel-test", PasswordHash: "x", Role: RoleUser}); err == nil {
		t.Error("Create with cancelled context should return error")
	}
}

func TestResilience_ContextCancellation_Authenticate(t *testing.T) {
	svc, _ := newTestService(t, true)

	if _, err := svc.Register(context.Background(), "alice", "pw", RoleUser); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	login, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err = svc.Authenticate(ctx, login.Token)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authenticate() with expired context error = %v, want ErrUnauthorized", err)
	}
}
