package auth

import (
	"errors"
	"testing"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		required Role
		wantErr  error
	}{
		{"user needs admin", &User{Role: RoleUser}, RoleAdmin, ErrForbidden},
		{"admin needs admin", &User{Role: RoleAdmin}, RoleAdmin, nil},
		{"user needs user", &User{Role: RoleUser}, RoleUser, nil},
		{"admin needs user", &User{Role: RoleAdmin}, RoleUser, ErrForbidden},
		{"unknown role", &User{Role: "owner"}, RoleAdmin, ErrForbidden},
		{"nil user", nil, RoleUser, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RequireRole(tt.user, tt.required); !errors.Is(err, tt.wantErr) {
				t.Errorf("RequireRole() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	admin := &User{Role: RoleAdmin}

	if !HasAnyRole(admin, RoleUser, RoleAdmin) {
		t.Error("admin should match {user, admin}")
	}
	if HasAnyRole(admin, RoleUser) {
		t.Error("admin should not match {user}")
	}
	if HasAnyRole(admin) {
		t.Error("empty role set should never match")
	}
	if HasAnyRole(nil, RoleAdmin) {
		t.Error("nil user should never match")
	}
}

func TestHasPermission(t *testing.T) {
	if !HasPermission(RoleUser, PermProjectRead) {
		t.Error("user should have project:read")
	}
	for _, perm := range []Permission{PermProjectWrite, PermAuditRead, PermUserManage} {
		if HasPermission(RoleUser, perm) {
			t.Errorf("user should NOT have %s", perm)
		}
		if !HasPermission(RoleAdmin, perm) {
			t.Errorf("admin should have %s", perm)
		}
	}
	if HasPermission("unknown", PermProjectRead) {
		t.Error("unknown role should have no permissions")
	}
}

func TestPermissionsForRole(t *testing.T) {
	perms := PermissionsForRole(RoleAdmin)
	if len(perms) != 4 {
		t.Fatalf("admin permissions = %v, want 4", perms)
	}

	// Returned slice is a copy.
	perms[0] = "tampered"
	if PermissionsForRole(RoleAdmin)[0] == "tampered" {
		t.Error("PermissionsForRole should return a copy")
	}

	if PermissionsForRole("unknown") != nil {
		t.Error("unknown role should return nil")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin} {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = false", r)
		}
	}
	for _, r := range []Role{"", "owner", "ADMIN", "panel"} {
		if IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = true", r)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"bob.smith", true},
		{"user_01-x", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"ünïcode", false},
		{string(make([]byte, 65)), false},
		{"a234567890123456789012345678901234567890123456789012345678901234", true},
		{"a2345678901234567890123456789012345678901234567890123456789012345", false},
	}

	for _, tt := range tests {
		if got := IsValidUsername(tt.username); got != tt.want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}
