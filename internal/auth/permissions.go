package auth

import "slices"

// Permission represents a named capability in the system.
type Permission string

// Permission constants.
const (
	PermProjectRead  Permission = "project:read"
	PermProjectWrite Permission = "project:write"
	PermAuditRead    Permission = "audit:read"
	PermUserManage   Permission = "user:manage"
)

// rolePermissions maps each role to its granted permissions.
var rolePermissions = map[Role][]Permission{
	RoleUser: {
		PermProjectRead,
	},
	RoleAdmin: {
		PermProjectRead,
		PermProjectWrite,
		PermAuditRead,
		PermUserManage,
	},
}

// RequireRole returns ErrForbidden unless user holds exactly the required role.
// A nil user is always forbidden.
func RequireRole(user *User, required Role) error {
	if !HasAnyRole(user, required) {
		return ErrForbidden
	}
	return nil
}

// HasAnyRole returns true if user holds one of roles.
func HasAnyRole(user *User, roles ...Role) bool {
	return user != nil && slices.Contains(roles, user.Role)
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}

// PermissionsForRole returns all permissions granted to a role.
// Returns nil for unknown roles.
func PermissionsForRole(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}
