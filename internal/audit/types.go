package audit

import "time"

// Actions recorded by ProjectHub.
const (
	ActionRegister    = "register"
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
)

// Entity types.
const (
	EntityUser    = "user"
	EntityProject = "project"
)

// Entry is a single audit trail record.
type Entry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	UserID     int64          `json:"user_id,omitempty"` // 0 when no authenticated actor
	Source     string         `json:"source"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Filter controls which entries List returns. Zero fields are ignored.
type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	UserID     int64
	Limit      int // default 50, max 200
	Offset     int
}

// Page limits for List.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ListResult is one page of entries plus the total number matching the filter.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}
