package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/projecthub/internal/auth"
	"github.com/nerrad567/projecthub/internal/project"
)

// projectEnv returns a server with one admin and one plain user logged in.
func projectEnv(t *testing.T) (env *testEnv, adminToken, userToken string) {
	t.Helper()

	env = testServer(t, true)
	env.register(t, "root", auth.RoleAdmin)
	env.register(t, "alice", auth.RoleUser)
	return env, env.login(t, "root"), env.login(t, "alice")
}

func decodeProject(t *testing.T, body []byte) project.Project {
	t.Helper()

	var p project.Project
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestProjects_CRUD(t *testing.T) {
	env, admin, user := projectEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/projects", admin, map[string]string{
		"name":        "  Apollo  ",
		"description": "moon shot",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeProject(t, rec.Body.Bytes())
	assert.Equal(t, "Apollo", created.Name, "name is trimmed")

	path := "/api/v1/projects/" + strconv.FormatInt(created.ID, 10)

	// Plain users can read.
	rec = env.do(t, http.MethodGet, path, user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeProject(t, rec.Body.Bytes()).ID)

	rec = env.do(t, http.MethodGet, "/api/v1/projects", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Projects []project.Project `json:"projects"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Len(t, list.Projects, 1)

	rec = env.do(t, http.MethodPut, path, admin, map[string]any{
		"name":        "Artemis",
		"description": "",
		"id":          999,
		"created_at":  "1999-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeProject(t, rec.Body.Bytes())
	assert.Equal(t, created.ID, updated.ID, "id is not writable")
	assert.Equal(t, "Artemis", updated.Name)
	assert.Empty(t, updated.Description)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "created_at is not writable")

	rec = env.do(t, http.MethodDelete, path, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, path, user, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjects_RoleGate(t *testing.T) {
	env, admin, user := projectEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/projects", admin, map[string]string{"name": "Gemini"})
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/api/v1/projects/" + strconv.FormatInt(decodeProject(t, rec.Body.Bytes()).ID, 10)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"create", http.MethodPost, "/api/v1/projects", map[string]string{"name": "x"}},
		{"update", http.MethodPut, path, map[string]string{"name": "x"}},
		{"delete", http.MethodDelete, path, nil},
		{"audit", http.MethodGet, "/api/v1/audit", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name+" as user", func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, user, tt.body)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, ErrCodeForbidden, decodeError(t, rec).Code)
		})
		t.Run(tt.name+" without token", func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, "", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	// Reads need a token too.
	rec = env.do(t, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjects_LiveRoleIsChecked(t *testing.T) {
	env, admin, _ := projectEnv(t)

	root, err := env.users.GetByUsername(t.Context(), "root")
	require.NoError(t, err)
	require.NoError(t, env.users.UpdateRole(t.Context(), root.ID, auth.RoleUser))

	// The token still says admin; the store says user.
	rec := env.do(t, http.MethodPost, "/api/v1/projects", admin, map[string]string{"name": "Mercury"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProjects_BadInput(t *testing.T) {
	env, admin, _ := projectEnv(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{"create blank name", http.MethodPost, "/api/v1/projects", map[string]string{"name": "   "}, http.StatusBadRequest},
		{"create long name", http.MethodPost, "/api/v1/projects", map[string]string{"name": strings.Repeat("n", 101)}, http.StatusBadRequest},
		{"create long description", http.MethodPost, "/api/v1/projects", map[string]string{"name": "ok", "description": strings.Repeat("d", 2001)}, http.StatusBadRequest},
		{"get non-numeric id", http.MethodGet, "/api/v1/projects/abc", nil, http.StatusBadRequest},
		{"get zero id", http.MethodGet, "/api/v1/projects/0", nil, http.StatusBadRequest},
		{"get missing", http.MethodGet, "/api/v1/projects/42", nil, http.StatusNotFound},
		{"update missing", http.MethodPut, "/api/v1/projects/42", map[string]string{"name": "x"}, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/api/v1/projects/42", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, admin, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestProjects_InvalidJSON(t *testing.T) {
	env, admin, _ := projectEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(`{"name":`))
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeBadRequest, decodeError(t, rec).Code)
}
