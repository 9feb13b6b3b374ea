package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/projecthub/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.With(s.requireRole(auth.RoleAdmin)).Post("/", s.handleCreateProject)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetProject)
					r.With(s.requireRole(auth.RoleAdmin)).Put("/", s.handleUpdateProject)
					r.With(s.requireRole(auth.RoleAdmin)).Delete("/", s.handleDeleteProject)
				})
			})

			r.With(s.requireRole(auth.RoleAdmin)).Get("/audit", s.handleListAuditLogs)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Use(s.requireRole(auth.RoleAdmin))
				r.Put("/role", s.handleChangeUserRole)
				r.Delete("/", s.handleDeleteUser)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
