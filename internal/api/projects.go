package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/projecthub/internal/audit"
	"github.com/nerrad567/projecthub/internal/project"
)

// handleListProjects returns every project.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		writeInternalError(w, "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"count":    len(projects),
	})
}

// handleGetProject returns a single project by ID.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	p, err := s.projects.Get(r.Context(), id)
	if err != nil {
		s.writeProjectError(w, err, "failed to get project")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleCreateProject creates a project from {"name", "description"}.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.Update
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p := &project.Project{}
	req.Apply(p)
	if err := s.projects.Create(r.Context(), p); err != nil {
		s.writeProjectError(w, err, "failed to create project")
		return
	}

	s.auditLog(audit.ActionCreate, audit.EntityProject, strconv.FormatInt(p.ID, 10), actorID(r), map[string]any{
		"name": p.Name,
	})

	writeJSON(w, http.StatusCreated, p)
}

// handleUpdateProject replaces the name and description of a project.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req project.Update
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p, err := s.projects.Update(r.Context(), id, req)
	if err != nil {
		s.writeProjectError(w, err, "failed to update project")
		return
	}

	s.auditLog(audit.ActionUpdate, audit.EntityProject, strconv.FormatInt(p.ID, 10), actorID(r), map[string]any{
		"name": p.Name,
	})

	writeJSON(w, http.StatusOK, p)
}

// handleDeleteProject removes a project.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := s.projects.Delete(r.Context(), id); err != nil {
		s.writeProjectError(w, err, "failed to delete project")
		return
	}

	s.auditLog(audit.ActionDelete, audit.EntityProject, strconv.FormatInt(id, 10), actorID(r), nil)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// projectID parses the {id} URL parameter, writing a 400 if it is not a
// positive integer.
func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "project id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeProjectError maps project store errors onto HTTP responses.
func (s *Server) writeProjectError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		writeNotFound(w, "project not found")
	case errors.Is(err, project.ErrInvalidProject):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error(message, "error", err)
		writeInternalError(w, message)
	}
}

// actorID returns the authenticated user's ID, or 0 if there is none.
func actorID(r *http.Request) int64 {
	if user := userFromContext(r.Context()); user != nil {
		return user.ID
	}
	return 0
}
