package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/projecthub/internal/audit"
	"github.com/nerrad567/projecthub/internal/auth"
)

// changeRoleRequest is the request body for PUT /users/{id}/role.
type changeRoleRequest struct {
	Role auth.Role `json:"role"`
}

// handleChangeUserRole sets another user's role. Admins cannot change their own.
func (s *Server) handleChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := s.auth.ChangeRole(r.Context(), userFromContext(r.Context()), id, req.Role)
	if err != nil {
		s.writeUserError(w, err, "failed to change role")
		return
	}

	s.auditLog(audit.ActionUpdate, audit.EntityUser, strconv.FormatInt(id, 10), actorID(r), map[string]any{
		"role": string(user.Role),
	})

	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser removes another user's account.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := s.auth.DeleteUser(r.Context(), userFromContext(r.Context()), id); err != nil {
		s.writeUserError(w, err, "failed to delete user")
		return
	}

	s.auditLog(audit.ActionDelete, audit.EntityUser, strconv.FormatInt(id, 10), actorID(r), nil)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// userID parses the {id} URL parameter of the user routes.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "user id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeUserError maps account administration errors onto HTTP responses.
func (s *Server) writeUserError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		writeNotFound(w, "user not found")
	case errors.Is(err, auth.ErrInvalidRole):
		writeValidationError(w, "role must be one of: admin, user")
	case errors.Is(err, auth.ErrSelfModification):
		writeForbidden(w, "cannot change or delete your own account")
	case errors.Is(err, auth.ErrForbidden):
		writeForbidden(w, "insufficient permissions")
	default:
		s.logger.Error(message, "error", err)
		writeInternalError(w, message)
	}
}
