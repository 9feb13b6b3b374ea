package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/nerrad567/projecthub/internal/audit"
	"github.com/nerrad567/projecthub/internal/auth"
)

// Password length limits for registration. The upper bound keeps hashing
// cost predictable for oversized inputs.
const (
	minPasswordLength = 8
	maxPasswordLength = 256
)

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role,omitempty"`
}

// Validate checks the request shape. Username format and role values are
// checked again by the auth service.
func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(minPasswordLength, maxPasswordLength)),
	)
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// loginResponse is the response body for POST /auth/login.
type loginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"`
	User        *auth.User `json:"user"`
}

// meResponse is the response body for GET /auth/me.
type meResponse struct {
	*auth.User
	Permissions []auth.Permission `json:"permissions"`
}

// handleRegister creates a new account. The role defaults to "user".
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleUser
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidUsername):
			writeValidationError(w, "username must be 1-64 characters of letters, digits, '.', '_' or '-'")
		case errors.Is(err, auth.ErrInvalidRole):
			writeValidationError(w, "role must be one of: admin, user")
		case errors.Is(err, auth.ErrPasswordTooLong):
			writeValidationError(w, "password is too long")
		case errors.Is(err, auth.ErrForbidden):
			writeForbidden(w, "admin registration is disabled")
		case errors.Is(err, auth.ErrConflict):
			writeConflict(w, "username already exists")
		default:
			s.logger.Error("failed to register user", "error", err)
			writeInternalError(w, "failed to register user")
		}
		return
	}

	s.auditLog(audit.ActionRegister, audit.EntityUser, strconv.FormatInt(user.ID, 10), user.ID, map[string]any{
		"username": user.Username,
		"role":     string(user.Role),
	})

	writeJSON(w, http.StatusCreated, user)
}

// handleLogin checks credentials and returns an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	result, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.auditLog(audit.ActionLoginFailed, audit.EntityUser, "", 0, map[string]any{
				"username": req.Username,
			})
			writeUnauthorized(w, msgInvalidCredentials)
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "failed to log in")
		return
	}

	s.auditLog(audit.ActionLogin, audit.EntityUser, strconv.FormatInt(result.User.ID, 10), result.User.ID, nil)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.auth.TokenTTL() / time.Second),
		User:        result.User,
	})
}

// handleMe returns the authenticated user and the permissions of their role.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, msgUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User:        user,
		Permissions: auth.PermissionsForRole(user.Role),
	})
}
