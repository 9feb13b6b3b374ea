package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// dummyPassword is hashed once at startup; Login verifies against it when the
// username does not exist so both failure paths cost one hash verification.
const dummyPassword = "projecthub-timing-equaliser"

// ServiceDeps holds the collaborators of a Service.
type ServiceDeps struct {
	Users  UserRepository
	Hasher *Hasher
	Codec  *TokenCodec

	// AllowAdminRegistration lets Register create admin accounts.
	AllowAdminRegistration bool

	// Logger receives debug-level token failure causes. Optional.
	Logger *slog.Logger

	// Now is the clock used for issuing and checking tokens. Defaults to time.Now.
	Now func() time.Time
}

// Service implements registration, login, authentication and authorisation.
// It keeps no session state: everything a request needs is in its token and
// the user store.
type Service struct {
	users      UserRepository
	hasher     *Hasher
	codec      *TokenCodec
	resolver   *Resolver
	allowAdmin bool
	logger     *slog.Logger
	now        func() time.Time
	dummyHash  string
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// NewService creates a Service. It hashes the timing-equaliser password
// once, so construction takes as long as one password hash.
func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Users == nil || deps.Hasher == nil || deps.Codec == nil {
		return nil, errors.New("auth service requires users, hasher and codec")
	}

	dummy, err := deps.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}

	s := &Service{
		users:      deps.Users,
		hasher:     deps.Hasher,
		codec:      deps.Codec,
		resolver:   NewResolver(deps.Users),
		allowAdmin: deps.AllowAdminRegistration,
		logger:     deps.Logger,
		now:        deps.Now,
		dummyHash:  dummy,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// TokenTTL returns the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.codec.TTL()
}

// Register creates an account with the given role.
//
// Errors: ErrInvalidUsername, ErrInvalidRole, ErrForbidden (admin registration
// disabled), ErrPasswordTooLong (bcrypt only), ErrConflict (username taken).
func (s *Service) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	if !IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if !IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if role == RoleAdmin && !s.allowAdmin {
		return nil, ErrForbidden
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("registering user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues an access token.
//
// An unknown username and a wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := s.codec.Encode(strconv.FormatInt(user.ID, 10), user.Role, now)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.codec.TTL()),
		User:      user,
	}, nil
}

// Authenticate verifies a bearer token and returns the live user it names.
//
// Every failure wraps ErrUnauthorized; the underlying cause (ErrTokenExpired,
// ErrTokenInvalid, ErrMissingSubject, ErrUserNotFound) is also wrapped for
// logging but must not be shown to the client.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.codec.Decode(token, s.now())
	if err != nil {
		s.logger.Debug("token rejected", "reason", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.resolver.Resolve(ctx, claims)
	if err != nil {
		s.logger.Debug("token subject rejected", "subject", claims.Subject, "reason", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return user, nil
}

// Authorize returns ErrForbidden unless user holds the required role.
// The role checked is the live one from the store, not the token's copy.
func (s *Service) Authorize(user *User, required Role) error {
	return RequireRole(user, required)
}

// ChangeRole sets the role of user id on behalf of actor and returns the
// updated account. The change takes effect on the next request the target
// makes, whatever role its current token carries.
//
// Errors: ErrForbidden (actor lacks user:manage), ErrSelfModification,
// ErrInvalidRole, ErrUserNotFound.
func (s *Service) ChangeRole(ctx context.Context, actor *User, id int64, role Role) (*User, error) {
	if err := s.checkManage(actor, id); err != nil {
		return nil, err
	}
	if !IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("changing role of user %d: %w", id, err)
	}

	s.logger.Info("user role changed", "user_id", id, "role", string(role), "changed_by", actor.ID)
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes user id on behalf of actor. Tokens already issued to
// the deleted account stop authenticating immediately.
//
// Errors: ErrForbidden, ErrSelfModification, ErrUserNotFound.
func (s *Service) DeleteUser(ctx context.Context, actor *User, id int64) error {
	if err := s.checkManage(actor, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user %d: %w", id, err)
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", actor.ID)
	return nil
}

// checkManage guards account administration. An admin cannot demote or
// delete themselves, so the last admin cannot lock everyone out.
func (s *Service) checkManage(actor *User, id int64) error {
	if actor == nil || !HasPermission(actor.Role, PermUserManage) {
		return ErrForbidden
	}
	if actor.ID == id {
		return ErrSelfModification
	}
	return nil
}
