// Package services holds the HTTP tier's business logic: account
// registration, login and token refresh, and delegated removal.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/dmitrijs2005/userhub/internal/server/auth"
	"github.com/dmitrijs2005/userhub/internal/server/ratelimit"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password models.PlaintextSecret
	Role     string
	// Caller is the role of the authenticated requester, empty when anonymous.
	Caller models.Role
}

// UserService provides account operations for the HTTP tier:
//   - Register: create accounts with a bcrypt hash
//   - Login: verify credentials and rotate the stored session
//   - Refresh: issue and store a new pair for an account id
type UserService struct {
	repo          accounts.Repository
	sessions      *SessionStore
	issuer        *auth.Issuer
	limiter       ratelimit.LoginLimiter
	logger        logging.Logger
	strictRefresh bool
	guardAdmin    bool
	now           func() time.Time
}

// Option tweaks a UserService at construction.
type Option func(*UserService)

// WithLimiter throttles Login.
func WithLimiter(l ratelimit.LoginLimiter) Option {
	return func(s *UserService) { s.limiter = l }
}

// WithAdminGuard lets only callers with the Admin role create Admin accounts.
func WithAdminGuard(guard bool) Option {
	return func(s *UserService) { s.guardAdmin = guard }
}

// WithStrictRefresh makes Refresh require the stored refresh token.
func WithStrictRefresh(strict bool) Option {
	return func(s *UserService) { s.strictRefresh = strict }
}

func NewUserService(repo accounts.Repository, issuer *auth.Issuer, l logging.Logger, opts ...Option) *UserService {
	s := &UserService{
		repo:     repo,
		sessions: NewSessionStore(repo),
		issuer:   issuer,
		limiter:  ratelimit.Noop{},
		logger:   l.With("module", "user_service"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates in, hashes the password and stores a new account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return uuid.Nil, fmt.Errorf("%w: username, email and password are required", common.ErrBadRequest)
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return uuid.Nil, err
	}
	if s.guardAdmin && role == models.RoleAdmin && in.Caller != models.RoleAdmin {
		return uuid.Nil, fmt.Errorf("%w: only an admin can create admin accounts", common.ErrForbidden)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	id, err := s.repo.Create(ctx, &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info(ctx, "Registered", "id", id.String(), "role", role)
	return id, nil
}

// Login checks the credentials and stores a freshly issued session.
func (s *UserService) Login(ctx context.Context, email string, password models.PlaintextSecret) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrBadRequest)
	}

	if err := s.limiter.Allow(ctx, email); err != nil {
		s.logger.Warn(ctx, "Login throttled", "email", email, "error", err)
		return nil, err
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: account not found", common.ErrUnauthorized)
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "Stored password hash is unreadable", "id", account.ID.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	session, err := s.issueAndStore(ctx, account, accounts.ByEmail(email))
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn(ctx, "Could not reset login attempts", "email", email, "error", err)
	}

	s.logger.Info(ctx, "Logged in", "id", account.ID.String())
	return session, nil
}

// Refresh issues a new pair for the account with the given id. presented is
// the caller's refresh token; it is only checked in strict mode.
func (s *UserService) Refresh(ctx context.Context, rawID, presented string) (*models.Session, error) {
	id, err := models.ParseAccountID(rawID)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.strictRefresh {
		if err := s.checkRefreshToken(account, presented); err != nil {
			s.logger.Warn(ctx, "Refresh rejected", "id", id.String(), "error", err)
			return nil, err
		}
	}

	session, err := s.issueAndStore(ctx, account, accounts.ByID(id))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Refreshed", "id", id.String())
	return session, nil
}

func (s *UserService) checkRefreshToken(account *models.Account, presented string) error {
	if presented == "" {
		return fmt.Errorf("%w: refresh token required", common.ErrUnauthorized)
	}

	claims, err := s.issuer.ParseRefresh(presented)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	if claims.Subject != account.ID.String() {
		return fmt.Errorf("%w: token subject mismatch", common.ErrUnauthorized)
	}
	if account.Session == nil ||
		subtle.ConstantTimeCompare([]byte(account.Session.RefreshToken), []byte(presented)) != 1 {
		return fmt.Errorf("%w: refresh token is not current", common.ErrUnauthorized)
	}
	return nil
}

func (s *UserService) issueAndStore(ctx context.Context, account *models.Account, f accounts.Filter) (*models.Session, error) {
	session, err := s.issuer.IssuePair(account, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.sessions.Rotate(ctx, f, *session); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// the account disappeared between lookup and rotation
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		return nil, err
	}
	return session, nil
}

// List returns the reduced view of every account.
func (s *UserService) List(ctx context.Context) ([]models.AccountView, error) {
	return s.repo.List(ctx)
}

// UpdateName renames the account with the given id.
func (s *UserService) UpdateName(ctx context.Context, rawID, username string) error {
	id, err := models.ParseAccountID(rawID)
	if err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", common.ErrBadRequest)
	}

	n, err := s.repo.PatchName(ctx, id, username)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
