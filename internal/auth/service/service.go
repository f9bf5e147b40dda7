// Package service implements registration, login, and logout on top of the
// user/session stores, bcrypt hashing, and JWT issuance.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"todotrack/internal/auth/device"
	"todotrack/internal/auth/models"
	"todotrack/internal/auth/secrets"
	"todotrack/internal/auth/store"
	"todotrack/internal/auth/store/revocation"
	"todotrack/internal/jwttoken"
	"todotrack/internal/platform/audit"
	dErrors "todotrack/pkg/domain-errors"
	"todotrack/pkg/platform/sentinel"
)

const minPasswordLength = 8

type Service struct {
	users       store.UserStore
	sessions    store.SessionStore
	revocations revocation.List
	tokens      *jwttoken.Service

	tokenTTL   time.Duration
	sessionTTL time.Duration
	logger     *slog.Logger
	audit      *audit.Recorder
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(recorder *audit.Recorder) Option {
	return func(s *Service) { s.audit = recorder }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.tokenTTL = ttl }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

func New(users store.UserStore, sessions store.SessionStore, revocations revocation.List, tokens *jwttoken.Service, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if revocations == nil {
		return nil, fmt.Errorf("revocation list is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}

	svc := &Service{
		users:       users,
		sessions:    sessions,
		revocations: revocations,
		tokens:      tokens,
		tokenTTL:    time.Hour,
		sessionTTL:  24 * time.Hour,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.record(audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.ActionUserRegistered,
		UserID:   user.ID.String(),
	})
	return user, nil
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	UserID      uuid.UUID
	SessionID   uuid.UUID
}

// Login verifies credentials, opens a session bound to the caller's
// device, and issues an access token. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password, userAgent string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordLoginFailure("")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			s.recordLoginFailure(user.ID.String())
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}

	now := time.Now()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Device:    device.DisplayName(userAgent),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	token, _, err := s.tokens.GenerateAccessToken(user.ID, session.ID, now, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.record(audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.ActionLoginSucceeded,
		UserID:   user.ID.String(),
		Detail:   session.Device,
	})
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		UserID:      user.ID,
		SessionID:   session.ID,
	}, nil
}

// Logout revokes the presented token and its session. Idempotent: logging
// out twice is not an error.
func (s *Service) Logout(ctx context.Context, claims *jwttoken.Claims) error {
	if claims == nil {
		return dErrors.New(dErrors.CodeBadRequest, "token claims are required")
	}

	// Keep the jti on the list until the token would have expired anyway.
	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.revocations.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}

	if sessionID, err := uuid.Parse(claims.SessionID); err == nil {
		if err := s.sessions.Revoke(ctx, sessionID, time.Now()); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke session")
		}
	}

	s.record(audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.ActionLogout,
		UserID:   claims.UserID,
	})
	return nil
}

func (s *Service) record(event audit.Event) {
	if s.audit != nil {
		s.audit.Record(event)
	}
}

func (s *Service) recordLoginFailure(userID string) {
	s.record(audit.Event{
		Category: audit.CategorySecurity,
		Action:   audit.ActionLoginFailed,
		UserID:   userID,
	})
}
