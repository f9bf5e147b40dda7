package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"todotrack/internal/auth/store"
	"todotrack/internal/auth/store/revocation"
	"todotrack/internal/jwttoken"
	"todotrack/internal/platform/audit"
	dErrors "todotrack/pkg/domain-errors"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Uses real in-memory stores, no mocks.
type ServiceSuite struct {
	suite.Suite
	svc      *Service
	sessions *store.InMemorySessionStore
	trl      *revocation.InMemoryList
	tokens   *jwttoken.Service
	recorder *audit.Recorder
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.sessions = store.NewInMemorySessionStore()
	s.trl = revocation.NewInMemoryList()
	s.tokens = jwttoken.NewService("test-key", "todotrack", "todotrack-api")
	s.recorder = audit.NewRecorder(16, logger)

	svc, err := New(store.NewInMemoryUserStore(), s.sessions, s.trl, s.tokens,
		WithLogger(logger),
		WithAudit(s.recorder),
		WithTokenTTL(time.Hour),
	)
	require.NoError(s.T(), err)
	s.svc = svc
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestRegisterAndLogin() {
	ctx := context.Background()

	user, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ada@example.com", user.Email)
	assert.NotContains(s.T(), user.PasswordHash, "supersecret")

	result, err := s.svc.Login(ctx, "ada@example.com", "supersecret", chromeUA)
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), result.AccessToken)
	assert.Equal(s.T(), "Bearer", result.TokenType)
	assert.Equal(s.T(), user.ID, result.UserID)

	claims, err := s.tokens.ValidateToken(result.AccessToken)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID.String(), claims.UserID)
}

func (s *ServiceSuite) TestRegisterValidation() {
	ctx := context.Background()

	_, err := s.svc.Register(ctx, "", "supersecret")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))

	_, err = s.svc.Register(ctx, "not-an-email", "supersecret")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))

	_, err = s.svc.Register(ctx, "ada@example.com", "short")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestRegisterDuplicateEmail() {
	ctx := context.Background()

	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)

	_, err = s.svc.Register(ctx, "ada@example.com", "othersecret")
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestLoginBindsSessionToDevice() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)

	result, err := s.svc.Login(ctx, "ada@example.com", "supersecret", chromeUA)
	require.NoError(s.T(), err)

	session, err := s.sessions.FindByID(ctx, result.SessionID)
	require.NoError(s.T(), err)
	assert.Contains(s.T(), session.Device, "Chrome")
	assert.Contains(s.T(), session.Device, "on")

	var loginEvent audit.Event
	for len(s.recorder.Events()) > 0 {
		if ev := <-s.recorder.Events(); ev.Action == audit.ActionLoginSucceeded {
			loginEvent = ev
		}
	}
	assert.Equal(s.T(), session.Device, loginEvent.Detail)
}

func (s *ServiceSuite) TestLoginWithoutUserAgent() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)

	result, err := s.svc.Login(ctx, "ada@example.com", "supersecret", "")
	require.NoError(s.T(), err)

	session, err := s.sessions.FindByID(ctx, result.SessionID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Unknown Device", session.Device)
}

func (s *ServiceSuite) TestLoginRejectsBadCredentials() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)

	_, err = s.svc.Login(ctx, "ada@example.com", "wrong-password", chromeUA)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeUnauthorized))

	_, err = s.svc.Login(ctx, "nobody@example.com", "supersecret", chromeUA)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeUnauthorized),
		"unknown email reads the same as a wrong password")
}

func (s *ServiceSuite) TestLogoutRevokesTokenAndSession() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)

	result, err := s.svc.Login(ctx, "ada@example.com", "supersecret", chromeUA)
	require.NoError(s.T(), err)

	validator := NewTokenValidator(s.tokens, s.trl, s.sessions)
	_, err = validator.ValidateToken(ctx, result.AccessToken)
	require.NoError(s.T(), err)

	claims, err := s.tokens.ValidateToken(result.AccessToken)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.Logout(ctx, claims))

	_, err = validator.ValidateToken(ctx, result.AccessToken)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeUnauthorized))

	session, err := s.sessions.FindByID(ctx, result.SessionID)
	require.NoError(s.T(), err)
	assert.False(s.T(), session.IsActive(time.Now().Add(time.Second)))
}

func (s *ServiceSuite) TestRevokedSessionKillsToken() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)

	result, err := s.svc.Login(ctx, "ada@example.com", "supersecret", chromeUA)
	require.NoError(s.T(), err)

	validator := NewTokenValidator(s.tokens, s.trl, s.sessions)
	_, err = validator.ValidateToken(ctx, result.AccessToken)
	require.NoError(s.T(), err)

	// Revoke the session without touching the token's jti; the token must
	// still stop working.
	require.NoError(s.T(), s.sessions.Revoke(ctx, result.SessionID, time.Now()))

	_, err = validator.ValidateToken(ctx, result.AccessToken)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestAuditTrail() {
	ctx := context.Background()
	_, err := s.svc.Register(ctx, "ada@example.com", "supersecret")
	require.NoError(s.T(), err)
	_, err = s.svc.Login(ctx, "ada@example.com", "wrong", chromeUA)
	require.Error(s.T(), err)

	var actions []audit.Action
	for len(s.recorder.Events()) > 0 {
		actions = append(actions, (<-s.recorder.Events()).Action)
	}
	assert.Equal(s.T(), []audit.Action{audit.ActionUserRegistered, audit.ActionLoginFailed}, actions)
}
