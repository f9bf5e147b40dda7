package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"todotrack/internal/auth/store"
	"todotrack/internal/auth/store/revocation"
	"todotrack/internal/jwttoken"
	"todotrack/internal/platform/middleware"
	dErrors "todotrack/pkg/domain-errors"
	"todotrack/pkg/platform/sentinel"
)

// TokenValidator adapts the JWT service, revocation list, and session
// store to the middleware's validator port. Signature validity alone is
// not enough; a logged-out token must stop working before it expires,
// and a token whose session was revoked or expired out from under it is
// just as dead.
type TokenValidator struct {
	tokens      *jwttoken.Service
	revocations revocation.List
	sessions    store.SessionStore
}

func NewTokenValidator(tokens *jwttoken.Service, revocations revocation.List, sessions store.SessionStore) *TokenValidator {
	return &TokenValidator{tokens: tokens, revocations: revocations, sessions: sessions}
}

func (v *TokenValidator) ValidateToken(ctx context.Context, tokenString string) (*middleware.Claims, error) {
	claims, err := v.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check token revocation")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries an invalid session")
	}
	session, err := v.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up session")
	}
	if !session.IsActive(time.Now()) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session is no longer active")
	}

	return &middleware.Claims{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		JTI:       claims.ID,
	}, nil
}

// FullClaims re-parses a token for handlers that need the registered claims
// (logout needs the expiry and jti).
func (v *TokenValidator) FullClaims(tokenString string) (*jwttoken.Claims, error) {
	return v.tokens.ValidateToken(tokenString)
}
