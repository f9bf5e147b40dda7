package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todotrack/internal/auth/models"
)

// Stores are interface-driven to keep the auth service testable and to allow
// swapping in-memory and external persistence without rewiring business
// code. Implementations return pkg/platform/sentinel errors for store facts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}
