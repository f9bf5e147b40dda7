package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Only the bcrypt hash of the password is
// ever stored.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session records one login. Tokens reference the session so a logout can
// invalidate everything issued under it.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Device    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// IsActive reports whether the session is usable at the given time.
func (s Session) IsActive(now time.Time) bool {
	if s.RevokedAt != nil && !s.RevokedAt.After(now) {
		return false
	}
	return now.Before(s.ExpiresAt)
}
