// Package revocation tracks access tokens (by jti) that were invalidated
// before their natural expiry.
package revocation

import (
	"context"
	"time"
)

// List is consulted on every authenticated request, so implementations must
// stay cheap. Entries only need to live as long as the token they revoke.
type List interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
