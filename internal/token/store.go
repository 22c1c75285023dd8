package token

import (
	"context"
	"time"
)

// RevocationStore tracks sessions invalidated before their natural expiry.
// The default deployment runs without one; verification is then a pure
// signature-and-expiry check.
type RevocationStore interface {
	// Revoke marks the session with the given ID as revoked until it would
	// have expired anyway.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether the session was revoked and is still within
	// its original lifetime.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PurgeExpired removes entries whose tokens have expired on their own.
	PurgeExpired(ctx context.Context) error

	Close() error
}
