package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the token lifetime used when none is configured.
const DefaultSessionTTL = time.Hour

// Manager issues and verifies signed session tokens. Tokens are HS256 JWTs
// carrying only registered claims; verification needs no server-side state
// unless a revocation store is configured.
type Manager struct {
	issuer string
	secret []byte
	ttl    time.Duration
	store  RevocationStore
}

// NewManager creates a Manager signing with the given secret. A nil store
// keeps verification fully stateless.
func NewManager(issuer string, secret []byte, ttl time.Duration, store RevocationStore) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		issuer: issuer,
		secret: secret,
		ttl:    ttl,
		store:  store,
	}
}

// Issue creates and signs a new session token valid for the configured TTL.
func (m *Manager) Issue() (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Session{Token: signed, ExpiresAt: expiresAt.Unix()}, nil
}

// Verify checks the token's signature and expiry, and consults the
// revocation store when one is configured. It returns nil for a live token
// and one of the package sentinel errors otherwise.
func (m *Manager) Verify(ctx context.Context, raw string) error {
	claims, err := m.parse(raw)
	if err != nil {
		return err
	}

	if m.store != nil {
		revoked, err := m.store.IsRevoked(ctx, claims.ID)
		if err != nil {
			return fmt.Errorf("revocation check failed: %w", err)
		}
		if revoked {
			return ErrTokenRevoked
		}
	}

	return nil
}

// Revoke invalidates the presented token for the remainder of its lifetime.
// It requires a configured revocation store.
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	if m.store == nil {
		return errors.New("revocation store not configured")
	}

	claims, err := m.parse(raw)
	if err != nil {
		return err
	}

	if err := m.store.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

func (m *Manager) parse(raw string) (*jwt.RegisteredClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
