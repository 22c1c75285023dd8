package token

import "errors"

// Session is an issued credential. The token string is opaque to clients;
// expiry is carried inside the signed payload.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

var (
	// ErrMissingToken is returned when no bearer credential was presented.
	ErrMissingToken = errors.New("authorization token required")

	// ErrTokenExpired is returned when the signature verifies but the
	// token's lifetime has elapsed.
	ErrTokenExpired = errors.New("session token expired")

	// ErrTokenInvalid is returned for malformed tokens and tokens whose
	// signature does not verify against the process signing secret.
	ErrTokenInvalid = errors.New("invalid session token")

	// ErrTokenRevoked is returned when a revocation store is configured
	// and the token was revoked before its natural expiry.
	ErrTokenRevoked = errors.New("session token revoked")
)
