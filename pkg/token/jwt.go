package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CachedToken pairs a bearer token with the expiry decoded from its payload.
// The expiry is always derived from the token value; the two fields are never
// set independently.
type CachedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Fresh reports whether the token has not yet expired.
// A zero expiry (malformed token) is never fresh.
func (t CachedToken) Fresh(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(t.ExpiresAt)
}

// ExpiringSoon reports whether the token is within the given window of its
// expiry. Tokens returned to callers must be fresh AND not expiring soon, so
// that a request which starts using a token does not have it expire mid-flight.
func (t CachedToken) ExpiringSoon(now time.Time, window time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(t.ExpiresAt.Add(-window))
}

// DecodeExpiry parses a JWT WITHOUT validation and returns its exp claim.
// Returns an error only for malformed tokens or tokens without a usable
// exp claim, NOT for expired tokens or invalid signatures.
func DecodeExpiry(tokenString string) (time.Time, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, fmt.Errorf("failed to extract claims from token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}

	return time.Unix(int64(exp), 0), nil
}

// NewCachedToken builds a CachedToken from a raw token string, deriving the
// expiry from the embedded exp claim. A token whose expiry cannot be decoded
// is stored with a zero expiry and therefore treated as already expired.
func NewCachedToken(value string) CachedToken {
	expiresAt, err := DecodeExpiry(value)
	if err != nil {
		return CachedToken{Value: value}
	}
	return CachedToken{Value: value, ExpiresAt: expiresAt}
}
