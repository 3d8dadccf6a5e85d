package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test JWT tokens
func createTestToken(claims map[string]interface{}) string {
	header := map[string]interface{}{
		"alg": "RS256",
		"typ": "JWT",
	}
	headerJSON, _ := json.Marshal(header)
	claimsJSON, _ := json.Marshal(claims)

	headerEncoded := base64.RawURLEncoding.EncodeToString(headerJSON)
	claimsEncoded := base64.RawURLEncoding.EncodeToString(claimsJSON)

	// Create a fake signature (we're not validating)
	signature := base64.RawURLEncoding.EncodeToString([]byte("fake-signature"))

	return headerEncoded + "." + claimsEncoded + "." + signature
}

func TestDecodeExpiry_ValidToken(t *testing.T) {
	exp := time.Now().Add(1 * time.Hour).Truncate(time.Second)
	tok := createTestToken(map[string]interface{}{
		"sub": "user-123",
		"exp": float64(exp.Unix()),
	})

	got, err := DecodeExpiry(tok)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestDecodeExpiry_ExpiredToken(t *testing.T) {
	// Expired tokens still decode; validation is not the decoder's job.
	exp := time.Now().Add(-1 * time.Hour).Truncate(time.Second)
	tok := createTestToken(map[string]interface{}{
		"exp": float64(exp.Unix()),
	})

	got, err := DecodeExpiry(tok)
	require.NoError(t, err)
	assert.True(t, got.Before(time.Now()))
}

func TestDecodeExpiry_MissingExpClaim(t *testing.T) {
	tok := createTestToken(map[string]interface{}{
		"sub": "user-123",
	})

	_, err := DecodeExpiry(tok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exp claim")
}

func TestDecodeExpiry_MalformedToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "not-a-jwt"},
		{"two parts", "aaaa.bbbb"},
		{"garbage base64", "!!!.@@@.###"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExpiry(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestNewCachedToken_DerivesExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	value := createTestToken(map[string]interface{}{
		"exp": float64(exp.Unix()),
	})

	tok := NewCachedToken(value)
	assert.Equal(t, value, tok.Value)
	assert.True(t, tok.ExpiresAt.Equal(exp))
}

func TestNewCachedToken_MalformedTokenHasZeroExpiry(t *testing.T) {
	tok := NewCachedToken("garbage")
	assert.Equal(t, "garbage", tok.Value)
	assert.True(t, tok.ExpiresAt.IsZero())
	assert.False(t, tok.Fresh(time.Now()))
	assert.True(t, tok.ExpiringSoon(time.Now(), DefaultSoonWindow))
}

func TestCachedToken_Freshness(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	tests := []struct {
		name         string
		expiresIn    time.Duration
		fresh        bool
		expiringSoon bool
	}{
		{"well before window", 10 * time.Minute, true, false},
		{"inside window", 2 * time.Minute, true, true},
		{"exactly at window edge", 5 * time.Minute, true, true},
		{"already expired", -1 * time.Minute, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := CachedToken{Value: "t", ExpiresAt: now.Add(tt.expiresIn)}
			assert.Equal(t, tt.fresh, tok.Fresh(now))
			assert.Equal(t, tt.expiringSoon, tok.ExpiringSoon(now, window))
		})
	}
}
