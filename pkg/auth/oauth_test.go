package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOAuthFlow_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *OAuthConfig
	}{
		{"nil config", nil},
		{"missing client id", &OAuthConfig{AuthURL: "a", TokenURL: "t"}},
		{"missing urls", &OAuthConfig{ClientID: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOAuthFlow(tt.config, nil)
			assert.Error(t, err)
		})
	}
}

func TestOAuthFlow_AuthorizeRoundTrip(t *testing.T) {
	// Fake provider: only the token endpoint matters for the exchange.
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-tok","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(provider.Close)

	opener := &MockBrowserOpener{}
	flow, err := NewOAuthFlow(&OAuthConfig{
		ClientID:     "site-cli",
		AuthURL:      provider.URL + "/auth",
		TokenURL:     provider.URL + "/token",
		RedirectPort: 19998,
	}, opener)
	require.NoError(t, err)
	flow.SetOutput(io.Discard)

	type result struct {
		token string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		tok, err := flow.Authorize(context.Background())
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{token: tok.AccessToken}
	}()

	// Wait for the flow to open the browser, then simulate the provider
	// redirecting back to the local callback server.
	require.Eventually(t, func() bool {
		return len(opener.GetOpenedURLs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	authURL := opener.GetOpenedURLs()[0]
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "site-cli", parsed.Query().Get("client_id"))
	assert.Equal(t, "S256", parsed.Query().Get("code_challenge_method"))
	assert.NotEmpty(t, parsed.Query().Get("code_challenge"))

	resp, err := http.Get("http://localhost:19998/callback?code=auth-code-1")
	require.NoError(t, err)
	_ = resp.Body.Close()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, "provider-tok", res.token)
	case <-time.After(5 * time.Second):
		t.Fatal("authorize did not complete")
	}
}

func TestOAuthFlow_PortlessRedirectListensOnConfiguredPort(t *testing.T) {
	flow, err := NewOAuthFlow(&OAuthConfig{
		ClientID:     "site-cli",
		AuthURL:      "http://localhost/auth",
		TokenURL:     "http://localhost/token",
		RedirectPort: 19996,
	}, &MockBrowserOpener{})
	require.NoError(t, err)
	flow.SetOutput(io.Discard)

	// A redirect URL without an explicit port must still bind the listener to
	// the configured port.
	flow.oauth2Config.RedirectURL = "http://localhost/callback"

	server, callbackChan, err := flow.startCallbackServer()
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	resp, err := http.Get("http://localhost:19996/callback?code=auth-code-2")
	require.NoError(t, err)
	_ = resp.Body.Close()

	select {
	case code := <-callbackChan:
		assert.Equal(t, "auth-code-2", code)
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not received")
	}
}

func TestOAuthFlow_CallbackWithoutCodeFails(t *testing.T) {
	flow, err := NewOAuthFlow(&OAuthConfig{
		ClientID:     "site-cli",
		AuthURL:      "http://localhost/auth",
		TokenURL:     "http://localhost/token",
		RedirectPort: 19997,
	}, &MockBrowserOpener{})
	require.NoError(t, err)
	flow.SetOutput(io.Discard)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Authorize(context.Background())
		done <- err
	}()

	// Give the callback server a moment to come up.
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://localhost:19997/callback")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "authorization failed"))
	case <-time.After(5 * time.Second):
		t.Fatal("authorize did not complete")
	}
}
