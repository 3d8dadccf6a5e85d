package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/sitekit/sitekit/pkg/reqstate"
)

// OAuthConfig configures the OAuth login flow against the site's identity
// provider.
type OAuthConfig struct {
	// ClientID is the OAuth2 client identifier.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	// AuthURL is the provider's authorization endpoint.
	AuthURL string `yaml:"auth_url" mapstructure:"auth_url"`
	// TokenURL is the provider's token endpoint.
	TokenURL string `yaml:"token_url" mapstructure:"token_url"`
	// Scopes are the requested OAuth2 scopes.
	Scopes []string `yaml:"scopes,omitempty" mapstructure:"scopes"`
	// RedirectPort is the local port for the OAuth callback server
	// (default: 9998).
	RedirectPort int `yaml:"redirect_port,omitempty" mapstructure:"redirect_port"`
}

// OAuthFlow performs the authorization-code-with-PKCE flow: a local HTTP
// server receives the callback while the system browser drives the provider's
// consent screen.
type OAuthFlow struct {
	config       *OAuthConfig
	oauth2Config *oauth2.Config
	opener       BrowserOpener
	out          io.Writer
	port         int
	pkceVerifier string
}

// NewOAuthFlow creates an OAuth login flow. A nil opener uses the system
// browser.
func NewOAuthFlow(config *OAuthConfig, opener BrowserOpener) (*OAuthFlow, error) {
	if config == nil {
		return nil, fmt.Errorf("OAuth config is required")
	}
	if config.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if config.AuthURL == "" || config.TokenURL == "" {
		return nil, fmt.Errorf("auth_url and token_url are required")
	}

	port := config.RedirectPort
	if port == 0 {
		port = 9998
	}

	if opener == nil {
		opener = &SystemBrowserOpener{}
	}

	return &OAuthFlow{
		config: config,
		oauth2Config: &oauth2.Config{
			ClientID:    config.ClientID,
			RedirectURL: fmt.Sprintf("http://localhost:%d/callback", port),
			Scopes:      config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
		},
		opener: opener,
		out:    os.Stderr,
		port:   port,
	}, nil
}

// SetOutput redirects the flow's user-facing messages. Defaults to stderr.
func (f *OAuthFlow) SetOutput(w io.Writer) {
	f.out = w
}

// Authorize runs the flow and returns the provider token.
func (f *OAuthFlow) Authorize(ctx context.Context) (*oauth2.Token, error) {
	server, callbackChan, err := f.startCallbackServer()
	if err != nil {
		return nil, err
	}
	defer func() { _ = server.Close() }()

	authURL := f.buildAuthURL()
	openWithFallback(f.opener, authURL, f.out)
	_, _ = fmt.Fprintln(f.out, "Waiting for authorization...")

	select {
	case code := <-callbackChan:
		if code == "" {
			return nil, fmt.Errorf("authorization failed")
		}

		tok, err := f.oauth2Config.Exchange(ctx, code, oauth2.VerifierOption(f.pkceVerifier))
		if err != nil {
			return nil, fmt.Errorf("failed to exchange code for token: %w", err)
		}
		return tok, nil

	case <-ctx.Done():
		return nil, fmt.Errorf("authorization cancelled")
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timeout")
	}
}

// startCallbackServer starts a local HTTP server to receive the OAuth
// callback.
func (f *OAuthFlow) startCallbackServer() (*http.Server, chan string, error) {
	callbackChan := make(chan string, 1)

	u, err := url.Parse(f.oauth2Config.RedirectURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(u.Path, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No authorization code received", http.StatusBadRequest)
			callbackChan <- ""
			return
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window.</p></body></html>")
		callbackChan <- code
	})

	addr := u.Host
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("localhost:%d", f.port)
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	go func() { _ = server.Serve(listener) }()

	return server, callbackChan, nil
}

// buildAuthURL builds the authorization URL with the PKCE challenge.
func (f *OAuthFlow) buildAuthURL() string {
	state := generateRandomString(32)

	verifier := generateRandomString(64)
	f.pkceVerifier = verifier

	h := sha256.New()
	h.Write([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(h.Sum(nil))

	return f.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// LoginWithOAuth drives the OAuth flow and exchanges the provider token for a
// site session.
func (s *Service) LoginWithOAuth(ctx context.Context, flow *OAuthFlow) error {
	return reqstate.Run(ctx, &s.state, s.logger, "oauth-login", func(ctx context.Context) error {
		providerToken, err := flow.Authorize(ctx)
		if err != nil {
			return err
		}

		body, err := s.router.Post(ctx, routeOAuthLogin, map[string]string{
			"access_token": providerToken.AccessToken,
		})
		if err != nil {
			return err
		}

		var resp sessionResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("failed to decode oauth login response: %w", err)
		}
		if resp.User == nil {
			return fmt.Errorf("oauth login response carried no user")
		}

		s.session.Set(resp.User)
		s.persistCredential(ctx, resp.Session, resp.User.Email)
		return nil
	})
}

// generateRandomString generates a random URL-safe string of the specified
// length.
func generateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length]
}
