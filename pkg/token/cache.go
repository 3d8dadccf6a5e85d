// Package token manages the lifecycle of the site's bearer token.
//
// The Cache owns a single cached token plus its expiry, decides freshness,
// and triggers both reactive (on-demand) and proactive (scheduled) refresh
// against the session endpoints. Concurrent callers that need a refresh share
// one round trip: the first caller performs it and everyone observes the same
// result (single-flight).
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultSoonWindow is how long before expiry a token is considered
// "expiring soon" and refreshed rather than returned.
const DefaultSoonWindow = 5 * time.Minute

const refreshKey = "token"

// SessionHooks is the narrow slice of session behaviour the cache needs.
// The session object itself lives in the session package; the cache never
// reaches into its state directly.
type SessionHooks interface {
	// LoggedIn reports whether a refresh attempt is warranted at all.
	LoggedIn() bool
	// Clear invalidates the local session state.
	Clear()
	// RedirectToLogin sends the user to the login surface. The hook itself
	// decides whether the current location is auth-exempt.
	RedirectToLogin()
}

// Config configures a Cache.
type Config struct {
	// TokenURL is the endpoint that issues/returns the current bearer token.
	TokenURL string
	// RefreshURL is the session-refresh endpoint, called before fetching a
	// new token to rotate the underlying session.
	RefreshURL string
	// SoonWindow overrides DefaultSoonWindow when positive.
	SoonWindow time.Duration
	// HTTPClient is the transport for refresh round trips. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
	// Logger receives background-refresh failures. Defaults to zap.NewNop().
	Logger *zap.Logger
	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Cache caches a single bearer token and keeps it fresh.
// There is at most one refresh round trip in flight at any time.
type Cache struct {
	cfg   Config
	hooks SessionHooks

	group singleflight.Group

	mu           sync.Mutex
	current      *CachedToken
	refreshTimer *time.Timer
}

// NewCache creates a token cache. hooks may be nil, in which case refresh is
// always attempted and unauthenticated failures have no session side effect.
func NewCache(cfg Config, hooks SessionHooks) *Cache {
	if cfg.SoonWindow <= 0 {
		cfg.SoonWindow = DefaultSoonWindow
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{cfg: cfg, hooks: hooks}
}

// GetToken returns the freshest available bearer token, refreshing if needed.
//
// A cached token that is fresh and not expiring soon is returned without any
// I/O. Otherwise one refresh round trip is performed; concurrent callers wait
// on and observe the result of that same round trip. Refresh failures resolve
// to an empty token, never an error: callers treat an empty result as
// "proceed unauthenticated" or abort. The returned error is non-nil only when
// ctx was cancelled.
func (c *Cache) GetToken(ctx context.Context) (string, error) {
	now := c.cfg.Now()

	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()

	if cur != nil && cur.Fresh(now) && !cur.ExpiringSoon(now, c.cfg.SoonWindow) {
		return cur.Value, nil
	}

	if c.hooks != nil && !c.hooks.LoggedIn() {
		return "", nil
	}

	v, err, _ := c.group.Do(refreshKey, func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", nil
	}
	return v.(string), nil
}

// ClearToken discards the cached token and cancels any scheduled proactive
// refresh. Idempotent.
func (c *Cache) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
}

// Current returns a copy of the cached token, if any. Intended for
// inspection and tests.
func (c *Cache) Current() (CachedToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return CachedToken{}, false
	}
	return *c.current, true
}

// refresh rotates the session, fetches the current token, caches it and arms
// the proactive-refresh timer.
func (c *Cache) refresh(ctx context.Context) (interface{}, error) {
	if err := c.refreshSession(ctx); err != nil {
		c.cfg.Logger.Warn("session refresh failed", zap.Error(err))
		return nil, err
	}

	value, err := c.fetchToken(ctx)
	if err != nil {
		c.cfg.Logger.Warn("token fetch failed", zap.Error(err))
		return nil, err
	}

	tok := NewCachedToken(value)

	c.mu.Lock()
	c.current = &tok
	c.armProactiveRefresh(tok)
	c.mu.Unlock()

	return value, nil
}

// refreshSession posts to the session-refresh endpoint. A 401 clears local
// session state and redirects to login via the hooks.
func (c *Cache) refreshSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RefreshURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create refresh request: %w", err)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("session refresh failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthenticated()
		return fmt.Errorf("session refresh rejected: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("session refresh failed: HTTP %d", resp.StatusCode)
	}
	return nil
}

// fetchToken retrieves the current bearer token from the token endpoint.
func (c *Cache) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.TokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthenticated()
		return "", fmt.Errorf("token fetch rejected: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("token fetch failed: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}
	return body.Token, nil
}

// handleUnauthenticated clears all local session state and redirects to the
// login surface. Fired once per failing refresh.
func (c *Cache) handleUnauthenticated() {
	c.ClearToken()
	if c.hooks != nil {
		c.hooks.Clear()
		c.hooks.RedirectToLogin()
	}
}

// armProactiveRefresh schedules a one-shot background session refresh at
// expiresAt - soonWindow. No-op if that instant is already past. At most one
// timer is pending at a time; caching a new token replaces it wholesale.
// Callers must hold c.mu.
func (c *Cache) armProactiveRefresh(tok CachedToken) {
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	if tok.ExpiresAt.IsZero() {
		return
	}
	d := tok.ExpiresAt.Add(-c.cfg.SoonWindow).Sub(c.cfg.Now())
	if d <= 0 {
		return
	}
	c.refreshTimer = time.AfterFunc(d, c.proactiveRefresh)
}

// proactiveRefresh is best-effort warming: it rotates the session in the
// background and discards the result. The authoritative path remains
// GetToken's own freshness check.
func (c *Cache) proactiveRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.refreshSession(ctx); err != nil {
		c.cfg.Logger.Warn("proactive session refresh failed", zap.Error(err))
	}
}
