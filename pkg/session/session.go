// Package session holds the client's view of the authenticated user.
//
// The session object is constructed explicitly and passed into its consumers
// (token cache, auth service) rather than reached for ambiently. It satisfies
// the token package's SessionHooks interface.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// User is the authenticated user as reported by the session endpoint.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Admin         bool   `json:"admin"`
	EmailVerified bool   `json:"emailVerified"`
}

// Session tracks the logged-in user. Safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	user     *User
	loggedIn bool

	fetch    FetchFunc
	redirect func()
	logger   *zap.Logger
}

// FetchFunc pulls the current session state from the server. It returns the
// user when a session exists, or nil when the caller is anonymous.
type FetchFunc func(ctx context.Context) (*User, error)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRedirect sets the hook invoked when an unauthenticated failure requires
// sending the user to the login surface. The hook itself decides whether the
// current location is auth-exempt.
func WithRedirect(fn func()) Option {
	return func(s *Session) { s.redirect = fn }
}

// New creates an empty (anonymous) session.
func New(opts ...Option) *Session {
	s := &Session{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind attaches the server fetch function. Binding happens after construction
// because the router that performs the fetch itself depends on this session's
// hooks through the token cache.
func (s *Session) Bind(fetch FetchFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetch = fetch
}

// User returns the current user, or nil when anonymous.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a user session exists.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Fetch re-pulls the session from the server and updates local state.
func (s *Session) Fetch(ctx context.Context) error {
	s.mu.RLock()
	fetch := s.fetch
	s.mu.RUnlock()

	if fetch == nil {
		return fmt.Errorf("session is not bound to a fetcher")
	}

	user, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.loggedIn = user != nil
	s.mu.Unlock()
	return nil
}

// Set replaces the session state locally. Used by the auth service after a
// successful login response that already carries the user.
func (s *Session) Set(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.loggedIn = user != nil
}

// Clear invalidates the session locally. Idempotent.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loggedIn = false
}

// RedirectToLogin invokes the configured redirect hook, if any.
func (s *Session) RedirectToLogin() {
	s.mu.RLock()
	redirect := s.redirect
	s.mu.RUnlock()

	if redirect != nil {
		redirect()
	} else {
		s.logger.Debug("no login redirect configured")
	}
}
