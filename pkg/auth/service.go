// Package auth implements the site's session lifecycle flows: password
// login, registration, logout, session refresh and revocation, email
// verification, and OAuth login.
//
// Every operation is thin orchestration over the request router; loading and
// error state is tracked through the shared reqstate wrapper so a UI (or the
// CLI) can bind to it.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sitekit/sitekit/pkg/auth/storage"
	"github.com/sitekit/sitekit/pkg/reqstate"
	"github.com/sitekit/sitekit/pkg/router"
	"github.com/sitekit/sitekit/pkg/session"
	"github.com/sitekit/sitekit/pkg/token"
)

// Passthrough routes for the session lifecycle.
const (
	routeLogin         = "/api/auth/login"
	routeRegister      = "/api/auth/register"
	routeLogout        = "/api/auth/logout"
	routeRefresh       = "/api/auth/refresh"
	routeRevokeAll     = "/api/auth/revoke-all"
	routeVerifySend    = "/api/auth/verify/send"
	routeVerifyConfirm = "/api/auth/verify/confirm"
	routeOAuthLogin    = "/api/auth/oauth"
	routeSession       = "/api/session"
)

// Service orchestrates the auth flows.
type Service struct {
	router  *router.Router
	session *session.Session
	tokens  *token.Cache
	storage storage.CredentialStorage
	state   reqstate.State
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTokenCache lets logout clear the cached bearer token.
func WithTokenCache(cache *token.Cache) Option {
	return func(s *Service) { s.tokens = cache }
}

// WithStorage persists the session credential across runs.
func WithStorage(store storage.CredentialStorage) Option {
	return func(s *Service) { s.storage = store }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates an auth service and binds the session's fetch function
// to the session endpoint.
func NewService(r *router.Router, sess *session.Session, opts ...Option) *Service {
	s := &Service{
		router:  r,
		session: sess,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	sess.Bind(func(ctx context.Context) (*session.User, error) {
		return s.fetchSessionUser(ctx)
	})

	return s
}

// State exposes the loading/error flags for the auth flows.
func (s *Service) State() *reqstate.State {
	return &s.state
}

// sessionResponse is the shape the login/register/session endpoints return.
type sessionResponse struct {
	User    *session.User `json:"user"`
	Session string        `json:"session,omitempty"`
}

// Login authenticates with email and password, establishes the session, and
// persists the credential when storage is configured.
func (s *Service) Login(ctx context.Context, email, password string) error {
	return reqstate.Run(ctx, &s.state, s.logger, "login", func(ctx context.Context) error {
		body, err := s.router.Post(ctx, routeLogin, map[string]string{
			"email":    email,
			"password": password,
		})
		if err != nil {
			return err
		}

		var resp sessionResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("failed to decode login response: %w", err)
		}
		if resp.User == nil {
			return fmt.Errorf("login response carried no user")
		}

		s.session.Set(resp.User)
		s.persistCredential(ctx, resp.Session, email)
		return nil
	})
}

// Register creates a new account. Depending on site policy the account may
// need admin approval before it can log in.
func (s *Service) Register(ctx context.Context, email, name, password string) error {
	return reqstate.Run(ctx, &s.state, s.logger, "register", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, routeRegister, map[string]string{
			"email":    email,
			"name":     name,
			"password": password,
		})
		return err
	})
}

// Logout ends the server session and clears all local state: cached token,
// session object, and stored credential.
func (s *Service) Logout(ctx context.Context) error {
	return reqstate.Run(ctx, &s.state, s.logger, "logout", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, routeLogout, nil)

		// Local state goes regardless of whether the server call succeeded.
		if s.tokens != nil {
			s.tokens.ClearToken()
		}
		s.session.Clear()
		if s.storage != nil {
			if derr := s.storage.Delete(ctx); derr != nil {
				s.logger.Warn("failed to delete stored credential", zap.Error(derr))
			}
		}
		return err
	})
}

// RefreshSession rotates the underlying server session.
func (s *Service) RefreshSession(ctx context.Context) error {
	return reqstate.Run(ctx, &s.state, s.logger, "refresh", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, routeRefresh, nil)
		return err
	})
}

// RevokeAllSessions invalidates every session for the current user, then
// clears local state the same way logout does.
func (s *Service) RevokeAllSessions(ctx context.Context) error {
	return reqstate.Run(ctx, &s.state, s.logger, "revoke-all", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, routeRevokeAll, nil)
		if err != nil {
			return err
		}
		if s.tokens != nil {
			s.tokens.ClearToken()
		}
		s.session.Clear()
		if s.storage != nil {
			if derr := s.storage.Delete(ctx); derr != nil {
				s.logger.Warn("failed to delete stored credential", zap.Error(derr))
			}
		}
		return nil
	})
}

// SendVerificationEmail asks the server to send a verification email to the
// logged-in user.
func (s *Service) SendVerificationEmail(ctx context.Context) error {
	return reqstate.Run(ctx, &s.state, s.logger, "verify-send", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, routeVerifySend, nil)
		return err
	})
}

// VerifyEmail confirms an email address with the token from the verification
// link, then re-pulls the session so the verified flag updates.
func (s *Service) VerifyEmail(ctx context.Context, verifyToken string) error {
	return reqstate.Run(ctx, &s.state, s.logger, "verify-confirm", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, routeVerifyConfirm, map[string]string{"token": verifyToken})
		if err != nil {
			return err
		}
		if s.session.LoggedIn() {
			return s.session.Fetch(ctx)
		}
		return nil
	})
}

// fetchSessionUser pulls the current session from the server. A 401 means
// anonymous, not an error.
func (s *Service) fetchSessionUser(ctx context.Context) (*session.User, error) {
	body, err := s.router.Get(ctx, routeSession, nil)
	if err != nil {
		if router.StatusOf(err) == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return resp.User, nil
}

func (s *Service) persistCredential(ctx context.Context, sessionValue, email string) {
	if s.storage == nil || sessionValue == "" {
		return
	}
	cred := &storage.Credential{
		Session:   sessionValue,
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := s.storage.Save(ctx, cred); err != nil {
		s.logger.Warn("failed to persist credential", zap.Error(err))
	}
}
