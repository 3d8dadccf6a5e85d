package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/sitekit/sitekit/pkg/auth"
	"github.com/sitekit/sitekit/pkg/auth/storage"
	"github.com/sitekit/sitekit/pkg/config"
	"github.com/sitekit/sitekit/pkg/router"
	"github.com/sitekit/sitekit/pkg/services"
	"github.com/sitekit/sitekit/pkg/session"
	"github.com/sitekit/sitekit/pkg/token"
)

const appName = "sitekit"

// app is the wired client stack for one CLI invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   storage.CredentialStorage
	session *session.Session
	tokens  *token.Cache
	router  *router.Router
	auth    *auth.Service
	timers  *services.TimerService
	phrases *services.PhraseService
	admin   *services.AdminService
}

// newApp loads configuration and wires session, token cache, router, and the
// services in that order. The stored session credential, if any, is seeded
// into a cookie jar shared by the token cache and the router transport.
func newApp(ctx context.Context, configPath string, verbose bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.URLs.InternalAPI == "" {
		return nil, fmt.Errorf("urls.internal_api is not configured (config: %s)", configPath)
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	store, err := storage.New(&cfg.Storage, appName)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential storage: %w", err)
	}

	apiBase := strings.TrimRight(cfg.URLs.InternalAPI, "/")
	apiURL, err := url.Parse(apiBase)
	if err != nil {
		return nil, fmt.Errorf("invalid internal_api URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if cred, lerr := store.Load(ctx); lerr == nil && cred != nil && cred.Session != "" {
		jar.SetCookies(apiURL, []*http.Cookie{{Name: "session", Value: cred.Session, Path: "/"}})
	}
	client := &http.Client{Jar: jar, Timeout: cfg.Router.HTTPTimeout}

	sess := session.New(
		session.WithLogger(logger),
		session.WithRedirect(func() {
			pterm.Warning.Println("Session expired. Run 'sitectl login' to sign in again.")
		}),
	)

	tokens := token.NewCache(token.Config{
		TokenURL:   apiBase + "/api/auth/token",
		RefreshURL: apiBase + "/api/auth/refresh",
		SoonWindow: cfg.Token.SoonWindow,
		HTTPClient: client,
		Logger:     logger,
	}, sess)

	rt := router.New(router.Config{
		Context: router.ContextServer,
		URLs: router.BaseURLs{
			InternalAPI:     apiBase,
			InternalBackend: cfg.URLs.InternalBackend,
			PublicBackend:   cfg.URLs.PublicBackend,
		},
		Classifier: router.NewClassifier(cfg.Router.PassthroughPrefix, cfg.Router.AuthPrefixes),
		Tokens:     tokens,
		Transport:  router.NewServerTransport(client, nil),
		Logger:     logger,
	})

	authSvc := auth.NewService(rt, sess,
		auth.WithTokenCache(tokens),
		auth.WithStorage(store),
		auth.WithLogger(logger),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: sess,
		tokens:  tokens,
		router:  rt,
		auth:    authSvc,
		timers:  services.NewTimerService(rt, logger),
		phrases: services.NewPhraseService(rt, logger),
		admin:   services.NewAdminService(rt, logger),
	}, nil
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync()
}
