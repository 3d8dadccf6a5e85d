// Package router translates logical routes into fully-qualified backend
// requests.
//
// The router handles three axes of variation transparently: execution context
// (server-side rendering vs browser), route category (passthrough through the
// site's own API layer vs direct backend), and whether the route requires
// bearer-token authentication. Tokens come from an injected TokenSource; the
// router never reaches into token state directly.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunContext is the execution context requests are issued from.
type RunContext string

const (
	// ContextServer is the server-side-rendering context.
	ContextServer RunContext = "server"
	// ContextBrowser is the in-browser context.
	ContextBrowser RunContext = "browser"
)

// BaseURLs holds the three configured bases the resolution table draws from.
// The fourth cell of the table (browser + passthrough) is always the empty
// string: same-origin.
type BaseURLs struct {
	// InternalAPI is the site's own API layer, reachable from the server.
	InternalAPI string
	// InternalBackend is the backend service's internal address.
	InternalBackend string
	// PublicBackend is the backend's public reverse-proxy address.
	PublicBackend string
}

// TokenSource supplies bearer tokens for routes that require auth.
type TokenSource interface {
	// GetToken returns the current bearer token, or empty to proceed
	// unauthenticated.
	GetToken(ctx context.Context) (string, error)
}

// Options are the per-request options.
type Options struct {
	// Method defaults to GET.
	Method string
	// Query is serialized onto the URL; nil-valued params are dropped.
	Query Params
	// Body is JSON-marshalled when non-nil.
	Body interface{}
	// Headers are set on the request verbatim.
	Headers http.Header
}

// Config configures a Router.
type Config struct {
	Context    RunContext
	URLs       BaseURLs
	Classifier *Classifier
	Tokens     TokenSource
	Transport  Transport
	Logger     *zap.Logger
}

// Router issues HTTP requests for logical routes.
type Router struct {
	runCtx     RunContext
	urls       BaseURLs
	classifier *Classifier
	tokens     TokenSource
	transport  Transport
	logger     *zap.Logger
}

// New creates a router. Classifier defaults to the standard passthrough
// prefix with no auth routes; Transport defaults to a browser transport.
func New(cfg Config) *Router {
	if cfg.Classifier == nil {
		cfg.Classifier = NewClassifier("", nil)
	}
	if cfg.Transport == nil {
		cfg.Transport = NewBrowserTransport(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Context == "" {
		cfg.Context = ContextBrowser
	}
	return &Router{
		runCtx:     cfg.Context,
		urls:       cfg.URLs,
		classifier: cfg.Classifier,
		tokens:     cfg.Tokens,
		transport:  cfg.Transport,
		logger:     cfg.Logger,
	}
}

// ResolveBaseURL returns the base URL for a (context, category) pair. The
// four cases are exhaustive; there is no fifth case.
func ResolveBaseURL(runCtx RunContext, cat Category, urls BaseURLs) string {
	switch {
	case cat == CategoryPassthrough && runCtx == ContextServer:
		return urls.InternalAPI
	case cat == CategoryPassthrough && runCtx == ContextBrowser:
		return "" // same origin
	case cat == CategoryDirectBackend && runCtx == ContextServer:
		return urls.InternalBackend
	default: // direct backend from the browser
		return urls.PublicBackend
	}
}

// Request classifies route, resolves the base URL, attaches auth when
// required, and issues the call. It returns the raw response body on success.
// Transport errors are rethrown unchanged; non-2xx statuses become an
// *HTTPError. Retries and recovery are the caller's responsibility.
func (r *Router) Request(ctx context.Context, route string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = &Options{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	cls := r.classifier.Classify(route)

	fullURL := ResolveBaseURL(r.runCtx, cls.Category, r.urls) + route
	if q := opts.Query.Encode(); q != "" {
		fullURL += "?" + q
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range opts.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	if cls.RequiresAuth && r.tokens != nil {
		tok, err := r.tokens.GetToken(ctx)
		if err != nil {
			return nil, err
		}
		// An empty token means "proceed unauthenticated": the backend's own
		// 401 becomes the surfaced error.
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	r.logger.Debug("issuing request",
		zap.String("method", method),
		zap.String("route", route),
		zap.String("category", string(cls.Category)),
	)

	resp, err := r.transport.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newHTTPError(resp.StatusCode, body)
	}

	return body, nil
}

// Do issues a request and decodes the JSON response body into T.
func Do[T any](ctx context.Context, r *Router, route string, opts *Options) (T, error) {
	var out T

	body, err := r.Request(ctx, route, opts)
	if err != nil {
		return out, err
	}
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// Get issues a GET request for route.
func (r *Router) Get(ctx context.Context, route string, query Params) ([]byte, error) {
	return r.Request(ctx, route, &Options{Method: http.MethodGet, Query: query})
}

// Post issues a POST request with a JSON body.
func (r *Router) Post(ctx context.Context, route string, body interface{}) ([]byte, error) {
	return r.Request(ctx, route, &Options{Method: http.MethodPost, Body: body})
}

// Put issues a PUT request with a JSON body.
func (r *Router) Put(ctx context.Context, route string, body interface{}) ([]byte, error) {
	return r.Request(ctx, route, &Options{Method: http.MethodPut, Body: body})
}

// Delete issues a DELETE request for route.
func (r *Router) Delete(ctx context.Context, route string) ([]byte, error) {
	return r.Request(ctx, route, &Options{Method: http.MethodDelete})
}
