// Package reqstate provides the shared request-execution wrapper used by the
// service layers: every operation runs through Run, which maintains the
// loading flag and last error message a UI binds to.
package reqstate

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sitekit/sitekit/pkg/router"
)

// State holds the loading/error flags for a group of operations.
// Safe for concurrent use.
type State struct {
	mu      sync.Mutex
	loading bool
	err     string
	status  int
}

// Loading reports whether an operation is in flight.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the last recorded error message, or empty.
func (s *State) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Status returns the HTTP status of the last recorded error, when available.
func (s *State) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Reset clears the recorded error.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	s.status = 0
}

func (s *State) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
	s.status = 0
}

func (s *State) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err == nil {
		return
	}
	s.err = Message(err)
	s.status = router.StatusOf(err)
}

// Run executes fn with loading/error bookkeeping. Failures are recorded into
// the state, logged, and returned so call sites can also react. There is no
// retry: a failed operation must be explicitly re-invoked.
func Run(ctx context.Context, s *State, logger *zap.Logger, op string, fn func(ctx context.Context) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	s.begin()
	err := fn(ctx)
	s.finish(err)

	if err != nil {
		logger.Error("request failed", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

// Message extracts the user-facing message from an error: the backend-supplied
// message for HTTP errors, the plain error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *router.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}
