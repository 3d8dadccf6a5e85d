// Package services contains the thin resource layers over the request
// router: incident timers, phrases, and admin moderation. Each operation is
// one round trip plus state bookkeeping; retries are the caller's concern.
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sitekit/sitekit/pkg/reqstate"
	"github.com/sitekit/sitekit/pkg/router"
)

// IncidentTimer tracks how long it has been since a named incident last
// happened.
type IncidentTimer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	LastIncidentAt time.Time `json:"lastIncidentAt"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// TimerService manages incident timers.
type TimerService struct {
	router *router.Router
	state  reqstate.State
	logger *zap.Logger
}

// NewTimerService creates a timer service.
func NewTimerService(r *router.Router, logger *zap.Logger) *TimerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimerService{router: r, logger: logger}
}

// State exposes the loading/error flags for timer operations.
func (s *TimerService) State() *reqstate.State {
	return &s.state
}

// List returns all incident timers.
func (s *TimerService) List(ctx context.Context) ([]IncidentTimer, error) {
	var timers []IncidentTimer
	err := reqstate.Run(ctx, &s.state, s.logger, "timers.list", func(ctx context.Context) error {
		var err error
		timers, err = router.Do[[]IncidentTimer](ctx, s.router, "/timers", nil)
		return err
	})
	return timers, err
}

// Get returns a single incident timer.
func (s *TimerService) Get(ctx context.Context, id string) (*IncidentTimer, error) {
	var timer IncidentTimer
	err := reqstate.Run(ctx, &s.state, s.logger, "timers.get", func(ctx context.Context) error {
		var err error
		timer, err = router.Do[IncidentTimer](ctx, s.router, "/timers/"+id, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

// Create creates a new incident timer starting now.
func (s *TimerService) Create(ctx context.Context, name, description string) (*IncidentTimer, error) {
	var timer IncidentTimer
	err := reqstate.Run(ctx, &s.state, s.logger, "timers.create", func(ctx context.Context) error {
		var err error
		timer, err = router.Do[IncidentTimer](ctx, s.router, "/timers", &router.Options{
			Method: "POST",
			Body: map[string]string{
				"name":        name,
				"description": description,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

// Reset marks a fresh incident on the timer, restarting its count.
func (s *TimerService) Reset(ctx context.Context, id string) (*IncidentTimer, error) {
	var timer IncidentTimer
	err := reqstate.Run(ctx, &s.state, s.logger, "timers.reset", func(ctx context.Context) error {
		var err error
		timer, err = router.Do[IncidentTimer](ctx, s.router, fmt.Sprintf("/timers/%s/reset", id), &router.Options{
			Method: "POST",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

// Delete removes an incident timer.
func (s *TimerService) Delete(ctx context.Context, id string) error {
	return reqstate.Run(ctx, &s.state, s.logger, "timers.delete", func(ctx context.Context) error {
		_, err := s.router.Delete(ctx, "/timers/"+id)
		return err
	})
}
