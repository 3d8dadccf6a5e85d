package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sitekit/sitekit/pkg/reqstate"
	"github.com/sitekit/sitekit/pkg/router"
)

// PhraseStatus is the moderation state of a phrase.
type PhraseStatus string

const (
	PhraseStatusPending  PhraseStatus = "pending"
	PhraseStatusApproved PhraseStatus = "approved"
	PhraseStatusRejected PhraseStatus = "rejected"
)

// Phrase is a visitor-suggested phrase subject to moderation.
type Phrase struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Status    PhraseStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt,omitempty"`
}

// PhraseService manages phrases and their moderation.
type PhraseService struct {
	router *router.Router
	state  reqstate.State
	logger *zap.Logger
}

// NewPhraseService creates a phrase service.
func NewPhraseService(r *router.Router, logger *zap.Logger) *PhraseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhraseService{router: r, logger: logger}
}

// State exposes the loading/error flags for phrase operations.
func (s *PhraseService) State() *reqstate.State {
	return &s.state
}

// List returns phrases, optionally filtered by status. A nil status lists
// everything.
func (s *PhraseService) List(ctx context.Context, status *PhraseStatus) ([]Phrase, error) {
	var query router.Params
	if status != nil {
		query = router.Params{router.P("status", string(*status))}
	}

	var phrases []Phrase
	err := reqstate.Run(ctx, &s.state, s.logger, "phrases.list", func(ctx context.Context) error {
		var err error
		phrases, err = router.Do[[]Phrase](ctx, s.router, "/phrases", &router.Options{Query: query})
		return err
	})
	return phrases, err
}

// Suggest submits a new phrase for moderation.
func (s *PhraseService) Suggest(ctx context.Context, text string) (*Phrase, error) {
	var phrase Phrase
	err := reqstate.Run(ctx, &s.state, s.logger, "phrases.suggest", func(ctx context.Context) error {
		var err error
		phrase, err = router.Do[Phrase](ctx, s.router, "/phrases/suggest", &router.Options{
			Method: "POST",
			Body:   map[string]string{"text": text},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &phrase, nil
}

// Moderate sets a phrase's moderation status. Admin only.
func (s *PhraseService) Moderate(ctx context.Context, id string, status PhraseStatus) error {
	return reqstate.Run(ctx, &s.state, s.logger, "phrases.moderate", func(ctx context.Context) error {
		_, err := s.router.Put(ctx, "/phrases/moderate/"+id, map[string]string{
			"status": string(status),
		})
		return err
	})
}
