package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sitekit/sitekit/pkg/reqstate"
	"github.com/sitekit/sitekit/pkg/router"
)

// PendingUser is an account awaiting admin approval.
type PendingUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registeredAt,omitempty"`
}

// AccessRequest is a visitor's request for access to restricted content.
type AccessRequest struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// AdminService exposes the admin moderation surface.
type AdminService struct {
	router *router.Router
	state  reqstate.State
	logger *zap.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(r *router.Router, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{router: r, logger: logger}
}

// State exposes the loading/error flags for admin operations.
func (s *AdminService) State() *reqstate.State {
	return &s.state
}

// PendingUsers lists accounts awaiting approval.
func (s *AdminService) PendingUsers(ctx context.Context) ([]PendingUser, error) {
	var users []PendingUser
	err := reqstate.Run(ctx, &s.state, s.logger, "admin.pending", func(ctx context.Context) error {
		var err error
		users, err = router.Do[[]PendingUser](ctx, s.router, "/admin/users/pending", nil)
		return err
	})
	return users, err
}

// ApproveUser approves a pending account.
func (s *AdminService) ApproveUser(ctx context.Context, id string) error {
	return reqstate.Run(ctx, &s.state, s.logger, "admin.approve", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, "/admin/users/"+id+"/approve", nil)
		return err
	})
}

// RejectUser rejects a pending account.
func (s *AdminService) RejectUser(ctx context.Context, id string) error {
	return reqstate.Run(ctx, &s.state, s.logger, "admin.reject", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, "/admin/users/"+id+"/reject", nil)
		return err
	})
}

// AccessRequests lists pending access requests.
func (s *AdminService) AccessRequests(ctx context.Context) ([]AccessRequest, error) {
	var reqs []AccessRequest
	err := reqstate.Run(ctx, &s.state, s.logger, "admin.access-requests", func(ctx context.Context) error {
		var err error
		reqs, err = router.Do[[]AccessRequest](ctx, s.router, "/admin/access-requests", nil)
		return err
	})
	return reqs, err
}

// ResolveAccessRequest approves or denies an access request.
func (s *AdminService) ResolveAccessRequest(ctx context.Context, id string, approve bool) error {
	return reqstate.Run(ctx, &s.state, s.logger, "admin.access-resolve", func(ctx context.Context) error {
		_, err := s.router.Post(ctx, "/admin/access-requests/"+id+"/resolve", map[string]bool{
			"approve": approve,
		})
		return err
	})
}
