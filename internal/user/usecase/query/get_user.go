package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// GetUserQuery represents the query to get a user by ID
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*domain.User, error) {
	return h.repo.FindByID(ctx, q.ID)
}

// LookupPrincipal resolves the current identity of an authenticated user.
// Deactivated and deleted accounts are rejected.
func (h *GetUserHandler) LookupPrincipal(ctx context.Context, userID uint) (identity.Principal, error) {
	user, err := h.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return identity.Principal{}, apperror.Unauthorized("account not found")
		}
		return identity.Principal{}, err
	}
	if !user.IsActive {
		return identity.Principal{}, apperror.Unauthorized("account is deactivated")
	}
	return user.Principal(), nil
}
