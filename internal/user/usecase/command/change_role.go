package command

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// ChangeRoleCommand represents the command to change user role (admin only)
type ChangeRoleCommand struct {
	ActorID uint
	UserID  uint
	Role    string
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	role, err := identity.ParseRole(cmd.Role)
	if err != nil {
		return nil, apperror.Validation("role", "role must be one of ADMIN, DEALER, SELLER, BUYER")
	}
	if cmd.UserID == cmd.ActorID {
		return nil, apperror.Forbidden("CANNOT_CHANGE_OWN_ROLE", "admins cannot change their own role")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("actor_id", cmd.ActorID).
		Uint("user_id", user.ID).
		Str("role", role.String()).
		Msg("User role changed")

	return user, nil
}
