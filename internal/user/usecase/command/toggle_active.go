package command

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// ToggleActiveCommand activates or deactivates an account (admin only)
type ToggleActiveCommand struct {
	ActorID  uint
	UserID   uint
	IsActive bool
}

// ToggleActiveHandler handles account activation changes
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*domain.User, error) {
	if cmd.UserID == cmd.ActorID && !cmd.IsActive {
		return nil, apperror.Forbidden("CANNOT_DEACTIVATE_SELF", "admins cannot deactivate their own account")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	user.IsActive = cmd.IsActive
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
