package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// CodeUsernameChangeTooSoon is returned while the username cooldown is running
const CodeUsernameChangeTooSoon = "USERNAME_CHANGE_TOO_SOON"

// ChangeUsernameCommand renames the caller's account
type ChangeUsernameCommand struct {
	UserID   uint
	Username string
}

// ChangeUsernameHandler enforces the once-per-30-days username rule
type ChangeUsernameHandler struct {
	repo domain.UserRepository
	now  func() time.Time
}

func NewChangeUsernameHandler(repo domain.UserRepository) *ChangeUsernameHandler {
	return &ChangeUsernameHandler{repo: repo, now: time.Now}
}

// WithClock replaces the time source
func (h *ChangeUsernameHandler) WithClock(now func() time.Time) *ChangeUsernameHandler {
	h.now = now
	return h
}

func (h *ChangeUsernameHandler) Handle(ctx context.Context, cmd ChangeUsernameCommand) (*domain.User, error) {
	username := strings.TrimSpace(cmd.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if username == user.Username {
		return nil, apperror.Validation("username", "new username must differ from the current one")
	}

	now := h.now()
	if days := user.UsernameCooldownDays(now); days > 0 {
		return nil, apperror.RateLimited(CodeUsernameChangeTooSoon,
			fmt.Sprintf("username can be changed again in %d days", days))
	}

	if _, err := h.repo.FindByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("USERNAME_TAKEN", "username already exists")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	previous := user.Username
	user.Username = username
	user.UsernameChangedAt = &now
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Str("from", previous).
		Str("to", username).
		Msg("Username changed")

	return user, nil
}
