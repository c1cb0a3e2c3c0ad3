package command

import (
	"context"
	"strings"

	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/auth"
)

// UpdateProfileCommand updates the caller's own profile. Nil fields are left unchanged.
type UpdateProfileCommand struct {
	UserID   uint
	FullName *string
	Phone    *string
	City     *string
	Email    *string
	Password *string
}

// UpdateProfileHandler handles profile updates
type UpdateProfileHandler struct {
	repo domain.UserRepository
}

func NewUpdateProfileHandler(repo domain.UserRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.FullName != nil {
		name := strings.TrimSpace(*cmd.FullName)
		if name == "" {
			return nil, apperror.Validation("fullName", "full name cannot be empty")
		}
		user.FullName = name
	}
	if cmd.Phone != nil {
		user.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.City != nil {
		user.City = strings.TrimSpace(*cmd.City)
	}
	if cmd.Email != nil {
		email, err := domain.NormalizeEmail(*cmd.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if _, err := h.repo.FindByEmail(ctx, email); err == nil {
				return nil, apperror.Conflict("EMAIL_TAKEN", "email already exists")
			} else if apperror.KindOf(err) != apperror.KindNotFound {
				return nil, err
			}
			user.Email = email
		}
	}
	if cmd.Password != nil {
		if err := domain.ValidatePassword(*cmd.Password); err != nil {
			return nil, err
		}
		hashed, err := auth.HashPassword(*cmd.Password)
		if err != nil {
			return nil, apperror.Internal("failed to hash password", err)
		}
		user.Password = hashed
	}

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
