package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/auth"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	City     string
	Role     string // optional: SELLER or BUYER, defaults to BUYER
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	if err := domain.ValidateUsername(cmd.Username); err != nil {
		return nil, err
	}
	email, err := domain.NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(cmd.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.FullName) == "" {
		return nil, apperror.Validation("fullName", "full name is required")
	}

	role := identity.RoleBuyer
	if cmd.Role != "" {
		parsed, err := identity.ParseRole(cmd.Role)
		// self-registration never grants ADMIN or DEALER
		if err != nil || (parsed != identity.RoleSeller && parsed != identity.RoleBuyer) {
			return nil, apperror.Validation("role", "role must be SELLER or BUYER")
		}
		role = parsed
	}

	if _, err := h.repo.FindByUsername(ctx, cmd.Username); err == nil {
		return nil, apperror.Conflict("USERNAME_TAKEN", "username already exists")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}
	if _, err := h.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("EMAIL_TAKEN", "email already exists")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    email,
		Password: hashedPassword,
		FullName: strings.TrimSpace(cmd.FullName),
		Phone:    strings.TrimSpace(cmd.Phone),
		City:     strings.TrimSpace(cmd.City),
		Role:     role,
		IsActive: true,
	}

	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role.String()).
		Msg("User registered")

	return user, nil
}
