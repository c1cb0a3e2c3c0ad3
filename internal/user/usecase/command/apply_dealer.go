package command

import (
	"context"
	"strings"

	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// ApplyDealerCommand submits a dealer profile for verification
type ApplyDealerCommand struct {
	UserID       uint
	BusinessName string
	Address      string
	City         string
	Phone        string
	Description  string
}

// ApplyDealerHandler creates unverified dealer profiles
type ApplyDealerHandler struct {
	users   domain.UserRepository
	dealers domain.DealerRepository
}

func NewApplyDealerHandler(users domain.UserRepository, dealers domain.DealerRepository) *ApplyDealerHandler {
	return &ApplyDealerHandler{users: users, dealers: dealers}
}

func (h *ApplyDealerHandler) Handle(ctx context.Context, cmd ApplyDealerCommand) (*domain.Dealer, error) {
	required := []struct{ field, value string }{
		{"businessName", cmd.BusinessName},
		{"address", cmd.Address},
		{"city", cmd.City},
		{"phone", cmd.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperror.Validation(r.field, r.field+" is required")
		}
	}

	if _, err := h.users.FindByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	if _, err := h.dealers.FindByUserID(ctx, cmd.UserID); err == nil {
		return nil, apperror.Conflict("DEALER_EXISTS", "dealer profile already exists")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	dealer := &domain.Dealer{
		UserID:       cmd.UserID,
		BusinessName: strings.TrimSpace(cmd.BusinessName),
		Address:      strings.TrimSpace(cmd.Address),
		City:         strings.TrimSpace(cmd.City),
		Phone:        strings.TrimSpace(cmd.Phone),
		Description:  strings.TrimSpace(cmd.Description),
	}
	if err := h.dealers.Create(ctx, dealer); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("dealer_id", dealer.ID).
		Uint("user_id", cmd.UserID).
		Msg("Dealer application submitted")

	return dealer, nil
}
