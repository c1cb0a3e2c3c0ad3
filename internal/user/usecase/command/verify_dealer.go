package command

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// VerifyDealerCommand grants or revokes dealer verification (admin only)
type VerifyDealerCommand struct {
	ActorID  uint
	DealerID uint
	Verified bool
}

type VerifyDealerHandler struct {
	dealers domain.DealerRepository
}

func NewVerifyDealerHandler(dealers domain.DealerRepository) *VerifyDealerHandler {
	return &VerifyDealerHandler{dealers: dealers}
}

func (h *VerifyDealerHandler) Handle(ctx context.Context, cmd VerifyDealerCommand) (*domain.Dealer, error) {
	dealer, err := h.dealers.SetVerification(ctx, cmd.DealerID, cmd.Verified, time.Now())
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("actor_id", cmd.ActorID).
		Uint("dealer_id", dealer.ID).
		Bool("verified", cmd.Verified).
		Msg("Dealer verification changed")

	return dealer, nil
}
