// File: internal/usecase/redemption_uc.go
package usecase

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
)

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

type RedemptionUseCase interface {
	// PendingCodes lists redemption-code orders awaiting manual delivery.
	PendingCodes(ctx context.Context, offset, limit int) ([]*model.Order, error)
	// MarkDelivered records that a code was handed to the customer. The note
	// is free text for the admin trail; codes themselves are never stored.
	MarkDelivered(ctx context.Context, orderID, note string) error
}

type redemptionUC struct {
	orders repository.OrderRepository
	txm    repository.TransactionManager
	log    *zerolog.Logger
}

func NewRedemptionUseCase(orders repository.OrderRepository, txm repository.TransactionManager, logger *zerolog.Logger) *redemptionUC {
	return &redemptionUC{orders: orders, txm: txm, log: logger}
}

func (u *redemptionUC) PendingCodes(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	all, err := u.orders.ListByType(ctx, repository.NoTX, model.ProductTypeRedemptionCode, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Order, 0, len(all))
	for _, o := range all {
		if !o.Redeemed {
			out = append(out, o)
		}
	}
	return out, nil
}

// MarkDelivered validates and updates in one transaction so two admins
// working the queue cannot both record delivery of the same order.
func (u *redemptionUC) MarkDelivered(ctx context.Context, orderID, note string) error {
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		o, err := u.orders.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.ActivationType != model.ActivationRedemptionCode {
			return domain.ErrInvalidArgument
		}
		return u.orders.UpdateRedemption(ctx, tx, orderID, true, note)
	})
	if err != nil {
		return err
	}
	u.log.Info().Str("order_id", orderID).Msg("redemption code marked delivered")
	return nil
}
