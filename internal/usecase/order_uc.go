// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
	"adobe-subscription-store/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderView is an order plus the derived entitlement state the dashboard
// renders. Active is computed server-side so clients never re-implement the
// expiry rule.
type OrderView struct {
	Order  *model.Order
	Active bool
}

type OrderUseCase interface {
	// History returns a customer's orders, newest first. Expired rows are
	// flipped to INACTIVE opportunistically on read so the sweep worker is a
	// backstop, not a prerequisite for correct display.
	History(ctx context.Context, email string, offset, limit int) ([]OrderView, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	// ExpireDue flips ACTIVE/COMPLETED orders whose expiry has passed.
	// Returns how many rows were updated.
	ExpireDue(ctx context.Context, now time.Time, limit int) (int, error)
}

type orderUC struct {
	orders repository.OrderRepository
	log    *zerolog.Logger
}

func NewOrderUseCase(orders repository.OrderRepository, logger *zerolog.Logger) *orderUC {
	return &orderUC{orders: orders, log: logger}
}

func (u *orderUC) History(ctx context.Context, email string, offset, limit int) ([]OrderView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	all, err := u.orders.ListByEmail(ctx, repository.NoTX, email, offset, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]OrderView, 0, len(all))
	var expired []string
	for _, o := range all {
		active := o.IsActive(now)
		if !active && (o.Status == model.OrderStatusActive || o.Status == model.OrderStatusCompleted) {
			expired = append(expired, o.ID)
			o.Status = model.OrderStatusInactive
		}
		views = append(views, OrderView{Order: o, Active: active})
	}

	if len(expired) > 0 {
		n, err := u.orders.MarkInactive(ctx, repository.NoTX, expired)
		if err != nil {
			// Display already reflects the computed state; the sweep worker
			// will retry the flip.
			u.log.Warn().Err(err).Int("count", len(expired)).Msg("opportunistic expiry flip failed")
		} else if n > 0 {
			metrics.IncOrdersExpired(n)
		}
	}
	return views, nil
}

func (u *orderUC) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.FindByID(ctx, repository.NoTX, id)
}

func (u *orderUC) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = 500
	}
	due, err := u.orders.ExpiredCandidates(ctx, repository.NoTX, now, limit)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(due))
	for _, o := range due {
		ids = append(ids, o.ID)
	}
	n, err := u.orders.MarkInactive(ctx, repository.NoTX, ids)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.IncOrdersExpired(n)
		u.log.Info().Int("count", n).Msg("expired orders marked inactive")
	}
	return n, nil
}
