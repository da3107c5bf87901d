package repository

import (
	"context"
	"time"

	"adobe-subscription-store/internal/domain/model"
)

// OrderRepository persists reconciled orders.
type OrderRepository interface {
	// Insert writes the order; domain.ErrAlreadyExists signals that a row
	// with the same payment_ref is already present (idempotent receive).
	// The insert is atomic (unique index + on-conflict), never check-then-insert.
	Insert(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	FindByPaymentRef(ctx context.Context, tx Tx, ref string) (*model.Order, error)
	ListByEmail(ctx context.Context, tx Tx, email string, offset, limit int) ([]*model.Order, error)
	ListByType(ctx context.Context, tx Tx, typ model.ProductType, offset, limit int) ([]*model.Order, error)
	// MarkInactive flips status for orders whose expiry has passed; returns
	// the number of rows updated.
	MarkInactive(ctx context.Context, tx Tx, ids []string) (int, error)
	ExpiredCandidates(ctx context.Context, tx Tx, now time.Time, limit int) ([]*model.Order, error)
	UpdateRedemption(ctx context.Context, tx Tx, id string, redeemed bool, deliveryNote string) error
	CountByStatus(ctx context.Context, tx Tx) (map[model.OrderStatus]int, error)
	SumRevenueByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
	ListRecipients(ctx context.Context, tx Tx, onlyActive bool) ([]string, error)
}
