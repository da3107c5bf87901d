package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, customer_name, customer_email, amount_cents, currency, status, plan_id, description, savings_cents, duration_months, expiry_date, activation_type, adobe_email, provider, payment_ref, raw_payload, redeemed, delivery_note, created_at, updated_at`

// Insert is the idempotency point: the unique index on payment_ref plus
// ON CONFLICT DO NOTHING makes webhook redelivery a no-op without a prior
// SELECT. Zero rows affected means the order already exists.
func (r *orderRepo) Insert(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (
  ` + orderColumns + `
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20
) ON CONFLICT (payment_ref) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q,
		o.ID, o.CustomerName, o.CustomerEmail, o.AmountCents, o.Currency, o.Status,
		o.PlanID, o.Description, o.SavingsCents, o.DurationMonths, o.ExpiryDate,
		o.ActivationType, o.AdobeEmail, o.Provider, o.PaymentRef, o.RawPayload,
		o.Redeemed, o.DeliveryNote, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) FindByPaymentRef(ctx context.Context, tx repository.Tx, ref string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE payment_ref=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, ref)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE lower(customer_email)=lower($1) ORDER BY created_at DESC OFFSET $2 LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, email, offset, limit)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) ListByType(ctx context.Context, tx repository.Tx, typ model.ProductType, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	// Redemption-code orders are joined through the catalog so the filter
	// stays correct if plan ids are ever renamed.
	const q = `SELECT ` + orderColumns + ` FROM orders
 WHERE plan_id IN (SELECT id FROM products WHERE product_type=$1)
 ORDER BY created_at DESC OFFSET $2 LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, typ, offset, limit)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) MarkInactive(ctx context.Context, tx repository.Tx, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const q = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id = ANY($1) AND status IN ('ACTIVE','COMPLETED');`
	cmd, err := execSQL(ctx, r.pool, tx, q, ids, model.OrderStatusInactive)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(cmd.RowsAffected()), nil
}

func (r *orderRepo) ExpiredCandidates(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 500
	}
	const q = `SELECT ` + orderColumns + ` FROM orders
 WHERE status IN ('ACTIVE','COMPLETED') AND expiry_date IS NOT NULL AND expiry_date < $1
 ORDER BY expiry_date ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, now, limit)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) UpdateRedemption(ctx context.Context, tx repository.Tx, id string, redeemed bool, deliveryNote string) error {
	const q = `UPDATE orders SET redeemed=$2, delivery_note=$3, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, redeemed, deliveryNote)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OrderStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM orders GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	out := make(map[model.OrderStatus]int)
	for rows.Next() {
		var st model.OrderStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[st] = n
	}
	return out, nil
}

func (r *orderRepo) SumRevenueByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount_cents),0) FROM orders WHERE status IN ('ACTIVE','COMPLETED','INACTIVE') AND created_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func (r *orderRepo) ListRecipients(ctx context.Context, tx repository.Tx, onlyActive bool) ([]string, error) {
	q := `SELECT DISTINCT lower(customer_email) FROM orders`
	if onlyActive {
		q += ` WHERE status IN ('ACTIVE','COMPLETED')`
	}
	q += `;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, email)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.AmountCents, &o.Currency, &o.Status,
		&o.PlanID, &o.Description, &o.SavingsCents, &o.DurationMonths, &o.ExpiryDate,
		&o.ActivationType, &o.AdobeEmail, &o.Provider, &o.PaymentRef, &o.RawPayload,
		&o.Redeemed, &o.DeliveryNote, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]*model.Order, error) {
	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func wrapQueryErr(err error) error {
	switch err {
	case pgx.ErrNoRows:
		return domain.ErrNotFound
	case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
		return err
	default:
		return domain.ErrOperationFailed
	}
}
