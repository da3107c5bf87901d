package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ pool *pgxpool.Pool }

func NewProductRepo(pool *pgxpool.Pool) *productRepo {
	return &productRepo{pool: pool}
}

const productColumns = `id, name, duration_months, price_cents, original_price_cents, product_type, product_line, activation_type, created_at`

func (r *productRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	p := &model.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.PriceCents, &p.OriginalPriceCents, &p.Type, &p.Line, &p.Activation, &p.CreatedAt); err != nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY duration_months, product_line;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p := &model.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.PriceCents, &p.OriginalPriceCents, &p.Type, &p.Line, &p.Activation, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *productRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	const q = `
INSERT INTO products (` + productColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  name=$2, duration_months=$3, price_cents=$4, original_price_cents=$5, product_type=$6, product_line=$7, activation_type=$8;`
	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.DurationMonths, p.PriceCents, p.OriginalPriceCents, p.Type, p.Line, p.Activation, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM products WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
