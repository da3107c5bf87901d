package repository

import (
	"context"

	"adobe-subscription-store/internal/domain/model"
)

// ProductRepository serves the pricing catalog (immutable reference data).
type ProductRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Product, error)
	Save(ctx context.Context, tx Tx, p *model.Product) error
	Delete(ctx context.Context, tx Tx, id string) error
}
