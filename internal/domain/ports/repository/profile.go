package repository

import (
	"context"

	"adobe-subscription-store/internal/domain/model"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Profile, error)
	UpdateName(ctx context.Context, tx Tx, id, name string) error
	Count(ctx context.Context, tx Tx) (int, error)
}
