// File: internal/usecase/profile_uc.go
package usecase

import (
	"context"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
)

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

type ProfileUseCase interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	Rename(ctx context.Context, id, name string) error
}

type profileUC struct {
	profiles repository.ProfileRepository
}

func NewProfileUseCase(profiles repository.ProfileRepository) *profileUC {
	return &profileUC{profiles: profiles}
}

func (u *profileUC) Get(ctx context.Context, id string) (*model.Profile, error) {
	return u.profiles.FindByID(ctx, repository.NoTX, id)
}

func (u *profileUC) Rename(ctx context.Context, id, name string) error {
	if name == "" || len(name) > 120 {
		return domain.ErrInvalidArgument
	}
	return u.profiles.UpdateName(ctx, repository.NoTX, id, name)
}
