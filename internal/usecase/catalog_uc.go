// File: internal/usecase/catalog_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// ResolvedPlan is what the reconciler needs to price an order: duration,
// list price for the savings display, and the storefront description.
type ResolvedPlan struct {
	PlanID             string
	Months             int
	OriginalPriceCents int64
	Description        string
}

type CatalogUseCase interface {
	Products(ctx context.Context) ([]*model.Product, error)
	FindPlan(ctx context.Context, planID string) (*model.Product, error)
	// Resolve runs the fallback chain: plan id -> description regex ->
	// exact-amount match -> Unknown. It only fails on storage errors, never
	// on an unrecognized plan.
	Resolve(ctx context.Context, planID, description string, amountCents int64) (*ResolvedPlan, error)
	// Save and Delete are admin-only catalog edits.
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, planID string) error
}

type catalogUC struct {
	products repository.ProductRepository
	log      *zerolog.Logger
}

func NewCatalogUseCase(products repository.ProductRepository, logger *zerolog.Logger) *catalogUC {
	return &catalogUC{products: products, log: logger}
}

func (u *catalogUC) Products(ctx context.Context) ([]*model.Product, error) {
	return u.products.ListAll(ctx, repository.NoTX)
}

func (u *catalogUC) FindPlan(ctx context.Context, planID string) (*model.Product, error) {
	if planID == "" {
		return nil, domain.ErrUnknownPlan
	}
	p, err := u.products.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownPlan
		}
		return nil, err
	}
	return p, nil
}

func (u *catalogUC) Resolve(ctx context.Context, planID, description string, amountCents int64) (*ResolvedPlan, error) {
	// 1) id lookup
	if planID != "" {
		p, err := u.products.FindByID(ctx, repository.NoTX, planID)
		if err == nil {
			return fromProduct(p), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		u.log.Warn().Str("plan_id", planID).Msg("plan id not in catalog, trying fallbacks")
	}

	all, err := u.products.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}

	// 2) free-text duration
	if months := model.MonthsFromText(description); months != 0 {
		if p := matchMonths(all, months); p != nil {
			return fromProduct(p), nil
		}
		return &ResolvedPlan{
			Months:      months,
			Description: "Adobe Creative Cloud - " + model.DurationLabel(months),
		}, nil
	}

	// 3) exact amount against known price points
	for _, p := range all {
		if p.PriceCents == amountCents {
			return fromProduct(p), nil
		}
	}

	// 4) give up; savings floors at zero downstream
	u.log.Warn().Str("plan_id", planID).Int64("amount_cents", amountCents).Msg("could not resolve plan, recording as Unknown")
	return &ResolvedPlan{Description: "Adobe Creative Cloud - Unknown"}, nil
}

func (u *catalogUC) Save(ctx context.Context, p *model.Product) error {
	if p.IsZero() {
		return domain.ErrInvalidArgument
	}
	return u.products.Save(ctx, repository.NoTX, p)
}

func (u *catalogUC) Delete(ctx context.Context, planID string) error {
	if planID == "" {
		return domain.ErrInvalidArgument
	}
	return u.products.Delete(ctx, repository.NoTX, planID)
}

func fromProduct(p *model.Product) *ResolvedPlan {
	return &ResolvedPlan{
		PlanID:             p.ID,
		Months:             p.DurationMonths,
		OriginalPriceCents: p.OriginalPriceCents,
		Description:        p.Description(),
	}
}

func matchMonths(all []*model.Product, months int) *model.Product {
	for _, p := range all {
		if p.DurationMonths == months && p.Type == model.ProductTypeSubscription && p.Line == model.ProductLineCreativeCloud {
			return p
		}
	}
	return nil
}

// Savings is the advertised discount: list price minus paid amount, floored
// at zero so an over-list payment never renders a negative saving.
func Savings(originalCents, paidCents int64) int64 {
	if s := originalCents - paidCents; s > 0 {
		return s
	}
	return 0
}

// ExpiryFrom computes the entitlement end using the fixed day table.
// Unknown durations yield no expiry.
func ExpiryFrom(createdAt time.Time, months int) *time.Time {
	days := model.DurationDays(months)
	if days == 0 {
		return nil
	}
	e := createdAt.AddDate(0, 0, days)
	return &e
}
