package model

import (
	"time"

	"adobe-subscription-store/internal/domain"
)

type ProductType string

const (
	ProductTypeSubscription   ProductType = "subscription"
	ProductTypeRedemptionCode ProductType = "redemption_code"
)

type ProductLine string

const (
	ProductLineCreativeCloud ProductLine = "creative_cloud"
	ProductLineAcrobatPro    ProductLine = "acrobat_pro"
)

// Product is a purchasable pricing option. Reference data: read-only at
// request time, cached with a short TTL.
type Product struct {
	ID                 string // plan id, e.g. "6m"
	Name               string
	DurationMonths     int
	PriceCents         int64 // discounted price charged at checkout
	OriginalPriceCents int64 // Adobe list price over the same duration, for savings display
	Type               ProductType
	Line               ProductLine
	Activation         ActivationType
	CreatedAt          time.Time
}

func (p *Product) IsZero() bool { return p == nil || p.ID == "" }

// Description renders the plan the way order rows and emails display it.
func (p *Product) Description() string {
	line := "Adobe Creative Cloud"
	if p.Line == ProductLineAcrobatPro {
		line = "Adobe Acrobat Pro"
	}
	return line + " - " + DurationLabel(p.DurationMonths)
}

// NewProduct validates and constructs a pricing option.
func NewProduct(id, name string, months int, priceCents, originalCents int64, typ ProductType, line ProductLine, act ActivationType) (*Product, error) {
	if id == "" || name == "" || DurationDays(months) == 0 || priceCents <= 0 || originalCents < priceCents {
		return nil, domain.ErrInvalidArgument
	}
	return &Product{
		ID:                 id,
		Name:               name,
		DurationMonths:     months,
		PriceCents:         priceCents,
		OriginalPriceCents: originalCents,
		Type:               typ,
		Line:               line,
		Activation:         act,
		CreatedAt:          time.Now(),
	}, nil
}
