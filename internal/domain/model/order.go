package model

import (
	"time"

	"adobe-subscription-store/internal/domain"
)

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "ACTIVE"
	OrderStatusInactive  OrderStatus = "INACTIVE"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusPending   OrderStatus = "PENDING"
)

// ActivationType is a closed set; handlers switch on it exhaustively instead
// of comparing raw strings from processor metadata.
type ActivationType string

const (
	ActivationPreActivated   ActivationType = "pre_activated"
	ActivationSelf           ActivationType = "self_activation"
	ActivationRedemptionCode ActivationType = "redemption_required"
)

// ParseActivationType rejects unknown strings at the validation boundary.
func ParseActivationType(s string) (ActivationType, error) {
	switch ActivationType(s) {
	case ActivationPreActivated, ActivationSelf, ActivationRedemptionCode:
		return ActivationType(s), nil
	}
	return "", domain.ErrInvalidArgument
}

// Order is created exactly once per successful payment event; PaymentRef
// (Stripe PaymentIntent id or PayPal order id) carries a unique index that
// enforces it.
type Order struct {
	ID             string // UUID
	CustomerName   string
	CustomerEmail  string
	AmountCents    int64 // paid amount, minor units
	Currency       string
	Status         OrderStatus
	PlanID         string
	Description    string // human-readable, e.g. "Adobe Creative Cloud - 6 Months"
	SavingsCents   int64
	DurationMonths int
	ExpiryDate     *time.Time
	ActivationType ActivationType
	AdobeEmail     string // Adobe account email for self-activation orders
	Provider       string // "stripe" | "paypal"
	PaymentRef     string // processor payment identifier
	RawPayload     []byte // raw processor payload, stored as JSONB
	Redeemed       bool   // redemption-code orders only
	DeliveryNote   string // redemption-code orders only; codes themselves are never stored
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive reports whether the order still grants an entitlement: status
// ACTIVE or COMPLETED with the expiry in the future. COMPLETED rows predating
// the expiry_date column have none recorded, so the expiry is recomputed from
// CreatedAt and the duration table.
func (o *Order) IsActive(now time.Time) bool {
	if o.Status != OrderStatusActive && o.Status != OrderStatusCompleted {
		return false
	}
	exp := o.ExpiryDate
	if exp == nil {
		days := DurationDays(o.DurationMonths)
		if days == 0 {
			return false
		}
		e := o.CreatedAt.AddDate(0, 0, days)
		exp = &e
	}
	return now.Before(*exp)
}
