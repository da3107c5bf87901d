package adapter

import (
	"context"

	"adobe-subscription-store/internal/domain/model"
)

// IntentRequest carries everything the webhook needs later as metadata.
type IntentRequest struct {
	PlanID         string
	AmountCents    int64
	Currency       string
	CustomerName   string
	CustomerEmail  string
	ActivationType model.ActivationType
	AdobeEmail     string
}

// PaymentIntents wraps Stripe's PaymentIntent API. No business logic.
type PaymentIntents interface {
	Create(ctx context.Context, req IntentRequest) (id, clientSecret string, err error)
}

// CheckoutOrder is the provider-side order object (PayPal).
type CheckoutOrder struct {
	ID          string
	Status      string // CREATED | APPROVED | COMPLETED
	ApproveURL  string
	PayerName   string
	PayerEmail  string
	AmountCents int64
	Currency    string
	RawPayload  []byte
}

// CheckoutOrders wraps the PayPal Orders v2 API.
type CheckoutOrders interface {
	Create(ctx context.Context, planID string, amountCents int64, currency, description string) (*CheckoutOrder, error)
	Capture(ctx context.Context, orderID string) (*CheckoutOrder, error)
	Name() string
}

// GatewayError classifies a processor failure so handlers can map it to a
// distinct HTTP status per subtype.
type GatewayError struct {
	Kind    GatewayErrorKind
	Code    string // provider issue code, e.g. "INSTRUMENT_DECLINED"
	Message string
}

type GatewayErrorKind int

const (
	GatewayErrUnknown GatewayErrorKind = iota
	GatewayErrCardDeclined
	GatewayErrInvalidRequest
	GatewayErrAuth
	GatewayErrRateLimited
	GatewayErrUnavailable
)

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return "gateway: " + e.Code + ": " + e.Message
	}
	return "gateway: " + e.Message
}
