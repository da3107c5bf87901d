// File: internal/infra/payment/stripe_gateway.go
package payment

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"adobe-subscription-store/internal/domain/ports/adapter"
)

var _ adapter.PaymentIntents = (*StripeGateway)(nil)

// StripeGateway creates PaymentIntents for the embedded card form. Everything
// the webhook needs later rides in the intent's metadata, so reconciliation
// never depends on our own session state.
type StripeGateway struct {
	log *zerolog.Logger
}

func NewStripeGateway(secretKey string, logger *zerolog.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{log: logger}
}

func (g *StripeGateway) Create(ctx context.Context, req adapter.IntentRequest) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(req.AmountCents),
		Currency:     stripe.String(req.Currency),
		ReceiptEmail: stripe.String(req.CustomerEmail),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"plan_id":         req.PlanID,
			"customer_name":   req.CustomerName,
			"customer_email":  req.CustomerEmail,
			"activation_type": string(req.ActivationType),
			"adobe_email":     req.AdobeEmail,
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		g.log.Error().Err(err).Str("plan_id", req.PlanID).Msg("stripe payment intent creation failed")
		return "", "", classifyStripeErr(err)
	}
	return pi.ID, pi.ClientSecret, nil
}

func classifyStripeErr(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return &adapter.GatewayError{Kind: adapter.GatewayErrUnknown, Message: err.Error()}
	}
	ge := &adapter.GatewayError{Code: string(se.Code), Message: se.Msg}
	switch {
	case se.Type == stripe.ErrorTypeCard:
		ge.Kind = adapter.GatewayErrCardDeclined
	case se.Code == stripe.ErrorCodeRateLimit || se.HTTPStatusCode == 429:
		ge.Kind = adapter.GatewayErrRateLimited
	case se.Type == stripe.ErrorTypeInvalidRequest:
		ge.Kind = adapter.GatewayErrInvalidRequest
	case se.Type == stripe.ErrorType("authentication_error"):
		ge.Kind = adapter.GatewayErrAuth
	case se.HTTPStatusCode >= 500:
		ge.Kind = adapter.GatewayErrUnavailable
	default:
		ge.Kind = adapter.GatewayErrUnknown
	}
	return ge
}
