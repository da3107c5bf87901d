// File: internal/infra/payment/stripe_webhook.go
package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeWebhook verifies webhook signatures and extracts the fields the
// reconciler needs from payment_intent.succeeded events.
type StripeWebhook struct {
	secret      string
	allowBypass bool // local development only, wired from the -dev flag
}

func NewStripeWebhook(secret string, allowBypass bool) *StripeWebhook {
	return &StripeWebhook{secret: secret, allowBypass: allowBypass}
}

// ParseEvent verifies the signature and decodes the event. An empty sigHeader
// is accepted only when bypass was enabled at construction.
func (w *StripeWebhook) ParseEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	if sigHeader == "" && w.allowBypass {
		var ev stripe.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return stripe.Event{}, fmt.Errorf("decode unsigned event: %w", err)
		}
		return ev, nil
	}
	return webhook.ConstructEvent(payload, sigHeader, w.secret)
}

// SucceededIntent is the slice of a payment_intent.succeeded event acted on
// downstream. Metadata keys were set by StripeGateway.Create.
type SucceededIntent struct {
	ID           string
	AmountCents  int64
	Currency     string
	ReceiptEmail string
	Metadata     map[string]string
	Created      time.Time
	Raw          []byte
}

func ParseIntentSucceeded(ev stripe.Event) (*SucceededIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	return &SucceededIntent{
		ID:           pi.ID,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		ReceiptEmail: pi.ReceiptEmail,
		Metadata:     pi.Metadata,
		Created:      time.Unix(pi.Created, 0),
		Raw:          ev.Data.Raw,
	}, nil
}
