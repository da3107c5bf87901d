// File: internal/infra/web/webhook_handlers.go
package web

import (
	"errors"
	"io"
	"net/http"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/infra/logging"
	"adobe-subscription-store/internal/infra/metrics"
	"adobe-subscription-store/internal/infra/payment"
	"adobe-subscription-store/internal/usecase"
)

const webhookMaxBody = 1 << 16

// handleStripeWebhook verifies and reconciles payment_intent.succeeded
// events. Response codes follow Stripe's retry semantics: 2xx acknowledges,
// anything else triggers redelivery. Permanently broken events are
// acknowledged so they do not redeliver forever.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)

	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookMaxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	event, err := s.stripeWebhook.ParseEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		metrics.IncWebhookEvent("unknown", "bad_signature")
		log.Error().Err(err).Msg("stripe webhook signature verification failed")
		writeError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	if event.Type != "payment_intent.succeeded" {
		metrics.IncWebhookEvent(string(event.Type), "ignored")
		log.Info().Str("event_type", string(event.Type)).Msg("ignoring stripe event")
		w.WriteHeader(http.StatusOK)
		return
	}

	intent, err := payment.ParseIntentSucceeded(event)
	if err != nil {
		metrics.IncWebhookEvent(string(event.Type), "malformed")
		log.Error().Err(err).Msg("malformed payment intent payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	md := intent.Metadata
	activation, _ := model.ParseActivationType(md["activation_type"])
	email := md["customer_email"]
	if email == "" {
		email = intent.ReceiptEmail
	}

	ctx := logging.WithPaymentRef(r.Context(), intent.ID)
	order, err := s.reconcileUC.Reconcile(ctx, usecase.PaymentEvent{
		PaymentRef:     intent.ID,
		Provider:       "stripe",
		CustomerName:   md["customer_name"],
		CustomerEmail:  email,
		PlanID:         md["plan_id"],
		ActivationType: activation,
		AdobeEmail:     md["adobe_email"],
		AmountCents:    intent.AmountCents,
		Currency:       intent.Currency,
		RawPayload:     intent.Raw,
		OccurredAt:     intent.Created,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingMetadata) {
			metrics.IncWebhookEvent(string(event.Type), "missing_metadata")
			w.WriteHeader(http.StatusOK)
			return
		}
		metrics.IncWebhookEvent(string(event.Type), "error")
		writeError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	metrics.IncWebhookEvent(string(event.Type), "processed")
	metrics.IncPayment("stripe", "succeeded")
	writeJSON(w, http.StatusOK, struct {
		OrderID string `json:"order_id"`
	}{OrderID: order.ID})
}
