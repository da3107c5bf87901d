// File: internal/usecase/reconcile_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
	"adobe-subscription-store/internal/infra/logging"
	"adobe-subscription-store/internal/infra/metrics"
)

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// PaymentEvent is a verified "payment succeeded" event, normalized across
// processors. RawPayload is the processor's own JSON, archived on the order.
type PaymentEvent struct {
	PaymentRef     string // Stripe PaymentIntent id or PayPal order id
	Provider       string // "stripe" | "paypal"
	CustomerName   string
	CustomerEmail  string
	PlanID         string
	Description    string // processor-side free text, used by the fallback chain
	ActivationType model.ActivationType
	AdobeEmail     string
	AmountCents    int64
	Currency       string
	RawPayload     []byte
	OccurredAt     time.Time
}

type ReconcileUseCase interface {
	// Reconcile persists exactly one order per payment event and sends the
	// confirmation email best-effort. A redelivered event returns the
	// existing order and no error. domain.ErrMissingMetadata means the event
	// is permanently unprocessable and must be acknowledged, not retried.
	Reconcile(ctx context.Context, ev PaymentEvent) (*model.Order, error)
}

type reconcileUC struct {
	orders  repository.OrderRepository
	catalog CatalogUseCase
	notify  NotificationUseCase
	log     *zerolog.Logger
}

func NewReconcileUseCase(orders repository.OrderRepository, catalog CatalogUseCase, notify NotificationUseCase, logger *zerolog.Logger) *reconcileUC {
	return &reconcileUC{orders: orders, catalog: catalog, notify: notify, log: logger}
}

func (u *reconcileUC) Reconcile(ctx context.Context, ev PaymentEvent) (*model.Order, error) {
	log := logging.With(ctx, u.log)
	if ev.PaymentRef == "" {
		return nil, domain.ErrMissingMetadata
	}
	if ev.CustomerEmail == "" || ev.ActivationType == "" {
		// Permanently unprocessable: retrying the webhook will never fill
		// these in, so the caller acks with 200 instead of provoking
		// infinite redelivery.
		log.Error().Str("payment_ref", ev.PaymentRef).Str("provider", ev.Provider).
			Msg("payment event missing required metadata, acknowledging without order")
		return nil, domain.ErrMissingMetadata
	}

	plan, err := u.catalog.Resolve(ctx, ev.PlanID, ev.Description, ev.AmountCents)
	if err != nil {
		return nil, err
	}

	createdAt := ev.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	o := &model.Order{
		ID:             uuid.NewString(),
		CustomerName:   ev.CustomerName,
		CustomerEmail:  ev.CustomerEmail,
		AmountCents:    ev.AmountCents,
		Currency:       ev.Currency,
		Status:         model.OrderStatusActive,
		PlanID:         plan.PlanID,
		Description:    plan.Description,
		SavingsCents:   Savings(plan.OriginalPriceCents, ev.AmountCents),
		DurationMonths: plan.Months,
		ExpiryDate:     ExpiryFrom(createdAt, plan.Months),
		ActivationType: ev.ActivationType,
		AdobeEmail:     ev.AdobeEmail,
		Provider:       ev.Provider,
		PaymentRef:     ev.PaymentRef,
		RawPayload:     ev.RawPayload,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	if ev.ActivationType == model.ActivationRedemptionCode {
		// Codes are issued manually; the order waits in PENDING until the
		// admin records delivery.
		o.Status = model.OrderStatusPending
	}

	if err := u.orders.Insert(ctx, repository.NoTX, o); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.IncWebhookDuplicate()
			log.Info().Str("payment_ref", ev.PaymentRef).Msg("duplicate payment event, order already recorded")
			return u.orders.FindByPaymentRef(ctx, repository.NoTX, ev.PaymentRef)
		}
		// Retryable: the processor will redeliver the webhook.
		log.Error().Err(err).Str("payment_ref", ev.PaymentRef).Msg("order insert failed")
		return nil, err
	}
	metrics.IncOrderCreated(string(ev.ActivationType))
	metrics.AddPaymentRevenue(o.Currency, o.AmountCents)

	// Payment and order persistence are the durable side effect; email is
	// best-effort and never rolls back the order. The order id rides the
	// context so the dispatcher's logs correlate with this reconciliation.
	ctx = logging.WithOrderID(ctx, o.ID)
	if err := u.notify.SendOrderConfirmation(ctx, o); err != nil {
		log.Warn().Err(err).Str("order_id", o.ID).Msg("confirmation email failed, order kept")
	}

	log.Info().
		Str("order_id", o.ID).
		Str("payment_ref", o.PaymentRef).
		Str("plan", o.Description).
		Int64("amount_cents", o.AmountCents).
		Int64("savings_cents", o.SavingsCents).
		Msg("order reconciled")
	return o, nil
}
