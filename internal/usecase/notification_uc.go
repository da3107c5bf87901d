// File: internal/usecase/notification_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/adapter"
	"adobe-subscription-store/internal/infra/logging"
	"adobe-subscription-store/internal/infra/metrics"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// retryBackoff is the wait before each retry after a rate-limited send.
var retryBackoff = []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}

// SendResult reports one recipient's outcome in a batch send.
type SendResult struct {
	Recipient string
	MessageID string
	Err       error
}

type NotificationUseCase interface {
	// Enabled reports whether a mail provider is configured.
	Enabled() bool
	// SendOrderConfirmation renders the template for the order's activation
	// type and sends it with rate-limit retries.
	SendOrderConfirmation(ctx context.Context, o *model.Order) error
	// SendBatch sends one message to many recipients sequentially, spacing
	// sends by at least minDelay. One failing recipient never aborts the
	// rest; the caller gets a per-recipient result slice.
	SendBatch(ctx context.Context, recipients []string, subject, html string, minDelay time.Duration) []SendResult
}

type notificationUC struct {
	mailer adapter.Mailer
	log    *zerolog.Logger
}

func NewNotificationUseCase(mailer adapter.Mailer, logger *zerolog.Logger) *notificationUC {
	return &notificationUC{mailer: mailer, log: logger}
}

func (n *notificationUC) Enabled() bool { return n.mailer != nil }

func (n *notificationUC) SendOrderConfirmation(ctx context.Context, o *model.Order) error {
	if n.mailer == nil {
		return domain.ErrNotConfigured
	}
	subject, html, text := renderConfirmation(o)
	id, err := n.sendWithRetry(ctx, adapter.Email{
		To:      o.CustomerEmail,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		metrics.IncEmail("confirmation", "error")
		return err
	}
	metrics.IncEmail("confirmation", "sent")
	logging.With(ctx, n.log).Info().Str("order_id", o.ID).Str("message_id", id).Msg("confirmation email sent")
	return nil
}

func (n *notificationUC) SendBatch(ctx context.Context, recipients []string, subject, html string, minDelay time.Duration) []SendResult {
	results := make([]SendResult, 0, len(recipients))
	if n.mailer == nil {
		for _, to := range recipients {
			results = append(results, SendResult{Recipient: to, Err: domain.ErrNotConfigured})
		}
		return results
	}
	for i, to := range recipients {
		if i > 0 && minDelay > 0 {
			select {
			case <-ctx.Done():
				results = append(results, SendResult{Recipient: to, Err: ctx.Err()})
				continue
			case <-time.After(minDelay):
			}
		}
		id, err := n.sendWithRetry(ctx, adapter.Email{To: to, Subject: subject, HTML: html})
		if err != nil {
			metrics.IncEmail("broadcast", "error")
		} else {
			metrics.IncEmail("broadcast", "sent")
		}
		results = append(results, SendResult{Recipient: to, MessageID: id, Err: err})
	}
	return results
}

// sendWithRetry retries only rate-limit-class errors; anything else fails
// immediately since redelivering a malformed message cannot succeed.
func (n *notificationUC) sendWithRetry(ctx context.Context, msg adapter.Email) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		id, err := n.mailer.Send(ctx, msg)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrRateLimited) || attempt >= len(retryBackoff) {
			return "", lastErr
		}
		metrics.IncEmailRetry()
		logging.With(ctx, n.log).Warn().Err(err).
			Str("to", logging.RedactEmail(msg.To)).
			Int("attempt", attempt+1).
			Msg("email send rate limited, backing off")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryBackoff[attempt]):
		}
	}
}
