// File: internal/infra/email/resend_mailer.go
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*ResendMailer)(nil)

// ResendMailer sends transactional email through Resend. Rate-limit rejections
// surface as domain.ErrRateLimited so the dispatcher retries them.
type ResendMailer struct {
	client *resend.Client
	from   string
	log    *zerolog.Logger
}

func NewResendMailer(apiKey, from string, logger *zerolog.Logger) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, log: logger}
}

func (m *ResendMailer) Send(ctx context.Context, msg adapter.Email) (string, error) {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		if isRateLimited(err) {
			return "", fmt.Errorf("resend: %w: %s", domain.ErrRateLimited, err.Error())
		}
		return "", fmt.Errorf("resend send: %w", err)
	}
	return sent.Id, nil
}

func isRateLimited(err error) bool {
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(strings.ToLower(s), "rate limit")
}
