// File: internal/infra/sched/expiry_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/usecase"
)

// ExpiryWorker periodically flips orders whose entitlement has lapsed. The
// dashboard also flips on read, so this is the backstop for customers who
// never come back.
type ExpiryWorker struct {
	interval time.Duration
	batch    int
	orderUC  usecase.OrderUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, batch int, orderUC usecase.OrderUseCase, logger *zerolog.Logger) *ExpiryWorker {
	compLog := logger.With().Str("component", "ExpiryWorker").Logger()
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpiryWorker{
		interval: interval,
		batch:    batch,
		orderUC:  orderUC,
		log:      &compLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.orderUC.ExpireDue(ctx, time.Now(), w.batch); err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
			}
		}
	}
}
