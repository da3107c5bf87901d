// File: internal/usecase/broadcast_uc.go
package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain"
	"adobe-subscription-store/internal/domain/ports/repository"
	"adobe-subscription-store/internal/infra/metrics"
	"adobe-subscription-store/internal/infra/worker"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// BroadcastReport tracks one announcement job. The report lives in memory
// only; a restart loses in-flight reports but never re-sends, since the job
// itself dies with the process.
type BroadcastReport struct {
	JobID      string
	Subject    string
	Queued     int
	Sent       int
	Failed     int
	StartedAt  time.Time
	FinishedAt *time.Time
	Failures   []SendResult
}

type BroadcastUseCase interface {
	// Broadcast queues an announcement to all customers (or only those with
	// an active order) and returns immediately with a job id.
	Broadcast(ctx context.Context, subject, html string, onlyActive bool) (jobID string, queued int, err error)
	Report(jobID string) (*BroadcastReport, bool)
}

type broadcastUC struct {
	orders     repository.OrderRepository
	notify     NotificationUseCase
	workerPool *worker.Pool
	minDelay   time.Duration
	log        *zerolog.Logger

	mu      sync.Mutex
	reports map[string]*BroadcastReport
	entropy *ulid.MonotonicEntropy
}

// NewBroadcastUseCase routes bulk sends through the notification dispatcher;
// minDelay is the floor between consecutive sends (Resend allows roughly 10
// requests/sec, so anything above 100ms stays clear of the limit).
func NewBroadcastUseCase(orders repository.OrderRepository, notify NotificationUseCase, pool *worker.Pool, minDelay time.Duration, logger *zerolog.Logger) *broadcastUC {
	if minDelay <= 0 {
		minDelay = 200 * time.Millisecond
	}
	return &broadcastUC{
		orders:     orders,
		notify:     notify,
		workerPool: pool,
		minDelay:   minDelay,
		log:        logger,
		reports:    make(map[string]*BroadcastReport),
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (uc *broadcastUC) Broadcast(ctx context.Context, subject, html string, onlyActive bool) (string, int, error) {
	if !uc.notify.Enabled() {
		return "", 0, domain.ErrNotConfigured
	}
	recipients, err := uc.orders.ListRecipients(ctx, repository.NoTX, onlyActive)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to fetch broadcast recipients")
		return "", 0, err
	}

	uc.mu.Lock()
	jobID := ulid.MustNew(ulid.Timestamp(time.Now()), uc.entropy).String()
	report := &BroadcastReport{
		JobID:     jobID,
		Subject:   subject,
		Queued:    len(recipients),
		StartedAt: time.Now(),
	}
	uc.reports[jobID] = report
	uc.mu.Unlock()

	// One pool task per job; the dispatcher paces individual sends and
	// retries rate-limited ones with the shared backoff.
	task := func(ctx context.Context) error {
		uc.log.Info().Str("job_id", jobID).Int("recipients", len(recipients)).Msg("starting broadcast job")
		results := uc.notify.SendBatch(ctx, recipients, subject, html, uc.minDelay)
		for _, res := range results {
			uc.recordResult(jobID, res)
		}
		uc.finish(jobID)
		return nil
	}
	if err := uc.workerPool.Submit(task); err != nil {
		uc.mu.Lock()
		delete(uc.reports, jobID)
		uc.mu.Unlock()
		uc.log.Error().Err(err).Str("job_id", jobID).Msg("failed to queue broadcast job")
		return "", 0, err
	}

	return jobID, len(recipients), nil
}

func (uc *broadcastUC) Report(jobID string) (*BroadcastReport, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	r, ok := uc.reports[jobID]
	if !ok {
		return nil, false
	}
	cp := *r
	cp.Failures = append([]SendResult(nil), r.Failures...)
	return &cp, true
}

func (uc *broadcastUC) recordResult(jobID string, res SendResult) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	r, ok := uc.reports[jobID]
	if !ok {
		return
	}
	if res.Err != nil {
		r.Failed++
		r.Failures = append(r.Failures, res)
		metrics.IncBroadcastResult("error")
		return
	}
	r.Sent++
	metrics.IncBroadcastResult("sent")
}

func (uc *broadcastUC) finish(jobID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	r, ok := uc.reports[jobID]
	if !ok {
		return
	}
	now := time.Now()
	r.FinishedAt = &now
	uc.log.Info().Str("job_id", jobID).Int("sent", r.Sent).Int("failed", r.Failed).Msg("broadcast job finished")
}
