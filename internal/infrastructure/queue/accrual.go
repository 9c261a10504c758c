package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/api/metrics"
	"github.com/openshelf/library-system/internal/core/ports"
)

const defaultInterval = time.Hour

// AccrualRunner periodically persists fines for overdue borrowings so that
// fine amounts stay current even for principals who never open the app.
type AccrualRunner struct {
	borrowings ports.BorrowingRepository
	service    ports.BorrowingService
	interval   time.Duration
	log        zerolog.Logger
}

// NewAccrualRunner creates a runner sweeping every interval. If interval <= 0,
// defaultInterval is used.
func NewAccrualRunner(borrowings ports.BorrowingRepository, service ports.BorrowingService, interval time.Duration, log zerolog.Logger) *AccrualRunner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &AccrualRunner{
		borrowings: borrowings,
		service:    service,
		interval:   interval,
		log:        log,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (r *AccrualRunner) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *AccrualRunner) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep refreshes fine accruals for every principal holding an active
// borrowing. A failure for one principal is logged and does not stop the
// sweep.
func (r *AccrualRunner) Sweep(ctx context.Context) {
	start := time.Now()

	users, err := r.borrowings.ActiveUsers(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("accrual sweep: listing active users failed")
		metrics.AccrualRunsTotal.WithLabelValues("error").Inc()
		return
	}

	failed := 0
	for _, user := range users {
		if _, err := r.service.RefreshAccruals(ctx, user); err != nil {
			failed++
			r.log.Error().Err(err).Str("user", user).Msg("accrual sweep: refresh failed")
		}
	}

	metrics.AccrualRunDuration.Observe(time.Since(start).Seconds())
	if failed > 0 {
		metrics.AccrualRunsTotal.WithLabelValues("error").Inc()
	} else {
		metrics.AccrualRunsTotal.WithLabelValues("success").Inc()
	}

	r.log.Info().
		Int("users", len(users)).
		Int("failed", failed).
		Dur("took", time.Since(start)).
		Msg("accrual sweep finished")
}
