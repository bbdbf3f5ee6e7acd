// Package worker runs the background reconciliation sweeper. The payment
// processor redirects customers to the callback endpoint, but a closed
// browser tab means the callback never fires; the sweeper picks those
// charges up and reconciles them from this side.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/service"
)

// Config holds sweeper configuration
type Config struct {
	// WorkerID uniquely identifies this sweeper instance in the logs
	WorkerID string

	// PollInterval is how often to look for stale pending payments
	PollInterval time.Duration

	// PendingAge is how old a pending payment must be before the sweeper
	// reconciles it. Young pendings are still in the customer's hands.
	PendingAge time.Duration

	// BatchSize caps how many payments one sweep picks up
	BatchSize int32

	// MaxConcurrency is the maximum number of charges reconciled at once
	MaxConcurrency int
}

// PendingSource lists the pending payments a sweep should look at.
type PendingSource interface {
	ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]domain.SubscriptionPayment, error)
}

// Reconciler settles a single charge against the processor.
type Reconciler interface {
	Reconcile(ctx context.Context, chargeID string) (*service.ReconcileResult, error)
}

// Sweeper periodically reconciles stale pending payments
type Sweeper struct {
	config     Config
	ledger     PendingSource
	reconciler Reconciler
	logger     zerolog.Logger
}

// NewSweeper creates a new reconciliation sweeper
func NewSweeper(ledger PendingSource, reconciler Reconciler, config Config, logger zerolog.Logger) *Sweeper {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("sweeper-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Minute
	}
	if config.PendingAge == 0 {
		config.PendingAge = 15 * time.Minute
	}
	if config.BatchSize == 0 {
		config.BatchSize = 50
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}

	return &Sweeper{
		config:     config,
		ledger:     ledger,
		reconciler: reconciler,
		logger:     logger.With().Str("worker_id", config.WorkerID).Logger(),
	}
}

// Start runs sweeps until the context is cancelled
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().
		Dur("poll_interval", s.config.PollInterval).
		Dur("pending_age", s.config.PendingAge).
		Int("max_concurrency", s.config.MaxConcurrency).
		Msg("sweeper starting")

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep reconciles one batch of stale pending payments. Failures are
// logged and left pending for the next sweep.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.PendingAge)
	stale, err := s.ledger.ListStalePending(ctx, cutoff, s.config.BatchSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list stale pending payments")
		return
	}
	if len(stale) == 0 {
		return
	}

	s.logger.Info().Int("count", len(stale)).Msg("reconciling stale pending payments")

	sem := make(chan struct{}, s.config.MaxConcurrency)
	var wg sync.WaitGroup
	for _, p := range stale {
		sem <- struct{}{}
		wg.Add(1)
		go func(chargeID string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.reconciler.Reconcile(ctx, chargeID)
			if err != nil {
				s.logger.Warn().Err(err).Str("charge_id", chargeID).Msg("sweep reconcile failed")
				return
			}
			s.logger.Info().
				Str("charge_id", chargeID).
				Str("charge_status", string(result.ChargeStatus)).
				Msg("sweep reconciled charge")
		}(p.ChargeID)
	}
	wg.Wait()
}
