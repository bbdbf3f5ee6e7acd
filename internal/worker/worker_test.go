package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/payment"
	"github.com/robaa12/user-service/internal/service"
)

type stubSource struct {
	payments []domain.SubscriptionPayment
	err      error

	mu      sync.Mutex
	cutoffs []time.Time
}

func (s *stubSource) ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]domain.SubscriptionPayment, error) {
	s.mu.Lock()
	s.cutoffs = append(s.cutoffs, cutoff)
	s.mu.Unlock()
	return s.payments, s.err
}

type stubReconciler struct {
	mu      sync.Mutex
	charges []string
	errFor  map[string]error
}

func (r *stubReconciler) Reconcile(ctx context.Context, chargeID string) (*service.ReconcileResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charges = append(r.charges, chargeID)
	if err := r.errFor[chargeID]; err != nil {
		return nil, err
	}
	return &service.ReconcileResult{
		ChargeStatus: payment.StatusSucceeded,
		Payment:      &domain.SubscriptionPayment{ChargeID: chargeID, Status: domain.PaymentStatusSucceeded},
	}, nil
}

func pendingCharges(ids ...string) []domain.SubscriptionPayment {
	out := make([]domain.SubscriptionPayment, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.SubscriptionPayment{
			ChargeID:  id,
			Status:    domain.PaymentStatusPending,
			CreatedAt: time.Now().Add(-time.Hour),
		})
	}
	return out
}

func TestSweepReconcilesEveryStaleCharge(t *testing.T) {
	source := &stubSource{payments: pendingCharges("chg_1", "chg_2", "chg_3")}
	reconciler := &stubReconciler{}
	s := NewSweeper(source, reconciler, Config{}, zerolog.New(io.Discard))

	s.Sweep(context.Background())

	assert.ElementsMatch(t, []string{"chg_1", "chg_2", "chg_3"}, reconciler.charges)
}

func TestSweepUsesConfiguredPendingAge(t *testing.T) {
	source := &stubSource{}
	s := NewSweeper(source, &stubReconciler{}, Config{PendingAge: time.Hour}, zerolog.New(io.Discard))

	before := time.Now().Add(-time.Hour)
	s.Sweep(context.Background())

	assert.Len(t, source.cutoffs, 1)
	assert.WithinDuration(t, before, source.cutoffs[0], 5*time.Second)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	source := &stubSource{payments: pendingCharges("chg_1", "chg_2", "chg_3")}
	reconciler := &stubReconciler{errFor: map[string]error{
		"chg_2": errors.New("processor timeout"),
	}}
	s := NewSweeper(source, reconciler, Config{}, zerolog.New(io.Discard))

	s.Sweep(context.Background())

	// The failing charge does not block the others.
	assert.ElementsMatch(t, []string{"chg_1", "chg_2", "chg_3"}, reconciler.charges)
}

func TestSweepToleratesListFailure(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	reconciler := &stubReconciler{}
	s := NewSweeper(source, reconciler, Config{}, zerolog.New(io.Discard))

	s.Sweep(context.Background())

	assert.Empty(t, reconciler.charges)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	source := &stubSource{}
	s := NewSweeper(source, &stubReconciler{}, Config{PollInterval: 10 * time.Millisecond}, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	source.mu.Lock()
	polled := len(source.cutoffs)
	source.mu.Unlock()
	assert.GreaterOrEqual(t, polled, 1)
}
