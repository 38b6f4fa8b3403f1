package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingScanner struct {
	overdue atomic.Int32
	expired atomic.Int32
	fail    bool
}

func (c *countingScanner) CheckOverdue(context.Context) (model.Overdue, error) {
	c.overdue.Add(1)
	if c.fail {
		return model.Overdue{}, errors.New("db down")
	}
	return model.Overdue{Items: []model.Borrowing{}}, nil
}

func (c *countingScanner) ScanExpired(context.Context) (map[string]model.PaymentStatus, error) {
	c.expired.Add(1)
	return map[string]model.PaymentStatus{}, nil
}

func TestScheduler_Run(t *testing.T) {
	t.Parallel()
	svc := &countingScanner{}
	s := NewScheduler(svc, Config{
		OverdueInterval: 5 * time.Millisecond,
		ExpiredInterval: 5 * time.Millisecond,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return svc.overdue.Load() >= 2 && svc.expired.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_disabled(t *testing.T) {
	t.Parallel()
	svc := &countingScanner{}
	s := NewScheduler(svc, Config{ExpiredInterval: 5 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	require.Zero(t, svc.overdue.Load())
	require.Positive(t, svc.expired.Load())
}

func TestScheduler_keepsRunningAfterFailure(t *testing.T) {
	t.Parallel()
	svc := &countingScanner{fail: true}
	s := NewScheduler(svc, Config{OverdueInterval: 5 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx) //nolint:errcheck

	require.Eventually(t, func() bool { return svc.overdue.Load() >= 3 }, time.Second, time.Millisecond)
}
