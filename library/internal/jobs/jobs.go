package jobs

import (
	"context"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Scanner interface {
	CheckOverdue(ctx context.Context) (model.Overdue, error)
	ScanExpired(ctx context.Context) (map[string]model.PaymentStatus, error)
}

type Config struct {
	OverdueInterval time.Duration
	ExpiredInterval time.Duration
}

// Scheduler runs the periodic scans in-process.
type Scheduler struct {
	svc Scanner
	cfg Config
	log *zap.Logger
}

func NewScheduler(svc Scanner, cfg Config, log *zap.Logger) *Scheduler {
	return &Scheduler{
		svc: svc,
		cfg: cfg,
		log: log.Named("jobs"),
	}
}

// Run blocks until ctx is done. A job with a zero interval never runs.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.OverdueInterval > 0 {
		g.Go(func() error {
			s.every(ctx, "overdue", s.cfg.OverdueInterval, func(ctx context.Context) error {
				overdue, err := s.svc.CheckOverdue(ctx)
				if err == nil {
					s.log.Info("overdue checked", zap.Int("overdue", overdue.Count))
				}
				return err
			})
			return nil
		})
	}
	if s.cfg.ExpiredInterval > 0 {
		g.Go(func() error {
			s.every(ctx, "expired", s.cfg.ExpiredInterval, func(ctx context.Context) error {
				expired, err := s.svc.ScanExpired(ctx)
				if err == nil {
					s.log.Info("expired sessions scanned", zap.Int("expired", len(expired)))
				}
				return err
			})
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) every(ctx context.Context, name string, interval time.Duration, fn func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				s.log.Error("job failed", zap.String("job", name), zap.Error(err))
			}
		}
	}
}
