package circuit_breaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type Config struct {
	// Requests let through while HALF-OPEN.
	MaxRequests uint32 `envconfig:"CB_MAX_REQUESTS" default:"1"`
	// Window after which CLOSED counts are cleared.
	Interval time.Duration `envconfig:"CB_INTERVAL" default:"1m"`
	// How long the breaker stays OPEN before probing again.
	Timeout time.Duration `envconfig:"CB_TIMEOUT" default:"30s"`
	// Share of failed requests that opens the breaker.
	Percentile float64 `envconfig:"CB_PERCENTILE" default:"0.5"`
	// Requests seen in the window before Percentile is considered.
	MinRequests uint32 `envconfig:"CB_MIN_REQUESTS" default:"5"`
}

var ErrOpenCB = gobreaker.ErrOpenState

// New builds a breaker named name. isSuccessful decides which errors
// count as failures; nil means every error does.
func New[T any](name string, cfg Config, log *zap.Logger, isSuccessful func(err error) bool) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.Percentile
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
		IsSuccessful: isSuccessful,
	})
}
