package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errService = errors.New("service error")

func TestNew_opensOnPercentile(t *testing.T) {
	t.Parallel()
	cfg := circuit_breaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		Percentile:  0.5,
		MinRequests: 4,
	}
	cb := circuit_breaker.New[int]("test", cfg, zap.NewNop(), nil)

	for i := 0; i < 2; i++ {
		v, err := cb.Execute(func() (int, error) { return 1, nil })
		require.NoError(t, err)
		require.Equal(t, 1, v)
	}
	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errService })
		require.ErrorIs(t, err, errService)
	}

	_, err := cb.Execute(func() (int, error) { return 1, nil })
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
}

func TestNew_isSuccessful(t *testing.T) {
	t.Parallel()
	cfg := circuit_breaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		Percentile:  0.1,
		MinRequests: 1,
	}
	cb := circuit_breaker.New[int]("test", cfg, zap.NewNop(), func(err error) bool {
		return err == nil || errors.Is(err, errService)
	})

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errService })
		require.ErrorIs(t, err, errService)
	}
	_, err := cb.Execute(func() (int, error) { return 1, nil })
	require.NoError(t, err)
}
