package gateway

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/pkg/circuit_breaker"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type fakeSessions struct {
	newParams *stripe.CheckoutSessionParams
	session   *stripe.CheckoutSession
	err       error
	gets      int
}

func (f *fakeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.newParams = params
	return f.session, f.err
}

func (f *fakeSessions) Get(id string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func testConfig() Config {
	return Config{
		Currency: "USD",
		Breaker: circuit_breaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     time.Minute,
			Percentile:  0.5,
			MinRequests: 2,
		},
	}
}

func TestStripe_OpenSession(t *testing.T) {
	t.Parallel()
	fake := &fakeSessions{session: &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout/cs_1"}}
	gw := newStripe(fake, testConfig(), zap.NewNop())

	s, err := gw.OpenSession(context.Background(), SessionRequest{
		Amount:      decimal.RequireFromString("20.05"),
		Description: "Payment for Dune",
		SuccessURL:  "http://localhost/success",
		CancelURL:   "http://localhost/cancel",
	})
	require.NoError(t, err)
	require.Equal(t, Session{ID: "cs_1", URL: "https://checkout/cs_1"}, s)

	item := fake.newParams.LineItems[0]
	require.Equal(t, int64(2005), *item.PriceData.UnitAmount)
	require.Equal(t, "usd", *item.PriceData.Currency)
	require.Equal(t, "Payment for Dune", *item.PriceData.ProductData.Name)
	require.Equal(t, "http://localhost/success", *fake.newParams.SuccessURL)
	require.NotNil(t, fake.newParams.Context)
}

func TestStripe_errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		err     error
		wantErr error
		soft    bool
	}{
		{
			name:    "rejected",
			err:     &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusBadRequest, Msg: "bad amount"},
			wantErr: ErrRejected,
			soft:    true,
		},
		{
			name:    "not found",
			err:     &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusNotFound, Msg: "no such session"},
			wantErr: ErrSessionNotFound,
			soft:    true,
		},
		{
			name: "api error",
			err:  &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: http.StatusInternalServerError},
		},
		{
			name: "network",
			err:  errors.New("dial tcp: timeout"),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gw := newStripe(&fakeSessions{err: tt.err}, testConfig(), zap.NewNop())
			_, err := gw.RetrieveSession(context.Background(), "cs_1")
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			require.Equal(t, tt.soft, isSoft(err))
		})
	}
}

func TestStripe_breakerIgnoresRejections(t *testing.T) {
	t.Parallel()
	fake := &fakeSessions{err: &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusBadRequest}}
	gw := newStripe(fake, testConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := gw.RetrieveSession(context.Background(), "cs_1")
		require.ErrorIs(t, err, ErrRejected)
	}
	require.Equal(t, 5, fake.gets)
}

func TestStripe_breakerOpens(t *testing.T) {
	t.Parallel()
	fake := &fakeSessions{err: errors.New("connection reset")}
	gw := newStripe(fake, testConfig(), zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := gw.RetrieveSession(context.Background(), "cs_1")
		require.Error(t, err)
	}
	_, err := gw.RetrieveSession(context.Background(), "cs_1")
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.Equal(t, 2, fake.gets)
}

func TestSession_status(t *testing.T) {
	t.Parallel()
	require.True(t, Session{PaymentStatus: "paid"}.IsPaid())
	require.False(t, Session{PaymentStatus: "unpaid"}.IsPaid())
	require.True(t, Session{Status: "expired"}.IsExpired())
	require.False(t, Session{Status: "open"}.IsExpired())
}
