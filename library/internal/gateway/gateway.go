// Package gateway opens and inspects hosted checkout sessions at Stripe.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/metrics"
	"github.com/Astemirdum/library-borrowing/pkg/circuit_breaker"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

type Config struct {
	APIKey   string `envconfig:"STRIPE_API_KEY" json:"-"`
	Currency string `envconfig:"PAYMENT_CURRENCY" default:"usd"`
	Breaker  circuit_breaker.Config
}

var (
	// ErrRejected is a request the provider refused; no session exists.
	ErrRejected        = errors.New("payment session rejected")
	ErrSessionNotFound = errors.New("payment session not found")
)

type SessionRequest struct {
	Amount      decimal.Decimal
	Description string
	SuccessURL  string
	CancelURL   string
}

type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	Status        string
}

func (s Session) IsPaid() bool {
	return s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid)
}

func (s Session) IsExpired() bool {
	return s.Status == string(stripe.CheckoutSessionStatusExpired)
}

type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type Stripe struct {
	sessions checkoutSessions
	currency string
	cb       *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
	log      *zap.Logger
}

func NewStripe(cfg Config, log *zap.Logger) *Stripe {
	sc := &client.API{}
	sc.Init(cfg.APIKey, nil)
	return newStripe(sc.CheckoutSessions, cfg, log)
}

func newStripe(sessions checkoutSessions, cfg Config, log *zap.Logger) *Stripe {
	log = log.Named("gateway")
	return &Stripe{
		sessions: sessions,
		currency: strings.ToLower(cfg.Currency),
		cb:       circuit_breaker.New[*stripe.CheckoutSession]("stripe", cfg.Breaker, log, isSuccessful),
		log:      log,
	}
}

const (
	opOpen     = "open"
	opRetrieve = "retrieve"
)

func (s *Stripe) OpenSession(ctx context.Context, req SessionRequest) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(minorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	cs, err := s.call(opOpen, func() (*stripe.CheckoutSession, error) {
		return s.sessions.New(params)
	})
	if err != nil {
		s.log.Warn("OpenSession", zap.String("amount", req.Amount.StringFixed(2)), zap.Error(err))
		return Session{}, err
	}
	return toSession(cs), nil
}

func (s *Stripe) RetrieveSession(ctx context.Context, id string) (Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	cs, err := s.call(opRetrieve, func() (*stripe.CheckoutSession, error) {
		return s.sessions.Get(id, params)
	})
	if err != nil {
		return Session{}, err
	}
	return toSession(cs), nil
}

func (s *Stripe) call(op string, fn func() (*stripe.CheckoutSession, error)) (*stripe.CheckoutSession, error) {
	start := time.Now()
	cs, err := s.cb.Execute(fn)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		err = classify(err)
		outcome := metrics.OutcomeError
		if isSoft(err) {
			outcome = metrics.OutcomeRejected
		}
		metrics.GatewayRequestsTotal.WithLabelValues(op, outcome).Inc()
		return nil, err
	}
	metrics.GatewayRequestsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return cs, nil
}

func classify(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch {
		case se.HTTPStatusCode == http.StatusNotFound:
			return errors.Wrap(ErrSessionNotFound, se.Msg)
		case se.Type == stripe.ErrorTypeInvalidRequest:
			return errors.Wrap(ErrRejected, se.Msg)
		}
	}
	return errors.Wrap(err, "stripe")
}

func isSoft(err error) bool {
	return errors.Is(err, ErrRejected) || errors.Is(err, ErrSessionNotFound)
}

// isSuccessful keeps provider refusals from tripping the breaker.
func isSuccessful(err error) bool {
	return err == nil || isSoft(classify(err))
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func toSession(cs *stripe.CheckoutSession) Session {
	return Session{
		ID:            cs.ID,
		URL:           cs.URL,
		PaymentStatus: string(cs.PaymentStatus),
		Status:        string(cs.Status),
	}
}
