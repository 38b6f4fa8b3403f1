package service

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/library/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// FailurePolicyRollback undoes a borrowing whose checkout session could not be opened.
	FailurePolicyRollback = "rollback"
	// FailurePolicyKeep keeps the borrowing without a payment.
	FailurePolicyKeep = "keep"
)

type Options struct {
	FineMultiplier decimal.Decimal
	FailurePolicy  string
	// PublicURL is the externally reachable base of this service,
	// used for the checkout callback links.
	PublicURL string
}

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	gateway  PaymentGateway
	notifier Notifier
	tokens   TokenIssuer
	opts     Options
	now      func() time.Time
}

func NewService(
	repo repository.Repository,
	gateway PaymentGateway,
	notifier Notifier,
	tokens TokenIssuer,
	opts Options,
	log *zap.Logger,
) *Service {
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = FailurePolicyRollback
	}
	return &Service{
		log:      log.Named("service"),
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		tokens:   tokens,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *Service) today() model.Date {
	return model.DateOf(s.now())
}

func (s *Service) successURL() string {
	return strings.TrimRight(s.opts.PublicURL, "/") + "/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}"
}

func (s *Service) cancelURL() string {
	return strings.TrimRight(s.opts.PublicURL, "/") + "/api/v1/payments/cancel"
}

// notify is called after commit; the event outlives the request context.
func (s *Service) notify(ctx context.Context, kind, text string) {
	s.notifier.Notify(context.WithoutCancel(ctx), kind, text)
}
