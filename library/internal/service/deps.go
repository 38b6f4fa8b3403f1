package service

import (
	"context"

	"github.com/Astemirdum/library-borrowing/library/internal/gateway"
	"github.com/Astemirdum/library-borrowing/library/internal/notify"
	"github.com/Astemirdum/library-borrowing/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=deps.go -destination=mocks/mock.go

type PaymentGateway interface {
	OpenSession(ctx context.Context, req gateway.SessionRequest) (gateway.Session, error)
	RetrieveSession(ctx context.Context, id string) (gateway.Session, error)
}

// Notifier must not block the caller; delivery failures stay inside the sink.
type Notifier interface {
	Notify(ctx context.Context, kind, text string)
}

type TokenIssuer interface {
	Issue(p auth.Profile) (string, error)
}

var (
	_ PaymentGateway = (*gateway.Stripe)(nil)
	_ Notifier       = (*notify.Kafka)(nil)
	_ Notifier       = (*notify.Telegram)(nil)
	_ Notifier       = (*notify.Log)(nil)
	_ TokenIssuer    = (*auth.TokenManager)(nil)
)
