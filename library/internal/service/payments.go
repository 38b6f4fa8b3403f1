package service

import (
	"context"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/gateway"
	"github.com/Astemirdum/library-borrowing/library/internal/metrics"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) sessionRequest(b model.Borrowing, typ model.PaymentType, amount decimal.Decimal) gateway.SessionRequest {
	return gateway.SessionRequest{
		Amount:      amount,
		Description: sessionDescription(typ, b),
		SuccessURL:  s.successURL(),
		CancelURL:   s.cancelURL(),
	}
}

// openPayment opens a checkout session and stores it as a PENDING payment.
// Nothing is stored when the gateway fails.
func (s *Service) openPayment(ctx context.Context, b model.Borrowing, typ model.PaymentType, amount decimal.Decimal) (model.Payment, error) {
	session, err := s.gateway.OpenSession(ctx, s.sessionRequest(b, typ, amount))
	if err != nil {
		return model.Payment{}, errors.Wrapf(errs.ErrGateway, "open session: %v", err)
	}
	payment, err := s.repo.CreatePayment(ctx, model.Payment{
		Status:      model.PaymentStatusPending,
		Type:        typ,
		BorrowingID: b.ID,
		SessionURL:  &session.URL,
		SessionID:   &session.ID,
		MoneyToPay:  amount,
	})
	if err != nil {
		return model.Payment{}, err
	}
	metrics.PaymentsTotal.WithLabelValues(string(typ), string(payment.Status)).Inc()

	s.notify(ctx, KindCheckoutCreated, checkoutCreatedText(b, payment))
	return payment, nil
}

// MarkPaidFromCallback confirms with the gateway that the session was paid
// and marks its payment PAID. Repeated callbacks are no-ops.
func (s *Service) MarkPaidFromCallback(ctx context.Context, sessionID string) (model.Payment, error) {
	if sessionID == "" {
		return model.Payment{}, errs.NewValidation("session_id", "this field is required")
	}
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gateway.ErrSessionNotFound) {
			return model.Payment{}, errs.ErrNotFound
		}
		return model.Payment{}, errors.Wrapf(errs.ErrGateway, "retrieve session: %v", err)
	}
	payment, err := s.repo.GetPaymentBySession(ctx, sessionID)
	if err != nil {
		return model.Payment{}, err
	}
	if !session.IsPaid() {
		return model.Payment{}, errs.ErrPaymentNotPaid
	}
	if payment.Status == model.PaymentStatusPaid {
		return payment, nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, payment.Status, model.PaymentStatusPaid); err != nil {
		return model.Payment{}, err
	}
	payment.Status = model.PaymentStatusPaid
	metrics.PaymentsTotal.WithLabelValues(string(payment.Type), string(payment.Status)).Inc()

	s.notify(ctx, KindPaymentPaid, paymentPaidText(payment))
	return payment, nil
}

// ScanExpired asks the gateway about every PENDING payment, one call at a
// time, and expires those whose session expired. Gateway errors skip the
// payment until the next scan.
func (s *Service) ScanExpired(ctx context.Context) (map[string]model.PaymentStatus, error) {
	pending, err := s.repo.ListPendingPayments(ctx)
	if err != nil {
		return nil, err
	}
	expired := make(map[string]model.PaymentStatus)
	for _, p := range pending {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		if p.SessionID == nil || p.Status != model.PaymentStatusPending {
			continue
		}
		session, err := s.gateway.RetrieveSession(ctx, *p.SessionID)
		if err != nil {
			s.log.Warn("ScanExpired: retrieve session", zap.String("sessionID", *p.SessionID), zap.Error(err))
			continue
		}
		if !session.IsExpired() {
			continue
		}
		if err := s.repo.UpdatePaymentStatus(ctx, p.ID, model.PaymentStatusPending, model.PaymentStatusExpired); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return expired, err
		}
		p.Status = model.PaymentStatusExpired
		expired[*p.SessionID] = p.Status
		metrics.PaymentsTotal.WithLabelValues(string(p.Type), string(p.Status)).Inc()
		s.notify(ctx, KindPaymentExpired, paymentExpiredText(p))
	}
	return expired, nil
}

// RenewPayment opens a new session for an EXPIRED payment with the same
// amount and type, and puts it back to PENDING. Any other status yields
// errs.ErrPaymentNotExpired together with the payment as it is.
func (s *Service) RenewPayment(ctx context.Context, viewer model.Viewer, id int64) (model.Payment, error) {
	payment, borrowing, err := s.payment(ctx, viewer, id)
	if err != nil {
		return model.Payment{}, err
	}
	if payment.Status != model.PaymentStatusExpired {
		return payment, errs.ErrPaymentNotExpired
	}

	session, err := s.gateway.OpenSession(ctx, s.sessionRequest(borrowing, payment.Type, payment.MoneyToPay))
	if err != nil {
		return model.Payment{}, errors.Wrapf(errs.ErrGateway, "open session: %v", err)
	}
	renewed, err := s.repo.UpdatePaymentSession(ctx, payment.ID, session.ID, session.URL)
	if errors.Is(err, errs.ErrPaymentNotExpired) {
		// Renewed or paid concurrently; the new session is left to expire.
		current, err := s.repo.GetPayment(ctx, payment.ID)
		if err != nil {
			return model.Payment{}, err
		}
		return current, errs.ErrPaymentNotExpired
	}
	if err != nil {
		return model.Payment{}, err
	}
	metrics.PaymentsTotal.WithLabelValues(string(renewed.Type), string(renewed.Status)).Inc()

	s.notify(ctx, KindCheckoutCreated, checkoutCreatedText(borrowing, renewed))
	return renewed, nil
}

func (s *Service) ListPayments(ctx context.Context, viewer model.Viewer) ([]model.Payment, error) {
	var filter model.PaymentFilter
	if !viewer.IsStaff {
		filter.UserID = &viewer.UserID
	}
	payments, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}

func (s *Service) GetPayment(ctx context.Context, viewer model.Viewer, id int64) (model.Payment, error) {
	payment, _, err := s.payment(ctx, viewer, id)
	return payment, err
}

func (s *Service) payment(ctx context.Context, viewer model.Viewer, id int64) (model.Payment, model.Borrowing, error) {
	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return model.Payment{}, model.Borrowing{}, err
	}
	borrowing, err := s.repo.GetBorrowing(ctx, payment.BorrowingID)
	if err != nil {
		return model.Payment{}, model.Borrowing{}, err
	}
	if !viewer.Owns(borrowing.UserID) {
		return model.Payment{}, model.Borrowing{}, errs.ErrNotFound
	}
	return payment, borrowing, nil
}
