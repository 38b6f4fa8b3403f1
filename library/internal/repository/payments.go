package repository

import (
	"context"
	"fmt"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var paymentColumns = []string{
	"p.id", "p.status", "p.type", "p.borrowing_id", "p.session_url", "p.session_id", "p.money_to_pay",
}

const paymentReturning = "returning id, status, type, borrowing_id, session_url, session_id, money_to_pay"

func selectPayments() sq.SelectBuilder {
	return qb.Select(paymentColumns...).From(paymentsTableName + " p")
}

func (r *repository) CreatePayment(ctx context.Context, payment model.Payment) (model.Payment, error) {
	query, args, err := qb.Insert(paymentsTableName).
		Columns("status", "type", "borrowing_id", "session_url", "session_id", "money_to_pay").
		Values(payment.Status, payment.Type, payment.BorrowingID, payment.SessionURL, payment.SessionID, payment.MoneyToPay).
		Suffix(paymentReturning).
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}
	created, err := collectOne[model.Payment](ctx, r.db, query, args...)
	if err != nil {
		r.log.Error("CreatePayment", zap.Int64("borrowingID", payment.BorrowingID), zap.Error(err))
		if isForeignKeyViolation(err) {
			return model.Payment{}, errs.ErrNotFound
		}
		return model.Payment{}, err
	}
	return created, nil
}

func (r *repository) GetPayment(ctx context.Context, id int64) (model.Payment, error) {
	query, args, err := selectPayments().Where(sq.Eq{"p.id": id}).Limit(1).ToSql()
	if err != nil {
		return model.Payment{}, err
	}
	return collectOne[model.Payment](ctx, r.db, query, args...)
}

func (r *repository) GetPaymentBySession(ctx context.Context, sessionID string) (model.Payment, error) {
	query, args, err := selectPayments().Where(sq.Eq{"p.session_id": sessionID}).Limit(1).ToSql()
	if err != nil {
		return model.Payment{}, err
	}
	return collectOne[model.Payment](ctx, r.db, query, args...)
}

func (r *repository) ListPayments(ctx context.Context, filter model.PaymentFilter) ([]model.Payment, error) {
	q := selectPayments().OrderBy("p.id")
	if filter.UserID != nil {
		q = q.Join(fmt.Sprintf("%s br on br.id = p.borrowing_id", borrowingsTableName)).
			Where(sq.Eq{"br.user_id": *filter.UserID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Payment](ctx, r.db, query, args...)
}

func (r *repository) ListBorrowingPayments(ctx context.Context, borrowingID int64) ([]model.Payment, error) {
	query, args, err := selectPayments().
		Where(sq.Eq{"p.borrowing_id": borrowingID}).
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Payment](ctx, r.db, query, args...)
}

func (r *repository) ListPendingPayments(ctx context.Context) ([]model.Payment, error) {
	query, args, err := selectPayments().
		Where(sq.Eq{"p.status": model.PaymentStatusPending}).
		Where(sq.NotEq{"p.session_id": nil}).
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Payment](ctx, r.db, query, args...)
}

// UpdatePaymentStatus moves a payment from one status to another and
// reports errs.ErrNotFound when it is no longer in the from status.
func (r *repository) UpdatePaymentStatus(ctx context.Context, id int64, from, to model.PaymentStatus) error {
	query, args, err := qb.Update(paymentsTableName).
		Set("status", to).
		Where(sq.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "UpdatePaymentStatus")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func updatePaymentSessionQuery(id int64, sessionID, sessionURL string) sq.UpdateBuilder {
	return qb.Update(paymentsTableName).
		SetMap(map[string]any{
			"session_id":  sessionID,
			"session_url": sessionURL,
			"status":      model.PaymentStatusPending,
		}).
		Where(sq.Eq{"id": id, "status": model.PaymentStatusExpired}).
		Suffix(paymentReturning)
}

// UpdatePaymentSession attaches a fresh checkout session to an EXPIRED
// payment and makes it PENDING again. A payment in any other status is left
// alone and errs.ErrPaymentNotExpired is returned.
func (r *repository) UpdatePaymentSession(ctx context.Context, id int64, sessionID, sessionURL string) (model.Payment, error) {
	query, args, err := updatePaymentSessionQuery(id, sessionID, sessionURL).ToSql()
	if err != nil {
		return model.Payment{}, err
	}
	updated, err := collectOne[model.Payment](ctx, r.db, query, args...)
	if errors.Is(err, errs.ErrNotFound) {
		if _, err := r.GetPayment(ctx, id); err != nil {
			return model.Payment{}, err
		}
		return model.Payment{}, errs.ErrPaymentNotExpired
	}
	return updated, err
}

func countPendingQuery(userID int64) sq.SelectBuilder {
	return qb.Select("count(*)").
		From(paymentsTableName + " p").
		Join(fmt.Sprintf("%s br on br.id = p.borrowing_id", borrowingsTableName)).
		Where(sq.Eq{"br.user_id": userID, "p.status": model.PaymentStatusPending})
}

func (r *repository) CountPending(ctx context.Context, userID int64) (int, error) {
	query, args, err := countPendingQuery(userID).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "CountPending")
	}
	return n, nil
}
