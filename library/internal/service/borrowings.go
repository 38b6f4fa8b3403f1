package service

import (
	"context"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/metrics"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/library/internal/repository"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// borrowingFee charges every day of the borrowing, both ends included.
func borrowingFee(b model.Borrowing) decimal.Decimal {
	days := b.BorrowDate.DaysUntil(b.ExpectedReturnDate) + 1
	return b.DailyFee.Mul(decimal.NewFromInt(int64(days)))
}

func (s *Service) fine(b model.Borrowing) decimal.Decimal {
	if b.ActualReturnDate == nil {
		return decimal.Zero
	}
	overdue := b.ExpectedReturnDate.DaysUntil(*b.ActualReturnDate)
	if overdue <= 0 {
		return decimal.Zero
	}
	return b.DailyFee.Mul(decimal.NewFromInt(int64(overdue))).Mul(s.opts.FineMultiplier)
}

// CreateBorrowing takes a copy of the book and opens a checkout session
// for the borrowing fee. The inventory change and the borrowing row commit
// together; the gateway is called after commit.
func (s *Service) CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest) (model.Checkout, error) {
	today := s.today()
	if req.ExpectedReturnDate.IsZero() {
		return model.Checkout{}, errs.NewValidation("expectedReturnDate", "this field is required")
	}
	if req.ExpectedReturnDate.Before(today) {
		return model.Checkout{}, errs.NewValidation("expectedReturnDate", "expected return date cannot be in the past")
	}

	var borrowing model.Borrowing
	err := s.repo.WithTx(ctx, func(repo repository.Repository) error {
		if _, err := repo.GetBook(ctx, req.BookID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.NewValidation("book", "invalid pk - object does not exist")
			}
			return err
		}
		// Input errors (400) win over the pending-payment policy (403).
		if _, err := repo.AdjustInventory(ctx, req.BookID, -1); err != nil {
			if errors.Is(err, errs.ErrNoInventory) {
				return errs.NewValidation("book", errs.ErrNoInventory.Error())
			}
			return err
		}
		pending, err := repo.CountPending(ctx, req.UserID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return &errs.PolicyViolationError{PendingPayments: pending}
		}
		borrowing, err = repo.CreateBorrowing(ctx, model.Borrowing{
			BorrowDate:         today,
			ExpectedReturnDate: req.ExpectedReturnDate,
			BookID:             req.BookID,
			UserID:             req.UserID,
		})
		return err
	})
	if err != nil {
		return model.Checkout{}, err
	}
	metrics.BorrowingsTotal.WithLabelValues("created").Inc()

	checkout := model.Checkout{Borrowing: borrowing}
	payment, err := s.openPayment(ctx, borrowing, model.PaymentTypePayment, borrowingFee(borrowing))
	switch {
	case err == nil:
		checkout.Payment = &payment
		checkout.Borrowing.Payments = []model.Payment{payment}
	case s.opts.FailurePolicy == FailurePolicyKeep:
		s.log.Warn("borrowing kept without payment",
			zap.Int64("borrowingID", borrowing.ID), zap.Error(err))
	default:
		if rbErr := s.undoBorrowing(ctx, borrowing); rbErr != nil {
			s.log.Error("undoBorrowing", zap.Int64("borrowingID", borrowing.ID), zap.Error(rbErr))
		}
		return model.Checkout{}, err
	}

	s.notify(ctx, KindBorrowingCreated, borrowingCreatedText(borrowing))
	return checkout, nil
}

// undoBorrowing is the compensating transaction for CreateBorrowing.
func (s *Service) undoBorrowing(ctx context.Context, b model.Borrowing) error {
	ctx = context.WithoutCancel(ctx)
	err := s.repo.WithTx(ctx, func(repo repository.Repository) error {
		if err := repo.DeleteBorrowing(ctx, b.ID); err != nil {
			return err
		}
		_, err := repo.AdjustInventory(ctx, b.BookID, 1)
		return err
	})
	if err != nil {
		return err
	}
	metrics.BorrowingsTotal.WithLabelValues("rolled_back").Inc()
	return nil
}

// ReturnBorrowing closes an active borrowing and opens a fine session when
// it comes back late.
func (s *Service) ReturnBorrowing(ctx context.Context, viewer model.Viewer, id int64, req model.ReturnBorrowingRequest) (model.Checkout, error) {
	today := s.today()
	returnDate := today
	if req.ActualReturnDate != nil {
		if req.ActualReturnDate.Before(today) {
			return model.Checkout{}, errs.NewValidation("actualReturnDate", "actual return date cannot be in the past")
		}
		returnDate = *req.ActualReturnDate
	}

	var borrowing model.Borrowing
	err := s.repo.WithTx(ctx, func(repo repository.Repository) error {
		b, err := repo.GetBorrowing(ctx, id)
		if err != nil {
			return err
		}
		if !viewer.Owns(b.UserID) {
			return errs.ErrNotFound
		}
		borrowing, err = repo.SetReturned(ctx, id, returnDate)
		if err != nil {
			if errors.Is(err, errs.ErrAlreadyReturned) {
				return errs.NewValidation("actualReturnDate", "the borrowing has already been returned")
			}
			return err
		}
		_, err = repo.AdjustInventory(ctx, b.BookID, 1)
		return err
	})
	if err != nil {
		return model.Checkout{}, err
	}
	metrics.BorrowingsTotal.WithLabelValues("returned").Inc()

	checkout := model.Checkout{Borrowing: borrowing}
	if fine := s.fine(borrowing); fine.IsPositive() {
		payment, err := s.openPayment(ctx, borrowing, model.PaymentTypeFine, fine)
		if err != nil {
			s.log.Warn("fine session", zap.Int64("borrowingID", borrowing.ID), zap.Error(err))
		} else {
			checkout.Payment = &payment
		}
	}

	s.notify(ctx, KindBorrowingReturned, borrowingReturnedText(borrowing))
	return checkout, nil
}

func (s *Service) ListBorrowings(ctx context.Context, viewer model.Viewer, filter model.BorrowingFilter) (model.ListBorrowings, error) {
	if !viewer.IsStaff {
		filter.UserID = &viewer.UserID
	}
	return s.repo.ListBorrowings(ctx, filter)
}

func (s *Service) GetBorrowing(ctx context.Context, viewer model.Viewer, id int64) (model.Borrowing, error) {
	b, err := s.repo.GetBorrowing(ctx, id)
	if err != nil {
		return model.Borrowing{}, err
	}
	if !viewer.Owns(b.UserID) {
		return model.Borrowing{}, errs.ErrNotFound
	}
	b.Payments, err = s.repo.ListBorrowingPayments(ctx, id)
	if err != nil {
		return model.Borrowing{}, err
	}
	return b, nil
}

func (s *Service) CountPending(ctx context.Context, userID int64) (model.Pending, error) {
	n, err := s.repo.CountPending(ctx, userID)
	if err != nil {
		return model.Pending{}, err
	}
	return model.Pending{Count: n, UserID: userID}, nil
}

// ListOverdue returns active borrowings due by tomorrow, oldest first.
func (s *Service) ListOverdue(ctx context.Context) ([]model.Borrowing, error) {
	return s.repo.ListOverdue(ctx, s.today().AddDays(1))
}

// CheckOverdue sends one summary and one notification per overdue borrowing.
func (s *Service) CheckOverdue(ctx context.Context) (model.Overdue, error) {
	items, err := s.ListOverdue(ctx)
	if err != nil {
		return model.Overdue{}, err
	}
	metrics.OverdueBorrowings.Set(float64(len(items)))

	s.notify(ctx, KindOverdueSummary, overdueSummaryText(len(items)))
	for _, b := range items {
		s.notify(ctx, KindOverdue, overdueText(b))
	}
	if items == nil {
		items = []model.Borrowing{}
	}
	return model.Overdue{Count: len(items), Items: items}, nil
}
