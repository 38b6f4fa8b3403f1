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

func selectBorrowings(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{
			"br.id", "br.borrow_date", "br.expected_return_date", "br.actual_return_date",
			"br.book_id", "br.user_id", "b.title as book_title", "b.daily_fee", "u.email as user_email",
		}
	}
	return qb.Select(columns...).
		From(borrowingsTableName + " br").
		Join(fmt.Sprintf("%s b on b.id = br.book_id", booksTableName)).
		Join(fmt.Sprintf("%s u on u.id = br.user_id", usersTableName))
}

func (r *repository) CreateBorrowing(ctx context.Context, borrowing model.Borrowing) (model.Borrowing, error) {
	query, args, err := qb.Insert(borrowingsTableName).
		Columns("borrow_date", "expected_return_date", "book_id", "user_id").
		Values(borrowing.BorrowDate, borrowing.ExpectedReturnDate, borrowing.BookID, borrowing.UserID).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.log.Error("CreateBorrowing", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		if isCheckViolation(err) {
			return model.Borrowing{}, errs.NewValidation("expectedReturnDate", "expected return date must not be before borrow date")
		}
		return model.Borrowing{}, err
	}
	return r.GetBorrowing(ctx, id)
}

func (r *repository) GetBorrowing(ctx context.Context, id int64) (model.Borrowing, error) {
	query, args, err := selectBorrowings().
		Where(sq.Eq{"br.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	return collectOne[model.Borrowing](ctx, r.db, query, args...)
}

func borrowingsWhere(filter model.BorrowingFilter) sq.And {
	where := sq.And{}
	if filter.UserID != nil {
		where = append(where, sq.Eq{"br.user_id": *filter.UserID})
	}
	if filter.ActiveOnly {
		where = append(where, sq.Eq{"br.actual_return_date": nil})
	}
	return where
}

func (r *repository) ListBorrowings(ctx context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error) {
	where := borrowingsWhere(filter)
	query, args, err := paginate(selectBorrowings().Where(where).OrderBy("br.id"), filter.Page, filter.Size).ToSql()
	if err != nil {
		return model.ListBorrowings{}, err
	}
	items, err := collectAll[model.Borrowing](ctx, r.db, query, args...)
	if err != nil {
		return model.ListBorrowings{}, err
	}

	countQuery, countArgs, err := selectBorrowings("count(*)").Where(where).ToSql()
	if err != nil {
		return model.ListBorrowings{}, err
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return model.ListBorrowings{}, err
	}

	return model.ListBorrowings{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

// listOverdueQuery selects open borrowings due on or before until, oldest first.
func listOverdueQuery(until model.Date) sq.SelectBuilder {
	return selectBorrowings().
		Where(sq.Eq{"br.actual_return_date": nil}).
		Where(sq.LtOrEq{"br.expected_return_date": until}).
		OrderBy("br.borrow_date", "br.id")
}

func (r *repository) ListOverdue(ctx context.Context, until model.Date) ([]model.Borrowing, error) {
	query, args, err := listOverdueQuery(until).ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Borrowing](ctx, r.db, query, args...)
}

// setReturnedQuery only touches a borrowing that is still open, so zero
// affected rows means it is missing or already returned.
func setReturnedQuery(id int64, date model.Date) sq.UpdateBuilder {
	return qb.Update(borrowingsTableName).
		Set("actual_return_date", date).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"actual_return_date": nil})
}

func (r *repository) SetReturned(ctx context.Context, id int64, date model.Date) (model.Borrowing, error) {
	query, args, err := setReturnedQuery(id, date).ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isCheckViolation(err) {
			return model.Borrowing{}, errs.NewValidation("actualReturnDate", "actual return date must not be before borrow date")
		}
		return model.Borrowing{}, errors.Wrap(err, "SetReturned")
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetBorrowing(ctx, id); err != nil {
			return model.Borrowing{}, err
		}
		return model.Borrowing{}, errs.ErrAlreadyReturned
	}
	return r.GetBorrowing(ctx, id)
}

func (r *repository) DeleteBorrowing(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(borrowingsTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
