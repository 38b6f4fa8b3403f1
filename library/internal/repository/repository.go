package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
	// WithTx runs fn against a repository bound to a single transaction.
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	// AdjustInventory adds delta to the book inventory, failing with
	// errs.ErrNoInventory rather than going below zero.
	AdjustInventory(ctx context.Context, bookID int64, delta int) (model.Book, error)

	CreateBorrowing(ctx context.Context, borrowing model.Borrowing) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, id int64) (model.Borrowing, error)
	ListBorrowings(ctx context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error)
	ListOverdue(ctx context.Context, until model.Date) ([]model.Borrowing, error)
	SetReturned(ctx context.Context, id int64, date model.Date) (model.Borrowing, error)
	DeleteBorrowing(ctx context.Context, id int64) error

	CreatePayment(ctx context.Context, payment model.Payment) (model.Payment, error)
	GetPayment(ctx context.Context, id int64) (model.Payment, error)
	GetPaymentBySession(ctx context.Context, sessionID string) (model.Payment, error)
	ListPayments(ctx context.Context, filter model.PaymentFilter) ([]model.Payment, error)
	ListBorrowingPayments(ctx context.Context, borrowingID int64) ([]model.Payment, error)
	ListPendingPayments(ctx context.Context) ([]model.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, from, to model.PaymentStatus) error
	UpdatePaymentSession(ctx context.Context, id int64, sessionID, sessionURL string) (model.Payment, error)
	CountPending(ctx context.Context, userID int64) (int, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	// pool is nil for a transaction-bound repository.
	pool *pgxpool.Pool
	db   querier
	log  *zap.Logger
}

func NewRepository(pool *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	if pool == nil {
		return nil, errors.New("nil pool")
	}
	return &repository{
		pool: pool,
		db:   pool,
		log:  log.Named("repo"),
	}, nil
}

const (
	usersTableName      = `users`
	booksTableName      = `books`
	borrowingsTableName = `borrowings`
	paymentsTableName   = `payments`
)

const txTimeout = 30 * time.Second

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) WithTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&repository{db: tx, log: r.log})
	})
}

func collectOne[T any](ctx context.Context, db querier, query string, args ...any) (T, error) {
	var zero T
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errs.ErrNotFound
		}
		return zero, err
	}
	return item, nil
}

func collectAll[T any](ctx context.Context, db querier, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}

func isCheckViolation(err error) bool {
	return pgCode(err) == pgerrcode.CheckViolation
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == pgerrcode.ForeignKeyViolation
}

func paginate(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}
