package handler

import (
	"context"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	PatchBook(ctx context.Context, id int64, patch model.BookPatch) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest) (model.Checkout, error)
	ReturnBorrowing(ctx context.Context, viewer model.Viewer, id int64, req model.ReturnBorrowingRequest) (model.Checkout, error)
	ListBorrowings(ctx context.Context, viewer model.Viewer, filter model.BorrowingFilter) (model.ListBorrowings, error)
	GetBorrowing(ctx context.Context, viewer model.Viewer, id int64) (model.Borrowing, error)
	CountPending(ctx context.Context, userID int64) (model.Pending, error)
	CheckOverdue(ctx context.Context) (model.Overdue, error)

	ListPayments(ctx context.Context, viewer model.Viewer) ([]model.Payment, error)
	GetPayment(ctx context.Context, viewer model.Viewer, id int64) (model.Payment, error)
	MarkPaidFromCallback(ctx context.Context, sessionID string) (model.Payment, error)
	RenewPayment(ctx context.Context, viewer model.Viewer, id int64) (model.Payment, error)
	ScanExpired(ctx context.Context) (map[string]model.PaymentStatus, error)

	Register(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	Token(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error)
	Me(ctx context.Context, userID int64) (model.User, error)
}

var _ LibraryService = (*service.Service)(nil)
