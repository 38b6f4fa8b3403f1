package service

import (
	"context"
	"sort"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/library/internal/repository"
)

// memRepo keeps rows in maps. WithTx restores a snapshot when fn fails.
type memRepo struct {
	nextID     int64
	users      map[int64]model.User
	books      map[int64]model.Book
	borrowings map[int64]model.Borrowing
	payments   map[int64]model.Payment
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		users:      map[int64]model.User{},
		books:      map[int64]model.Book{},
		borrowings: map[int64]model.Borrowing{},
		payments:   map[int64]model.Payment{},
	}
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *memRepo) WithTx(_ context.Context, fn func(repo repository.Repository) error) error {
	nextID := r.nextID
	users, books := cloneMap(r.users), cloneMap(r.books)
	borrowings, payments := cloneMap(r.borrowings), cloneMap(r.payments)
	if err := fn(r); err != nil {
		r.nextID = nextID
		r.users, r.books, r.borrowings, r.payments = users, books, borrowings, payments
		return err
	}
	return nil
}

func (r *memRepo) CreateUser(_ context.Context, user model.User) (model.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return model.User{}, errs.ErrEmailTaken
		}
	}
	user.ID = r.id()
	r.users[user.ID] = user
	return user, nil
}

func (r *memRepo) GetUser(_ context.Context, id int64) (model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (r *memRepo) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	book.ID = r.id()
	r.books[book.ID] = book
	return book, nil
}

func (r *memRepo) GetBook(_ context.Context, id int64) (model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return b, nil
}

func (r *memRepo) ListBooks(_ context.Context, page, size int) (model.ListBooks, error) {
	items := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return model.ListBooks{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (r *memRepo) UpdateBook(_ context.Context, book model.Book) (model.Book, error) {
	if _, ok := r.books[book.ID]; !ok {
		return model.Book{}, errs.ErrNotFound
	}
	r.books[book.ID] = book
	return book, nil
}

func (r *memRepo) DeleteBook(_ context.Context, id int64) error {
	if _, ok := r.books[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memRepo) AdjustInventory(_ context.Context, bookID int64, delta int) (model.Book, error) {
	b, ok := r.books[bookID]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if b.Inventory+delta < 0 {
		return model.Book{}, errs.ErrNoInventory
	}
	b.Inventory += delta
	r.books[bookID] = b
	return b, nil
}

func (r *memRepo) join(b model.Borrowing) model.Borrowing {
	book := r.books[b.BookID]
	b.BookTitle = book.Title
	b.DailyFee = book.DailyFee
	b.UserEmail = r.users[b.UserID].Email
	return b
}

func (r *memRepo) CreateBorrowing(_ context.Context, borrowing model.Borrowing) (model.Borrowing, error) {
	borrowing.ID = r.id()
	r.borrowings[borrowing.ID] = borrowing
	return r.join(borrowing), nil
}

func (r *memRepo) GetBorrowing(_ context.Context, id int64) (model.Borrowing, error) {
	b, ok := r.borrowings[id]
	if !ok {
		return model.Borrowing{}, errs.ErrNotFound
	}
	return r.join(b), nil
}

func (r *memRepo) sortedBorrowings(keep func(model.Borrowing) bool) []model.Borrowing {
	var items []model.Borrowing
	for _, b := range r.borrowings {
		if keep(b) {
			items = append(items, r.join(b))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r *memRepo) ListBorrowings(_ context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error) {
	items := r.sortedBorrowings(func(b model.Borrowing) bool {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			return false
		}
		return !filter.ActiveOnly || b.IsActive()
	})
	return model.ListBorrowings{
		Paging: model.Paging{Page: filter.Page, PageSize: filter.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (r *memRepo) ListOverdue(_ context.Context, until model.Date) ([]model.Borrowing, error) {
	items := r.sortedBorrowings(func(b model.Borrowing) bool {
		return b.IsActive() && !b.ExpectedReturnDate.After(until)
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].BorrowDate.Before(items[j].BorrowDate) })
	return items, nil
}

func (r *memRepo) SetReturned(_ context.Context, id int64, date model.Date) (model.Borrowing, error) {
	b, ok := r.borrowings[id]
	if !ok {
		return model.Borrowing{}, errs.ErrNotFound
	}
	if !b.IsActive() {
		return model.Borrowing{}, errs.ErrAlreadyReturned
	}
	b.ActualReturnDate = &date
	r.borrowings[id] = b
	return r.join(b), nil
}

func (r *memRepo) DeleteBorrowing(_ context.Context, id int64) error {
	if _, ok := r.borrowings[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.borrowings, id)
	for pid, p := range r.payments {
		if p.BorrowingID == id {
			delete(r.payments, pid)
		}
	}
	return nil
}

func (r *memRepo) CreatePayment(_ context.Context, payment model.Payment) (model.Payment, error) {
	if _, ok := r.borrowings[payment.BorrowingID]; !ok {
		return model.Payment{}, errs.ErrNotFound
	}
	payment.ID = r.id()
	r.payments[payment.ID] = payment
	return payment, nil
}

func (r *memRepo) GetPayment(_ context.Context, id int64) (model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return model.Payment{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) GetPaymentBySession(_ context.Context, sessionID string) (model.Payment, error) {
	for _, p := range r.payments {
		if p.SessionID != nil && *p.SessionID == sessionID {
			return p, nil
		}
	}
	return model.Payment{}, errs.ErrNotFound
}

func (r *memRepo) sortedPayments(keep func(model.Payment) bool) []model.Payment {
	var items []model.Payment
	for _, p := range r.payments {
		if keep(p) {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r *memRepo) ListPayments(_ context.Context, filter model.PaymentFilter) ([]model.Payment, error) {
	return r.sortedPayments(func(p model.Payment) bool {
		return filter.UserID == nil || r.borrowings[p.BorrowingID].UserID == *filter.UserID
	}), nil
}

func (r *memRepo) ListBorrowingPayments(_ context.Context, borrowingID int64) ([]model.Payment, error) {
	return r.sortedPayments(func(p model.Payment) bool { return p.BorrowingID == borrowingID }), nil
}

func (r *memRepo) ListPendingPayments(_ context.Context) ([]model.Payment, error) {
	return r.sortedPayments(func(p model.Payment) bool {
		return p.Status == model.PaymentStatusPending && p.SessionID != nil
	}), nil
}

func (r *memRepo) UpdatePaymentStatus(_ context.Context, id int64, from, to model.PaymentStatus) error {
	p, ok := r.payments[id]
	if !ok || p.Status != from {
		return errs.ErrNotFound
	}
	p.Status = to
	r.payments[id] = p
	return nil
}

func (r *memRepo) UpdatePaymentSession(_ context.Context, id int64, sessionID, sessionURL string) (model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return model.Payment{}, errs.ErrNotFound
	}
	if p.Status != model.PaymentStatusExpired {
		return model.Payment{}, errs.ErrPaymentNotExpired
	}
	p.SessionID, p.SessionURL = &sessionID, &sessionURL
	p.Status = model.PaymentStatusPending
	r.payments[id] = p
	return p, nil
}

func (r *memRepo) CountPending(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, p := range r.payments {
		if p.Status == model.PaymentStatusPending && r.borrowings[p.BorrowingID].UserID == userID {
			n++
		}
	}
	return n, nil
}
