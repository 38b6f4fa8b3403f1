package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListBorrowings struct {
	Paging `json:",inline"`
	Items  []Borrowing `json:"items"`
}

type Cover string

const (
	CoverHard Cover = "HARD"
	CoverSoft Cover = "SOFT"
)

func (c Cover) Valid() bool {
	return c == CoverHard || c == CoverSoft
}

type Book struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Author    string          `json:"author" db:"author"`
	Cover     Cover           `json:"cover" db:"cover"`
	Inventory int             `json:"inventory" db:"inventory"`
	DailyFee  decimal.Decimal `json:"dailyFee" db:"daily_fee"`
}

type BookRequest struct {
	Title     string          `json:"title" validate:"required,max=255"`
	Author    string          `json:"author" validate:"required,max=255"`
	Cover     Cover           `json:"cover" validate:"required,oneof=HARD SOFT"`
	Inventory *int            `json:"inventory" validate:"required,gte=0"`
	DailyFee  decimal.Decimal `json:"dailyFee"`
}

func (r BookRequest) Book() Book {
	b := Book{
		Title:    r.Title,
		Author:   r.Author,
		Cover:    r.Cover,
		DailyFee: r.DailyFee,
	}
	if r.Inventory != nil {
		b.Inventory = *r.Inventory
	}
	return b
}

type BookPatch struct {
	Title     *string          `json:"title" validate:"omitempty,max=255"`
	Author    *string          `json:"author" validate:"omitempty,max=255"`
	Cover     *Cover           `json:"cover" validate:"omitempty,oneof=HARD SOFT"`
	Inventory *int             `json:"inventory" validate:"omitempty,gte=0"`
	DailyFee  *decimal.Decimal `json:"dailyFee"`
}

func (p BookPatch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Cover != nil {
		b.Cover = *p.Cover
	}
	if p.Inventory != nil {
		b.Inventory = *p.Inventory
	}
	if p.DailyFee != nil {
		b.DailyFee = *p.DailyFee
	}
	return b
}

type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	IsStaff  bool   `json:"isStaff" db:"is_staff"`
}

type UserCreateRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=128"`
}

type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Access string `json:"access"`
}

type Borrowing struct {
	ID                 int64 `json:"id" db:"id"`
	BorrowDate         Date  `json:"borrowDate" db:"borrow_date"`
	ExpectedReturnDate Date  `json:"expectedReturnDate" db:"expected_return_date"`
	ActualReturnDate   *Date `json:"actualReturnDate" db:"actual_return_date"`
	BookID             int64 `json:"bookId" db:"book_id"`
	UserID             int64 `json:"userId" db:"user_id"`
	// Book and user are denormalised for listings and notifications.
	BookTitle string          `json:"book" db:"book_title"`
	DailyFee  decimal.Decimal `json:"-" db:"daily_fee"`
	UserEmail string          `json:"user" db:"user_email"`

	Payments []Payment `json:"payments,omitempty" db:"-"`
}

func (b Borrowing) IsActive() bool {
	return b.ActualReturnDate == nil
}

func (b Borrowing) MarshalJSON() ([]byte, error) {
	type borrowing Borrowing
	return json.Marshal(struct {
		borrowing
		IsActive bool `json:"isActive"`
	}{
		borrowing: borrowing(b),
		IsActive:  b.IsActive(),
	})
}

type CreateBorrowingRequest struct {
	BookID             int64 `json:"bookId" validate:"required,gt=0"`
	ExpectedReturnDate Date  `json:"expectedReturnDate"`
	UserID             int64 `json:"-"`
}

type ReturnBorrowingRequest struct {
	ActualReturnDate *Date `json:"actualReturnDate"`
}

type BorrowingFilter struct {
	UserID     *int64
	ActiveOnly bool
	Page       int
	Size       int
}

// Checkout is the outcome of an operation that may open a checkout session.
type Checkout struct {
	Borrowing Borrowing `json:"borrowing"`
	Payment   *Payment  `json:"payment,omitempty"`
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

type PaymentType string

const (
	PaymentTypePayment PaymentType = "PAYMENT"
	PaymentTypeFine    PaymentType = "FINE"
)

type Payment struct {
	ID          int64           `json:"id" db:"id"`
	Status      PaymentStatus   `json:"status" db:"status"`
	Type        PaymentType     `json:"type" db:"type"`
	BorrowingID int64           `json:"borrowingId" db:"borrowing_id"`
	SessionURL  *string         `json:"sessionUrl" db:"session_url"`
	SessionID   *string         `json:"sessionId" db:"session_id"`
	MoneyToPay  decimal.Decimal `json:"moneyToPay" db:"money_to_pay"`
}

type PaymentFilter struct {
	UserID *int64
}

// Viewer is the caller on whose behalf a read or mutation runs.
type Viewer struct {
	UserID  int64
	IsStaff bool
}

// Owns reports whether v may see rows belonging to userID.
func (v Viewer) Owns(userID int64) bool {
	return v.IsStaff || v.UserID == userID
}

type Overdue struct {
	Count int         `json:"overdue"`
	Items []Borrowing `json:"items"`
}

type Pending struct {
	Count  int   `json:"pending"`
	UserID int64 `json:"userId"`
}
