package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrGateway           = errors.New("payment gateway error")
	ErrAlreadyReturned   = errors.New("borrowing already returned")
	ErrNoInventory       = errors.New("the book cannot be borrowed: inventory=0")
	ErrPaymentNotPaid    = errors.New("payment is not paid")
	ErrPaymentNotExpired = errors.New("payment is not expired")
	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrBadCredentials    = errors.New("no active account found with the given credentials")
)

// ValidationError is bad input tied to a request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// PolicyViolationError blocks a new borrowing while payments are outstanding.
type PolicyViolationError struct {
	PendingPayments int
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("borrowing is not allowed: %d pending payments", e.PendingPayments)
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type PolicyViolationResponse struct {
	Message         string `json:"message"`
	PendingPayments int    `json:"pendingPayments"`
}
