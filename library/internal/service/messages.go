package service

import (
	"fmt"
	"strings"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
)

const (
	KindBorrowingCreated  = "borrowing_created"
	KindBorrowingReturned = "borrowing_returned"
	KindCheckoutCreated   = "checkout_created"
	KindPaymentPaid       = "payment_paid"
	KindPaymentExpired    = "payment_expired"
	KindOverdueSummary    = "overdue_summary"
	KindOverdue           = "overdue"
)

func borrowingInfo(b model.Borrowing) string {
	return fmt.Sprintf("Borrowing id: %d\nBook: %s\nUser: %s\nDate: %s\nExpected Return: %s",
		b.ID, b.BookTitle, b.UserEmail, b.BorrowDate, b.ExpectedReturnDate)
}

func borrowingCreatedText(b model.Borrowing) string {
	return "*Borrowing has been created.* \n" + borrowingInfo(b)
}

func borrowingReturnedText(b model.Borrowing) string {
	return fmt.Sprintf("*Return* Borrowing id: %d \nBook: %s \nUser: %s \n", b.ID, b.BookTitle, b.UserEmail)
}

func checkoutCreatedText(b model.Borrowing, p model.Payment) string {
	from, to := b.BorrowDate, b.ExpectedReturnDate
	if p.Type == model.PaymentTypeFine && b.ActualReturnDate != nil {
		from, to = b.ExpectedReturnDate, *b.ActualReturnDate
	}
	return fmt.Sprintf("*%s Checkout has been created.* \nAmount: %s\nBorrowing id: %d | Book: %s | User: %s\nFrom: %s To: %s\nStatus: %s : %s",
		capitalize(string(p.Type)), p.MoneyToPay.StringFixed(2), b.ID, b.BookTitle, b.UserEmail, from, to, p.Type, p.Status)
}

func paymentPaidText(p model.Payment) string {
	return fmt.Sprintf("*Payment Successful.* Amount: %s | Borrowing id: %d", p.MoneyToPay.StringFixed(2), p.BorrowingID)
}

func paymentExpiredText(p model.Payment) string {
	return fmt.Sprintf("*Payment Expired.* Amount: %s | Borrowing id: %d", p.MoneyToPay.StringFixed(2), p.BorrowingID)
}

func overdueSummaryText(n int) string {
	if n == 0 {
		return "*No borrowings overdue today*"
	}
	return fmt.Sprintf("*Overdue borrowings qty = %d*", n)
}

func overdueText(b model.Borrowing) string {
	return "*Overdue* " + borrowingInfo(b)
}

func sessionDescription(typ model.PaymentType, b model.Borrowing) string {
	return fmt.Sprintf("Borrowing %s for %s", typ, b.BookTitle)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
