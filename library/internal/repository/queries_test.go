package repository

import (
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestListOverdueQuery(t *testing.T) {
	t.Parallel()
	until := model.NewDate(2024, time.March, 10)

	query, args, err := listOverdueQuery(until).ToSql()
	require.NoError(t, err)
	require.Contains(t, query, "FROM borrowings br JOIN books b on b.id = br.book_id JOIN users u on u.id = br.user_id")
	require.Contains(t, query, "WHERE br.actual_return_date IS NULL AND br.expected_return_date <= $1")
	require.Contains(t, query, "ORDER BY br.borrow_date, br.id")
	require.Equal(t, []any{until}, args)
}

func TestCountPendingQuery(t *testing.T) {
	t.Parallel()

	query, args, err := countPendingQuery(7).ToSql()
	require.NoError(t, err)
	require.Equal(t,
		"SELECT count(*) FROM payments p JOIN borrowings br on br.id = p.borrowing_id WHERE br.user_id = $1 AND p.status = $2",
		query)
	require.Equal(t, []any{int64(7), model.PaymentStatusPending}, args)
}

func TestSetReturnedQuery(t *testing.T) {
	t.Parallel()
	date := model.NewDate(2024, time.March, 12)

	query, args, err := setReturnedQuery(3, date).ToSql()
	require.NoError(t, err)
	require.Equal(t,
		"UPDATE borrowings SET actual_return_date = $1 WHERE id = $2 AND actual_return_date IS NULL",
		query)
	require.Equal(t, []any{date, int64(3)}, args)
}

func TestUpdatePaymentSessionQuery(t *testing.T) {
	t.Parallel()

	query, args, err := updatePaymentSessionQuery(5, "cs_new", "https://checkout.stripe.com/cs_new").ToSql()
	require.NoError(t, err)
	require.Equal(t,
		"UPDATE payments SET session_id = $1, session_url = $2, status = $3 WHERE id = $4 AND status = $5 "+paymentReturning,
		query)
	require.Equal(t, []any{
		"cs_new", "https://checkout.stripe.com/cs_new", model.PaymentStatusPending,
		int64(5), model.PaymentStatusExpired,
	}, args)
}
