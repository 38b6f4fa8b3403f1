package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/pkg/auth"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	t.Parallel()
	m := auth.NewTokenManager(auth.Config{Secret: "secret", TTL: time.Hour})
	p := auth.Profile{UserID: 7, Email: "test-1@test.com", IsStaff: true}

	token, err := m.Issue(p)
	require.NoError(t, err)

	got, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, p, got)

	other := auth.NewTokenManager(auth.Config{Secret: "other"})
	_, err = other.Parse(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = m.Parse("garbage")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	_, err := auth.GetProfile(context.Background())
	require.ErrorIs(t, err, auth.ErrNoProfile)

	ctx := auth.SetAuthContext(context.Background(), auth.Profile{UserID: 1})
	p, err := auth.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), p.UserID)
}

func TestPassword(t *testing.T) {
	t.Parallel()
	hash, err := auth.HashPassword("testpass")
	require.NoError(t, err)
	require.True(t, auth.CheckPassword(hash, "testpass"))
	require.False(t, auth.CheckPassword(hash, "bad-testpass"))
}
