package authflowrepo_test

import (
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/server/authflowrepo"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	authflowrepo.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { authflowrepo.NowTimeFunc = time.Now })

	r := authflowrepo.NewInMemoryRepo(10 * time.Minute)

	state := &authflowrepo.AuthFlowState{
		Provider:     "google",
		CodeVerifier: "verifier",
		Nonce:        "nonce",
		CallbackURL:  "/dashboard",
		CreatedAt:    now,
	}
	require.NoError(t, r.Upsert("s1", state))

	t.Run("returns a copy", func(t *testing.T) {
		got, err := r.Get("s1")
		require.NoError(t, err)
		require.Equal(t, state, got)

		got.Nonce = "changed"
		again, err := r.Get("s1")
		require.NoError(t, err)
		require.Equal(t, "nonce", again.Nonce)
	})

	t.Run("unknown and empty states", func(t *testing.T) {
		_, err := r.Get("missing")
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
		_, err = r.Get("")
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
		require.Error(t, r.Upsert("", state))
		require.Error(t, r.Upsert("s2", nil))
	})

	t.Run("expiry", func(t *testing.T) {
		authflowrepo.NowTimeFunc = func() time.Time { return now.Add(11 * time.Minute) }
		_, err := r.Get("s1")
		require.ErrorIs(t, err, apperrors.ErrStateExpired)

		require.NoError(t, r.Upsert("s3", &authflowrepo.AuthFlowState{CreatedAt: now.Add(11 * time.Minute)}))
		require.Equal(t, 1, r.Len(), "expired states are evicted on write")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, r.Delete("s3"))
		_, err := r.Get("s3")
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}
