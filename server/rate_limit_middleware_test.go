package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		l := newLoginLimiter(0, 5)
		require.Nil(t, l)
		for range 100 {
			require.True(t, l.allow("198.51.100.1"))
		}
	})

	t.Run("burst per client", func(t *testing.T) {
		l := newLoginLimiter(1, 2)
		require.True(t, l.allow("198.51.100.1"))
		require.True(t, l.allow("198.51.100.1"))
		require.False(t, l.allow("198.51.100.1"))

		require.True(t, l.allow("198.51.100.2"))
	})
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:5555"
	r.Header.Set("X-Forwarded-For", "10.0.0.1")
	require.Equal(t, "203.0.113.7", clientIP(r))

	r.RemoteAddr = ""
	require.Equal(t, "unknown", clientIP(r))
}
