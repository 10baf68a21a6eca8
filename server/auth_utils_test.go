package server

import (
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/stretchr/testify/require"
)

func TestSafeCallbackURL(t *testing.T) {
	cfg, err := config.NewFromMap(map[string]string{
		"SESSION_SECRET": "s",
		"BASE_URL":       "https://app.example.com",
	})
	require.NoError(t, err)
	s := &Server{config: cfg}

	tests := map[string]string{
		"":                                    "/",
		"/dashboard":                          "/dashboard",
		"/dashboard/settings?tab=2":           "/dashboard/settings?tab=2",
		"https://app.example.com/user-info":   "/user-info",
		"https://evil.example.com/user-info":  "/",
		"http://app.example.com/user-info":    "/",
		"//evil.example.com":                  "/",
		"/\\evil.example.com":                 "/",
		"dashboard":                           "/",
		"javascript:alert(1)":                 "/",
		"https://user@app.example.com/x#frag": "/x#frag",
	}
	for in, want := range tests {
		require.Equal(t, want, s.safeCallbackURL(in), in)
	}
}

func TestSessionCookieName(t *testing.T) {
	require.Equal(t, "__Secure-session-token", sessionCookieName(true))
	require.Equal(t, "session-token", sessionCookieName(false))
}

func TestSameOrigin(t *testing.T) {
	cfg, err := config.NewFromMap(map[string]string{
		"SESSION_SECRET": "s",
		"BASE_URL":       "https://app.example.com",
	})
	require.NoError(t, err)
	s := &Server{config: cfg}

	tests := map[string]bool{
		"":                             true,
		"https://app.example.com":      true,
		"https://APP.example.com":      true,
		"http://app.example.com":       false,
		"https://evil.example.com":     false,
		"https://app.example.com:8443": false,
		"null":                         false,
	}
	for origin, want := range tests {
		r := httptest.NewRequest("POST", "/api/auth/signout", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		require.Equal(t, want, s.sameOrigin(r), origin)
	}
}
