package guard_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-auth-frontend/guard"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/stretchr/testify/require"
)

var testConfig = guard.Config{
	ProtectedPaths: []string{"/user-info", "/dashboard"},
	SkipPaths:      []string{"/api", "/static"},
	SignInPath:     "/auth/signin",
}

func noSession(*http.Request) (*sessions.View, error) { return nil, nil }

func withSession(*http.Request) (*sessions.View, error) {
	return &sessions.View{User: sessions.ViewUser{ID: "u1", Email: "a@x.com"}}, nil
}

// serve runs the guarded handler and reports whether the inner handler ran.
func serve(t *testing.T, g *guard.Guard, path string) (*httptest.ResponseRecorder, bool, *http.Request) {
	t.Helper()

	var reached bool
	var seen *http.Request
	h := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen = r
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec, reached, seen
}

func TestGuard_Decide(t *testing.T) {
	g := guard.New(testConfig, noSession, nil)
	view := &sessions.View{}

	require.Equal(t, guard.Redirect, g.Decide("/dashboard/settings", nil))
	require.Equal(t, guard.Redirect, g.Decide("/user-info", nil))
	require.Equal(t, guard.Allow, g.Decide("/dashboard/settings", view))
	require.Equal(t, guard.Allow, g.Decide("/about", nil))
	require.Equal(t, guard.Allow, g.Decide("/", nil))
}

func TestGuard_SignInURL(t *testing.T) {
	g := guard.New(testConfig, noSession, nil)

	u, err := url.Parse(g.SignInURL("/dashboard/settings"))
	require.NoError(t, err)
	require.Equal(t, "/auth/signin", u.Path)
	require.Equal(t, "/dashboard/settings", u.Query().Get(guard.CallbackParam))
}

func TestGuard_Middleware(t *testing.T) {
	t.Run("protected path without session redirects", func(t *testing.T) {
		rec, reached, _ := serve(t, guard.New(testConfig, noSession, nil), "/dashboard/settings")
		require.False(t, reached)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/auth/signin", loc.Path)
		require.Equal(t, "/dashboard/settings", loc.Query().Get("callbackUrl"))
	})

	t.Run("public path without session is allowed", func(t *testing.T) {
		rec, reached, _ := serve(t, guard.New(testConfig, noSession, nil), "/about")
		require.True(t, reached)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("protected path with session is allowed and carries the view", func(t *testing.T) {
		_, reached, r := serve(t, guard.New(testConfig, withSession, nil), "/dashboard")
		require.True(t, reached)

		view, ok := sessions.FromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "a@x.com", view.User.Email)
	})

	t.Run("skipped prefixes bypass the lookup", func(t *testing.T) {
		calls := 0
		lookup := func(*http.Request) (*sessions.View, error) {
			calls++
			return nil, nil
		}
		_, reached, _ := serve(t, guard.New(guard.Config{
			ProtectedPaths: []string{"/"},
			SkipPaths:      []string{"/api"},
			SignInPath:     "/auth/signin",
		}, lookup, nil), "/api/auth/session")
		require.True(t, reached)
		require.Zero(t, calls)
	})

	t.Run("sign-in path is never guarded under a root prefix", func(t *testing.T) {
		g := guard.New(guard.Config{
			ProtectedPaths: []string{"/"},
			SignInPath:     "/auth/signin",
		}, noSession, nil)

		rec, reached, _ := serve(t, g, "/auth/signin")
		require.True(t, reached)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, reached, _ = serve(t, g, "/dashboard")
		require.False(t, reached)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	})

	t.Run("lookup error degrades to allow", func(t *testing.T) {
		failing := func(*http.Request) (*sessions.View, error) { return nil, errors.New("boom") }
		rec, reached, _ := serve(t, guard.New(testConfig, failing, nil), "/dashboard")
		require.True(t, reached)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("lookup panic degrades to allow", func(t *testing.T) {
		panicking := func(*http.Request) (*sessions.View, error) { panic("decoder exploded") }
		_, reached, _ := serve(t, guard.New(testConfig, panicking, nil), "/dashboard")
		require.True(t, reached)
	})
}
