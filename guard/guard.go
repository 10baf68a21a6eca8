// Package guard redirects requests for protected paths to the sign-in page when
// no session is present.
package guard

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/rs/zerolog/log"
)

// CallbackParam is the query parameter that carries the originally requested path
// to the sign-in page.
const CallbackParam = "callbackUrl"

type Decision int

const (
	Allow Decision = iota
	Redirect
)

func (d Decision) String() string {
	if d == Redirect {
		return "redirect"
	}
	return "allow"
}

// Lookup returns the session for r, or nil when there is none. An error means the
// session could not be determined at all.
type Lookup func(r *http.Request) (*sessions.View, error)

type Config struct {
	ProtectedPaths []string // path prefixes that need a session
	SkipPaths      []string // path prefixes the guard never looks at
	SignInPath     string
}

type Guard struct {
	protected  []string
	skip       []string
	signInPath string
	lookup     Lookup
	metrics    *metrics.Metrics
}

// New builds a guard. The sign-in path is always skipped so a broad protected
// prefix such as "/" cannot redirect the sign-in page to itself.
func New(cfg Config, lookup Lookup, m *metrics.Metrics) *Guard {
	skip := append([]string(nil), cfg.SkipPaths...)
	if cfg.SignInPath != "" {
		skip = append(skip, cfg.SignInPath)
	}
	return &Guard{
		protected:  cfg.ProtectedPaths,
		skip:       skip,
		signInPath: cfg.SignInPath,
		lookup:     lookup,
		metrics:    m,
	}
}

func (g *Guard) IsProtected(path string) bool {
	return hasAnyPrefix(path, g.protected)
}

// Decide is the pure routing decision for path given the current session.
func (g *Guard) Decide(path string, view *sessions.View) Decision {
	if g.IsProtected(path) && view == nil {
		return Redirect
	}
	return Allow
}

// SignInURL returns the sign-in location that sends the user back to path afterwards.
func (g *Guard) SignInURL(path string) string {
	q := url.Values{}
	q.Set(CallbackParam, path)
	return g.signInPath + "?" + q.Encode()
}

// Middleware applies the guard in front of next. Failing to read the session never
// blocks a request: it is logged and the request proceeds.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if hasAnyPrefix(path, g.skip) {
			next.ServeHTTP(w, r)
			return
		}

		view, err := g.session(r)
		if err != nil {
			log.Err(err).Str("path", path).Msg("Route guard could not read session, allowing request")
			g.metrics.ObserveGuard("error")
			next.ServeHTTP(w, r)
			return
		}

		decision := g.Decide(path, view)
		g.metrics.ObserveGuard(decision.String())
		if decision == Redirect {
			log.Debug().Str("path", path).Msg("Redirecting to sign-in: protected route without session")
			http.Redirect(w, r, g.SignInURL(path), http.StatusTemporaryRedirect)
			return
		}

		if view != nil {
			r = r.WithContext(sessions.NewContext(r.Context(), view))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) session(r *http.Request) (view *sessions.View, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			view, err = nil, fmt.Errorf("[guard session] panic: %v", rec)
		}
	}()
	return g.lookup(r)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
