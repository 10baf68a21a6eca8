package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-frontend/identity"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/internal/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	limiterGCThreshold = 1000
	limiterIdleTimeout = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles sign-in attempts per client address. A nil limiter
// allows everything.
type loginLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		clients: map[string]*clientLimiter{},
	}
}

func (l *loginLimiter) allow(client string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	l.gcLocked(now)

	return c.limiter.AllowN(now, 1)
}

func (l *loginLimiter) gcLocked(now time.Time) {
	if len(l.clients) < limiterGCThreshold {
		return
	}
	cutoff := now.Add(-limiterIdleTimeout)
	for client, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, client)
		}
	}
}

// RateLimitMiddleware rejects sign-in attempts beyond the configured per-client rate.
func (s *Server) RateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter.allow(clientIP(r)) {
			next(w, r)
			return
		}

		provider := utils.FirstNonEmpty(r.PathValue("provider"), identity.ProviderCredentials)
		log.Warn().Err(apperrors.ErrRateLimited).Str("provider", provider).Str("client_ip", clientIP(r)).Msg("Sign-in attempt rate limited")
		s.metrics.ObserveLogin(provider, "rate_limited")

		w.Header().Set("Retry-After", "60")
		http.Error(w, "Too many sign-in attempts, please try again later", http.StatusTooManyRequests)
	}
}

// clientIP keys the limiter on the connection address. Forwarding headers are
// not trusted.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr == "" {
		return "unknown"
	}
	return addr
}
