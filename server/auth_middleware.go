package server

import (
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/rs/zerolog/log"
)

// SessionFromRequest returns the View for the session cookie on r, or nil when the
// request is anonymous. Missing, tampered and expired cookies all count as
// anonymous; only unexpected failures are returned as errors.
func (s *Server) SessionFromRequest(r *http.Request) (*sessions.View, error) {
	tok, ok, err := s.sessionToken(r)
	if err != nil || !ok {
		return nil, err
	}

	// Every request replays the update step; a token with a user passes through untouched.
	tok, err = s.projector.Update(r.Context(), tok, nil)
	if err != nil {
		return nil, fmt.Errorf("[server SessionFromRequest] update session: %w", err)
	}

	view := sessions.Derive(tok)
	return &view, nil
}

func (s *Server) sessionToken(r *http.Request) (sessions.Token, bool, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return sessions.Token{}, false, nil
	}

	tok, err := s.codec.Decode(cookie.Value)
	switch {
	case err == nil:
		return tok, true, nil
	case apperrors.Is(err, apperrors.ErrTokenExpired), apperrors.Is(err, apperrors.ErrInvalidToken):
		log.Debug().Err(err).Msg("Ignoring unusable session cookie")
		return sessions.Token{}, false, nil
	default:
		return sessions.Token{}, false, fmt.Errorf("[server sessionToken] decode session cookie: %w", err)
	}
}

// viewFromContext returns the session the route guard attached to r.
func viewFromContext(r *http.Request) *sessions.View {
	view, _ := sessions.FromContext(r.Context())
	return view
}
