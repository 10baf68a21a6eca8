package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionHandler returns the current Session View as JSON, or {} when there is no session.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		view, err := s.SessionFromRequest(r)
		if err != nil {
			log.Err(err).Msg("Failed to read session")
		}
		if view == nil {
			writeJSON(w, http.StatusOK, struct{}{})
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type SignOutPageData struct {
	PageData
	CallbackURL string
}

// SignOutPageHandler asks the user to confirm signing out. It never touches the cookie.
func (s *Server) SignOutPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "signout.html", http.StatusOK, SignOutPageData{
			PageData:    s.pageData(r, "Sign out"),
			CallbackURL: s.safeCallbackURL(r.URL.Query().Get("callbackUrl")),
		})
	}
}

// SignOutHandler clears the session cookie. Tokens are stateless so there is
// nothing to revoke server side. Posts from another origin are refused.
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sameOrigin(r) {
			log.Warn().Str("origin", r.Header.Get("Origin")).Msg("Cross-origin sign-out refused")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		s.ClearSessionCookie(w)
		redirectSuccess(w, r, s.safeCallbackURL(r.FormValue("callbackUrl")))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

// render executes a page template into a buffer so a failure can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, name string, status int, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
