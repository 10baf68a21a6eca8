package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// sessionCookieBaseName is the name of the cookie carrying the signed session token
	sessionCookieBaseName = "session-token"
	// secureCookiePrefix asks browsers to only accept the cookie over HTTPS
	secureCookiePrefix = "__Secure-"

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

func sessionCookieName(production bool) string {
	if production {
		return secureCookiePrefix + sessionCookieBaseName
	}
	return sessionCookieBaseName
}

// sameOrigin reports whether a browser request came from a page on BASE_URL.
// Requests without an Origin header are not from a cross-site browser form.
func (s *Server) sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	base, err := url.Parse(s.config.GetBaseURL())
	if err != nil {
		return false
	}
	return strings.EqualFold(o.Scheme, base.Scheme) && strings.EqualFold(o.Host, base.Host)
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// SetSessionCookie stores the encoded session token until expires.
func (s *Server) SetSessionCookie(w http.ResponseWriter, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Expires:  expires,
	})
}

func (s *Server) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// safeCallbackURL keeps post-login redirects on this site. Anything other than
// a local absolute path, or an absolute URL on the configured base URL, becomes "/".
func (s *Server) safeCallbackURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "/"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}

	if u.IsAbs() || u.Host != "" {
		base, err := url.Parse(s.config.GetBaseURL())
		if err != nil || !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
			return "/"
		}
		u.Scheme, u.Host, u.User = "", "", nil
	}

	// "//host" and "/\host" are treated as network paths by browsers
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return "/"
	}
	return u.RequestURI() + fragment(u)
}

func fragment(u *url.URL) string {
	if u.Fragment == "" {
		return ""
	}
	return "#" + u.EscapedFragment()
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects. callbackURL is
// preserved so a retry from the sign-in page still lands on the original target.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorCode, callbackURL string) {
	q := url.Values{}
	q.Set("error", errorCode)
	if callbackURL != "" && callbackURL != "/" {
		q.Set("callbackUrl", callbackURL)
	}
	fullPath := path + "?" + q.Encode()

	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
