package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-frontend/sessions"
)

type PageData struct {
	AppName    string
	Title      string
	Session    *sessions.View
	SignInPath string
	SignOutURL string
}

func (s *Server) pageData(r *http.Request, title string) PageData {
	return PageData{
		AppName:    s.config.GetAppName(),
		Title:      title,
		Session:    viewFromContext(r),
		SignInPath: s.config.GetSignInPath(),
		SignOutURL: RouteAPISignOut,
	}
}

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "index.html", http.StatusOK, s.pageData(r, "Home"))
	}
}

// DashboardHandler renders a page that is only reachable with a session
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "dashboard.html", http.StatusOK, s.pageData(r, "Dashboard"))
	}
}

// UserInfoHandler shows the session's user fields
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "user_info.html", http.StatusOK, s.pageData(r, "User info"))
	}
}
