package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-auth-frontend/authapi"
	"github.com/jrsteele09/go-auth-frontend/identity"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/rs/zerolog/log"
)

var errorMessages = map[string]string{
	ErrorCodeCredentialsSignin: "Sign in failed. Check the details you provided are correct.",
	ErrorCodeOAuthSignin:       "Could not start signing in with that provider. Try again.",
	ErrorCodeOAuthCallback:     "Signing in with that provider did not complete. Try again.",
	ErrorCodeAccessDenied:      "Access was denied by the sign-in provider.",
	ErrorCodeConfiguration:     "This sign-in option is not available.",
}

func errorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Unable to sign in."
}

type ProviderLink struct {
	Name  string
	Label string
	URL   string
}

// SignInPageData contains data for rendering the sign-in page
type SignInPageData struct {
	AppName           string
	Title             string
	Error             string
	CallbackURL       string
	CredentialsAction string
	Providers         []ProviderLink
}

type ErrorPageData struct {
	AppName    string
	Title      string
	Error      string
	SignInPath string
}

// SignInPageHandler renders the password form and one button per configured provider
func (s *Server) SignInPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callbackURL := s.safeCallbackURL(r.URL.Query().Get("callbackUrl"))

		links := make([]ProviderLink, 0, len(s.providers))
		for _, name := range s.providers.Names() {
			links = append(links, ProviderLink{
				Name:  name,
				Label: providerLabel(name),
				URL:   strings.Replace(RouteAPISignInProvider, "{provider}", name, 1) + "?callbackUrl=" + url.QueryEscape(callbackURL),
			})
		}

		data := SignInPageData{
			AppName:           s.config.GetAppName(),
			Title:             "Sign in",
			Error:             errorMessage(r.URL.Query().Get("error")),
			CallbackURL:       callbackURL,
			CredentialsAction: RouteAPICallbackCredentials,
			Providers:         links,
		}
		s.render(w, "signin.html", http.StatusOK, data)
	}
}

// ErrorPageHandler renders failures that cannot be retried from the sign-in page
func (s *Server) ErrorPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ErrorPageData{
			AppName:    s.config.GetAppName(),
			Title:      "Sign-in error",
			Error:      errorMessage(r.URL.Query().Get("error")),
			SignInPath: s.config.GetSignInPath(),
		}
		s.render(w, "error.html", http.StatusOK, data)
	}
}

// CredentialsCallbackHandler processes the sign-in form submission
func (s *Server) CredentialsCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.loginFailed(w, r, identity.ProviderCredentials, ErrorCodeCredentialsSignin, "",
				fmt.Errorf("[server CredentialsCallbackHandler] invalid form data: %w", err))
			return
		}

		callbackURL := s.safeCallbackURL(r.FormValue("callbackUrl"))
		event := identity.PasswordLogin{
			Email:    strings.TrimSpace(r.FormValue("email")),
			Password: r.FormValue("password"),
		}

		user, err := s.normalizer.Normalize(r.Context(), event)
		if err != nil {
			s.loginFailed(w, r, event.Provider(), ErrorCodeCredentialsSignin, callbackURL, err)
			return
		}
		if user == nil {
			log.Debug().Err(apperrors.ErrMissingCredentials).Bool("has_email", event.Email != "").Bool("has_password", event.Password != "").Msg("Credentials sign-in without an identity")
			s.metrics.ObserveLogin(event.Provider(), "no_identity")
			redirectWithError(w, r, s.config.GetSignInPath(), ErrorCodeCredentialsSignin, callbackURL)
			return
		}

		s.completeLogin(w, r, event, user, callbackURL, ErrorCodeCredentialsSignin)
	}
}

// completeLogin projects a normalised login onto a fresh token, stores it in the
// session cookie and sends the browser on to callbackURL. On any failure the
// existing cookie is left as it was.
func (s *Server) completeLogin(w http.ResponseWriter, r *http.Request, event identity.LoginEvent, user *identity.Identity, callbackURL, errorCode string) {
	provider := event.Provider()

	tok, err := s.projector.Update(r.Context(), sessions.Token{}, sessions.NewLogin(event, user))
	if err != nil {
		s.loginFailed(w, r, provider, errorCode, callbackURL, err)
		return
	}
	if !tok.HasUser() {
		s.loginFailed(w, r, provider, errorCode, callbackURL,
			fmt.Errorf("[server completeLogin] %s login produced no session", provider))
		return
	}

	raw, err := s.codec.Encode(tok)
	if err != nil {
		s.loginFailed(w, r, provider, errorCode, callbackURL, err)
		return
	}

	s.SetSessionCookie(w, raw, tok.ExpiresAt)
	log.Info().Str("provider", provider).Str("user_id", tok.User.ID).Msg("User signed in")
	s.metrics.ObserveLogin(provider, "success")
	redirectSuccess(w, r, callbackURL)
}

// loginFailed logs err and sends the user back to the sign-in page with a generic error code
func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, provider, errorCode, callbackURL string, err error) {
	outcome := "error"
	if apperrors.Is(err, apperrors.ErrRemoteAuthRejected) {
		outcome = "rejected"
	}
	event := log.Err(err).Str("provider", provider).Str("outcome", outcome)
	var rejected *authapi.RejectedError
	if apperrors.As(err, &rejected) {
		event = event.Int("upstream_status", rejected.StatusCode)
	}
	event.Msg("Sign-in failed")
	s.metrics.ObserveLogin(provider, outcome)
	redirectWithError(w, r, s.config.GetSignInPath(), errorCode, callbackURL)
}

func providerLabel(name string) string {
	switch name {
	case identity.ProviderGoogle:
		return "Google"
	case identity.ProviderFacebook:
		return "Facebook"
	default:
		return name
	}
}
