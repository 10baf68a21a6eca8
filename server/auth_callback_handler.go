package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/server/authflowrepo"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// ProviderSignInHandler starts the authorization-code flow with an OAuth provider.
func (s *Server) ProviderSignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("provider")
		callbackURL := s.safeCallbackURL(r.URL.Query().Get("callbackUrl"))

		provider, err := s.providers.Get(name)
		if err != nil {
			log.Err(err).Msg("Sign-in requested for an unconfigured provider")
			redirectWithError(w, r, s.config.GetErrorPath(), ErrorCodeConfiguration, "")
			return
		}

		state := generateRandomString(32)
		flow := &authflowrepo.AuthFlowState{
			Provider:     name,
			CodeVerifier: oauth2.GenerateVerifier(),
			Nonce:        uuid.NewString(),
			CallbackURL:  callbackURL,
			CreatedAt:    authflowrepo.NowTimeFunc(),
		}

		authURL, err := provider.AuthCodeURL(r.Context(), state, flow.Nonce, flow.CodeVerifier)
		if err != nil {
			s.loginFailed(w, r, name, ErrorCodeOAuthSignin, callbackURL, err)
			return
		}
		if err := s.authState.Upsert(state, flow); err != nil {
			s.loginFailed(w, r, name, ErrorCodeOAuthSignin, callbackURL,
				fmt.Errorf("[server ProviderSignInHandler] store auth state: %w", err))
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// ProviderCallbackHandler finishes the flow started by ProviderSignInHandler: it
// exchanges the code, normalises the profile and signs the user in.
func (s *Server) ProviderCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("provider")
		state := r.FormValue("state")
		code := r.FormValue("code")

		provider, err := s.providers.Get(name)
		if err != nil {
			log.Err(err).Msg("Callback received for an unconfigured provider")
			redirectWithError(w, r, s.config.GetErrorPath(), ErrorCodeConfiguration, "")
			return
		}

		// Check for authorization errors
		if errorParam := r.FormValue("error"); errorParam != "" {
			if state != "" {
				_ = s.authState.Delete(state)
			}
			log.Warn().Str("provider", name).Str("error", errorParam).
				Str("error_description", r.FormValue("error_description")).Msg("Provider refused sign-in")
			s.metrics.ObserveLogin(name, "denied")
			redirectWithError(w, r, s.config.GetErrorPath(), ErrorCodeAccessDenied, "")
			return
		}

		flow, err := s.consumeAuthFlow(name, state)
		if err != nil {
			s.loginFailed(w, r, name, ErrorCodeOAuthCallback, "", err)
			return
		}
		if code == "" {
			s.loginFailed(w, r, name, ErrorCodeOAuthCallback, flow.CallbackURL,
				fmt.Errorf("[server ProviderCallbackHandler] missing code parameter"))
			return
		}

		event, err := provider.Login(r.Context(), code, flow.Nonce, flow.CodeVerifier)
		if err != nil {
			s.loginFailed(w, r, name, ErrorCodeOAuthCallback, flow.CallbackURL, err)
			return
		}

		user, err := s.normalizer.Normalize(r.Context(), event)
		if err != nil {
			s.loginFailed(w, r, name, ErrorCodeOAuthCallback, flow.CallbackURL, err)
			return
		}
		if user == nil {
			s.loginFailed(w, r, name, ErrorCodeOAuthCallback, flow.CallbackURL,
				fmt.Errorf("[server ProviderCallbackHandler] %s profile produced no identity", name))
			return
		}

		s.completeLogin(w, r, event, user, flow.CallbackURL, ErrorCodeOAuthCallback)
	}
}

// consumeAuthFlow loads and removes the state stored when the flow started. A
// state can only be used once and only with the provider that created it.
func (s *Server) consumeAuthFlow(provider, state string) (*authflowrepo.AuthFlowState, error) {
	flow, err := s.authState.Get(state)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[server consumeAuthFlow] state lookup")
	}

	// Clean up state after use
	if err := s.authState.Delete(state); err != nil {
		log.Err(err).Msg("Failed to delete auth flow state")
	}

	if flow.Provider != provider {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidState, "[server consumeAuthFlow] state issued for %q, callback from %q",
			flow.Provider, provider)
	}
	return flow, nil
}
