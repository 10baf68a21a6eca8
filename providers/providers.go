// Package providers runs the OAuth authorization-code flow against the social
// login providers and turns the result into identity login events.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/jrsteele09/go-auth-frontend/identity"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"golang.org/x/oauth2"
)

type Provider interface {
	Name() string
	// AuthCodeURL returns the provider URL the browser is sent to.
	AuthCodeURL(ctx context.Context, state, nonce, verifier string) (string, error)
	// Login exchanges the returned code and reads the user's profile.
	Login(ctx context.Context, code, nonce, verifier string) (identity.LoginEvent, error)
}

type Registry map[string]Provider

// NewRegistry builds the providers that have a client ID configured.
// callbackURL maps a provider name to its redirect URI.
func NewRegistry(cfg config.ProvidersConfig, callbackURL func(provider string) string, httpClient *http.Client) Registry {
	r := Registry{}
	if cfg.GetGoogleClientID() != "" {
		r.Add(NewGoogle(GoogleConfig{
			ClientID:     cfg.GetGoogleClientID(),
			ClientSecret: cfg.GetGoogleClientSecret(),
			Issuer:       cfg.GetGoogleIssuer(),
			RedirectURL:  callbackURL(identity.ProviderGoogle),
			HTTPClient:   httpClient,
		}))
	}
	if cfg.GetFacebookClientID() != "" {
		r.Add(NewFacebook(FacebookConfig{
			ClientID:     cfg.GetFacebookClientID(),
			ClientSecret: cfg.GetFacebookClientSecret(),
			RedirectURL:  callbackURL(identity.ProviderFacebook),
			HTTPClient:   httpClient,
		}))
	}
	return r
}

func (r Registry) Add(p Provider) {
	r[p.Name()] = p
}

func (r Registry) Get(name string) (Provider, error) {
	p, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("[providers Get] %q: %w", name, apperrors.ErrUnknownProvider)
	}
	return p, nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// withClient makes oauth2 and go-oidc use client for their outbound calls.
func withClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}

func accountFrom(provider string, tok *oauth2.Token) *identity.Account {
	return &identity.Account{
		Provider:     provider,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
}
