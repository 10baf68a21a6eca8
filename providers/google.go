package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-auth-frontend/identity"
	"golang.org/x/oauth2"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	Issuer       string
	RedirectURL  string
	HTTPClient   *http.Client
}

// Google signs users in with Google's OpenID Connect endpoints. Discovery runs
// on first use and is cached.
type Google struct {
	cfg GoogleConfig

	mu           sync.RWMutex
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

var _ Provider = (*Google)(nil)

func NewGoogle(cfg GoogleConfig) *Google {
	return &Google{cfg: cfg}
}

func (g *Google) Name() string {
	return identity.ProviderGoogle
}

func (g *Google) AuthCodeURL(ctx context.Context, state, nonce, verifier string) (string, error) {
	conf, _, err := g.discover(ctx)
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(state,
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(verifier),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (g *Google) Login(ctx context.Context, code, nonce, verifier string) (identity.LoginEvent, error) {
	conf, idVerifier, err := g.discover(ctx)
	if err != nil {
		return nil, err
	}

	ctx = withClient(ctx, g.cfg.HTTPClient)
	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("[google Login] token exchange: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("[google Login] no id_token in token response")
	}

	idToken, err := idVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[google Login] id token verification: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, errors.New("[google Login] nonce mismatch")
	}

	var profile identity.GoogleProfile
	if err := idToken.Claims(&profile); err != nil {
		return nil, fmt.Errorf("[google Login] claims: %w", err)
	}

	return identity.GoogleLogin{
		Profile: profile,
		Account: accountFrom(identity.ProviderGoogle, tok),
	}, nil
}

func (g *Google) discover(ctx context.Context) (*oauth2.Config, *oidc.IDTokenVerifier, error) {
	g.mu.RLock()
	conf, verifier := g.oauth2Config, g.verifier
	g.mu.RUnlock()
	if conf != nil {
		return conf, verifier, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.oauth2Config != nil {
		return g.oauth2Config, g.verifier, nil
	}

	// The provider keeps this context for later key fetches, so it must outlive the request.
	provider, err := oidc.NewProvider(withClient(context.WithoutCancel(ctx), g.cfg.HTTPClient), g.cfg.Issuer)
	if err != nil {
		return nil, nil, fmt.Errorf("[google discover] %w", err)
	}

	g.oauth2Config = &oauth2.Config{
		ClientID:     g.cfg.ClientID,
		ClientSecret: g.cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  g.cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.cfg.ClientID})
	return g.oauth2Config, g.verifier, nil
}
