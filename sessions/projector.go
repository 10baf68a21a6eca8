package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-frontend/identity"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/internal/utils"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// SocialExchanger trades a provider access token for a backend access token.
type SocialExchanger interface {
	SocialLogin(ctx context.Context, provider, accessToken string) (string, error)
}

// Login is a completed sign-in ready to be folded into a Token.
type Login struct {
	Provider string
	User     *identity.Identity
	Account  *identity.Account // nil for password logins
}

// NewLogin pairs a login event with the Identity normalised from it.
func NewLogin(event identity.LoginEvent, user *identity.Identity) *Login {
	return &Login{
		Provider: event.Provider(),
		User:     user,
		Account:  identity.AccountOf(event),
	}
}

// Projector maintains session Tokens and derives Views from them.
type Projector struct {
	exchanger SocialExchanger
	maxAge    time.Duration
}

func NewProjector(exchanger SocialExchanger, maxAge time.Duration) *Projector {
	return &Projector{exchanger: exchanger, maxAge: maxAge}
}

// Update folds login into tok. A token that already carries a user is returned
// unchanged, as is any token when login is nil. Errors leave no partial token.
func (p *Projector) Update(ctx context.Context, tok Token, login *Login) (Token, error) {
	if tok.HasUser() {
		return tok, nil
	}
	if login == nil || login.User == nil {
		return tok, nil
	}

	if login.Provider != identity.ProviderCredentials {
		return p.socialLogin(ctx, tok, login)
	}

	if login.User.AccessToken != "" {
		log.Debug().Str("user_id", login.User.ID).Msg("Processing credentials login")
		return p.issue(tok, Update{
			User:        sessionUser(login.User),
			AccessToken: utils.Ptr(login.User.AccessToken),
		}), nil
	}

	return tok, nil
}

func (p *Projector) socialLogin(ctx context.Context, tok Token, login *Login) (Token, error) {
	if login.Account == nil || login.Account.AccessToken == "" {
		return Token{}, fmt.Errorf("[sessions socialLogin] %s: %w", login.Provider, apperrors.ErrMissingProviderToken)
	}

	accessToken, err := p.exchanger.SocialLogin(ctx, login.Provider, login.Account.AccessToken)
	if err != nil {
		return Token{}, fmt.Errorf("[sessions socialLogin] %s exchange: %w", login.Provider, err)
	}

	log.Debug().Str("provider", login.Provider).Str("user_id", login.User.ID).
		Bool("has_refresh_token", login.Account.RefreshToken != "").Msg("Social login exchanged")

	return p.issue(tok, Update{
		User:         sessionUser(login.User),
		AccessToken:  utils.Ptr(accessToken),
		RefreshToken: utils.Ptr(login.Account.RefreshToken),
	}), nil
}

// issue stamps a fresh id and expiry window onto the merged token.
func (p *Projector) issue(tok Token, upd Update) Token {
	now := NowTimeFunc()
	upd.ID = utils.Ptr(uuid.NewString())
	upd.IssuedAt = utils.Ptr(now)
	upd.ExpiresAt = utils.Ptr(now.Add(p.maxAge))
	return Merge(tok, upd)
}

// sessionUser copies user for storage in a Token. The verification timestamp is
// dropped: the backend's social endpoint gives nothing to keep it consistent with.
func sessionUser(user *identity.Identity) *identity.Identity {
	u := user.Clone()
	u.ID = utils.FirstNonEmpty(user.ID, user.Email)
	u.EmailVerified = nil
	return u
}
