package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-frontend/identity"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/stretchr/testify/require"
)

const maxAge = 30 * 24 * time.Hour

type fakeExchanger struct {
	token    string
	err      error
	calls    int
	provider string
	access   string
}

func (f *fakeExchanger) SocialLogin(_ context.Context, provider, accessToken string) (string, error) {
	f.calls++
	f.provider = provider
	f.access = accessToken
	return f.token, f.err
}

func fixClock(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	sessions.NowTimeFunc = func() time.Time { return now }
	identity.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() {
		sessions.NowTimeFunc = time.Now
		identity.NowTimeFunc = time.Now
	})
	return now
}

type staticAuthenticator string

func (s staticAuthenticator) Login(context.Context, string, string) (string, error) {
	return string(s), nil
}

func TestProjector_PasswordLogin(t *testing.T) {
	now := fixClock(t)
	ex := &fakeExchanger{}
	p := sessions.NewProjector(ex, maxAge)

	event := identity.PasswordLogin{Email: "a@x.com", Password: "p"}
	user, err := identity.NewNormalizer(staticAuthenticator("T1")).Normalize(context.Background(), event)
	require.NoError(t, err)

	tok, err := p.Update(context.Background(), sessions.Token{}, sessions.NewLogin(event, user))
	require.NoError(t, err)

	require.Equal(t, "a@x.com", tok.User.ID)
	require.Equal(t, "a", tok.User.Name)
	require.Equal(t, "T1", tok.AccessToken)
	require.Empty(t, tok.RefreshToken)
	require.Nil(t, tok.User.EmailVerified)
	require.NotEmpty(t, tok.ID)
	require.Equal(t, now, tok.IssuedAt)
	require.Equal(t, now.Add(maxAge), tok.ExpiresAt)
	require.Zero(t, ex.calls, "password logins make no secondary call")
}

func TestProjector_GoogleLogin(t *testing.T) {
	fixClock(t)
	ex := &fakeExchanger{token: "T2"}
	p := sessions.NewProjector(ex, maxAge)

	event := identity.GoogleLogin{
		Profile: identity.GoogleProfile{Sub: "g1", Email: "b@x.com", EmailVerified: true},
		Account: &identity.Account{Provider: identity.ProviderGoogle, AccessToken: "P1", RefreshToken: "R1"},
	}
	user, err := identity.NewNormalizer(nil).Normalize(context.Background(), event)
	require.NoError(t, err)
	require.NotNil(t, user.EmailVerified)

	tok, err := p.Update(context.Background(), sessions.Token{}, sessions.NewLogin(event, user))
	require.NoError(t, err)

	require.Equal(t, 1, ex.calls)
	require.Equal(t, "google", ex.provider)
	require.Equal(t, "P1", ex.access)

	require.Equal(t, "g1", tok.User.ID)
	require.Equal(t, "T2", tok.AccessToken)
	require.Equal(t, "R1", tok.RefreshToken, "refresh token comes from the provider, not the backend")
	require.Nil(t, tok.User.EmailVerified, "verification timestamp is dropped on merge")
	require.Equal(t, "", tok.User.Image)
	require.NotNil(t, user.EmailVerified, "the login identity is left untouched")
}

func TestProjector_FacebookLogin(t *testing.T) {
	fixClock(t)
	ex := &fakeExchanger{token: "T3"}
	p := sessions.NewProjector(ex, maxAge)

	event := identity.FacebookLogin{
		Profile: identity.FacebookProfile{ID: "f1", Email: "c@x.com"},
		Account: &identity.Account{Provider: identity.ProviderFacebook, AccessToken: "F1"},
	}
	user, err := identity.NewNormalizer(nil).Normalize(context.Background(), event)
	require.NoError(t, err)

	tok, err := p.Update(context.Background(), sessions.Token{}, sessions.NewLogin(event, user))
	require.NoError(t, err)
	require.Equal(t, "facebook", ex.provider)
	require.Equal(t, "F1", ex.access)
	require.Equal(t, "T3", tok.AccessToken)
	require.Empty(t, tok.RefreshToken)
}

func TestProjector_SocialLoginWithoutProviderToken(t *testing.T) {
	fixClock(t)
	ex := &fakeExchanger{token: "T2"}
	p := sessions.NewProjector(ex, maxAge)

	login := &sessions.Login{
		Provider: identity.ProviderGoogle,
		User:     &identity.Identity{ID: "g1", Email: "b@x.com"},
		Account:  &identity.Account{Provider: identity.ProviderGoogle},
	}
	tok, err := p.Update(context.Background(), sessions.Token{}, login)
	require.ErrorIs(t, err, apperrors.ErrMissingProviderToken)
	require.False(t, tok.HasUser())
	require.Zero(t, ex.calls)

	login.Account = nil
	_, err = p.Update(context.Background(), sessions.Token{}, login)
	require.ErrorIs(t, err, apperrors.ErrMissingProviderToken)
}

func TestProjector_SocialExchangeRejected(t *testing.T) {
	fixClock(t)
	p := sessions.NewProjector(&fakeExchanger{err: apperrors.ErrRemoteAuthRejected}, maxAge)

	login := &sessions.Login{
		Provider: identity.ProviderGoogle,
		User:     &identity.Identity{ID: "g1", Email: "b@x.com"},
		Account:  &identity.Account{AccessToken: "P1"},
	}
	tok, err := p.Update(context.Background(), sessions.Token{}, login)
	require.ErrorIs(t, err, apperrors.ErrRemoteAuthRejected)
	require.False(t, tok.HasUser())
}

func TestProjector_Idempotent(t *testing.T) {
	fixClock(t)
	ex := &fakeExchanger{token: "other"}
	p := sessions.NewProjector(ex, maxAge)

	existing := sessions.Token{
		ID:          "id-1",
		User:        &identity.Identity{ID: "u1", Email: "a@x.com"},
		AccessToken: "T1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	tok, err := p.Update(context.Background(), existing, nil)
	require.NoError(t, err)
	require.Equal(t, existing, tok)

	// A populated token ignores even a fresh login event.
	tok, err = p.Update(context.Background(), existing, &sessions.Login{
		Provider: identity.ProviderGoogle,
		User:     &identity.Identity{ID: "g1", Email: "b@x.com"},
		Account:  &identity.Account{AccessToken: "P1"},
	})
	require.NoError(t, err)
	require.Equal(t, existing, tok)
	require.Zero(t, ex.calls)
}

func TestProjector_Anonymous(t *testing.T) {
	p := sessions.NewProjector(&fakeExchanger{}, maxAge)

	tok, err := p.Update(context.Background(), sessions.Token{}, nil)
	require.NoError(t, err)
	require.Equal(t, sessions.Token{}, tok)

	// A password identity without an access token leaves the token alone.
	tok, err = p.Update(context.Background(), sessions.Token{}, &sessions.Login{
		Provider: identity.ProviderCredentials,
		User:     &identity.Identity{ID: "a@x.com", Email: "a@x.com"},
	})
	require.NoError(t, err)
	require.False(t, tok.HasUser())
}

func TestProjector_DefaultsMissingID(t *testing.T) {
	fixClock(t)
	p := sessions.NewProjector(&fakeExchanger{token: "T2"}, maxAge)

	tok, err := p.Update(context.Background(), sessions.Token{}, &sessions.Login{
		Provider: identity.ProviderFacebook,
		User:     &identity.Identity{Email: "c@x.com"},
		Account:  &identity.Account{AccessToken: "F1"},
	})
	require.NoError(t, err)
	require.Equal(t, "c@x.com", tok.User.ID)
}
