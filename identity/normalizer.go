package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// PasswordAuthenticator checks credentials against the remote authentication API
// and returns the backend access token.
type PasswordAuthenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Normalizer turns login events into Identities.
type Normalizer struct {
	api PasswordAuthenticator
}

func NewNormalizer(api PasswordAuthenticator) *Normalizer {
	return &Normalizer{api: api}
}

// Normalize maps event to an Identity. A nil Identity with a nil error means the
// password login was missing a field and did not succeed.
func (n *Normalizer) Normalize(ctx context.Context, event LoginEvent) (*Identity, error) {
	switch e := event.(type) {
	case PasswordLogin:
		return n.fromPassword(ctx, e)
	case GoogleLogin:
		return fromGoogle(e)
	case FacebookLogin:
		return fromFacebook(e)
	default:
		return nil, fmt.Errorf("[identity Normalize] %T: %w", event, apperrors.ErrUnknownProvider)
	}
}

func (n *Normalizer) fromPassword(ctx context.Context, login PasswordLogin) (*Identity, error) {
	if login.Email == "" || login.Password == "" {
		log.Debug().Bool("has_email", login.Email != "").Bool("has_password", login.Password != "").Msg("Missing credentials")
		return nil, nil
	}

	accessToken, err := n.api.Login(ctx, login.Email, login.Password)
	if err != nil {
		return nil, fmt.Errorf("[identity fromPassword] %w", err)
	}

	return &Identity{
		ID:          login.Email,
		Email:       login.Email,
		Name:        localPart(login.Email),
		AccessToken: accessToken,
	}, nil
}

func fromGoogle(login GoogleLogin) (*Identity, error) {
	p := login.Profile
	if p.Email == "" {
		return nil, fmt.Errorf("[identity fromGoogle] no email in Google profile: %w", apperrors.ErrMalformedProfile)
	}
	if p.Sub == "" {
		return nil, fmt.Errorf("[identity fromGoogle] no subject in Google profile: %w", apperrors.ErrMalformedProfile)
	}

	// Google only says whether the address is verified, not when.
	var verified *time.Time
	if p.EmailVerified {
		now := NowTimeFunc()
		verified = &now
	}

	id := &Identity{
		ID:            p.Sub,
		Email:         p.Email,
		Name:          p.Name,
		Image:         p.Picture,
		EmailVerified: verified,
	}
	if login.Account != nil {
		id.AccessToken = login.Account.AccessToken
		id.RefreshToken = login.Account.RefreshToken
	}
	return id, nil
}

func fromFacebook(login FacebookLogin) (*Identity, error) {
	p := login.Profile
	if p.ID == "" {
		return nil, fmt.Errorf("[identity fromFacebook] no id in Facebook profile: %w", apperrors.ErrMalformedProfile)
	}
	if p.Email == "" {
		return nil, fmt.Errorf("[identity fromFacebook] no email in Facebook profile: %w", apperrors.ErrMalformedProfile)
	}
	return &Identity{
		ID:    p.ID,
		Email: p.Email,
		Name:  p.Name,
		Image: p.Picture.Data.URL,
	}, nil
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
