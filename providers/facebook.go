package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-auth-frontend/identity"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const defaultFacebookProfileURL = "https://graph.facebook.com/me"

type FacebookConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint // zero means Facebook's own
	ProfileURL   string          // empty means the Graph API /me
	HTTPClient   *http.Client
}

type Facebook struct {
	oauth2Config *oauth2.Config
	profileURL   string
	httpClient   *http.Client
}

var _ Provider = (*Facebook)(nil)

func NewFacebook(cfg FacebookConfig) *Facebook {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = facebook.Endpoint
	}
	profileURL := cfg.ProfileURL
	if profileURL == "" {
		profileURL = defaultFacebookProfileURL
	}
	return &Facebook{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
		},
		profileURL: profileURL,
		httpClient: cfg.HTTPClient,
	}
}

func (f *Facebook) Name() string {
	return identity.ProviderFacebook
}

func (f *Facebook) AuthCodeURL(_ context.Context, state, _, verifier string) (string, error) {
	return f.oauth2Config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

func (f *Facebook) Login(ctx context.Context, code, _, verifier string) (identity.LoginEvent, error) {
	ctx = withClient(ctx, f.httpClient)
	tok, err := f.oauth2Config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("[facebook Login] token exchange: %w", err)
	}

	profile, err := f.fetchProfile(ctx, tok)
	if err != nil {
		return nil, err
	}

	return identity.FacebookLogin{
		Profile: profile,
		Account: accountFrom(identity.ProviderFacebook, tok),
	}, nil
}

func (f *Facebook) fetchProfile(ctx context.Context, tok *oauth2.Token) (identity.FacebookProfile, error) {
	u, err := url.Parse(f.profileURL)
	if err != nil {
		return identity.FacebookProfile{}, fmt.Errorf("[facebook fetchProfile] profile url: %w", err)
	}
	q := u.Query()
	q.Set("fields", "id,name,email,picture")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return identity.FacebookProfile{}, fmt.Errorf("[facebook fetchProfile] %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.oauth2Config.Client(ctx, tok).Do(req)
	if err != nil {
		return identity.FacebookProfile{}, fmt.Errorf("[facebook fetchProfile] %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return identity.FacebookProfile{}, fmt.Errorf("[facebook fetchProfile] unexpected status %d", resp.StatusCode)
	}

	var profile identity.FacebookProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&profile); err != nil {
		return identity.FacebookProfile{}, fmt.Errorf("[facebook fetchProfile] decode: %w", err)
	}
	return profile, nil
}
