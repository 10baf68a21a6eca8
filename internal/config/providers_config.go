package config

import "time"

type ProvidersConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleIssuer() string
	GetFacebookClientID() string
	GetFacebookClientSecret() string
	GetOAuthFlowTimeout() time.Duration
}

type Providers struct {
	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleIssuer         string `env:"GOOGLE_ISSUER" envDefault:"https://accounts.google.com"`
	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`
}

var _ ProvidersConfig = Providers{}

func (p Providers) GetGoogleClientID() string {
	return p.GoogleClientID
}

func (p Providers) GetGoogleClientSecret() string {
	return p.GoogleClientSecret
}

func (p Providers) GetGoogleIssuer() string {
	return p.GoogleIssuer
}

func (p Providers) GetFacebookClientID() string {
	return p.FacebookClientID
}

func (p Providers) GetFacebookClientSecret() string {
	return p.FacebookClientSecret
}

// GetOAuthFlowTimeout bounds how long a started provider sign-in may take to come back.
func (Providers) GetOAuthFlowTimeout() time.Duration {
	return 10 * time.Minute
}
