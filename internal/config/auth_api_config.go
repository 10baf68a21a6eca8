package config

import "strings"

type AuthAPIConfig interface {
	GetAuthAPIURL() string
	GetLoginPath() string
	GetSocialPath() string
}

type AuthAPI struct {
	AuthAPIURL string `env:"AUTH_API_URL" envDefault:"http://localhost:8000"`
}

var _ AuthAPIConfig = AuthAPI{}

func (a AuthAPI) GetAuthAPIURL() string {
	return strings.TrimRight(a.AuthAPIURL, "/")
}

func (AuthAPI) GetLoginPath() string {
	return "/api/auth/login/"
}

func (AuthAPI) GetSocialPath() string {
	return "/api/auth/social/"
}
