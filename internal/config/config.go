package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	AuthAPIConfig
	ProvidersConfig
	SessionConfig
	RouteConfig
	CorsConfig
	RateLimitConfig
	Validate() error
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	IsProduction() bool
}

type mainConfig struct {
	EnvVars
	AuthAPI
	Providers
	Session
	Routes
	Cors
	RateLimit
}

// New loads the configuration from the process environment. A .env file in the
// working directory is read first when present.
func New() (Config, error) {
	_ = godotenv.Load()
	return load(env.Options{})
}

// NewFromMap loads the configuration from vars instead of the process environment.
func NewFromMap(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	c := &mainConfig{}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return nil, fmt.Errorf("[config load] parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *mainConfig) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.SessionMaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}
	if c.AuthAPIURL == "" {
		errs = append(errs, errors.New("AUTH_API_URL cannot be empty"))
	}
	if c.SignInPath == "" || c.SignInPath[0] != '/' {
		errs = append(errs, errors.New("SIGNIN_PATH must be an absolute path"))
	}
	if c.LoginRatePerMinute < 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT_PER_MINUTE cannot be negative"))
	}
	return errors.Join(errs...)
}
