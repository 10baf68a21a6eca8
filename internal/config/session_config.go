package config

import "time"

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionMaxAge() time.Duration
}

type Session struct {
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"` // 30 days
}

var _ SessionConfig = Session{}

func (s Session) GetSessionSecret() string {
	return s.SessionSecret
}

func (s Session) GetSessionMaxAge() time.Duration {
	return s.SessionMaxAge
}
