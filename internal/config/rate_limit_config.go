package config

type RateLimitConfig interface {
	GetLoginRatePerMinute() int
	GetLoginBurst() int
}

type RateLimit struct {
	LoginRatePerMinute int `env:"LOGIN_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	LoginBurst         int `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"5"`
}

var _ RateLimitConfig = RateLimit{}

// GetLoginRatePerMinute returns the sustained credential-login rate per client IP.
// Zero disables limiting.
func (r RateLimit) GetLoginRatePerMinute() int {
	return r.LoginRatePerMinute
}

func (r RateLimit) GetLoginBurst() int {
	if r.LoginBurst < 1 {
		return 1
	}
	return r.LoginBurst
}
