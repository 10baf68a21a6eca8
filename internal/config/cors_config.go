package config

import "net/http"

type CorsConfig interface {
	GetAllowedOrigins() []string
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type Cors struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

var _ CorsConfig = Cors{}

func (c Cors) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

func (Cors) GetAllowedMethods() []string {
	return []string{http.MethodGet, http.MethodPost}
}

func (Cors) GetAllowedHeaders() []string {
	return []string{"Content-Type", "Authorization"}
}
