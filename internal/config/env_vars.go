package config

import "strings"

const productionEnv = "PROD"

type EnvVars struct {
	Port        string `env:"PORT" envDefault:"8080"`
	AppName     string `env:"APP_NAME" envDefault:"Go Auth Frontend"`
	Environment string `env:"ENV" envDefault:"DEV"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
}

func (e EnvVars) GetPort() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return ":" + e.Port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Environment)
}

// GetBaseURL returns the externally visible URL of this server (e.g. "https://app.example.com").
// OAuth redirect URIs are built from it.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimRight(e.BaseURL, "/")
}

func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == productionEnv
}
