package config

type RouteConfig interface {
	GetProtectedPaths() []string
	GetGuardSkipPaths() []string
	GetSignInPath() string
	GetErrorPath() string
}

type Routes struct {
	ProtectedPaths []string `env:"PROTECTED_PATHS" envSeparator:"," envDefault:"/user-info,/dashboard"`
	SignInPath     string   `env:"SIGNIN_PATH" envDefault:"/auth/signin"`
	ErrorPath      string   `env:"ERROR_PATH" envDefault:"/auth/error"`
}

var _ RouteConfig = Routes{}

func (r Routes) GetProtectedPaths() []string {
	return r.ProtectedPaths
}

// GetGuardSkipPaths lists prefixes the route guard never inspects.
func (Routes) GetGuardSkipPaths() []string {
	return []string{"/api", "/static", "/favicon.ico", "/metrics"}
}

func (r Routes) GetSignInPath() string {
	return r.SignInPath
}

func (r Routes) GetErrorPath() string {
	return r.ErrorPath
}
