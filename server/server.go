package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-auth-frontend/guard"
	"github.com/jrsteele09/go-auth-frontend/identity"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/jrsteele09/go-auth-frontend/providers"
	"github.com/jrsteele09/go-auth-frontend/server/authflowrepo"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// AuthAPI is the remote authentication backend used for password checks and
// social token exchange.
type AuthAPI interface {
	identity.PasswordAuthenticator
	sessions.SocialExchanger
}

// Deps are the collaborators the server is built from. Providers, AuthState
// and Gatherer fall back to defaults when unset.
type Deps struct {
	AuthAPI   AuthAPI
	Providers providers.Registry
	AuthState authflowrepo.Repo
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

type Server struct {
	env        string
	mux        *http.ServeMux
	handler    http.HandlerFunc
	routes     []string
	config     config.Config
	cookieName string

	normalizer *identity.Normalizer
	projector  *sessions.Projector
	codec      *sessions.Codec
	guard      *guard.Guard
	providers  providers.Registry
	authState  authflowrepo.Repo

	templates *template.Template
	cors      *cors.Cors
	limiter   *loginLimiter
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("[Server New] invalid configuration: %w", err)
	}
	if deps.AuthAPI == nil {
		return nil, fmt.Errorf("[Server New] an auth API client is required")
	}

	codec, err := sessions.NewCodec(cfg.GetSessionSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session codec: %w", err)
	}

	templates, err := ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		cookieName: sessionCookieName(cfg.IsProduction()),
		normalizer: identity.NewNormalizer(deps.AuthAPI),
		projector:  sessions.NewProjector(deps.AuthAPI, cfg.GetSessionMaxAge()),
		codec:      codec,
		providers:  deps.Providers,
		authState:  deps.AuthState,
		templates:  templates,
		limiter:    newLoginLimiter(cfg.GetLoginRatePerMinute(), cfg.GetLoginBurst()),
		metrics:    deps.Metrics,
		gatherer:   deps.Gatherer,
		cors: cors.New(cors.Options{
			AllowedOrigins:   allowedOrigins(cfg),
			AllowedMethods:   cfg.GetAllowedMethods(),
			AllowedHeaders:   cfg.GetAllowedHeaders(),
			AllowCredentials: true,
		}),
	}
	if s.providers == nil {
		s.providers = providers.Registry{}
	}
	if s.authState == nil {
		s.authState = authflowrepo.NewInMemoryRepo(cfg.GetOAuthFlowTimeout())
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	// sign-in and error pages stay reachable without a session
	skip := append(cfg.GetGuardSkipPaths(), cfg.GetErrorPath())
	s.guard = guard.New(guard.Config{
		ProtectedPaths: cfg.GetProtectedPaths(),
		SkipPaths:      skip,
		SignInPath:     cfg.GetSignInPath(),
	}, s.SessionFromRequest, s.metrics)

	s.initRoutes()
	s.handler = ChainMiddleware(s.guard.Middleware(s.mux).ServeHTTP, s.LoggingMiddleware, s.RecoverMiddleware)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// ProviderCallbackURL returns the redirect URI registered with each OAuth provider.
func ProviderCallbackURL(baseURL string) func(provider string) string {
	base := strings.TrimSuffix(baseURL, "/")
	return func(provider string) string {
		return base + strings.Replace(RouteAPICallbackProvider, "{provider}", provider, 1)
	}
}

// allowedOrigins falls back to the site's own origin; an empty list would make
// the cors handler allow every origin.
func allowedOrigins(cfg config.Config) []string {
	if origins := cfg.GetAllowedOrigins(); len(origins) > 0 {
		return origins
	}
	return []string{strings.TrimSuffix(cfg.GetBaseURL(), "/")}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
