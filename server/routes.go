package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// PAGES
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteDashboardPages, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteUserInfo, ChainMiddleware(s.UserInfoHandler(), s.HTMLMiddleWare()...))

	// SIGN IN
	s.RegisterRouteHandler("GET "+s.config.GetSignInPath(), ChainMiddleware(s.SignInPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+s.config.GetErrorPath(), ChainMiddleware(s.ErrorPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAPICallbackCredentials, ChainMiddleware(s.CredentialsCallbackHandler(), s.HTMLMiddleWare(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAPISignInProvider, ChainMiddleware(s.ProviderSignInHandler(), s.HTMLMiddleWare(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAPICallbackProvider, ChainMiddleware(s.ProviderCallbackHandler(), s.HTMLMiddleWare()...))

	// SIGN OUT (GET only confirms, the cookie is cleared by POST)
	s.RegisterRouteHandler("GET "+RouteAPISignOut, ChainMiddleware(s.SignOutPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteAPISignOut, s.SignOutHandler())

	// SESSION API (no method: CORS preflight is answered by the cors handler)
	s.RegisterRouteHandler(RouteAPISession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}
