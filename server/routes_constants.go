package server

// Route path constants
// The sign-in and error pages are configurable and come from config.RouteConfig.
const (
	// Pages
	RouteIndex     = "/{$}"
	RouteDashboard      = "/dashboard"
	RouteDashboardPages = "/dashboard/" // subtree, served by the dashboard page
	RouteUserInfo       = "/user-info"

	// Auth API Routes
	RouteAPISession             = "/api/auth/session"
	RouteAPISignOut             = "/api/auth/signout"
	RouteAPISignInProvider      = "/api/auth/signin/{provider}"
	RouteAPICallbackProvider    = "/api/auth/callback/{provider}"
	RouteAPICallbackCredentials = "/api/auth/callback/credentials"

	RouteMetrics = "/metrics"
)

// Error codes passed to the sign-in and error pages in the error query parameter.
const (
	ErrorCodeCredentialsSignin = "CredentialsSignin"
	ErrorCodeOAuthSignin       = "OAuthSignin"
	ErrorCodeOAuthCallback     = "OAuthCallback"
	ErrorCodeAccessDenied      = "AccessDenied"
	ErrorCodeConfiguration     = "Configuration"
)
