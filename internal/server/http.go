// Package server builds the HTTP router from the route table and its per-route access levels.
package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	appsettingshandler "github.com/MohamedAliSmk/pos-app/internal/appsettings/handler"
	"github.com/MohamedAliSmk/pos-app/internal/audit"
	audithandler "github.com/MohamedAliSmk/pos-app/internal/audit/handler"
	healthhandler "github.com/MohamedAliSmk/pos-app/internal/health/handler"
	identityhandler "github.com/MohamedAliSmk/pos-app/internal/identity/handler"
	"github.com/MohamedAliSmk/pos-app/internal/server/middleware"
)

// Access is the authentication a route requires.
type Access int

const (
	// Public routes skip the gatekeeper entirely.
	Public Access = iota
	// Guest routes run the gatekeeper; anonymous callers are allowed, bad tokens are not.
	Guest
	// Authenticated routes run the gatekeeper and reject anonymous callers.
	Authenticated
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Guest:
		return "guest"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Route is one entry of the route table. Aliases are extra paths served by the same handler.
type Route struct {
	Method  string
	Path    string
	Aliases []string
	Access  Access
	Handler gin.HandlerFunc
}

// Deps holds the HTTP handlers and middleware dependencies.
type Deps struct {
	// Auth serves login, logout, and me. If nil, those routes are not mounted.
	Auth *identityhandler.Handler
	// Settings serves the app logo. If nil, the logo route is not mounted.
	Settings *appsettingshandler.Handler
	// Activity serves the caller's audit trail. If nil, the route is not mounted.
	Activity *audithandler.Handler
	// Health serves /healthz. If nil, a handler without dependency checks is used.
	Health *healthhandler.Handler
	// Gatekeeper validates Bearer tokens on Guest and Authenticated routes. Required.
	Gatekeeper *middleware.Gatekeeper
	// AuditLogger records authenticated requests. If nil, requests are not audited.
	AuditLogger audit.AuditLogger
	// TracerProvider opens a span per request. If nil, requests are not traced.
	TracerProvider trace.TracerProvider
	// ServiceName names the HTTP server in request spans.
	ServiceName string
	// AllowedOrigins is the CORS allow-list; empty allows every origin.
	AllowedOrigins []string
}

// Routes returns the route table.
//
// Route → handler mapping:
//   - POST /api/auth/login    → internal/identity/handler (Login)
//   - POST /api/auth/logout   → internal/identity/handler (Logout)
//   - GET  /api/auth/me       → internal/identity/handler (Me)
//   - GET  /api/auth/activity → internal/audit/handler
//   - GET  /api/app/logo      → internal/appsettings/handler
//   - GET  /healthz           → internal/health/handler
func Routes(d Deps) []Route {
	health := d.Health
	if health == nil {
		health = healthhandler.NewHandler(nil, nil)
	}
	routes := []Route{
		{Method: "GET", Path: "/healthz", Access: Public, Handler: health.Health},
	}
	if d.Auth != nil {
		routes = append(routes,
			Route{
				Method:  "POST",
				Path:    "/api/auth/login",
				Aliases: []string{"/api/method/pos_app.apis.login.login_pos_user"},
				Access:  Public,
				Handler: d.Auth.Login,
			},
			Route{
				Method:  "POST",
				Path:    "/api/auth/logout",
				Aliases: []string{"/api/method/pos_app.apis.login.logout_pos_user"},
				Access:  Public,
				Handler: d.Auth.Logout,
			},
			Route{Method: "GET", Path: "/api/auth/me", Access: Authenticated, Handler: d.Auth.Me},
		)
	}
	if d.Activity != nil {
		routes = append(routes, Route{Method: "GET", Path: "/api/auth/activity", Access: Authenticated, Handler: d.Activity.Activity})
	}
	if d.Settings != nil {
		routes = append(routes, Route{
			Method:  "GET",
			Path:    "/api/app/logo",
			Aliases: []string{"/api/method/pos_app.apis.welcome_page.get_app_logo"},
			Access:  Guest,
			Handler: d.Settings.Logo,
		})
	}
	return routes
}

// NewRouter builds the gin engine: the global middleware chain, then every route of Routes
// with the gate its Access level requires.
func NewRouter(d Deps) *gin.Engine {
	routes := Routes(d)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		gin.Logger(),
		middleware.ClientIPContext(),
		middleware.Tracing(d.ServiceName, d.TracerProvider),
		middleware.SpanIdentity(),
		middleware.CORS(d.AllowedOrigins),
		middleware.AuditRequests(d.AuditLogger, unaudited(routes)),
	)

	for _, rt := range routes {
		handlers := gateFor(d.Gatekeeper, rt.Access)
		handlers = append(handlers, rt.Handler)
		for _, path := range append([]string{rt.Path}, rt.Aliases...) {
			r.Handle(rt.Method, path, handlers...)
		}
	}
	return r
}

func gateFor(g *middleware.Gatekeeper, access Access) []gin.HandlerFunc {
	switch access {
	case Guest:
		return []gin.HandlerFunc{g.Authenticate()}
	case Authenticated:
		return []gin.HandlerFunc{g.Authenticate(), middleware.RequireAuthenticated()}
	default:
		return nil
	}
}

// unaudited returns the paths the request auditor skips: Public routes (login and logout audit
// themselves) and the audit trail itself.
func unaudited(routes []Route) map[string]bool {
	skip := make(map[string]bool)
	for _, rt := range routes {
		if rt.Access != Public && rt.Path != "/api/auth/activity" {
			continue
		}
		skip[rt.Path] = true
		for _, a := range rt.Aliases {
			skip[a] = true
		}
	}
	return skip
}
