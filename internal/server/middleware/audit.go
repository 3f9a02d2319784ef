package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/MohamedAliSmk/pos-app/internal/audit"
)

// AuditRequests records an audit entry after each request made by an authenticated caller.
// Routes in skip (gin route patterns) are not audited; login and logout audit themselves.
// Best-effort: the logger handles its own failures.
func AuditRequests(logger audit.AuditLogger, skip map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if logger == nil {
			return
		}
		route := c.FullPath()
		if route == "" || skip[route] {
			return
		}
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			return
		}
		ar := audit.ParseRoute(c.Request.Method, route)
		logger.LogEvent(c.Request.Context(), id.Subject, ar.Action, ar.Resource, "")
	}
}
