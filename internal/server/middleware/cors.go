package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows browser clients from allowedOrigins. Requests without an Origin header
// (mobile clients, curl) pass through. An empty allow-list admits every origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowed) > 0 && !allowed[origin] {
				log.Printf("cors: origin %q not in allowed list", origin)
				AbortError(c, http.StatusForbidden, "Origin not allowed")
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
