package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recovery replaces gin.Recovery: a panicking handler yields a JSON 500 instead of an empty body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("server: panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		AbortError(c, http.StatusInternalServerError, "Internal server error")
	})
}
