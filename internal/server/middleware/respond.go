package middleware

import "github.com/gin-gonic/gin"

// AbortError stops the chain with {"status":"error","code":status,"message":message}.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "code": status, "message": message})
}
