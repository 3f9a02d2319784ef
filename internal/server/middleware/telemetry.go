package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens a server span per request through otelgin. A nil provider disables it.
func Tracing(service string, tp trace.TracerProvider) gin.HandlerFunc {
	if tp == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(service, otelgin.WithTracerProvider(tp))
}

// SpanIdentity tags the request span with the authenticated subject once the handler chain has run.
// It must be registered after Tracing.
func SpanIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if id, ok := IdentityFrom(c.Request.Context()); ok {
			trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("enduser.id", id.Subject))
		}
	}
}
