package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout bounds each dependency check.
const pingTimeout = 2 * time.Second

// Pinger checks a dependency's reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger (e.g. a Redis client's Ping).
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

// Handler serves liveness and readiness. Nil checks are skipped.
type Handler struct {
	checks map[string]Pinger
}

// NewHandler returns a Handler that pings db and cache on every request. Either may be nil.
func NewHandler(db, cache Pinger) *Handler {
	checks := make(map[string]Pinger)
	if db != nil {
		checks["database"] = db
	}
	if cache != nil {
		checks["redis"] = cache
	}
	return &Handler{checks: checks}
}

// Health responds 200 {"status":"serving"} when every dependency answers, otherwise 503 with
// the failing checks. Failure details are logged, not returned.
func (h *Handler) Health(c *gin.Context) {
	failed := make(map[string]string)
	for name, p := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		err := p.PingContext(ctx)
		cancel()
		if err != nil {
			log.Printf("health: %s ping failed: %v", name, err)
			failed[name] = "unavailable"
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_serving", "checks": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "serving"})
}
