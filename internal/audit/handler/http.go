package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	auditrepo "github.com/MohamedAliSmk/pos-app/internal/audit/repository"
	"github.com/MohamedAliSmk/pos-app/internal/server/middleware"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Handler serves the caller's own audit trail.
type Handler struct {
	repo auditrepo.Repository
}

// NewHandler returns a Handler over repo.
func NewHandler(repo auditrepo.Repository) *Handler {
	return &Handler{repo: repo}
}

type entryJSON struct {
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity lists the authenticated caller's audit entries, newest first.
// Query: limit (1..100, default 50), offset (>= 0).
func (h *Handler) Activity(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		middleware.AbortError(c, http.StatusUnauthorized, middleware.MsgMissingBearer)
		return
	}
	limit, offset := pageParams(c)
	logs, err := h.repo.ListByUser(c.Request.Context(), id.Subject, limit, offset)
	if err != nil {
		log.Printf("audit: list activity for %s failed: %v", id.Subject, err)
		middleware.AbortError(c, http.StatusInternalServerError, "Unable to load activity")
		return
	}
	entries := make([]entryJSON, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, entryJSON{
			Action:    l.Action,
			Resource:  l.Resource,
			IP:        l.IP,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entries": entries, "limit": limit, "offset": offset})
}

// pageParams parses limit and offset, clamping out-of-range values.
func pageParams(c *gin.Context) (limit, offset int32) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = int32(min(v, maxLimit))
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 && v <= 1<<30 {
		offset = int32(v)
	}
	return limit, offset
}
