package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MohamedAliSmk/pos-app/internal/appsettings/repository"
	"github.com/MohamedAliSmk/pos-app/internal/identity/service"
	"github.com/MohamedAliSmk/pos-app/internal/server/middleware"
)

// Handler serves the POS app settings to clients.
type Handler struct {
	repo     repository.Repository
	siteBase string
}

// NewHandler returns a Handler that resolves asset paths against siteBase (an absolute site URL).
func NewHandler(repo repository.Repository, siteBase string) *Handler {
	return &Handler{repo: repo, siteBase: siteBase}
}

// Logo responds {"status":"success","message":<absolute logo URL>}. 404 when no logo is configured.
func (h *Handler) Logo(c *gin.Context) {
	settings, err := h.repo.Get(c.Request.Context())
	if err != nil {
		log.Printf("appsettings: load settings failed: %v", err)
		middleware.AbortError(c, http.StatusInternalServerError, "Unable to load app settings")
		return
	}
	logo := service.AbsoluteURL(h.siteBase, settings.POSLogo)
	if logo == "" {
		middleware.AbortError(c, http.StatusNotFound, "App logo is not configured")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": logo})
}
