// Package handler contains one handler method per API route. Handlers map an
// authenticated request plus the store outcome to an HTTP response and never
// leak raw store errors to the caller.
package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/banwatch/banwatch/internal/database"
)

type Handler struct {
	db database.Store
}

func New(db database.Store) *Handler {
	return &Handler{db: db}
}

// Healthz reports liveness and database reachability.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// storeError logs the failure and returns a generic 500 to the caller.
func storeError(c *gin.Context, msg string, err error) {
	log.Error(msg, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
