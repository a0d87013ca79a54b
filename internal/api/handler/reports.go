package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banwatch/banwatch/internal/api/models"
)

// BannedAccounts returns users banned by username, by IP, or both.
func (h *Handler) BannedAccounts(c *gin.Context) {
	users, err := h.db.ListBannedAccounts(c.Request.Context())
	if err != nil {
		storeError(c, "Failed to list banned accounts", err)
		return
	}
	c.JSON(http.StatusOK, models.UsersFromDatabase(users))
}

// BannedUsers returns users banned by username.
func (h *Handler) BannedUsers(c *gin.Context) {
	users, err := h.db.ListBannedUsers(c.Request.Context())
	if err != nil {
		storeError(c, "Failed to list banned users", err)
		return
	}
	c.JSON(http.StatusOK, models.UsersFromDatabase(users))
}

// BannedIPs returns the banned address rows.
func (h *Handler) BannedIPs(c *gin.Context) {
	ips, err := h.db.ListBannedIPs(c.Request.Context())
	if err != nil {
		storeError(c, "Failed to list banned ips", err)
		return
	}
	c.JSON(http.StatusOK, models.IPsFromDatabase(ips))
}

// Stats returns the aggregate counters over the full tables. The aggregate is
// recomputed on every call, there is no cached state.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.db.GetStats(c.Request.Context())
	if err != nil {
		storeError(c, "Failed to get stats", err)
		return
	}
	c.JSON(http.StatusOK, models.StatsFromDatabase(stats))
}
