package handler

import (
	"strconv"

	"brgyalert/backend/internal/api/middleware"
	"brgyalert/backend/internal/api/response"
	"brgyalert/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ListLogs returns the audit log newest first. Admin access is enforced by the
// route's RequirePermission. ?limit is clamped by the audit service.
func (h *Handler) ListLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, apperr.Validation("limit must be an integer"))
			return
		}
		limit = n
	}

	logs, err := h.Audit.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}
