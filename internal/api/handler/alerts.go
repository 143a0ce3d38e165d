package handler

import (
	"strconv"
	"time"

	"brgyalert/backend/internal/alert"
	"brgyalert/backend/internal/api/middleware"
	"brgyalert/backend/internal/api/response"
	"brgyalert/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

type alertRequest struct {
	Type     string   `json:"type"`
	Title    string   `json:"title" binding:"required"`
	Message  string   `json:"message" binding:"required"`
	Priority string   `json:"priority"`
	Areas    []string `json:"areas"`
}

type alertUpdateRequest struct {
	Type     *string   `json:"type"`
	Title    *string   `json:"title"`
	Message  *string   `json:"message"`
	Priority *string   `json:"priority"`
	Status   *string   `json:"status"`
	Areas    *[]string `json:"areas"`
}

// ListAlerts returns the newest alerts. ?active=true hides inactive and expired ones.
func (h *Handler) ListAlerts(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))

	alerts, err := h.Alerts.List(c.Request.Context(), alert.ListOptions{ActiveOnly: activeOnly})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alerts)
}

// NewAlerts is polled by clients without a live connection: active alerts
// created after ?since (RFC 3339).
func (h *Handler) NewAlerts(c *gin.Context) {
	raw := c.Query("since")
	if raw == "" {
		response.Error(c, apperr.Validation("since is required"))
		return
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.Error(c, apperr.Validation("since must be an RFC 3339 timestamp"))
		return
	}

	alerts, err := h.Alerts.List(c.Request.Context(), alert.ListOptions{ActiveOnly: true, Since: &since})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alerts)
}

func (h *Handler) GetAlert(c *gin.Context) {
	a, err := h.Alerts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.Alerts.Create(c.Request.Context(), middleware.CurrentUser(c), alert.CreateInput{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Priority: req.Priority,
		Areas:    req.Areas,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) UpdateAlert(c *gin.Context) {
	var req alertUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.Alerts.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), alert.UpdateInput{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Priority: req.Priority,
		Status:   req.Status,
		Areas:    req.Areas,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, a)
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	if err := h.Alerts.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
