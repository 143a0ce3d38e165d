package handler

import (
	"brgyalert/backend/internal/api/middleware"
	"brgyalert/backend/internal/api/response"
	"brgyalert/backend/internal/report"

	"github.com/gin-gonic/gin"
)

type reportRequest struct {
	Type        string  `json:"type"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Location    *string `json:"location"`
}

type reportStatusRequest struct {
	Status           string  `json:"status" binding:"required"`
	OfficialResponse *string `json:"official_response"`
}

// ListReports is scoped by role: residents get their own reports only.
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.Reports.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reports)
}

func (h *Handler) GetReport(c *gin.Context) {
	r, err := h.Reports.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.Reports.Create(c.Request.Context(), middleware.CurrentUser(c), report.CreateInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, r)
}

func (h *Handler) UpdateReportStatus(c *gin.Context) {
	var req reportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.Reports.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), report.StatusInput{
		Status:           req.Status,
		OfficialResponse: req.OfficialResponse,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	if err := h.Reports.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
