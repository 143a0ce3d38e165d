// Package api assembles the HTTP surface of the service.
package api

import (
	"brgyalert/backend/internal/api/handler"
	"brgyalert/backend/internal/api/middleware"
	"brgyalert/backend/internal/policy"
	"brgyalert/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	Sessions *session.Issuer
	Users    middleware.UserLoader
	Health   map[string]handler.Pinger
}

// NewRouter registers every route under /api. Role-gated routes check the
// role before the body is bound, so a caller without the role gets 403 even
// for an invalid payload.
func NewRouter(h *handler.Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", handler.Health(cfg.Health))

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(cfg.Sessions, cfg.Users))

	authed.GET("/auth/me", h.Me)

	authed.GET("/alerts", h.ListAlerts)
	authed.GET("/alerts/new", h.NewAlerts)
	authed.GET("/alerts/:id", h.GetAlert)
	authed.POST("/alerts", middleware.RequirePermission(policy.AlertCreate), h.CreateAlert)
	authed.PUT("/alerts/:id", middleware.RequirePermission(policy.AlertUpdate), h.UpdateAlert)
	authed.DELETE("/alerts/:id", middleware.RequirePermission(policy.AlertDelete), h.DeleteAlert)

	authed.GET("/reports", h.ListReports)
	authed.POST("/reports", h.CreateReport)
	authed.GET("/reports/:id", h.GetReport)
	authed.DELETE("/reports/:id", h.DeleteReport)
	authed.PUT("/reports/:id/status", middleware.RequirePermission(policy.ReportUpdateStatus), h.UpdateReportStatus)

	authed.GET("/users", middleware.RequirePermission(policy.UserList), h.ListUsers)
	authed.PUT("/users/:id/role", middleware.RequirePermission(policy.UserUpdateRole), h.UpdateUserRole)
	authed.PUT("/users/:id/status", middleware.RequirePermission(policy.UserUpdateStatus), h.UpdateUserStatus)
	authed.PUT("/users/:id/password", middleware.RequirePermission(policy.UserResetPassword), h.ResetUserPassword)

	authed.GET("/stats/dashboard", middleware.RequirePermission(policy.StatsView), h.DashboardStats)
	authed.GET("/logs", middleware.RequirePermission(policy.LogsView), h.ListLogs)

	authed.POST("/chatbot/query", h.ChatbotQuery)

	authed.GET("/ws/alerts", h.AlertFeed)

	return r
}
