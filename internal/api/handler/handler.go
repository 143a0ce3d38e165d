// Package handler binds HTTP requests to the domain services.
package handler

import (
	"brgyalert/backend/internal/account"
	"brgyalert/backend/internal/alert"
	"brgyalert/backend/internal/alerthub"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/chatbot"
	"brgyalert/backend/internal/dashboard"
	"brgyalert/backend/internal/report"
)

// Handler holds the services every route delegates to.
type Handler struct {
	Accounts  *account.Service
	Alerts    *alert.Service
	Reports   *report.Service
	Audit     *audit.Service
	Dashboard *dashboard.Service
	Chatbot   *chatbot.Service
	Hub       *alerthub.ManagerService
}
