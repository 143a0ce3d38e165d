// Package audit records who changed what and serves the system log to admins.
package audit

import (
	"context"
	"strings"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/storage"
)

// Action tags stored in SystemLog.Action.
const (
	ActionUserRegistered     = "user_registered"
	ActionUserLogin          = "user_login"
	ActionUserRoleUpdate     = "user_role_update"
	ActionUserStatusUpdate   = "user_status_update"
	ActionUserPasswordReset  = "user_password_reset"
	ActionUserCreated        = "user_created"
	ActionAlertCreate        = "alert_create"
	ActionAlertUpdate        = "alert_update"
	ActionAlertDelete        = "alert_delete"
	ActionReportCreate       = "report_create"
	ActionReportStatusUpdate = "report_status_update"
	ActionReportDelete       = "report_delete"
	ActionChatbotQuery       = "chatbot_query"
)

// Append writes one entry through repo. Pass the transaction repository of the
// change being recorded: a failed append must fail, and roll back, that change.
// An empty actorID records a system action.
func Append(ctx context.Context, repo storage.Repository, action, actorID, details string) error {
	entry := &models.SystemLog{Action: action}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if details = strings.TrimSpace(details); details != "" {
		entry.Details = &details
	}
	return repo.AppendLog(ctx, entry)
}

type Service struct {
	store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// List returns the newest entries first with actor names resolved in one
// batch lookup. limit is clamped to [1, LogPageMax]; zero means the default page.
func (s *Service) List(ctx context.Context, limit int) ([]models.SystemLog, error) {
	switch {
	case limit == 0:
		limit = config.LogPageDefault
	case limit < 0:
		limit = 1
	case limit > config.LogPageMax:
		limit = config.LogPageMax
	}

	logs, err := s.store.ListLogs(ctx, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ids := make([]string, 0, len(logs))
	seen := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.UserID != nil && !seen[*l.UserID] {
			seen[*l.UserID] = true
			ids = append(ids, *l.UserID)
		}
	}
	if len(ids) == 0 {
		return logs, nil
	}

	names, err := s.store.UserNames(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for i := range logs {
		if logs[i].UserID != nil {
			logs[i].UserName = names[*logs[i].UserID]
		}
	}
	return logs, nil
}
