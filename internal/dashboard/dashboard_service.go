// Package dashboard aggregates counts for the staff overview screen.
package dashboard

import (
	"context"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/policy"
	"brgyalert/backend/internal/storage"
)

type Stats struct {
	TotalReports      int64                       `json:"total_reports"`
	PendingReports    int64                       `json:"pending_reports"`
	InProgressReports int64                       `json:"in_progress_reports"`
	ResolvedReports   int64                       `json:"resolved_reports"`
	RejectedReports   int64                       `json:"rejected_reports"`
	ReportTypes       map[models.ReportType]int64 `json:"report_types"`
	TotalAlerts       int64                       `json:"total_alerts"`
	ActiveAlerts      int64                       `json:"active_alerts"`
	TotalUsers        int64                       `json:"total_users"`
	Residents         int64                       `json:"residents"`
	Officials         int64                       `json:"officials"`
	Admins            int64                       `json:"admins"`
	RecentReports     []models.Report             `json:"recent_reports"`
}

type Service struct {
	Storage storage.Storage
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// Stats is available to officials and admins.
func (s *Service) Stats(ctx context.Context, actor *models.User) (*Stats, error) {
	if err := policy.Require(actor.Role, policy.StatsView); err != nil {
		return nil, err
	}

	byStatus, err := s.Storage.CountReportsByStatus(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byType, err := s.Storage.CountReportsByType(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	alerts, err := s.Storage.CountAlertsByStatus(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	roles, err := s.Storage.CountUsersByRole(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	recent, err := s.Storage.RecentReports(ctx, config.RecentReports)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if recent == nil {
		recent = []models.Report{}
	}

	st := &Stats{
		PendingReports:    byStatus[models.ReportPending],
		InProgressReports: byStatus[models.ReportInProgress],
		ResolvedReports:   byStatus[models.ReportResolved],
		RejectedReports:   byStatus[models.ReportRejected],
		ReportTypes:       make(map[models.ReportType]int64, len(models.ReportTypes())),
		ActiveAlerts:      alerts[models.AlertActive],
		Residents:         roles[models.RoleResident],
		Officials:         roles[models.RoleOfficial],
		Admins:            roles[models.RoleAdmin],
		RecentReports:     recent,
	}
	for _, n := range byStatus {
		st.TotalReports += n
	}
	for _, t := range models.ReportTypes() {
		st.ReportTypes[t] = 0
	}
	for t, n := range byType {
		st.ReportTypes[models.NormalizeReportType(string(t))] += n
	}
	for _, n := range alerts {
		st.TotalAlerts += n
	}
	for _, n := range roles {
		st.TotalUsers += n
	}
	return st, nil
}
