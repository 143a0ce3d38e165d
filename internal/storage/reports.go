package storage

import (
	"context"

	"brgyalert/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Service) CreateReport(ctx context.Context, report *models.Report) error {
	return translate(s.db(ctx).Create(report).Error)
}

func (s *Service) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := s.db(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// GetReportForUpdate reads a report and locks its row until the surrounding
// transaction ends. Only meaningful inside WithinTx.
func (s *Service) GetReportForUpdate(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := s.db(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// ListReports returns the newest reports first. An empty ownerID lists every
// user's reports.
func (s *Service) ListReports(ctx context.Context, ownerID string, limit int) ([]models.Report, error) {
	q := s.db(ctx).Order("created_at desc").Limit(clampLimit(limit, 100))
	if ownerID != "" {
		q = q.Where("created_by = ?", ownerID)
	}

	var reports []models.Report
	return reports, translate(q.Find(&reports).Error)
}

func (s *Service) SaveReport(ctx context.Context, report *models.Report) error {
	return translate(s.db(ctx).Save(report).Error)
}

func (s *Service) DeleteReport(ctx context.Context, id string) error {
	return affected(s.db(ctx).Where("id = ?", id).Delete(&models.Report{}))
}

func (s *Service) CountReportsByStatus(ctx context.Context) (map[models.ReportStatus]int64, error) {
	var rows []struct {
		Status models.ReportStatus
		Count  int64
	}
	err := s.db(ctx).Model(&models.Report{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[models.ReportStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *Service) CountReportsByType(ctx context.Context) (map[models.ReportType]int64, error) {
	var rows []struct {
		Type  models.ReportType
		Count int64
	}
	err := s.db(ctx).Model(&models.Report{}).Select("type, COUNT(*) AS count").Group("type").Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[models.ReportType]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}

func (s *Service) RecentReports(ctx context.Context, limit int) ([]models.Report, error) {
	return s.ListReports(ctx, "", limit)
}
