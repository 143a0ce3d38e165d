package storage

import (
	"context"

	"brgyalert/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Service) CreateAlert(ctx context.Context, alert *models.Alert) error {
	return translate(s.db(ctx).Create(alert).Error)
}

func (s *Service) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db(ctx).Where("id = ?", id).First(&alert).Error; err != nil {
		return nil, translate(err)
	}
	return &alert, nil
}

// GetAlertForUpdate is GetAlert with a row lock held until the transaction ends.
func (s *Service) GetAlertForUpdate(ctx context.Context, id string) (*models.Alert, error) {
	var alert models.Alert
	err := s.db(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&alert).Error
	if err != nil {
		return nil, translate(err)
	}
	return &alert, nil
}

func (s *Service) ListAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error) {
	q := s.db(ctx).Order("created_at desc").Limit(clampLimit(filter.Limit, 100))
	if filter.ActiveOnly {
		q = q.Where("status = ?", models.AlertActive)
	}
	if filter.Since != nil {
		q = q.Where("created_at > ?", *filter.Since)
	}

	var alerts []models.Alert
	return alerts, translate(q.Find(&alerts).Error)
}

func (s *Service) SaveAlert(ctx context.Context, alert *models.Alert) error {
	return translate(s.db(ctx).Save(alert).Error)
}

func (s *Service) DeleteAlert(ctx context.Context, id string) error {
	return affected(s.db(ctx).Where("id = ?", id).Delete(&models.Alert{}))
}

func (s *Service) CountAlertsByStatus(ctx context.Context) (map[models.AlertStatus]int64, error) {
	var rows []struct {
		Status models.AlertStatus
		Count  int64
	}
	err := s.db(ctx).Model(&models.Alert{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[models.AlertStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
