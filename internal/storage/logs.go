package storage

import (
	"context"
	"time"

	"brgyalert/backend/internal/models"
)

// AppendLog inserts an audit entry. Call it on the transaction repository so
// the entry commits or rolls back with the change it describes.
func (s *Service) AppendLog(ctx context.Context, entry *models.SystemLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return translate(s.db(ctx).Create(entry).Error)
}

// ListLogs returns entries newest first; the id breaks timestamp ties so that
// insertion order is preserved.
func (s *Service) ListLogs(ctx context.Context, limit int) ([]models.SystemLog, error) {
	var logs []models.SystemLog
	err := s.db(ctx).Order("timestamp desc").Order("id desc").Limit(clampLimit(limit, 100)).Find(&logs).Error
	return logs, translate(err)
}
