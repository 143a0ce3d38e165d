package storage

import (
	"context"
	"encoding/json"
	"time"

	"brgyalert/backend/internal/models"

	"gorm.io/gorm/clause"
)

// outboxMaxRetries is the number of failed publishes after which a row is parked as failed.
const outboxMaxRetries = 5

func (s *Service) EnqueueOutbox(ctx context.Context, msg *models.OutboxMessage) error {
	return translate(s.db(ctx).Create(msg).Error)
}

// PendingOutbox returns the oldest pending rows. Rows locked by another worker
// are skipped.
func (s *Service) PendingOutbox(ctx context.Context, limit int) ([]models.OutboxMessage, error) {
	var msgs []models.OutboxMessage
	err := s.db(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", models.OutboxPending).
		Order("created_at asc").
		Limit(clampLimit(limit, 50)).
		Find(&msgs).Error
	return msgs, translate(err)
}

func (s *Service) MarkOutboxPublished(ctx context.Context, id string) error {
	return affected(s.db(ctx).Model(&models.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       models.OutboxPublished,
		"published_at": time.Now().UTC(),
	}))
}

// MarkOutboxFailed bumps the retry counter; the row goes back to pending until
// it has failed outboxMaxRetries times.
func (s *Service) MarkOutboxFailed(ctx context.Context, id, reason string) error {
	var msg models.OutboxMessage
	if err := s.db(ctx).Select("id", "retry_count").Where("id = ?", id).First(&msg).Error; err != nil {
		return translate(err)
	}

	status := models.OutboxPending
	if msg.RetryCount+1 >= outboxMaxRetries {
		status = models.OutboxFailed
	}
	return affected(s.db(ctx).Model(&models.OutboxMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"retry_count": msg.RetryCount + 1,
		"last_error":  reason,
		"status":      status,
	}))
}

func (s *Service) DeletePublishedOutbox(ctx context.Context, before time.Time) (int64, error) {
	res := s.db(ctx).
		Where("status = ? AND published_at < ?", models.OutboxPublished, before).
		Delete(&models.OutboxMessage{})
	return res.RowsAffected, translate(res.Error)
}

// EnqueueEvent marshals payload and queues it on repo, which is normally the
// transaction repository of the change being described.
func EnqueueEvent(ctx context.Context, repo Repository, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return repo.EnqueueOutbox(ctx, &models.OutboxMessage{RoutingKey: routingKey, Payload: body})
}
