package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxPending   = "pending"
	OutboxPublished = "published"
	OutboxFailed    = "failed"
)

// OutboxMessage is a domain event written in the same transaction as the change
// that produced it and relayed to the message broker afterwards.
type OutboxMessage struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RoutingKey  string     `gorm:"type:varchar(100);not null" json:"routing_key"`
	Payload     []byte     `gorm:"not null" json:"payload"`
	Status      string     `gorm:"type:varchar(16);not null;default:pending;index:idx_outbox_status_created" json:"status"`
	RetryCount  int        `gorm:"not null;default:0" json:"retry_count"`
	LastError   *string    `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt   time.Time  `gorm:"index:idx_outbox_status_created" json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (m *OutboxMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = OutboxPending
	}
	return
}

// Routing keys for domain events on the message broker.
const (
	RoutingReportCreated       = "report.created"
	RoutingReportStatusUpdated = "report.status.updated"
	RoutingReportDeleted       = "report.deleted"
	RoutingAlertCreated        = "alert.created"
	RoutingAlertUpdated        = "alert.updated"
	RoutingAlertDeleted        = "alert.deleted"
)
