package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Alert is a notice published by barangay staff.
type Alert struct {
	ID       string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type     AlertType     `gorm:"type:varchar(32);not null;index" json:"type"`
	Title    string        `gorm:"type:varchar(255);not null" json:"title"`
	Message  string        `gorm:"type:text;not null" json:"message"`
	Priority AlertPriority `gorm:"type:varchar(16);not null;default:medium;index" json:"priority"`
	Status   AlertStatus   `gorm:"type:varchar(16);not null;default:active;index:idx_alert_status_created" json:"status"`
	// Areas lists the puroks/zones affected. Kept in Postgres array-literal form in a
	// text column so the same schema works on MySQL.
	Areas     pq.StringArray `gorm:"type:text" json:"areas,omitempty"`
	CreatedBy string         `gorm:"type:varchar(36);not null;index" json:"created_by"`
	CreatedAt time.Time      `gorm:"index:idx_alert_status_created" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	CreatedByName string `gorm:"-" json:"created_by_name,omitempty"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Type == "" {
		a.Type = AlertInfo
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.Status == "" {
		a.Status = AlertActive
	}
	return
}
