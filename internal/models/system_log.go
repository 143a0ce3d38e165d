package models

import "time"

// SystemLog is one append-only audit entry. UserID is nil for actions taken by
// the system itself (admin CLI, bootstrap).
type SystemLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    string    `gorm:"type:varchar(100);not null;index:idx_log_timestamp_action,priority:2" json:"action"`
	UserID    *string   `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Details   *string   `gorm:"type:text" json:"details,omitempty"`
	Timestamp time.Time `gorm:"not null;index:idx_log_timestamp_action,priority:1" json:"timestamp"`

	UserName string `gorm:"-" json:"user,omitempty"`
}
