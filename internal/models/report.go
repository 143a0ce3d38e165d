package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is an incident or service request filed by a user.
// CreatedBy is a plain reference: deleting a user never cascades to reports.
type Report struct {
	ID               string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type             ReportType   `gorm:"type:varchar(32);not null;index" json:"type"`
	Title            string       `gorm:"type:varchar(255);not null" json:"title"`
	Description      string       `gorm:"type:text;not null" json:"description"`
	Location         *string      `gorm:"type:varchar(500)" json:"location,omitempty"`
	Status           ReportStatus `gorm:"type:varchar(16);not null;default:pending;index:idx_report_status_created" json:"status"`
	OfficialResponse *string      `gorm:"type:text" json:"official_response,omitempty"`
	CreatedBy        string       `gorm:"type:varchar(36);not null;index:idx_report_user_created" json:"created_by"`
	CreatedAt        time.Time    `gorm:"index:idx_report_status_created;index:idx_report_user_created" json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	ResolvedAt       *time.Time   `json:"resolved_at,omitempty"`

	CreatedByName string `gorm:"-" json:"created_by_name,omitempty"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	return
}
