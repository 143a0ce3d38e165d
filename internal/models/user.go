package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a resident or barangay staff account.
type User struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Role         Role       `gorm:"type:varchar(16);not null;default:RESIDENT;index" json:"role"`
	Status       UserStatus `gorm:"type:varchar(16);not null;default:active" json:"status"`
	Phone        *string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address      *string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID, lower-cases the email so the unique index is
// case-insensitive, and fills the role and status defaults.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleResident
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	return
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	return u.Status == "" || u.Status == UserActive
}

// NormalizeEmail is the canonical form used for storage, lookups and rate-limit keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
