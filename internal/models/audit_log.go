package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// nil: действие из CLI
	UserID *uint `json:"user_id,omitempty"`
	User   *User `json:"user,omitempty"`

	Entity  string `gorm:"size:50;not null" json:"entity"` // "bundle", "standard", "criteria"
	Item    string `gorm:"size:255" json:"item"`
	Action  string `gorm:"size:50;not null" json:"action"` // "sync", "import"
	Success bool   `json:"success"`
	Details string `gorm:"type:text" json:"details"`
}
