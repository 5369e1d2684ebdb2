package models

import "gorm.io/gorm"

type ControlType string

const (
	ControlTechnical      ControlType = "Technical"
	ControlAdministrative ControlType = "Administrative"
	ControlPhysical       ControlType = "Physical"
	ControlOperational    ControlType = "Operational"
	ControlOther          ControlType = "Other"
)

// Control: отдельное требование стандарта, ключ (standard_id, code).
type Control struct {
	gorm.Model
	StandardID uint   `gorm:"not null;uniqueIndex:idx_controls_standard_code" json:"standard_id"`
	Code       string `gorm:"size:128;not null;uniqueIndex:idx_controls_standard_code" json:"code"`

	Title       string      `gorm:"size:512" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Discussion  *string     `gorm:"type:text" json:"discussion"`
	Test        *string     `gorm:"type:text" json:"test"`
	Type        ControlType `gorm:"type:varchar(32)" json:"type"`
	Category    string      `gorm:"size:255" json:"category"`
	Enforcement string      `gorm:"size:64" json:"enforcement"`
}
