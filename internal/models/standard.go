package models

import "gorm.io/gorm"

type StandardStatus string

const (
	StandardDraft      StandardStatus = "Draft"
	StandardInScope    StandardStatus = "In Scope"
	StandardOutOfScope StandardStatus = "Out of Scope"
)

// Standard: стандарт, доступный для выбора в аудитах (только со статусом "In Scope").
type Standard struct {
	gorm.Model
	Code        string         `gorm:"size:128;uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Authority   string         `gorm:"size:255" json:"authority"`
	Description string         `gorm:"type:text" json:"description"`
	Status      StandardStatus `gorm:"type:varchar(32);not null;default:'Draft'" json:"status"`

	Controls []Control `gorm:"constraint:OnDelete:CASCADE;" json:"controls,omitempty"`
}

func (s *Standard) Selectable() bool {
	return s.Status == StandardInScope
}
