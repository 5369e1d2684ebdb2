package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Library: загруженный каталог (framework) с иерархией требований в Content.
type Library struct {
	gorm.Model
	URN         string         `gorm:"size:512;uniqueIndex;not null" json:"urn"`
	RefID       string         `gorm:"size:255" json:"ref_id"`
	Name        string         `gorm:"size:255" json:"name"`
	Version     string         `gorm:"size:64" json:"version"`
	Description string         `gorm:"type:text" json:"description"`
	Provider    string         `gorm:"size:255" json:"provider"`
	Locale      string         `gorm:"size:16" json:"locale"`
	IsLoaded    bool           `gorm:"not null;default:false" json:"is_loaded"`
	Content     datatypes.JSON `json:"content,omitempty"`
}
