package models

import "gorm.io/gorm"

type BundleType string

const (
	BundleStandard     BundleType = "Standard"
	BundleSupplemental BundleType = "Supplemental"
)

// BundleStatusImported: единственный статус, который выставляет импорт; до этого NULL.
const BundleStatusImported = "imported"

// Bundle: манифест пакета контента из удалённого репозитория.
type Bundle struct {
	gorm.Model
	Code        string     `gorm:"size:128;uniqueIndex;not null" json:"code"`
	Name        string     `gorm:"size:255" json:"name"`
	Version     string     `gorm:"size:64" json:"version"`
	Authority   string     `gorm:"size:255" json:"authority"`
	Description string     `gorm:"type:text" json:"description"`
	RepoURL     string     `gorm:"size:1024" json:"repo_url"`
	Type        BundleType `gorm:"type:varchar(32);not null;default:'Standard'" json:"type"`
	Status      *string    `gorm:"type:varchar(32)" json:"status"`

	ImportedVersion string `gorm:"size:64" json:"imported_version,omitempty"`
	UpdateAvailable bool   `gorm:"not null;default:false" json:"update_available"`
}

func (b *Bundle) IsImported() bool {
	return b.Status != nil && *b.Status == BundleStatusImported
}
