package database

import (
	"grc-integrator/internal/models"

	"gorm.io/gorm"
)

// CreateAuditLog пишет запись в журнал; ошибки записи журнала не должны ломать действие.
func CreateAuditLog(db *gorm.DB, entry models.AuditLog) error {
	if db == nil {
		return nil
	}
	return db.Create(&entry).Error
}
