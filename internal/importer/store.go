package importer

import (
	"context"
	"errors"
	"fmt"

	"grc-integrator/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store: слой upsert'ов по бизнес-ключам; дубли отсекают только уникальные индексы.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Transaction выполняет fn в одной транзакции.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// FindBundle возвращает nil без ошибки, если бандла нет.
func (s *Store) FindBundle(ctx context.Context, code string) (*models.Bundle, error) {
	var b models.Bundle
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBundles(ctx context.Context) ([]models.Bundle, error) {
	var list []models.Bundle
	err := s.db.WithContext(ctx).Order("code asc").Find(&list).Error
	return list, err
}

func (s *Store) UpsertBundleManifest(ctx context.Context, b *models.Bundle) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "version", "authority", "description", "repo_url", "type",
			"update_available", "updated_at",
		}),
	}).Create(b).Error
}

func (s *Store) MarkBundleImported(ctx context.Context, bundleID uint, version string) error {
	return s.db.WithContext(ctx).Model(&models.Bundle{}).
		Where("id = ?", bundleID).
		Updates(map[string]any{
			"status":           models.BundleStatusImported,
			"imported_version": version,
			"update_available": false,
		}).Error
}

func (s *Store) FindStandard(ctx context.Context, code string) (*models.Standard, error) {
	var std models.Standard
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&std).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &std, nil
}

func (s *Store) StandardWithControls(ctx context.Context, code string) (*models.Standard, error) {
	var std models.Standard
	err := s.db.WithContext(ctx).
		Preload("Controls", func(db *gorm.DB) *gorm.DB { return db.Order("code asc") }).
		Where("code = ?", code).
		First(&std).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &std, nil
}

func (s *Store) ListStandards(ctx context.Context, status models.StandardStatus) ([]models.Standard, error) {
	q := s.db.WithContext(ctx).Order("code asc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Standard
	err := q.Find(&list).Error
	return list, err
}

// UpsertStandard вставляет или обновляет стандарт по code и перечитывает строку.
func (s *Store) UpsertStandard(ctx context.Context, std *models.Standard, columns ...string) (*models.Standard, error) {
	if len(columns) == 0 {
		columns = []string{"name", "authority", "description"}
	}
	cols := append(append([]string{}, columns...), "updated_at")

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Omit(clause.Associations).Create(std).Error
	if err != nil {
		return nil, err
	}

	saved, err := s.FindStandard(ctx, std.Code)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("standard %q vanished after upsert", std.Code)
	}
	return saved, nil
}

// SaveStandardAs ищет стандарт по lookupCode, а сохраняет поля из std (включая его code).
// Если по lookupCode ничего нет, делается обычный upsert по std.Code.
// Переименование в уже занятый code падает на уникальном индексе, транзакция вызывающего откатывается.
func (s *Store) SaveStandardAs(ctx context.Context, lookupCode string, std models.Standard) (*models.Standard, error) {
	existing, err := s.FindStandard(ctx, lookupCode)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return s.UpsertStandard(ctx, &std)
	}

	err = s.db.WithContext(ctx).Model(existing).Updates(map[string]any{
		"code":        std.Code,
		"name":        std.Name,
		"authority":   std.Authority,
		"description": std.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.FindStandard(ctx, std.Code)
}

func (s *Store) UpsertControl(ctx context.Context, c *models.Control) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "standard_id"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "discussion", "test", "type", "category", "enforcement", "updated_at",
		}),
	}).Create(c).Error
}

// PruneControls физически удаляет контроли стандарта, которых нет в keep.
func (s *Store) PruneControls(ctx context.Context, standardID uint, keep []string) (int64, error) {
	q := s.db.WithContext(ctx).Unscoped().Where("standard_id = ?", standardID)
	if len(keep) > 0 {
		q = q.Where("code NOT IN ?", keep)
	}
	res := q.Delete(&models.Control{})
	return res.RowsAffected, res.Error
}

func (s *Store) CountControls(ctx context.Context, standardID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Control{}).Where("standard_id = ?", standardID).Count(&n).Error
	return n, err
}
