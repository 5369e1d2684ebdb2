package importer

import (
	"context"
	"fmt"

	"grc-integrator/internal/models"
	"grc-integrator/internal/wire"

	"go.uber.org/zap"
)

const DefaultCriteriaAuthority = "Muraji"

type CriteriaSummary struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Invalid  int      `json:"invalid"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// CriteriaImporter импортирует только подкритерии внешнего списка как стандарты.
type CriteriaImporter struct {
	store   *Store
	fetcher Fetcher
	logger  *zap.Logger
}

func NewCriteriaImporter(store *Store, fetcher Fetcher, logger *zap.Logger) *CriteriaImporter {
	return &CriteriaImporter{
		store:   store,
		fetcher: fetcher,
		logger:  logger.With(zap.String("service", "criteria_importer")),
	}
}

// Sync скачивает список критериев и делает upsert стандартов.
// Ошибка возвращается только если весь запрос или разбор не удался.
func (ci *CriteriaImporter) Sync(ctx context.Context, url string) (CriteriaSummary, error) {
	var sum CriteriaSummary

	if url == "" {
		return sum, fetchError("criteria", "", ErrNotConfigured)
	}

	body, err := ci.fetcher.GetJSON(ctx, url)
	if err != nil {
		return sum, fetchError("criteria", url, err)
	}

	items, err := wire.DecodeCriteria(body)
	if err != nil {
		return sum, parseError("criteria", url, err)
	}
	sum.Total = len(items)

	for _, item := range items {
		if item.Code.Empty() || item.Name.Empty() {
			sum.Invalid++
			continue
		}

		code := item.Code.Trimmed()

		// верхнеуровневые категории не импортируем
		if !item.IsSubCriterion() {
			sum.Skipped++
			ci.logger.Info("skipping top-level criterion", zap.String("code", code))
			continue
		}

		std := &models.Standard{
			Code:        code,
			Name:        item.Name.Trimmed(),
			Authority:   item.Authority.Or(DefaultCriteriaAuthority),
			Description: item.Description.String(),
			Status:      models.StandardInScope,
		}
		if _, err := ci.store.UpsertStandard(ctx, std, "name", "authority", "description", "status"); err != nil {
			sum.Failed++
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %v", code, err))
			ci.logger.Error("failed to upsert criterion", zap.String("code", code), zap.Error(err))
			continue
		}
		sum.Imported++
	}

	ci.logger.Info("criteria sync finished",
		zap.Int("total", sum.Total),
		zap.Int("imported", sum.Imported),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed))

	return sum, nil
}
