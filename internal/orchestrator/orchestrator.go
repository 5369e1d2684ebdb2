package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grc-integrator/internal/config"
	"grc-integrator/internal/database"
	"grc-integrator/internal/importer"
	"grc-integrator/internal/models"

	"go.uber.org/zap"
)

var ErrUnknownBundle = errors.New("bundle not found")

type actorKey struct{}

// WithActor привязывает к контексту пользователя, запустившего действие.
func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) *uint {
	if uid, ok := ctx.Value(actorKey{}).(uint); ok && uid > 0 {
		return &uid
	}
	return nil
}

// Orchestrator запускает синхронизации по команде оператора, синхронно.
// Ни одна ошибка не выходит наружу паникой или error: всё превращается в Report.
type Orchestrator struct {
	cfg      config.SyncConfig
	store    *importer.Store
	bundles  *importer.BundleImporter
	criteria *importer.CriteriaImporter
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	cfg config.SyncConfig,
	store *importer.Store,
	bundles *importer.BundleImporter,
	criteria *importer.CriteriaImporter,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		bundles:  bundles,
		criteria: criteria,
		logger:   logger.With(zap.String("service", "orchestrator")),
		now:      time.Now,
	}
}

func (o *Orchestrator) start(action Action, item string) Report {
	return Report{Action: action, Item: item, StartedAt: o.now().UTC()}
}

// finish фиксирует отчёт в журнале аудита; ровно одно уведомление на действие.
func (o *Orchestrator) finish(ctx context.Context, r Report) Report {
	r.FinishedAt = o.now().UTC()

	entry := models.AuditLog{
		UserID:  actorFrom(ctx),
		Entity:  entityFor(r.Action),
		Item:    r.Item,
		Action:  string(r.Action),
		Success: r.Success,
		Details: r.Message,
	}
	if err := database.CreateAuditLog(o.store.DB().WithContext(ctx), entry); err != nil {
		o.logger.Warn("failed to write audit log", zap.String("action", string(r.Action)), zap.Error(err))
	}

	if r.Success {
		o.logger.Info(r.Message, zap.String("action", string(r.Action)), zap.String("item", r.Item))
	} else {
		o.logger.Warn(r.Message, zap.String("action", string(r.Action)), zap.String("item", r.Item))
	}
	return r
}

func entityFor(a Action) string {
	switch a {
	case ActionSyncCriteria:
		return "criteria"
	default:
		return "bundle"
	}
}

// SyncBundles обновляет манифесты из репозитория бандлов.
func (o *Orchestrator) SyncBundles(ctx context.Context) Report {
	r := o.start(ActionSyncBundles, o.cfg.RepoURL)

	sum, err := o.bundles.Retrieve(ctx, o.cfg.RepoURL)
	if err != nil {
		r.fail(err, fmt.Sprintf("Failed to retrieve bundles: %v", err))
		return o.finish(ctx, r)
	}

	r.Details = sum
	r.Success = sum.Failed == 0
	r.Message = fmt.Sprintf("Bundles retrieved: %d updated, %d invalid, %d failed, %d updates available",
		sum.Upserted, sum.Invalid, sum.Failed, sum.UpdatesAvailable)
	if !r.Success {
		r.ErrorKind = importer.KindPersistence
	}
	return o.finish(ctx, r)
}

// Import импортирует один бандл; ошибка этого бандла остаётся в его отчёте.
func (o *Orchestrator) Import(ctx context.Context, b *models.Bundle) Report {
	item := ""
	if b != nil {
		item = b.Code
	}
	r := o.start(ActionImportBundle, item)

	sum, err := o.bundles.Import(ctx, b)
	if err != nil {
		r.fail(err, fmt.Sprintf("Failed to import bundle %s: %v", item, err))
		return o.finish(ctx, r)
	}

	r.Success = true
	r.Details = sum
	r.Message = fmt.Sprintf("Bundle %s imported: standard %s, %d controls", item, sum.StandardCode, sum.Controls)
	return o.finish(ctx, r)
}

func (o *Orchestrator) ImportBundle(ctx context.Context, code string) Report {
	b, err := o.store.FindBundle(ctx, code)
	if err != nil {
		r := o.start(ActionImportBundle, code)
		r.fail(err, fmt.Sprintf("Failed to load bundle %s: %v", code, err))
		r.ErrorKind = importer.KindPersistence
		return o.finish(ctx, r)
	}
	if b == nil {
		r := o.start(ActionImportBundle, code)
		r.fail(ErrUnknownBundle, fmt.Sprintf("Bundle %s not found", code))
		return o.finish(ctx, r)
	}
	return o.Import(ctx, b)
}

// ImportAll импортирует все известные бандлы по очереди; сбой одного не останавливает остальные.
func (o *Orchestrator) ImportAll(ctx context.Context) (BatchReport, error) {
	var batch BatchReport

	list, err := o.store.ListBundles(ctx)
	if err != nil {
		return batch, fmt.Errorf("list bundles: %w", err)
	}

	batch.Reports = make([]Report, 0, len(list))
	for i := range list {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		r := o.Import(ctx, &list[i])
		if r.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
		batch.Reports = append(batch.Reports, r)
	}
	return batch, nil
}

// SyncCriteria импортирует подкритерии внешнего API как стандарты.
func (o *Orchestrator) SyncCriteria(ctx context.Context) Report {
	r := o.start(ActionSyncCriteria, o.cfg.CriteriaAPIURL)

	sum, err := o.criteria.Sync(ctx, o.cfg.CriteriaAPIURL)
	if err != nil {
		r.fail(err, fmt.Sprintf("Failed to sync criteria: %v", err))
		return o.finish(ctx, r)
	}

	r.Details = sum
	r.Success = sum.Failed == 0
	r.Message = fmt.Sprintf("Criteria synced: %d imported, %d skipped", sum.Imported, sum.Skipped)
	if !r.Success {
		r.ErrorKind = importer.KindPersistence
		r.Message += fmt.Sprintf(", %d failed", sum.Failed)
	}
	return o.finish(ctx, r)
}
