// Package app собирает сервисы синхронизации поверх одного соединения с БД.
package app

import (
	"grc-integrator/internal/config"
	"grc-integrator/internal/evaluation"
	"grc-integrator/internal/fetch"
	"grc-integrator/internal/importer"
	"grc-integrator/internal/orchestrator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	DB           *gorm.DB
	Store        *importer.Store
	Orchestrator *orchestrator.Orchestrator
	Evaluations  *evaluation.Service
}

func New(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *App {
	client := fetch.NewClient(cfg.FetchTimeout, logger, fetch.WithRate(cfg.FetchRate))
	store := importer.NewStore(db)

	bundles := importer.NewBundleImporter(store, client, importer.BundleOptions{
		PruneStale: cfg.PruneStaleControls,
	}, logger)
	criteria := importer.NewCriteriaImporter(store, client, logger)

	return &App{
		DB:           db,
		Store:        store,
		Orchestrator: orchestrator.New(cfg.Sync(), store, bundles, criteria, logger),
		Evaluations:  evaluation.NewService(db, evaluation.NewHTTPScorer(cfg.EvaluatorURL, cfg.FetchTimeout), logger),
	}
}
