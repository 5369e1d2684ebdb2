package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"grc-integrator/internal/models"
	"grc-integrator/internal/wire"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

type ManifestSummary struct {
	Total            int      `json:"total"`
	Upserted         int      `json:"upserted"`
	Invalid          int      `json:"invalid"`
	Failed           int      `json:"failed"`
	UpdatesAvailable int      `json:"updates_available"`
	Errors           []string `json:"errors,omitempty"`
}

type BundleSummary struct {
	Code         string `json:"code"`
	StandardCode string `json:"standard_code"`
	Controls     int    `json:"controls"`
	Skipped      int    `json:"skipped"`
	Pruned       int64  `json:"pruned"`
}

type BundleOptions struct {
	// PruneStale: удалять контроли, которых больше нет в бандле.
	PruneStale bool
}

// BundleImporter: лёгкая синхронизация манифестов и тяжёлый импорт конкретного бандла.
type BundleImporter struct {
	store   *Store
	fetcher Fetcher
	opts    BundleOptions
	logger  *zap.Logger
}

func NewBundleImporter(store *Store, fetcher Fetcher, opts BundleOptions, logger *zap.Logger) *BundleImporter {
	return &BundleImporter{
		store:   store,
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.With(zap.String("service", "bundle_importer")),
	}
}

// Retrieve скачивает индекс бандлов и обновляет манифесты по code.
func (bi *BundleImporter) Retrieve(ctx context.Context, url string) (ManifestSummary, error) {
	var sum ManifestSummary

	if url == "" {
		return sum, fetchError("bundle index", "", ErrNotConfigured)
	}

	body, err := bi.fetcher.GetJSON(ctx, url)
	if err != nil {
		return sum, fetchError("bundle index", url, err)
	}

	manifests, err := wire.DecodeManifests(body)
	if err != nil {
		return sum, parseError("bundle index", url, err)
	}
	sum.Total = len(manifests)

	for _, m := range manifests {
		if m.Code.Empty() {
			sum.Invalid++
			continue
		}
		code := m.Code.Trimmed()

		if err := bi.upsertManifest(ctx, code, m, &sum); err != nil {
			sum.Failed++
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %v", code, err))
			bi.logger.Error("failed to upsert bundle manifest", zap.String("bundle_code", code), zap.Error(err))
			continue
		}
		sum.Upserted++
	}

	bi.logger.Info("bundle index synced",
		zap.String("url", url),
		zap.Int("total", sum.Total),
		zap.Int("upserted", sum.Upserted),
		zap.Int("failed", sum.Failed))

	return sum, nil
}

func (bi *BundleImporter) upsertManifest(ctx context.Context, code string, m wire.Manifest, sum *ManifestSummary) error {
	existing, err := bi.store.FindBundle(ctx, code)
	if err != nil {
		return err
	}

	version := m.Version.Trimmed()
	updateAvailable := false
	if existing != nil && existing.IsImported() {
		updateAvailable = newerVersion(version, existing.ImportedVersion)
	}
	if updateAvailable {
		sum.UpdatesAvailable++
	}

	row := &models.Bundle{
		Code:            code,
		Name:            m.Name.String(),
		Version:         version,
		Authority:       m.Authority.String(),
		Description:     m.Description.String(),
		RepoURL:         m.Location(),
		Type:            models.BundleType(m.Type.Or(string(models.BundleStandard))),
		UpdateAvailable: updateAvailable,
	}
	return bi.store.UpsertBundleManifest(ctx, row)
}

// newerVersion сравнивает по semver, а если хоть одна версия не semver, то просто по неравенству.
func newerVersion(remote, imported string) bool {
	if remote == "" || imported == "" {
		return false
	}
	rv, errR := semver.NewVersion(remote)
	iv, errI := semver.NewVersion(imported)
	if errR == nil && errI == nil {
		return rv.GreaterThan(iv)
	}
	return remote != imported
}

// Import скачивает бандл и делает upsert стандарта и всех его контролей.
// При любой ошибке статус бандла не меняется.
func (bi *BundleImporter) Import(ctx context.Context, b *models.Bundle) (sum BundleSummary, err error) {
	if b == nil {
		return sum, parseError("", "", ErrNilBundle)
	}
	sum.Code = b.Code

	defer func() {
		if err != nil {
			bi.logger.Error("bundle import failed",
				zap.String("bundle_code", b.Code),
				zap.String("url", b.RepoURL),
				zap.Error(err),
				zap.Stack("trace"))
		}
	}()

	if b.RepoURL == "" {
		return sum, fetchError(b.Code, "", ErrNotConfigured)
	}

	body, err := bi.fetcher.GetJSON(ctx, b.RepoURL)
	if err != nil {
		return sum, fetchError(b.Code, b.RepoURL, err)
	}

	payload, err := decodeBundlePayload(body)
	if err != nil {
		return sum, parseError(b.Code, b.RepoURL, err)
	}

	err = bi.store.Transaction(ctx, func(tx *Store) error {
		std, err := tx.SaveStandardAs(ctx, b.Code, models.Standard{
			Code:        payload.Code.Trimmed(),
			Name:        payload.Name.String(),
			Authority:   payload.Authority.String(),
			Description: payload.Description.String(),
			Status:      models.StandardDraft,
		})
		if err != nil {
			return fmt.Errorf("save standard: %w", err)
		}
		sum.StandardCode = std.Code

		codes := make([]string, 0, len(payload.Controls))
		for _, pc := range payload.Controls {
			if pc.Code.Empty() {
				sum.Skipped++
				continue
			}
			ctl := controlFromPayload(std.ID, pc)
			if err := tx.UpsertControl(ctx, ctl); err != nil {
				return fmt.Errorf("save control %s: %w", ctl.Code, err)
			}
			codes = append(codes, ctl.Code)
			sum.Controls++
		}

		if bi.opts.PruneStale {
			n, err := tx.PruneControls(ctx, std.ID, codes)
			if err != nil {
				return fmt.Errorf("prune controls: %w", err)
			}
			sum.Pruned = n
		}

		return tx.MarkBundleImported(ctx, b.ID, b.Version)
	})
	if err != nil {
		return sum, persistenceError(b.Code, err)
	}

	status := models.BundleStatusImported
	b.Status = &status
	b.ImportedVersion = b.Version
	b.UpdateAvailable = false

	bi.logger.Info("bundle imported",
		zap.String("bundle_code", b.Code),
		zap.String("standard_code", sum.StandardCode),
		zap.Int("controls", sum.Controls),
		zap.Int64("pruned", sum.Pruned))

	return sum, nil
}

func decodeBundlePayload(body []byte) (*wire.BundlePayload, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := bundleSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}

	var payload wire.BundlePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if payload.Code.Empty() {
		return nil, fmt.Errorf("invalid bundle: code is empty")
	}
	return &payload, nil
}

func controlFromPayload(standardID uint, pc wire.BundleControl) *models.Control {
	return &models.Control{
		StandardID:  standardID,
		Code:        pc.Code.Trimmed(),
		Title:       pc.Title.String(),
		Description: pc.Description.String(),
		Discussion:  optional(pc.Discussion),
		Test:        optional(pc.Test),
		Type:        models.ControlType(pc.Type.String()),
		Category:    pc.Category.String(),
		Enforcement: pc.Enforcement.String(),
	}
}

func optional(t *wire.Text) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
