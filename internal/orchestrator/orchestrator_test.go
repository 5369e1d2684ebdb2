package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"grc-integrator/internal/config"
	"grc-integrator/internal/database/dbtest"
	"grc-integrator/internal/fetch"
	"grc-integrator/internal/importer"
	"grc-integrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type feed struct {
	srv        *httptest.Server
	indexFails atomic.Bool
}

func newFeed(t *testing.T) *feed {
	t.Helper()
	f := &feed{}
	mux := http.NewServeMux()
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		if f.indexFails.Load() {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		base := "http://" + r.Host
		_, _ = w.Write([]byte(`[
			{"code":"BROKEN","name":"Broken","version":"1","url":"` + base + `/broken.json"},
			{"code":"GOOD","name":"Good","version":"1","url":"` + base + `/good.json"}
		]`))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"BROKEN","controls":[{"code":`))
	})
	mux.HandleFunc("/good.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"GOOD","name":"Good Standard","authority":"ACME","description":"d",
			"controls":[{"code":"G-1","title":"One","type":"Technical","category":"Net","enforcement":"Mandatory"},
			            {"code":"G-2","title":"Two","type":"Physical","category":"Site","enforcement":"Mandatory"}]}`))
	})
	mux.HandleFunc("/criteria", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"code":"A","name":"Cat"},{"code":"A.1","name":"Sub","parent_code":"A"}]}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newOrchestrator(t *testing.T, f *feed) (*Orchestrator, *importer.Store) {
	t.Helper()
	store := importer.NewStore(dbtest.Open(t))
	client := fetch.NewClient(2*time.Second, zap.NewNop())
	log := zap.NewNop()

	o := New(
		config.SyncConfig{RepoURL: f.srv.URL + "/index.json", CriteriaAPIURL: f.srv.URL + "/criteria"},
		store,
		importer.NewBundleImporter(store, client, importer.BundleOptions{}, log),
		importer.NewCriteriaImporter(store, client, log),
		log,
	)
	return o, store
}

func auditLogs(t *testing.T, store *importer.Store) []models.AuditLog {
	t.Helper()
	var logs []models.AuditLog
	require.NoError(t, store.DB().Order("id").Find(&logs).Error)
	return logs
}

func TestSyncBundlesSuccess(t *testing.T) {
	f := newFeed(t)
	o, store := newOrchestrator(t, f)

	r := o.SyncBundles(WithActor(context.Background(), 7))
	assert.True(t, r.Success, r.Message)
	assert.Equal(t, ActionSyncBundles, r.Action)

	logs := auditLogs(t, store)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Success)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, uint(7), *logs[0].UserID)
}

func TestSyncBundlesFailureNeverReportsSuccess(t *testing.T) {
	f := newFeed(t)
	f.indexFails.Store(true)
	o, store := newOrchestrator(t, f)

	r := o.SyncBundles(context.Background())
	assert.False(t, r.Success)
	assert.Equal(t, importer.KindFetch, r.ErrorKind)
	assert.Contains(t, r.Message, "Failed to retrieve bundles")

	logs := auditLogs(t, store)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
	assert.Nil(t, logs[0].UserID)
}

func TestImportAllContinuesAfterBrokenBundle(t *testing.T) {
	f := newFeed(t)
	o, store := newOrchestrator(t, f)
	ctx := context.Background()

	require.True(t, o.SyncBundles(ctx).Success)

	batch, err := o.ImportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Reports, 2)

	assert.Equal(t, "BROKEN", batch.Reports[0].Item)
	assert.False(t, batch.Reports[0].Success)
	assert.Equal(t, importer.KindParse, batch.Reports[0].ErrorKind)
	assert.Equal(t, "GOOD", batch.Reports[1].Item)
	assert.True(t, batch.Reports[1].Success)

	broken, err := store.FindBundle(ctx, "BROKEN")
	require.NoError(t, err)
	assert.Nil(t, broken.Status)

	good, err := store.FindBundle(ctx, "GOOD")
	require.NoError(t, err)
	assert.True(t, good.IsImported())

	std, err := store.StandardWithControls(ctx, "GOOD")
	require.NoError(t, err)
	require.NotNil(t, std)
	assert.Len(t, std.Controls, 2)
}

func TestImportBundleUnknownCode(t *testing.T) {
	f := newFeed(t)
	o, _ := newOrchestrator(t, f)

	r := o.ImportBundle(context.Background(), "NOPE")
	assert.False(t, r.Success)
	assert.Equal(t, "Bundle NOPE not found", r.Message)
}

func TestSyncCriteriaTwiceKeepsRowCount(t *testing.T) {
	f := newFeed(t)
	o, store := newOrchestrator(t, f)
	ctx := context.Background()

	r := o.SyncCriteria(ctx)
	require.True(t, r.Success, r.Message)
	assert.Equal(t, "Criteria synced: 1 imported, 1 skipped", r.Message)

	require.True(t, o.SyncCriteria(ctx).Success)

	list, err := store.ListStandards(ctx, models.StandardInScope)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A.1", list[0].Code)
}

func TestSyncCriteriaNotConfigured(t *testing.T) {
	f := newFeed(t)
	o, _ := newOrchestrator(t, f)
	o.cfg.CriteriaAPIURL = ""

	r := o.SyncCriteria(context.Background())
	assert.False(t, r.Success)
	assert.Equal(t, importer.KindFetch, r.ErrorKind)
}
