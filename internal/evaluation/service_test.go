package evaluation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grc-integrator/internal/database/dbtest"
	"grc-integrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedControl(t *testing.T, db *gorm.DB) models.Control {
	t.Helper()
	std := models.Standard{Code: "S", Name: "S", Status: models.StandardInScope}
	require.NoError(t, db.Create(&std).Error)
	ctl := models.Control{StandardID: std.ID, Code: "AC-1", Title: "Policy", Description: "Have a policy"}
	require.NoError(t, db.Create(&ctl).Error)
	return ctl
}

func TestEvaluateRecordsScore(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"score":0.8,"verdict":"pass","rationale":"policy attached"}`))
	}))
	defer srv.Close()

	db := dbtest.Open(t)
	ctl := seedControl(t, db)
	svc := NewService(db, NewHTTPScorer(srv.URL, time.Second), zap.NewNop())

	uid := uint(3)
	ev, err := svc.Evaluate(context.Background(), ctl.ID, "policy.pdf", &uid)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationCompleted, ev.Status)
	require.NotNil(t, ev.Score)
	assert.InDelta(t, 0.8, *ev.Score, 1e-9)
	assert.Equal(t, "pass", ev.Verdict)
	assert.Equal(t, "AC-1", got.ControlCode)
	assert.Equal(t, "policy.pdf", got.Evidence)

	list, err := svc.List(context.Background(), ctl.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEvaluateRecordsScorerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	db := dbtest.Open(t)
	ctl := seedControl(t, db)

	ev, err := NewService(db, NewHTTPScorer(srv.URL, time.Second), zap.NewNop()).
		Evaluate(context.Background(), ctl.ID, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationFailed, ev.Status)
	assert.Contains(t, ev.Error, "503")
	assert.Nil(t, ev.Score)
}

func TestEvaluateDisabledScorer(t *testing.T) {
	db := dbtest.Open(t)
	ctl := seedControl(t, db)

	ev, err := NewService(db, NewHTTPScorer("", time.Second), zap.NewNop()).
		Evaluate(context.Background(), ctl.ID, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationFailed, ev.Status)
	assert.Equal(t, ErrScorerDisabled.Error(), ev.Error)
}

func TestEvaluateUnknownControl(t *testing.T) {
	_, err := NewService(dbtest.Open(t), NewHTTPScorer("", time.Second), zap.NewNop()).
		Evaluate(context.Background(), 99, "x", nil)
	assert.ErrorIs(t, err, ErrControlNotFound)
}
