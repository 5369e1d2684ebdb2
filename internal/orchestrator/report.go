package orchestrator

import (
	"errors"
	"time"

	"grc-integrator/internal/importer"
)

type Action string

const (
	ActionSyncBundles  Action = "sync_bundles"
	ActionImportBundle Action = "import_bundle"
	ActionSyncCriteria Action = "sync_criteria"
)

// Report: то, что видит оператор после действия: успех или ошибка с сообщением.
type Report struct {
	Action     Action        `json:"action"`
	Item       string        `json:"item,omitempty"`
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	ErrorKind  importer.Kind `json:"error_kind,omitempty"`
	Details    any           `json:"details,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// BatchReport: итог цикла импорта всех бандлов.
type BatchReport struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Reports   []Report `json:"reports"`
}

func (r *Report) fail(err error, message string) {
	r.Success = false
	r.Message = message
	var ie *importer.ImportError
	if errors.As(err, &ie) {
		r.ErrorKind = ie.Kind
	}
}
