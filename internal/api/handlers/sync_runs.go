package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/operatorctx"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/ingest"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

const syncRunsPath = "/v1/sync/runs"

type runView struct {
	RunID       string     `json:"run_id"`
	Status      string     `json:"status"`
	TriggeredBy string     `json:"triggered_by"`
	Imported    int        `json:"imported"`
	Categorized int        `json:"categorized"`
	Failed      int        `json:"failed"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func toRunView(r state.RunRecord) runView {
	return runView{
		RunID:       r.RunID,
		Status:      string(r.Status),
		TriggeredBy: r.TriggeredBy,
		Imported:    r.Imported,
		Categorized: r.Categorized,
		Failed:      r.Failed,
		Error:       r.Error,
		CreatedAt:   r.CreatedAt,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}

// SyncRunsHandler queues sync runs for the worker and exposes their history.
//
//	POST /v1/sync/runs           queue a run (409 while one is queued or running)
//	GET  /v1/sync/runs           list recent runs
//	GET  /v1/sync/runs/{run_id}  run detail with per-product failures
type SyncRunsHandler struct {
	Store state.RunStore
	Log   *logrus.Entry
	Now   func() time.Time
}

func (h SyncRunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", "run store is not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == syncRunsPath {
		switch r.Method {
		case http.MethodPost:
			h.create(w, r)
		case http.MethodGet:
			h.list(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if !strings.HasPrefix(path, syncRunsPath+"/") {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	runID := strings.TrimSpace(strings.TrimPrefix(path, syncRunsPath+"/"))
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, "invalid_run_id", "run_id missing or invalid")
		return
	}
	h.detail(w, r, runID)
}

func (h SyncRunsHandler) create(w http.ResponseWriter, r *http.Request) {
	runID, err := ingest.NewRunID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "run_id_failed", err.Error())
		return
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now()
	}

	run := state.RunRecord{
		RunID:       runID,
		Status:      domain.RunStatusQueued,
		TriggeredBy: operatorctx.Operator(r.Context()),
		CreatedAt:   now,
	}

	err = h.Store.InsertRun(r.Context(), run)
	if errors.Is(err, state.ErrRunActive) {
		writeError(w, http.StatusConflict, "run_active", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "insert_run_failed", err.Error())
		return
	}

	if h.Log != nil {
		h.Log.WithFields(logrus.Fields{
			"run_id":       runID,
			"triggered_by": run.TriggeredBy,
		}).Info("sync run queued")
	}

	writeJSON(w, http.StatusAccepted, toRunView(run))
}

func (h SyncRunsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_runs_failed", err.Error())
		return
	}

	items := make([]runView, 0, len(runs))
	for _, run := range runs {
		items = append(items, toRunView(run))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func (h SyncRunsHandler) detail(w http.ResponseWriter, r *http.Request, runID string) {
	run, ok, err := h.Store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_run_failed", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "run not found")
		return
	}

	failures, err := h.Store.ListRunFailures(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_run_failures_failed", err.Error())
		return
	}
	if failures == nil {
		failures = []domain.ProductFailure{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":      toRunView(run),
		"failures": failures,
	})
}
