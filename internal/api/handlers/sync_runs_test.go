package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/operatorctx"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

func serve(h http.Handler, method, target, operator string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if operator != "" {
		req = req.WithContext(operatorctx.WithOperator(req.Context(), operator))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSyncRuns_CreateQueuesRunAndRejectsSecond(t *testing.T) {
	st := state.NewMemoryStore()
	h := SyncRunsHandler{Store: st}

	rec := serve(h, http.MethodPost, "/v1/sync/runs", "ops@soumya.example")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var created runView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.HasPrefix(created.RunID, "run_") || created.Status != "queued" || created.TriggeredBy != "ops@soumya.example" {
		t.Fatalf("unexpected run: %+v", created)
	}

	stored, ok, _ := st.GetRun(context.Background(), created.RunID)
	if !ok || stored.Status != domain.RunStatusQueued {
		t.Fatalf("run not persisted: %+v", stored)
	}

	rec = serve(h, http.MethodPost, "/v1/sync/runs", "ops@soumya.example")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a run is queued, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"run_active"`) {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestSyncRuns_ListAndDetail(t *testing.T) {
	st := state.NewMemoryStore()
	ctx := context.Background()

	const runID = "run_test_1"
	_ = st.InsertRun(ctx, state.RunRecord{RunID: runID, TriggeredBy: "cli", CreatedAt: time.Now().UTC()})
	_ = st.StartRun(ctx, runID)
	_ = st.InsertRunFailures(ctx, runID, []domain.ProductFailure{
		{Slug: "broken-rug", Stage: domain.FailureStageParse, Message: "invalid price"},
	})
	_ = st.CompleteRun(ctx, runID, state.RunOutcome{Status: domain.RunStatusPartial, Imported: 3, Categorized: 2, Failed: 1})

	h := SyncRunsHandler{Store: st}

	rec := serve(h, http.MethodGet, "/v1/sync/runs?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var listResp struct {
		Items []runView `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(listResp.Items) != 1 || listResp.Items[0].RunID != runID || listResp.Items[0].Status != "partial" {
		t.Fatalf("unexpected list response: %#v", listResp.Items)
	}

	rec = serve(h, http.MethodGet, "/v1/sync/runs/"+runID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var detail struct {
		Run      runView                 `json:"run"`
		Failures []domain.ProductFailure `json:"failures"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if detail.Run.Imported != 3 || detail.Run.FinishedAt == nil {
		t.Fatalf("unexpected run detail: %+v", detail.Run)
	}
	if len(detail.Failures) != 1 || detail.Failures[0].Slug != "broken-rug" {
		t.Fatalf("unexpected failures: %+v", detail.Failures)
	}
}

func TestSyncRuns_DetailErrors(t *testing.T) {
	h := SyncRunsHandler{Store: state.NewMemoryStore()}

	if rec := serve(h, http.MethodGet, "/v1/sync/runs/run_missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/v1/sync/runs/a/b", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodDelete, "/v1/sync/runs", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/v1/sync/runs/run_x", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

type failingRuns struct {
	*state.MemoryStore
}

func (failingRuns) ListRuns(context.Context, int) ([]state.RunRecord, error) {
	return nil, errors.New("db down")
}

func TestSyncRuns_StoreErrorIs500(t *testing.T) {
	h := SyncRunsHandler{Store: failingRuns{state.NewMemoryStore()}}

	rec := serve(h, http.MethodGet, "/v1/sync/runs", "")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "list_runs_failed") {
		t.Fatalf("expected 500 list_runs_failed, got %d %s", rec.Code, rec.Body.String())
	}
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	if rec := serve(HealthHandler{}, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := serve(HealthHandler{DB: pinger{}}, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := serve(HealthHandler{DB: pinger{err: errors.New("refused")}}, http.MethodGet, "/healthz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
