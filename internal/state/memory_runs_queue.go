package state

import (
	"context"
	"sort"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

func (s *MemoryStore) InsertRun(ctx context.Context, run RunRecord) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.runs {
		if r.Status.Active() {
			return ErrRunActive
		}
	}

	if run.Status == "" {
		run.Status = domain.RunStatusQueued
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) ClaimRun(ctx context.Context) (RunClaim, bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []RunRecord
	for _, r := range s.runs {
		switch r.Status {
		case domain.RunStatusRunning:
			return RunClaim{}, false, nil
		case domain.RunStatusQueued:
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return RunClaim{}, false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	r := candidates[0]
	started := s.now()
	r.Status = domain.RunStatusRunning
	r.StartedAt = &started
	s.runs[r.RunID] = r

	return RunClaim{RunID: r.RunID, TriggeredBy: r.TriggeredBy}, true, nil
}

func (s *MemoryStore) StartRun(ctx context.Context, runID string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[runID]
	if !ok || r.Status != domain.RunStatusQueued {
		return ErrRunNotFound
	}
	for id, other := range s.runs {
		if id != runID && other.Status == domain.RunStatusRunning {
			return ErrRunActive
		}
	}

	started := s.now()
	r.Status = domain.RunStatusRunning
	r.StartedAt = &started
	s.runs[runID] = r
	return nil
}

func (s *MemoryStore) CompleteRun(ctx context.Context, runID string, out RunOutcome) error {
	return s.finishRun(ctx, runID, out, "")
}

func (s *MemoryStore) FailRun(ctx context.Context, runID string, out RunOutcome, message string) error {
	out.Status = domain.RunStatusFailed
	return s.finishRun(ctx, runID, out, message)
}

func (s *MemoryStore) finishRun(ctx context.Context, runID string, out RunOutcome, message string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[runID]
	if !ok {
		return ErrRunNotFound
	}

	finished := s.now()
	r.Status = out.Status
	r.Imported = out.Imported
	r.Categorized = out.Categorized
	r.Failed = out.Failed
	r.Error = message
	r.FinishedAt = &finished
	s.runs[runID] = r
	return nil
}

func (s *MemoryStore) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[runID]
	return r, ok, nil
}

func (s *MemoryStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit <= 0 || limit > len(out) {
		return out, nil
	}
	return out[:limit], nil
}

func (s *MemoryStore) InsertRunFailures(ctx context.Context, runID string, failures []domain.ProductFailure) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runFailures[runID] = append(s.runFailures[runID], failures...)
	return nil
}

func (s *MemoryStore) ListRunFailures(ctx context.Context, runID string) ([]domain.ProductFailure, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProductFailure, len(s.runFailures[runID]))
	copy(out, s.runFailures[runID])
	return out, nil
}
