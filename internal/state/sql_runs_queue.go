package state

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

// ErrRunLockMissing means the sync_run_lock row was never seeded.
var ErrRunLockMissing = errors.New("sync_run_lock row missing (apply migrations)")

// lockRunSlot takes the row lock that serializes every queued/running
// transition. An empty SELECT ... FOR UPDATE locks nothing under READ
// COMMITTED.
func (s *SQLStore) lockRunSlot(ctx context.Context, tx *sql.Tx) error {
	var id int
	err := s.queryRow(ctx, tx, `SELECT id FROM sync_run_lock WHERE id = 1 FOR UPDATE`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRunLockMissing
	}
	return err
}

func (s *SQLStore) InsertRun(ctx context.Context, run RunRecord) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.lockRunSlot(ctx, tx); err != nil {
		return err
	}

	var active string
	err = s.queryRow(ctx, tx, `
SELECT run_id
FROM sync_runs
WHERE status IN ('queued', 'running')
LIMIT 1
`).Scan(&active)
	switch {
	case err == nil:
		return ErrRunActive
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	if run.Status == "" {
		run.Status = domain.RunStatusQueued
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}

	_, err = s.exec(ctx, tx, `
INSERT INTO sync_runs (run_id, status, triggered_by, created_at)
VALUES (?, ?, ?, ?)
`, run.RunID, string(run.Status), run.TriggeredBy, run.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLStore) ClaimRun(ctx context.Context) (RunClaim, bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return RunClaim{}, false, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.lockRunSlot(ctx, tx); err != nil {
		return RunClaim{}, false, err
	}

	var running string
	err = s.queryRow(ctx, tx, `SELECT run_id FROM sync_runs WHERE status = 'running' LIMIT 1`).Scan(&running)
	switch {
	case err == nil:
		return RunClaim{}, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return RunClaim{}, false, err
	}

	var c RunClaim
	err = s.queryRow(ctx, tx, `
SELECT run_id, triggered_by
FROM sync_runs
WHERE status = 'queued'
ORDER BY created_at ASC
LIMIT 1
FOR UPDATE
`).Scan(&c.RunID, &c.TriggeredBy)
	if errors.Is(err, sql.ErrNoRows) {
		return RunClaim{}, false, nil
	}
	if err != nil {
		return RunClaim{}, false, err
	}

	_, err = s.exec(ctx, tx, `
UPDATE sync_runs
SET status = 'running', started_at = ?
WHERE run_id = ? AND status = 'queued'
`, s.now(), c.RunID)
	if err != nil {
		return RunClaim{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return RunClaim{}, false, err
	}
	return c, true, nil
}

func (s *SQLStore) StartRun(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.lockRunSlot(ctx, tx); err != nil {
		return err
	}

	var running string
	err = s.queryRow(ctx, tx, `SELECT run_id FROM sync_runs WHERE status = 'running' AND run_id <> ? LIMIT 1`, runID).Scan(&running)
	switch {
	case err == nil:
		return ErrRunActive
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	res, err := s.exec(ctx, tx, `
UPDATE sync_runs
SET status = 'running', started_at = ?
WHERE run_id = ? AND status = 'queued'
`, s.now(), runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) CompleteRun(ctx context.Context, runID string, out RunOutcome) error {
	return s.finishRun(ctx, runID, out, "")
}

func (s *SQLStore) FailRun(ctx context.Context, runID string, out RunOutcome, message string) error {
	out.Status = domain.RunStatusFailed
	return s.finishRun(ctx, runID, out, message)
}

func (s *SQLStore) finishRun(ctx context.Context, runID string, out RunOutcome, message string) error {
	res, err := s.exec(ctx, s.db, `
UPDATE sync_runs
SET status = ?, imported = ?, categorized = ?, failed = ?, error = ?, finished_at = ?
WHERE run_id = ?
`, string(out.Status), out.Imported, out.Categorized, out.Failed, message, s.now(), runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

const runColumns = `run_id, status, triggered_by, imported, categorized, failed, error, created_at, started_at, finished_at`

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var (
		r                 RunRecord
		status            string
		errMsg            sql.NullString
		started, finished sql.NullTime
	)
	err := row.Scan(&r.RunID, &status, &r.TriggeredBy, &r.Imported, &r.Categorized, &r.Failed, &errMsg, &r.CreatedAt, &started, &finished)
	if err != nil {
		return RunRecord{}, err
	}
	r.Status = domain.RunStatus(status)
	r.Error = errMsg.String
	r.CreatedAt = r.CreatedAt.UTC()
	r.StartedAt = timeFromNull(started)
	r.FinishedAt = timeFromNull(finished)
	return r, nil
}

func (s *SQLStore) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	r, err := scanRun(s.queryRow(ctx, s.db, `SELECT `+runColumns+` FROM sync_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}
	return r, true, nil
}

func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.query(ctx, s.db, `SELECT `+runColumns+` FROM sync_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunRecord, 0, limit)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) InsertRunFailures(ctx context.Context, runID string, failures []domain.ProductFailure) error {
	if len(failures) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range failures {
		_, err := s.exec(ctx, tx, `
INSERT INTO sync_run_failures (run_id, slug, upstream_id, stage, message)
VALUES (?, ?, ?, ?, ?)
`, runID, f.Slug, f.UpstreamID, string(f.Stage), f.Message)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) ListRunFailures(ctx context.Context, runID string) ([]domain.ProductFailure, error) {
	rows, err := s.query(ctx, s.db, `
SELECT slug, upstream_id, stage, message
FROM sync_run_failures
WHERE run_id = ?
ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProductFailure, 0)
	for rows.Next() {
		var (
			f     domain.ProductFailure
			stage string
		)
		if err := rows.Scan(&f.Slug, &f.UpstreamID, &stage, &f.Message); err != nil {
			return nil, err
		}
		f.Stage = domain.FailureStage(stage)
		out = append(out, f)
	}
	return out, rows.Err()
}
