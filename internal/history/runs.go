package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dcimsort/internal/services"
)

// timeLayout keeps stored timestamps lexically ordered.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is the persisted summary of one sorting run.
type Run struct {
	ID          string
	Operation   string
	Source      string
	Target      string
	Workers     int
	Policy      string
	StartedAt   time.Time
	FinishedAt  time.Time
	Success     int
	Skipped     int
	Duplicate   int
	Errored     int
	Directories int
	Status      string
	Error       string
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = `id, operation, source, target, workers, policy, started_at, finished_at,
	success, skipped, duplicate, errored, directories, status, error_message`

// RecordRun inserts or replaces the summary for run.ID.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return services.Wrap(services.ErrValidation, "history", "record run", "run id is required", nil)
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Operation, run.Source, run.Target, run.Workers, run.Policy,
			formatTime(run.StartedAt), formatTime(run.FinishedAt),
			run.Success, run.Skipped, run.Duplicate, run.Errored, run.Directories,
			run.Status, run.Error,
		)
		return err
	})
}

// RecordDirectories replaces the directory list stored for runID.
func (s *Store) RecordDirectories(ctx context.Context, runID string, dirs []string) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin directories tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM run_directories WHERE run_id = ?", runID); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO run_directories (run_id, position, path) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, dir := range dirs {
			if _, err := stmt.ExecContext(ctx, runID, i, dir); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "history", "get run", id, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Directories returns the directories recorded for runID in creation order.
func (s *Store) Directories(ctx context.Context, runID string) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM run_directories WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var dir string
		if err := rows.Scan(&dir); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}
	return dirs, rows.Err()
}

// Prune keeps the newest keep runs and deletes the rest. It returns the
// number of runs removed. keep <= 0 disables pruning.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prune tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		const stale = `SELECT id FROM runs ORDER BY started_at DESC, id LIMIT -1 OFFSET ?`
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM run_directories WHERE run_id IN (`+stale+`)`, keep); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
		if err != nil {
			return err
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run               Run
		started, finished string
	)
	if err := row.Scan(
		&run.ID, &run.Operation, &run.Source, &run.Target, &run.Workers, &run.Policy,
		&started, &finished,
		&run.Success, &run.Skipped, &run.Duplicate, &run.Errored, &run.Directories,
		&run.Status, &run.Error,
	); err != nil {
		return nil, err
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return &run, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
