package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var baseSchema string

// migrations[i] moves a database from user_version i to i+1.
var migrations = []string{
	baseSchema,
	`ALTER TABLE runs ADD COLUMN policy TEXT NOT NULL DEFAULT ''`,
}

// ErrSchemaTooNew is returned for a history written by a newer dcimsort.
var ErrSchemaTooNew = errors.New("history schema is newer than this build")

// SchemaVersion reports the user_version a fully migrated history carries.
func SchemaVersion() int { return len(migrations) }

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("%w: %s is at version %d, this build knows %d",
			ErrSchemaTooNew, s.path, version, len(migrations))
	}
	for ; version < len(migrations); version++ {
		if err := s.applyMigration(ctx, version); err != nil {
			return err
		}
	}
	return nil
}

// applyMigration runs step from and bumps user_version in one transaction, so
// an interrupted upgrade restarts at the same step.
func (s *Store) applyMigration(ctx context.Context, from int) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin history migration %d: %w", from+1, err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, migrations[from]); err != nil {
			return fmt.Errorf("history migration %d: %w", from+1, err)
		}
		// PRAGMA does not take bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", from+1)); err != nil {
			return fmt.Errorf("record history version %d: %w", from+1, err)
		}
		return tx.Commit()
	})
}
