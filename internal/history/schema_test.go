package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	return version
}

func TestOpenUpgradesOlderHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db := openRaw(t, path)
	if _, err := db.Exec(migrations[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatal(err)
	}
	started := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if _, err := db.Exec(`INSERT INTO runs (id, operation, source, target, workers, started_at, finished_at, status)
		VALUES ('old-run', 'move', '/card', '/sorted', 2, ?, ?, 'completed')`,
		formatTime(started), formatTime(started.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}
	db.Close()

	store, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer store.Close()
	if got := userVersion(t, store.db); got != SchemaVersion() {
		t.Fatalf("user_version = %d, want %d", got, SchemaVersion())
	}

	ctx := context.Background()
	run, err := store.GetRun(ctx, "old-run")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Operation != "move" || run.Policy != "" {
		t.Fatalf("migrated run = %+v", run)
	}
	run.ID = "new-run"
	run.Policy = "compare(rename)"
	if err := store.RecordRun(ctx, *run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if got, err := store.GetRun(ctx, "new-run"); err != nil || got.Policy != "compare(rename)" {
		t.Fatalf("policy not stored: %+v %v", got, err)
	}
}

func TestOpenRejectsNewerHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db := openRaw(t, path)
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := OpenPath(path); !errors.Is(err, ErrSchemaTooNew) {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenTwiceKeepsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		store, err := OpenPath(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if got := userVersion(t, store.db); got != SchemaVersion() {
			t.Fatalf("open %d: user_version = %d", i, got)
		}
		store.Close()
	}
}
