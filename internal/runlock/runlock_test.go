package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"dcimsort/internal/runlock"
	"dcimsort/internal/services"
)

func TestAcquireIsExclusivePerTarget(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")
	target := "/photos/sorted"

	first, err := runlock.Acquire(dir, target)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	t.Cleanup(func() { _ = first.Release() })

	if _, err := runlock.Acquire(dir, target); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("second acquire err = %v, want conflict", err)
	}

	other, err := runlock.Acquire(dir, "/photos/other")
	if err != nil {
		t.Fatalf("acquire other target: %v", err)
	}
	_ = other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := runlock.Acquire(dir, target)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestPathForCleansTarget(t *testing.T) {
	a := runlock.PathFor("/state/locks", "/photos/sorted/")
	b := runlock.PathFor("/state/locks", "/photos/./sorted")
	if a != b {
		t.Fatalf("paths differ: %s vs %s", a, b)
	}
	if filepath.Dir(a) != "/state/locks" || filepath.Ext(a) != ".lock" {
		t.Fatalf("unexpected lock path %s", a)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *runlock.Lock
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
}
