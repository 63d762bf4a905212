package sorting

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"dcimsort/internal/logging"
)

func TestEnsureCreatedTwiceCreatesOnce(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "canon_eos", "2023-05")
	c := NewCoordinator(logging.NewNop())

	if err := c.EnsureCreated(target, false); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Fatalf("directory missing after first call: %v", err)
	}

	// A cache hit must not touch the filesystem.
	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	if err := c.EnsureCreated(target+string(filepath.Separator), false); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("cached path was created again: %v", err)
	}
	if got := c.Directories(); len(got) != 1 || got[0] != target {
		t.Fatalf("Directories = %v", got)
	}
}

func TestEnsureCreatedSimulateHasNoSideEffects(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "out", "pictures")
	c := NewCoordinator(logging.NewNop())

	if err := c.EnsureCreated(target, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "out")); !os.IsNotExist(err) {
		t.Fatalf("simulate created a directory: %v", err)
	}
	if got := c.Directories(); len(got) != 1 || got[0] != target {
		t.Fatalf("Directories = %v", got)
	}
}

func TestEnsureCreatedReturnsFilesystemError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCoordinator(logging.NewNop())
	if err := c.EnsureCreated(filepath.Join(blocker, "sub"), false); err == nil {
		t.Fatal("expected mkdir error")
	}
	if len(c.Directories()) != 0 {
		t.Fatal("failed directory was recorded")
	}
}

func TestCoordinatorAsyncSerializesClients(t *testing.T) {
	root := t.TempDir()
	c := NewCoordinator(logging.NewNop())
	c.Start()

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := c.Client()
			dir := filepath.Join(root, "shared", "2023-05")
			if i%2 == 1 {
				dir = filepath.Join(root, "shared", "2023-06")
			}
			errs <- client.EnsureCreated(dir, false)
		}(i)
	}
	wg.Wait()
	c.Close()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("EnsureCreated: %v", err)
		}
	}
	if got := c.Directories(); len(got) != 2 {
		t.Fatalf("Directories = %v, want 2 entries", got)
	}
}

func TestCoordinatorCloseWithoutStart(t *testing.T) {
	c := NewCoordinator(nil)
	c.Close()
}
