package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"dcimsort/internal/logging"
)

func TestJournalWritesTaggedLines(t *testing.T) {
	dir := t.TempDir()
	journal, err := logging.OpenJournal(dir, 16)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	if want := logging.JournalPath(dir, time.Now()); journal.Path() != want {
		t.Fatalf("unexpected path %q want %q", journal.Path(), want)
	}
	journal.Send("pipeline000", "duplicate /src/IMG1.jpg")
	journal.Sendf("sorter@01", "skipped %d files", 2)
	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	content, err := os.ReadFile(journal.Path())
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), content)
	}
	if !strings.HasSuffix(lines[0], "[pipeline000] duplicate /src/IMG1.jpg") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "[sorter@01] skipped 2 files") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
	if filepath.Dir(journal.Path()) != dir {
		t.Fatalf("journal written outside %s", dir)
	}
}

func TestJournalSendAfterCloseIsDropped(t *testing.T) {
	var buf bytes.Buffer
	journal := logging.NewJournal(&buf, 4)
	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if journal.Send("x", "late") {
		t.Fatal("expected send after close to be rejected")
	}
	if journal.Dropped() != 1 {
		t.Fatalf("expected one dropped entry, got %d", journal.Dropped())
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

type blockingWriter struct {
	release chan struct{}
	buf     bytes.Buffer
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	return w.buf.Write(p)
}

func TestJournalNeverBlocksSender(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	journal := logging.NewJournal(w, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5000; i++ {
			journal.Send("flood", strings.Repeat("x", 64))
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Send blocked on a stalled writer")
	}
	if journal.Dropped() == 0 {
		t.Fatal("expected entries to be dropped while the writer is stalled")
	}
	close(w.release)
	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNilJournalIsSafe(t *testing.T) {
	var journal *logging.Journal
	journal.Send("a", "b")
	journal.Sendf("a", "%d", 1)
	if journal.Dropped() != 0 || journal.Close() != nil {
		t.Fatal("nil journal should be inert")
	}
}

func TestJournalConcurrentSenders(t *testing.T) {
	var buf bytes.Buffer
	journal := logging.NewJournal(&buf, 512)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				journal.Send("worker", "line")
			}
		}()
	}
	wg.Wait()
	if err := journal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	written := strings.Count(buf.String(), "[worker] line")
	if int64(written)+journal.Dropped() != 200 {
		t.Fatalf("written %d + dropped %d != 200", written, journal.Dropped())
	}
}
