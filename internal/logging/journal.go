package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultJournalBuffer = 1024
	journalFilePrefix    = "dcimsort_"
	// JournalPattern matches journal files for retention pruning.
	JournalPattern = journalFilePrefix + "*.log"
)

type journalEntry struct {
	at      time.Time
	sender  string
	message string
}

// Journal is an asynchronous sink for free-text notices tagged with a
// sender id. Send never blocks: when the buffer is full the entry is dropped
// and counted. A nil *Journal accepts and discards everything.
type Journal struct {
	entries chan journalEntry
	done    chan struct{}
	out     *bufio.Writer
	closer  io.Closer
	path    string
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	err    error
}

// JournalPath returns the dated journal file name inside dir.
func JournalPath(dir string, day time.Time) string {
	return filepath.Join(dir, journalFilePrefix+day.Format("2006-01-02")+".log")
}

// OpenJournal appends to today's journal file in dir.
func OpenJournal(dir string, buffer int) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}
	path := JournalPath(dir, time.Now())
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	j := NewJournal(file, buffer)
	j.closer = file
	j.path = path
	return j, nil
}

// NewJournal starts a journal writing to w.
func NewJournal(w io.Writer, buffer int) *Journal {
	if buffer <= 0 {
		buffer = defaultJournalBuffer
	}
	j := &Journal{
		entries: make(chan journalEntry, buffer),
		done:    make(chan struct{}),
		out:     bufio.NewWriter(w),
	}
	go j.run()
	return j
}

// Path returns the journal file path, empty for writer-backed journals.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Send queues a message. It reports false when the entry was dropped.
func (j *Journal) Send(sender, message string) bool {
	if j == nil {
		return false
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.dropped.Add(1)
		return false
	}
	select {
	case j.entries <- journalEntry{at: time.Now(), sender: sender, message: message}:
		return true
	default:
		j.dropped.Add(1)
		return false
	}
}

// Sendf formats and queues a message.
func (j *Journal) Sendf(sender, format string, args ...any) {
	if j == nil {
		return
	}
	j.Send(sender, fmt.Sprintf(format, args...))
}

// Dropped returns how many entries were discarded because the buffer was full
// or the journal was closed.
func (j *Journal) Dropped() int64 {
	if j == nil {
		return 0
	}
	return j.dropped.Load()
}

// Close stops accepting entries, writes everything still queued and closes
// the underlying file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		<-j.done
		return j.err
	}
	j.closed = true
	close(j.entries)
	j.mu.Unlock()

	<-j.done
	if j.closer != nil {
		if err := j.closer.Close(); err != nil && j.err == nil {
			j.err = err
		}
	}
	return j.err
}

func (j *Journal) run() {
	defer close(j.done)
	for entry := range j.entries {
		j.write(entry)
		if len(j.entries) == 0 {
			j.flush()
		}
	}
	j.flush()
}

func (j *Journal) write(entry journalEntry) {
	if j.err != nil {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n", formatTimestamp(entry.at), entry.sender, strings.TrimSpace(entry.message))
	if _, err := j.out.WriteString(line); err != nil {
		j.err = err
	}
}

func (j *Journal) flush() {
	if j.err != nil {
		return
	}
	if err := j.out.Flush(); err != nil {
		j.err = err
	}
}

// journalHandler renders records at or above level as journal lines. The
// sender is the worker attribute when present, otherwise the component.
type journalHandler struct {
	journal *Journal
	level   slog.Level
	attrs   []slog.Attr
}

func (h *journalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *journalHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level {
		return nil
	}
	kvs := make([]kv, 0, len(h.attrs)+record.NumAttrs())
	flattenAttrs(&kvs, nil, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, nil, attr)
		return true
	})

	sender, worker := "dcimsort", ""
	var b strings.Builder
	b.WriteString(levelLabel(record.Level))
	b.WriteByte(' ')
	b.WriteString(record.Message)
	for _, kv := range dedupeKVsByKey(kvs) {
		switch kv.key {
		case FieldComponent:
			sender = attrString(kv.value)
		case FieldWorker:
			worker = attrString(kv.value)
		case FieldFile, "target", FieldOutcome, "error":
			b.WriteByte(' ')
			b.WriteString(kv.key)
			b.WriteByte('=')
			b.WriteString(formatValue(kv.value))
		}
	}
	if worker != "" {
		sender = worker
	}
	h.journal.Send(sender, b.String())
	return nil
}

func (h *journalHandler) withAttrs(attrs []slog.Attr) *journalHandler {
	return &journalHandler{journal: h.journal, level: h.level, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}
