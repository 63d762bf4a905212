package logging

import (
	"context"
	"log/slog"
)

// Tee returns a logger that writes to base and copies every record at or
// above level into the journal. A nil journal returns base unchanged.
func (j *Journal) Tee(base *slog.Logger, level slog.Level) *slog.Logger {
	if j == nil {
		return base
	}
	var console slog.Handler = NoopHandler{}
	if base != nil {
		console = base.Handler()
	}
	return slog.New(&journalTee{
		console: console,
		journal: &journalHandler{journal: j, level: level},
	})
}

// journalTee feeds one record to the console handler and the journal.
// Journal sends never fail the log call; only console errors are returned.
type journalTee struct {
	console slog.Handler
	journal *journalHandler
}

func (h *journalTee) Enabled(ctx context.Context, level slog.Level) bool {
	return h.journal.Enabled(ctx, level) || h.console.Enabled(ctx, level)
}

func (h *journalTee) Handle(ctx context.Context, record slog.Record) error {
	if h.journal.Enabled(ctx, record.Level) {
		_ = h.journal.Handle(ctx, record)
	}
	if !h.console.Enabled(ctx, record.Level) {
		return nil
	}
	return h.console.Handle(ctx, record)
}

func (h *journalTee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &journalTee{
		console: h.console.WithAttrs(attrs),
		journal: h.journal.withAttrs(attrs),
	}
}

// WithGroup only affects the console; journal lines stay flat.
func (h *journalTee) WithGroup(name string) slog.Handler {
	return &journalTee{console: h.console.WithGroup(name), journal: h.journal}
}
