package main

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"dcimsort/internal/logging"
)

// progressTracker counts handled files. Increment is called from every
// pipeline worker.
type progressTracker interface {
	Increment()
	Finish()
}

// newProgress draws a bar on terminals and logs sampled progress lines
// everywhere else.
func newProgress(w io.Writer, total int, logger *slog.Logger) progressTracker {
	if total <= 0 {
		return nopProgress{}
	}
	if shouldColorize(w) {
		return &barProgress{bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("sorting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)}
	}
	return &loggedProgress{
		total:   total,
		sampler: logging.NewProgressSampler(10),
		logger:  logger,
	}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Increment() { _ = p.bar.Add(1) }

func (p *barProgress) Finish() { _ = p.bar.Finish() }

type loggedProgress struct {
	mu      sync.Mutex
	done    int
	total   int
	sampler *logging.ProgressSampler
	logger  *slog.Logger
}

func (p *loggedProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if !p.sampler.ShouldLog(p.done, p.total, "sorting") {
		return
	}
	if p.logger != nil {
		p.logger.Info("sorting progress",
			logging.Int("done", p.done),
			logging.Int("total", p.total),
			logging.String(logging.FieldEventType, "sort_progress"),
		)
	}
}

func (p *loggedProgress) Finish() {}

type nopProgress struct{}

func (nopProgress) Increment() {}

func (nopProgress) Finish() {}
