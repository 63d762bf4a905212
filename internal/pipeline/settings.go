package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"dcimsort/internal/config"
	"dcimsort/internal/logging"
	"dcimsort/internal/media"
	"dcimsort/internal/sorting"
)

// Enricher attaches metadata to a scanned file. Implementations are shared
// by every worker and must be safe for concurrent use.
type Enricher interface {
	Enrich(file media.File) media.File
}

// Settings is the immutable description of a run. Every worker builds its
// own Sorter from it.
type Settings struct {
	RunID           string
	Root            string
	Operation       sorting.Operation
	Policy          sorting.Policy
	Hash            sorting.HashAlgorithm
	Layout          config.Layout
	Workers         int
	QueueDepth      int
	ShutdownTimeout time.Duration

	Enricher Enricher
	Logger   *slog.Logger
	Journal  *logging.Journal
	// Plan receives the rendered actions under simulate.
	Plan io.Writer
	// Progress, when set, is called after every handled file. Workers call
	// it concurrently.
	Progress func()
}

// SettingsFromConfig translates the [sorting], [pipeline] and [layout]
// configuration. Root, Enricher and the outputs are left for the caller.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	if cfg == nil {
		return Settings{}, fmt.Errorf("config is required")
	}
	op, err := sorting.ParseOperation(cfg.Sorting.Operation)
	if err != nil {
		return Settings{}, err
	}
	policy, err := sorting.ParsePolicy(cfg.Sorting.DuplicatePolicy, cfg.Sorting.TieBreak)
	if err != nil {
		return Settings{}, err
	}
	hash, err := sorting.ParseHashAlgorithm(cfg.Sorting.HashAlgorithm)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Root:            cfg.Paths.OutputDir,
		Operation:       op,
		Policy:          policy,
		Hash:            hash,
		Layout:          cfg.Layout,
		Workers:         cfg.Pipeline.Workers,
		QueueDepth:      cfg.Pipeline.QueueDepth,
		ShutdownTimeout: cfg.ShutdownTimeout(),
	}, nil
}

func (s Settings) queueDepth() int {
	if s.QueueDepth < 1 {
		return 1
	}
	return s.QueueDepth
}

func (s Settings) plan() io.Writer {
	if s.Plan == nil {
		return io.Discard
	}
	return s.Plan
}
