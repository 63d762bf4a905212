package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"dcimsort/internal/fileutil"
	"dcimsort/internal/logging"
	"dcimsort/internal/media"
	"dcimsort/internal/services"
	"dcimsort/internal/sorting"
)

// message is either a file to sort or a shutdown request.
type message struct {
	file     media.File
	shutdown chan<- Report
}

// Worker sorts the files routed to it, one at a time in arrival order.
type Worker struct {
	name     string
	settings Settings
	sorter   *sorting.Sorter
	enricher Enricher
	ctx      context.Context
	logger   *slog.Logger

	inbox  chan message
	done   chan struct{}
	report Report
}

func newWorker(name string, settings Settings, dirs sorting.DirCreator, plan io.Writer) (*Worker, error) {
	translator, err := sorting.NewTranslatorFromLayout(settings.Layout)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "build layout", name, err)
	}

	ctx := services.WithWorker(context.Background(), name)
	if settings.RunID != "" {
		ctx = services.WithRunID(ctx, settings.RunID)
	}
	logger := logging.NewComponentLogger(settings.Logger, "pipeline")
	logger = settings.Journal.Tee(logger, slog.LevelDebug)
	logger = logging.WithContext(ctx, logger)

	sorter := sorting.NewSorter(
		translator,
		sorting.NewComparer(settings.Hash),
		dirs,
		sorting.WithPlanWriter(plan),
		sorting.WithLogger(logging.WithContext(ctx, settings.Logger)),
	)
	return &Worker{
		name:     name,
		settings: settings,
		sorter:   sorter,
		enricher: settings.Enricher,
		ctx:      ctx,
		logger:   logger,
		inbox:    make(chan message, settings.queueDepth()),
		done:     make(chan struct{}),
	}, nil
}

// Name returns the worker name, e.g. "pipeline001".
func (w *Worker) Name() string { return w.name }

func (w *Worker) start() {
	go w.run()
}

func (w *Worker) run() {
	defer close(w.done)
	w.logger.Debug("worker started")
	for msg := range w.inbox {
		if msg.shutdown != nil {
			w.drain()
			w.logger.Debug("worker stopped", logging.String("report", w.report.String()))
			msg.shutdown <- w.report
			return
		}
		w.handle(msg.file)
	}
}

// drain processes files queued behind the shutdown request without blocking.
func (w *Worker) drain() {
	for {
		select {
		case msg := <-w.inbox:
			if msg.shutdown == nil {
				w.handle(msg.file)
			}
		default:
			return
		}
	}
}

// submit queues a file. It panics when the worker has already exited.
func (w *Worker) submit(msg message) {
	select {
	case <-w.done:
		panic(fmt.Sprintf("pipeline: worker %s has exited", w.name))
	default:
	}
	select {
	case w.inbox <- msg:
	case <-w.done:
		panic(fmt.Sprintf("pipeline: worker %s has exited", w.name))
	}
}

// handle sorts one file and updates the report.
func (w *Worker) handle(file media.File) {
	logger := logging.WithContext(services.WithRequestID(w.ctx, uuid.NewString()), w.logger)
	if w.settings.Progress != nil {
		defer w.settings.Progress()
	}

	if w.enricher != nil {
		file = w.enricher.Enrich(file)
	}
	action := w.sorter.Calc(w.settings.Operation, file, w.settings.Root)
	if fileutil.Exists(action.Target) {
		w.report.Duplicate++
	}

	outcome, err := w.sorter.ExecuteChecked(action, w.settings.Policy)
	if err != nil {
		eventType := "sort_failed"
		if errors.Is(err, sorting.ErrSourceVanished) {
			w.report.Errored++
			eventType = "source_vanished"
		} else {
			w.report.Skipped++
		}
		logging.WarnWithContext(logger, "file not sorted", eventType,
			logging.String(logging.FieldFile, file.Path),
			logging.String("target", action.Target),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, errorHint(err)),
		)
		return
	}

	switch outcome {
	case sorting.OutcomeMoved, sorting.OutcomeCopied:
		w.report.Success++
	default:
		w.report.Skipped++
	}
	logger.Debug("file sorted",
		logging.String(logging.FieldFile, file.Path),
		logging.String("target", action.Target),
		logging.String(logging.FieldOutcome, outcome.String()),
		logging.Int64("size_bytes", file.Size),
	)
}

func errorHint(err error) string {
	var cmpErr *sorting.ComparisonError
	switch {
	case errors.Is(err, sorting.ErrSourceVanished):
		return "source was removed or replaced during the run"
	case errors.Is(err, sorting.ErrCrossDevice):
		return "use copy when source and output are on different filesystems"
	case errors.Is(err, sorting.ErrMutationFailed):
		return "clean up numbered duplicates in the target directory"
	case errors.As(err, &cmpErr) && cmpErr.Kind == sorting.ComparisonAccessDenied:
		return "check read permissions on the " + cmpErr.Side.String()
	default:
		return "check logs for details"
	}
}
