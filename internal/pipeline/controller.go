package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dcimsort/internal/logging"
	"dcimsort/internal/media"
	"dcimsort/internal/services"
	"dcimsort/internal/sorting"
)

// ErrWorkerLost reports a worker that did not answer its shutdown request
// in time.
var ErrWorkerLost = errors.New("worker did not report before shutdown timeout")

// Controller distributes files across workers and collects their reports.
// Process and Shutdown must be called from a single goroutine.
type Controller struct {
	settings    Settings
	workers     []*Worker
	coordinator *sorting.Coordinator
	logger      *slog.Logger
	next        int
	shutdown    bool
	closed      bool
}

// NewController starts settings.Workers workers and the directory
// coordinator goroutine.
func NewController(settings Settings) (*Controller, error) {
	if settings.Workers < 1 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "start", "at least one worker is required", nil)
	}
	logger := logging.NewComponentLogger(settings.Logger, "pipeline")
	coordinator := sorting.NewCoordinator(logging.WithContext(
		services.WithWorker(context.Background(), "dirmgr01"), settings.Logger))

	plan := settings.plan()
	if settings.Plan != nil {
		plan = sorting.NewSyncWriter(settings.Plan)
	}

	coordinator.Start()
	workers := make([]*Worker, 0, settings.Workers)
	for i := 0; i < settings.Workers; i++ {
		w, err := newWorker(fmt.Sprintf("pipeline%03d", i+1), settings, coordinator.Client(), plan)
		if err != nil {
			coordinator.Close()
			return nil, err
		}
		workers = append(workers, w)
	}
	for _, w := range workers {
		w.start()
	}
	logger.Debug("pipeline started",
		logging.Int("workers", len(workers)),
		logging.Int("queue_depth", settings.queueDepth()),
		logging.String(logging.FieldOperation, settings.Operation.String()),
	)
	return &Controller{
		settings:    settings,
		workers:     workers,
		coordinator: coordinator,
		logger:      logger,
	}, nil
}

// Workers returns the number of running workers.
func (c *Controller) Workers() int { return len(c.workers) }

// Process routes file to the next worker in round robin order. It blocks
// while that worker's inbox is full and panics if the worker has exited.
func (c *Controller) Process(file media.File) {
	if c.shutdown {
		panic("pipeline: Process called after Shutdown")
	}
	w := c.workers[c.next]
	c.next = (c.next + 1) % len(c.workers)
	w.submit(message{file: file})
}

// Shutdown stops the workers one after another, waiting for each report
// before moving on, then stops the coordinator. When a worker fails to
// answer within the shutdown timeout the partial report is returned with
// ErrWorkerLost and the coordinator is left running.
func (c *Controller) Shutdown(ctx context.Context) (Report, error) {
	var total Report
	if c.shutdown {
		return total, services.Wrap(services.ErrConflict, "pipeline", "shutdown", "already shut down", nil)
	}
	c.shutdown = true

	for _, w := range c.workers {
		report, err := c.stopWorker(ctx, w)
		if err != nil {
			return total, err
		}
		total.Merge(report)
	}

	c.coordinator.Close()
	c.closed = true
	directories := c.coordinator.Directories()
	total.Directories += len(directories)
	c.logger.Debug("pipeline stopped", logging.String("report", total.String()))
	return total, nil
}

// Directories lists what the coordinator created. It returns nil until a
// Shutdown has completed, since a lost worker may still be driving the
// coordinator.
func (c *Controller) Directories() []string {
	if !c.closed {
		return nil
	}
	return c.coordinator.Directories()
}

func (c *Controller) stopWorker(ctx context.Context, w *Worker) (Report, error) {
	var timeout <-chan time.Time
	if c.settings.ShutdownTimeout > 0 {
		timer := time.NewTimer(c.settings.ShutdownTimeout)
		defer timer.Stop()
		timeout = timer.C
	}
	lost := func() (Report, error) {
		logging.ErrorWithContext(c.logger, "worker lost during shutdown", "worker_lost",
			logging.String(logging.FieldWorker, w.name),
			logging.Duration("timeout", c.settings.ShutdownTimeout),
			logging.String(logging.FieldErrorHint, "a filesystem call may be hung; inspect the target mount"),
		)
		return Report{}, services.Wrap(services.ErrIncomplete, "pipeline", "shutdown", w.name, ErrWorkerLost)
	}

	reply := make(chan Report, 1)
	select {
	case w.inbox <- message{shutdown: reply}:
	case <-w.done:
		panic(fmt.Sprintf("pipeline: worker %s has exited", w.name))
	case <-timeout:
		return lost()
	case <-ctx.Done():
		return Report{}, services.Wrap(services.ErrIncomplete, "pipeline", "shutdown", w.name, ctx.Err())
	}

	select {
	case report := <-reply:
		<-w.done
		return report, nil
	case <-timeout:
		return lost()
	case <-ctx.Done():
		return Report{}, services.Wrap(services.ErrIncomplete, "pipeline", "shutdown", w.name, ctx.Err())
	}
}

// RunSync sorts files on the calling goroutine with a synchronous
// coordinator. It is the zero worker path.
func RunSync(files []media.File, settings Settings) (Report, []string, error) {
	coordinator := sorting.NewCoordinator(settings.Logger)
	w, err := newWorker("pipeline000", settings, coordinator, settings.plan())
	if err != nil {
		return Report{}, nil, err
	}
	for _, file := range files {
		w.handle(file)
	}
	report := w.report
	directories := coordinator.Directories()
	report.Directories = len(directories)
	return report, directories, nil
}
