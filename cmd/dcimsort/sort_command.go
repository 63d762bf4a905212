package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"dcimsort/internal/config"
	"dcimsort/internal/history"
	"dcimsort/internal/logging"
	"dcimsort/internal/media"
	"dcimsort/internal/metadata"
	"dcimsort/internal/pipeline"
	"dcimsort/internal/runlock"
	"dcimsort/internal/scanner"
	"dcimsort/internal/services"
	"dcimsort/internal/sorting"
)

type sortFlags struct {
	output        string
	workers       int
	maxDepth      int
	ignoreUnknown bool
	sniff         bool
	hash          string
	noHash        bool
	policy        string
	tieBreak      string
	operation     string
}

// newSortCommands returns copy, move and simulate plus a generic sort
// command that takes the operation from configuration or --operation.
func newSortCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSortCommand(ctx, "sort", "Sort media using the configured operation", ""),
		newSortCommand(ctx, config.OperationCopy, "Copy media into the sorted tree", config.OperationCopy),
		newSortCommand(ctx, config.OperationMove, "Move media into the sorted tree", config.OperationMove),
		newSortCommand(ctx, config.OperationSimulate, "Print what a copy would do without touching the output", config.OperationSimulate),
	}
}

func newSortCommand(ctx *commandContext, use, short, operation string) *cobra.Command {
	flags := &sortFlags{operation: operation}

	cmd := &cobra.Command{
		Use:   use + " <source>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err = cfg.WithOverrides(flags.overrides(cmd, ctx.debug()))
			if err != nil {
				return err
			}
			return runSort(cmd, cfg, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Output directory (overrides paths.output_dir)")
	f.IntVarP(&flags.workers, "workers", "p", 0, "Worker count; 0 sorts on a single goroutine")
	f.IntVarP(&flags.maxDepth, "max-depth", "n", 0, "Maximum source recursion depth")
	f.BoolVarP(&flags.ignoreUnknown, "ignore-unknown", "i", false, "Skip files that are not recognized images")
	f.BoolVar(&flags.sniff, "sniff", false, "Detect file types from content when the extension is unknown")
	f.StringVar(&flags.hash, "hash", "", "Hash used to compare duplicates (md5, sha256, xxhash, none)")
	f.BoolVarP(&flags.noHash, "no-hash", "H", false, "Compare duplicates by size only")
	f.StringVar(&flags.policy, "policy", "", "Duplicate policy (ignore, overwrite, compare)")
	f.StringVar(&flags.tieBreak, "tie-break", "", "Tie-break for differing duplicates (rename, favor_target, favor_source)")
	if operation == "" {
		f.StringVar(&flags.operation, "operation", "", "Operation (copy, move, simulate)")
	}
	return cmd
}

func (f *sortFlags) overrides(cmd *cobra.Command, debug bool) config.Overrides {
	o := config.Overrides{
		OutputDir:       f.output,
		Operation:       f.operation,
		DuplicatePolicy: f.policy,
		TieBreak:        f.tieBreak,
		HashAlgorithm:   f.hash,
		Debug:           debug,
	}
	if f.noHash {
		o.HashAlgorithm = "none"
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		o.Workers = &f.workers
	}
	if flags.Changed("max-depth") {
		o.MaxDepth = &f.maxDepth
	}
	if flags.Changed("ignore-unknown") {
		o.IgnoreUnknown = &f.ignoreUnknown
	}
	if flags.Changed("sniff") {
		o.SniffContent = &f.sniff
	}
	return o
}

// sortRun carries the collaborators of one invocation.
type sortRun struct {
	cfg      *config.Config
	id       string
	sources  []string
	logger   *slog.Logger
	teed     *slog.Logger
	journal  *logging.Journal
	out      io.Writer
	errOut   io.Writer
	started  time.Time
	settings pipeline.Settings
}

func runSort(cmd *cobra.Command, cfg *config.Config, args []string) error {
	sources, err := resolveSources(args)
	if err != nil {
		return err
	}
	settings, err := pipeline.SettingsFromConfig(cfg)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "sort", "settings", "", err)
	}

	runID := uuid.NewString()
	base, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger := logging.WithRunID(base, runID)

	run := &sortRun{
		cfg:      cfg,
		id:       runID,
		sources:  sources,
		logger:   logger,
		teed:     logger,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		started:  time.Now(),
		settings: settings,
	}

	if cfg.Logging.Journal {
		journal, err := logging.OpenJournal(cfg.Paths.LogDir, 0)
		if err != nil {
			logging.WarnWithContext(logger, "journal unavailable; per-file outcomes not recorded", "journal_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on paths.log_dir"),
				logging.String(logging.FieldImpact, "no journal for this run"),
			)
		} else {
			run.journal = journal
			run.teed = journal.Tee(logger, slog.LevelWarn)
			defer func() {
				if err := journal.Close(); err != nil {
					logger.Warn("journal close failed", logging.Error(err))
				}
				if dropped := journal.Dropped(); dropped > 0 {
					logger.Warn("journal dropped entries", logging.Int64("dropped", dropped))
				}
			}()
		}
	}
	logging.CleanupOldLogs(logging.NewComponentLogger(run.teed, "retention"), cfg.Logging.RetentionDays,
		logging.RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: logging.JournalPattern,
			Exclude: []string{run.journal.Path()},
		})

	if settings.Operation != sorting.OpSimulate {
		lock, err := runlock.Acquire(cfg.LockDir(), cfg.Paths.OutputDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("run lock release failed", logging.Error(err), logging.String("path", lock.Path()))
			}
		}()
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, directories, runErr := run.execute(sigCtx)
	finished := time.Now()
	status := services.RunStatus(runErr)

	run.printReport(report, directories, status, finished.Sub(run.started))
	run.recordHistory(report, directories, status, runErr, finished)
	return runErr
}

func resolveSources(args []string) ([]string, error) {
	sources := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "sort", "resolve source", arg, err)
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil, services.Wrap(services.ErrValidation, "sort", "resolve source", arg+" is neither a directory nor a regular file", nil)
		}
		sources = append(sources, path)
	}
	return sources, nil
}

// execute scans every source, then feeds the files to the pipeline until
// ctx is cancelled. Files already admitted are always drained.
func (r *sortRun) execute(ctx context.Context) (pipeline.Report, []string, error) {
	logger := logging.NewComponentLogger(r.logger, "sort")
	logger.Info("sort started",
		logging.String(logging.FieldOperation, r.settings.Operation.String()),
		logging.String("sources", strings.Join(r.sources, ", ")),
		logging.String("output", r.settings.Root),
		logging.String("policy", r.settings.Policy.String()),
		logging.Int("workers", r.settings.Workers),
	)

	files, scanErr := r.scan(ctx)
	if ctx.Err() != nil {
		files = nil
	}

	progress := newProgress(r.errOut, len(files), logger)
	settings := r.settings
	settings.RunID = r.id
	settings.Logger = r.logger
	settings.Journal = r.journal
	settings.Enricher = metadata.NewDefaultProcessor(logging.NewComponentLogger(r.teed, "metadata"))
	settings.Progress = progress.Increment
	if settings.Operation == sorting.OpSimulate {
		settings.Plan = r.out
	}

	var (
		report      pipeline.Report
		directories []string
		err         error
	)
	if settings.Workers == 0 {
		report, directories, err = pipeline.RunSync(files, settings)
	} else {
		report, directories, err = runThreaded(ctx, files, settings)
	}
	progress.Finish()

	if err == nil {
		err = scanErr
	}
	if err == nil {
		err = ctx.Err()
	}
	return report, directories, err
}

func (r *sortRun) scan(ctx context.Context) ([]media.File, error) {
	sc := scanner.New(afero.NewOsFs(), scanner.Options{
		MaxDepth:      r.cfg.Scanner.MaxDepth,
		IgnoreUnknown: r.cfg.Scanner.IgnoreUnknown,
		SniffContent:  r.cfg.Scanner.SniffContent,
		Logger:        logging.NewComponentLogger(r.teed, "scanner"),
	})
	var files []media.File
	for _, source := range r.sources {
		found, err := sc.Scan(ctx, source)
		files = append(files, found...)
		if err != nil {
			return files, err
		}
	}
	return files, nil
}

func runThreaded(ctx context.Context, files []media.File, settings pipeline.Settings) (pipeline.Report, []string, error) {
	controller, err := pipeline.NewController(settings)
	if err != nil {
		return pipeline.Report{}, nil, err
	}
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		controller.Process(file)
	}
	report, err := controller.Shutdown(context.Background())
	if err != nil {
		return report, nil, err
	}
	return report, controller.Directories(), nil
}

func (r *sortRun) printReport(report pipeline.Report, directories []string, status string, elapsed time.Duration) {
	colorize := shouldColorize(r.out)
	var b strings.Builder
	if r.settings.Operation == sorting.OpSimulate {
		for _, line := range renderSectionHeader("Directories", colorize) {
			fmt.Fprintln(&b, line)
		}
		for _, dir := range directories {
			fmt.Fprintln(&b, dir)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintln(&b, renderReport(report))
	message := fmt.Sprintf("%s in %s", status, elapsed.Round(time.Millisecond))
	fmt.Fprintln(&b, renderStatusLine("Run "+shortID(r.id), runStatusKind(status), message, colorize))
	fmt.Fprint(r.out, b.String())
}

func (r *sortRun) recordHistory(report pipeline.Report, directories []string, status string, runErr error, finished time.Time) {
	if !r.cfg.History.Enabled {
		return
	}
	logger := logging.NewComponentLogger(r.teed, "history")
	warn := func(err error) {
		logging.WarnWithContext(logger, "run history not updated", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on paths.state_dir"),
			logging.String(logging.FieldImpact, "run missing from dcimsort history"),
		)
	}

	store, err := history.Open(r.cfg)
	if err != nil {
		warn(err)
		return
	}
	defer store.Close()

	ctx := context.Background()
	entry := history.Run{
		ID:          r.id,
		Operation:   r.settings.Operation.String(),
		Source:      strings.Join(r.sources, ", "),
		Target:      r.settings.Root,
		Workers:     r.settings.Workers,
		Policy:      r.settings.Policy.String(),
		StartedAt:   r.started,
		FinishedAt:  finished,
		Success:     report.Success,
		Skipped:     report.Skipped,
		Duplicate:   report.Duplicate,
		Errored:     report.Errored,
		Directories: report.Directories,
		Status:      status,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := store.RecordRun(ctx, entry); err != nil {
		warn(err)
		return
	}
	if err := store.RecordDirectories(ctx, r.id, directories); err != nil {
		warn(err)
		return
	}
	if removed, err := store.Prune(ctx, r.cfg.History.KeepRuns); err != nil {
		warn(err)
	} else if removed > 0 {
		logger.Debug("history pruned", logging.Int64("removed", removed))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
