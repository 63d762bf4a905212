package sorting

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"dcimsort/internal/fileutil"
	"dcimsort/internal/logging"
	"dcimsort/internal/media"
)

// maxRenameCandidates bounds the name.001 ... name.999 probe.
const maxRenameCandidates = 999

// Sorter plans and executes the action for one file at a time. A Sorter is
// owned by a single worker.
type Sorter struct {
	translator *Translator
	comparer   *Comparer
	dirs       DirCreator
	plan       io.Writer
	logger     *slog.Logger
}

// Option configures a Sorter.
type Option func(*Sorter)

// WithPlanWriter sets where simulated actions are rendered.
func WithPlanWriter(w io.Writer) Option {
	return func(s *Sorter) {
		if w != nil {
			s.plan = w
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sorter) {
		s.logger = logging.NewComponentLogger(logger, "sorter")
	}
}

func NewSorter(translator *Translator, comparer *Comparer, dirs DirCreator, opts ...Option) *Sorter {
	s := &Sorter{
		translator: translator,
		comparer:   comparer,
		dirs:       dirs,
		plan:       io.Discard,
		logger:     logging.NewComponentLogger(nil, "sorter"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calc builds the action placing file under root. It does no I/O.
func (s *Sorter) Calc(op Operation, file media.File, root string) Action {
	dir := s.translator.Translate(file, root)
	return Action{
		Operation: op,
		Source:    file.Path,
		Target:    filepath.Join(dir, file.Name()),
	}
}

func (s *Sorter) CalcCopy(file media.File, root string) Action {
	return s.Calc(OpCopy, file, root)
}

func (s *Sorter) CalcMove(file media.File, root string) Action {
	return s.Calc(OpMove, file, root)
}

func (s *Sorter) CalcSimulation(file media.File, root string) Action {
	return s.Calc(OpSimulate, file, root)
}

// Evaluate checks action against the filesystem and the policy. A non-nil
// error means the file must be left alone. A target that already is the
// source is skipped under every policy.
func (s *Sorter) Evaluate(action Action, policy Policy) (Verdict, error) {
	if !fileutil.IsRegularFile(action.Source) {
		return VerdictSkip, fmt.Errorf("%w: %s", ErrSourceVanished, action.Source)
	}
	if !fileutil.Exists(action.Target) {
		return VerdictExecute, nil
	}
	if fileutil.SameFile(action.Source, action.Target) {
		return VerdictSkip, nil
	}
	switch policy.Mode {
	case ModeIgnore:
		return VerdictSkip, nil
	case ModeOverwrite:
		return VerdictExecute, nil
	}

	same, err := s.comparer.Matches(action.Source, action.Target)
	if err != nil {
		return VerdictSkip, err
	}
	if same {
		return VerdictSkip, nil
	}
	switch policy.TieBreak {
	case TieBreakFavorTarget:
		return VerdictSkip, nil
	case TieBreakFavorSource:
		return VerdictExecute, nil
	default:
		return VerdictRenameTarget, nil
	}
}

// Execute performs action without duplicate checks. Simulated actions are
// written to the plan writer and report OutcomeSkipped.
func (s *Sorter) Execute(action Action) (Outcome, error) {
	if !fileutil.IsRegularFile(action.Source) {
		return OutcomeSkipped, fmt.Errorf("%w: %s", ErrNotRegular, action.Source)
	}

	simulate := action.Operation == OpSimulate
	if !simulate && fileutil.SameFile(action.Source, action.Target) {
		s.logger.Debug("source already in place",
			logging.String(logging.FieldFile, action.Source),
		)
		return OutcomeSkipped, nil
	}
	dir := filepath.Dir(action.Target)
	if !isDir(dir) {
		if err := s.dirs.EnsureCreated(dir, simulate); err != nil {
			return OutcomeSkipped, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	switch action.Operation {
	case OpMove:
		if err := renameFile(action.Source, action.Target); err != nil {
			return OutcomeSkipped, fmt.Errorf("move %s: %w", action.Source, err)
		}
		return OutcomeMoved, nil
	case OpCopy:
		written, err := fileutil.CopyFile(action.Source, action.Target)
		if err != nil {
			return OutcomeSkipped, fmt.Errorf("copy %s: %w", action.Source, err)
		}
		if written == 0 {
			logging.WarnWithContext(s.logger, "copied zero bytes", "empty_copy",
				logging.String(logging.FieldFile, action.Source),
				logging.String("target", action.Target),
				logging.String(logging.FieldErrorHint, "check whether the source file is truncated"),
				logging.String(logging.FieldImpact, "target holds an empty file"),
			)
		}
		return OutcomeCopied, nil
	default:
		if _, err := fmt.Fprintf(s.plan, "%s -> %s\n", action.Source, action.Target); err != nil {
			return OutcomeSkipped, fmt.Errorf("write plan: %w", err)
		}
		return OutcomeSkipped, nil
	}
}

// ExecuteChecked evaluates action under policy and executes it when the
// verdict allows. Simulated actions run even when the verdict is Skip so
// the plan shows every file.
func (s *Sorter) ExecuteChecked(action Action, policy Policy) (Outcome, error) {
	verdict, err := s.Evaluate(action, policy)
	if err != nil {
		return OutcomeSkipped, err
	}
	s.logger.Debug("duplicate check",
		logging.String(logging.FieldFile, action.Source),
		logging.String("target", action.Target),
		logging.String("verdict", verdict.String()),
	)
	switch verdict {
	case VerdictSkip:
		if action.Operation == OpSimulate {
			return s.Execute(action)
		}
		return OutcomeSkipped, nil
	case VerdictRenameTarget:
		renamed, err := s.MutateTargetFilename(action)
		if err != nil {
			return OutcomeSkipped, err
		}
		return s.Execute(renamed)
	default:
		return s.Execute(action)
	}
}

// MutateTargetFilename returns action retargeted to the first free
// candidate among target.001 through target.999.
func (s *Sorter) MutateTargetFilename(action Action) (Action, error) {
	if !fileutil.Exists(action.Target) {
		return Action{}, fmt.Errorf("%w: %s", ErrInvalidTarget, action.Target)
	}
	for i := 1; i <= maxRenameCandidates; i++ {
		candidate := fmt.Sprintf("%s.%03d", action.Target, i)
		if !fileutil.Exists(candidate) {
			renamed := action
			renamed.Target = candidate
			return renamed, nil
		}
	}
	return Action{}, fmt.Errorf("%w: %s", ErrMutationFailed, action.Target)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SyncWriter serializes writes from concurrent sorters sharing one plan.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
