package sorting

import (
	"fmt"
	"strings"
)

// Operation is the filesystem effect of an Action.
type Operation int

const (
	OpCopy Operation = iota
	OpMove
	OpSimulate
)

// ParseOperation maps a configuration value to an Operation.
func ParseOperation(value string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "copy":
		return OpCopy, nil
	case "move":
		return OpMove, nil
	case "simulate", "dry_run", "dry-run":
		return OpSimulate, nil
	default:
		return OpCopy, fmt.Errorf("unknown operation %q", value)
	}
}

func (o Operation) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpSimulate:
		return "simulate"
	default:
		return "copy"
	}
}

// Action is one planned filesystem operation. Renaming produces a new value.
type Action struct {
	Operation Operation
	Source    string
	Target    string
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s -> %s", a.Operation, a.Source, a.Target)
}

// Mode selects how existing targets are handled.
type Mode int

const (
	ModeIgnore Mode = iota
	ModeOverwrite
	ModeCompare
)

func (m Mode) String() string {
	switch m {
	case ModeOverwrite:
		return "overwrite"
	case ModeCompare:
		return "compare"
	default:
		return "ignore"
	}
}

// TieBreak decides between two different files under ModeCompare.
type TieBreak int

const (
	TieBreakRename TieBreak = iota
	TieBreakFavorTarget
	TieBreakFavorSource
)

func (t TieBreak) String() string {
	switch t {
	case TieBreakFavorTarget:
		return "favor_target"
	case TieBreakFavorSource:
		return "favor_source"
	default:
		return "rename"
	}
}

// Policy is the duplicate resolution policy. It is fixed for a run.
type Policy struct {
	Mode     Mode
	TieBreak TieBreak
}

// ParsePolicy maps configuration values to a Policy. The tie break only
// matters for ModeCompare.
func ParsePolicy(mode, tieBreak string) (Policy, error) {
	var p Policy
	switch normalizeValue(mode) {
	case "ignore":
		p.Mode = ModeIgnore
	case "overwrite":
		p.Mode = ModeOverwrite
	case "compare", "":
		p.Mode = ModeCompare
	default:
		return Policy{}, fmt.Errorf("unknown duplicate policy %q", mode)
	}
	switch normalizeValue(tieBreak) {
	case "rename", "":
		p.TieBreak = TieBreakRename
	case "favor_target":
		p.TieBreak = TieBreakFavorTarget
	case "favor_source":
		p.TieBreak = TieBreakFavorSource
	default:
		return Policy{}, fmt.Errorf("unknown tie break %q", tieBreak)
	}
	return p, nil
}

func (p Policy) String() string {
	if p.Mode != ModeCompare {
		return p.Mode.String()
	}
	return fmt.Sprintf("compare(%s)", p.TieBreak)
}

// Verdict is the outcome of checking an Action against the filesystem.
type Verdict int

const (
	VerdictExecute Verdict = iota
	VerdictSkip
	VerdictRenameTarget
)

func (v Verdict) String() string {
	switch v {
	case VerdictSkip:
		return "skip"
	case VerdictRenameTarget:
		return "rename_target"
	default:
		return "execute"
	}
}

// Outcome is what executing an Action did.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeMoved
	OutcomeCopied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeCopied:
		return "copied"
	default:
		return "skipped"
	}
}

func normalizeValue(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(value, "-", "_")
}
