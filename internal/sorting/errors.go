package sorting

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceVanished reports that the source is no longer a regular file
	// by the time its action is evaluated.
	ErrSourceVanished = errors.New("source vanished")
	// ErrNotRegular reports an attempt to execute an action whose source is
	// not a regular file.
	ErrNotRegular = errors.New("source is not a regular file")
	// ErrMutationFailed reports that every rename candidate is taken.
	ErrMutationFailed = errors.New("no free rename candidate")
	// ErrInvalidTarget reports a rename request for a target that does not exist.
	ErrInvalidTarget = errors.New("rename requested for missing target")
	// ErrCrossDevice reports a move across filesystem boundaries.
	ErrCrossDevice = errors.New("move crosses filesystem boundary")
)

// ComparisonKind classifies comparer failures.
type ComparisonKind int

const (
	ComparisonOther ComparisonKind = iota
	ComparisonAccessDenied
	ComparisonInvalidFile
	ComparisonMetadata
)

func (k ComparisonKind) String() string {
	switch k {
	case ComparisonAccessDenied:
		return "access denied"
	case ComparisonInvalidFile:
		return "invalid file"
	case ComparisonMetadata:
		return "metadata"
	default:
		return "other"
	}
}

// Side names which file of a comparison failed.
type Side int

const (
	SideNA Side = iota
	SideSource
	SideTarget
)

func (s Side) String() string {
	switch s {
	case SideSource:
		return "source"
	case SideTarget:
		return "target"
	default:
		return "n/a"
	}
}

// ComparisonError is returned by Comparer.Matches.
type ComparisonError struct {
	Kind ComparisonKind
	Side Side
	Path string
	Err  error
}

func (e *ComparisonError) Error() string {
	msg := fmt.Sprintf("compare %s", e.Kind)
	if e.Side != SideNA {
		msg += fmt.Sprintf(" (%s %s)", e.Side, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComparisonError) Unwrap() error { return e.Err }
