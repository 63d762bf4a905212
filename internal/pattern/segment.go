package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"dcimsort/internal/config"
	"dcimsort/internal/media"
)

// Segment contributes one optional path component for a file.
type Segment interface {
	// Translate returns the component and true, or false when the segment
	// has nothing to contribute for this file.
	Translate(file media.File) (string, bool)
	// Optional reports whether the segment may legitimately be absent.
	Optional() bool
	String() string
}

// Build constructs the segment described by cfg.
func Build(cfg config.Segment) (Segment, error) {
	switch cfg.Kind {
	case config.SegmentMakeModel:
		return newMakeModel(cfg), nil
	case config.SegmentDate:
		return newDate(cfg), nil
	case config.SegmentScreenshot:
		return newScreenshot(cfg)
	case config.SegmentFileType:
		return NewFileType(), nil
	case config.SegmentStatic:
		if cfg.Value == "" {
			return nil, fmt.Errorf("static segment requires a value")
		}
		return Static{Value: cfg.Value}, nil
	default:
		return nil, fmt.Errorf("unknown segment kind %q", cfg.Kind)
	}
}

// BuildList constructs segments in configuration order.
func BuildList(cfgs []config.Segment) ([]Segment, error) {
	segments := make([]Segment, 0, len(cfgs))
	for i, cfg := range cfgs {
		segment, err := Build(cfg)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

// Static always yields a fixed directory name.
type Static struct {
	Value string
}

func (s Static) Translate(media.File) (string, bool) { return s.Value, true }

func (s Static) Optional() bool { return false }

func (s Static) String() string { return fmt.Sprintf("static(%q)", s.Value) }

// Screenshot yields its name for screenshots and nothing otherwise. A file
// counts as a screenshot when its metadata says so or when its base name
// matches the optional filename pattern.
type Screenshot struct {
	name    string
	pattern *regexp.Regexp
}

func newScreenshot(cfg config.Segment) (Screenshot, error) {
	s := Screenshot{name: cfg.Name}
	if s.name == "" {
		s.name = "screenshots"
	}
	if cfg.FilenamePattern != "" {
		re, err := regexp.Compile(cfg.FilenamePattern)
		if err != nil {
			return Screenshot{}, fmt.Errorf("screenshot filename pattern: %w", err)
		}
		s.pattern = re
	}
	return s, nil
}

func (s Screenshot) Translate(file media.File) (string, bool) {
	if file.Metadata().Screenshot {
		return s.name, true
	}
	if s.pattern != nil && s.pattern.MatchString(file.Name()) {
		return s.name, true
	}
	return "", false
}

func (s Screenshot) Optional() bool { return true }

func (s Screenshot) String() string {
	if s.pattern == nil {
		return fmt.Sprintf("screenshot(%q)", s.name)
	}
	return fmt.Sprintf("screenshot(%q, %s)", s.name, s.pattern)
}

// sanitize keeps a component inside its parent directory.
func sanitize(value string) string {
	value = strings.TrimSpace(value)
	value = strings.NewReplacer("/", "-", `\`, "-", "\x00", "").Replace(value)
	if value == "." || value == ".." {
		return ""
	}
	return value
}
