package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSorting(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateLayout()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateSorting() error {
	switch c.Sorting.Operation {
	case OperationCopy, OperationMove, OperationSimulate:
	default:
		return fmt.Errorf("sorting.operation must be one of copy, move, simulate (got %q)", c.Sorting.Operation)
	}
	switch c.Sorting.DuplicatePolicy {
	case PolicyIgnore, PolicyOverwrite, PolicyCompare:
	default:
		return fmt.Errorf("sorting.duplicate_policy must be one of ignore, overwrite, compare (got %q)", c.Sorting.DuplicatePolicy)
	}
	switch c.Sorting.TieBreak {
	case TieBreakRename, TieBreakFavorTarget, TieBreakFavorSource:
	default:
		return fmt.Errorf("sorting.tie_break must be one of rename, favor_target, favor_source (got %q)", c.Sorting.TieBreak)
	}
	switch c.Sorting.HashAlgorithm {
	case "md5", "sha256", "xxhash", "none":
	default:
		return fmt.Errorf("sorting.hash_algorithm must be one of md5, sha256, xxhash, none (got %q)", c.Sorting.HashAlgorithm)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 0 {
		return errors.New("pipeline.workers must be >= 0")
	}
	if c.Pipeline.QueueDepth <= 0 {
		return errors.New("pipeline.queue_depth must be positive")
	}
	if c.Pipeline.ShutdownTimeout < 0 {
		return errors.New("pipeline.shutdown_timeout must be >= 0")
	}
	return nil
}

func (c *Config) validateScanner() error {
	if c.Scanner.MaxDepth < 1 {
		return errors.New("scanner.max_depth must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	if !validLogLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	for component, level := range c.Logging.ComponentLevels {
		if !validLogLevel(level) {
			return fmt.Errorf("logging.component_levels.%s must be one of debug, info, warn, error (got %q)", component, level)
		}
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func (c *Config) validateLayout() error {
	if len(c.Layout.Supported) == 0 {
		return errors.New("layout.supported must contain at least one segment")
	}
	for i, seg := range c.Layout.Supported {
		if err := seg.validate(); err != nil {
			return fmt.Errorf("layout.supported[%d]: %w", i, err)
		}
	}
	for i, seg := range c.Layout.Fallback {
		if err := seg.validate(); err != nil {
			return fmt.Errorf("layout.fallback[%d]: %w", i, err)
		}
	}
	return nil
}

var (
	makeModelParts = map[string]struct{}{"make": {}, "model": {}}
	dateParts      = map[string]struct{}{"year": {}, "month": {}, "day": {}, "hour": {}, "minute": {}, "second": {}}
)

func (s Segment) validate() error {
	switch s.Kind {
	case SegmentMakeModel:
		return validateParts(s.Parts, makeModelParts)
	case SegmentDate:
		return validateParts(s.Parts, dateParts)
	case SegmentScreenshot:
		if s.FilenamePattern != "" {
			if _, err := regexp.Compile(s.FilenamePattern); err != nil {
				return fmt.Errorf("filename_pattern: %w", err)
			}
		}
		return nil
	case SegmentFileType:
		return nil
	case SegmentStatic:
		if s.Value == "" {
			return errors.New("static segment requires value")
		}
		if strings.ContainsAny(s.Value, `/\`) {
			return fmt.Errorf("static segment value %q must not contain path separators", s.Value)
		}
		return nil
	case "":
		return errors.New("kind must be set")
	default:
		return fmt.Errorf("unknown segment kind %q", s.Kind)
	}
}

func validateParts(parts []string, allowed map[string]struct{}) error {
	for _, part := range parts {
		if _, ok := allowed[part]; !ok {
			return fmt.Errorf("unsupported part %q", part)
		}
	}
	return nil
}
