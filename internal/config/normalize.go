package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSorting()
	c.normalizePipeline()
	c.normalizeLogging()
	c.normalizeHistory()
	c.normalizeLayout()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSorting() {
	c.Sorting.Operation = normalizeToken(c.Sorting.Operation, defaultOperation)
	c.Sorting.DuplicatePolicy = normalizeToken(c.Sorting.DuplicatePolicy, defaultDuplicatePolicy)
	c.Sorting.TieBreak = normalizeToken(c.Sorting.TieBreak, defaultTieBreak)
	c.Sorting.HashAlgorithm = normalizeToken(c.Sorting.HashAlgorithm, defaultHashAlgorithm)
	switch c.Sorting.HashAlgorithm {
	case "sha_256":
		c.Sorting.HashAlgorithm = "sha256"
	case "xxh64", "xxhash64":
		c.Sorting.HashAlgorithm = "xxhash"
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.QueueDepth <= 0 {
		c.Pipeline.QueueDepth = defaultQueueDepth
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = normalizeToken(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = normalizeToken(c.Logging.Level, defaultLogLevel)
	if len(c.Logging.ComponentLevels) == 0 {
		return
	}
	levels := make(map[string]string, len(c.Logging.ComponentLevels))
	for component, level := range c.Logging.ComponentLevels {
		key := strings.ToLower(strings.TrimSpace(component))
		if key == "" {
			continue
		}
		levels[key] = normalizeToken(level, defaultLogLevel)
	}
	c.Logging.ComponentLevels = levels
}

func (c *Config) normalizeHistory() {
	if c.History.KeepRuns <= 0 {
		c.History.KeepRuns = defaultHistoryKeepRuns
	}
}

func (c *Config) normalizeLayout() {
	if len(c.Layout.Supported) == 0 && len(c.Layout.Fallback) == 0 {
		c.Layout = DefaultLayout()
		return
	}
	for i := range c.Layout.Supported {
		c.Layout.Supported[i].normalize()
	}
	for i := range c.Layout.Fallback {
		c.Layout.Fallback[i].normalize()
	}
}

func (s *Segment) normalize() {
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	s.Kind = strings.ReplaceAll(s.Kind, "-", "_")
	parts := make([]string, 0, len(s.Parts))
	for _, part := range s.Parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	s.Parts = parts
	s.Default = strings.TrimSpace(s.Default)
	s.Fallback = strings.TrimSpace(s.Fallback)
	s.Name = strings.TrimSpace(s.Name)
	s.Value = strings.TrimSpace(s.Value)
}

func normalizeToken(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return strings.ReplaceAll(value, "-", "_")
}
