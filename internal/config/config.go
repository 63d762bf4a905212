package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// Sorting selects the filesystem operation and duplicate handling.
type Sorting struct {
	Operation       string `toml:"operation"`
	DuplicatePolicy string `toml:"duplicate_policy"`
	TieBreak        string `toml:"tie_break"`
	HashAlgorithm   string `toml:"hash_algorithm"`
}

// Pipeline contains worker pool settings. Workers = 0 selects the
// synchronous path.
type Pipeline struct {
	Workers         int `toml:"workers"`
	QueueDepth      int `toml:"queue_depth"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Scanner contains source traversal settings.
type Scanner struct {
	MaxDepth      int  `toml:"max_depth"`
	IgnoreUnknown bool `toml:"ignore_unknown"`
	SniffContent  bool `toml:"sniff_content"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	RetentionDays   int               `toml:"retention_days"`
	Journal         bool              `toml:"journal"`
	ComponentLevels map[string]string `toml:"component_levels"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled  bool `toml:"enabled"`
	KeepRuns int  `toml:"keep_runs"`
}

// Segment describes one path segment of the target layout. Which fields
// apply depends on Kind:
//   - make_model: Parts, Separator, Default, Fallback, Lowercase, ReplaceSpaces
//   - date: Parts, Separator, Default, UseFileTime
//   - screenshot: Name, FilenamePattern
//   - file_type: no options
//   - static: Value
type Segment struct {
	Kind            string   `toml:"kind"`
	Parts           []string `toml:"parts,omitempty"`
	Separator       string   `toml:"separator,omitempty"`
	Default         string   `toml:"default,omitempty"`
	Fallback        string   `toml:"fallback,omitempty"`
	Lowercase       bool     `toml:"lowercase,omitempty"`
	ReplaceSpaces   bool     `toml:"replace_spaces,omitempty"`
	UseFileTime     bool     `toml:"use_file_time,omitempty"`
	Name            string   `toml:"name,omitempty"`
	FilenamePattern string   `toml:"filename_pattern,omitempty"`
	Value           string   `toml:"value,omitempty"`
}

// Layout holds the ordered segment lists. Supported applies to recognized
// image types, Fallback to everything else.
type Layout struct {
	Supported []Segment `toml:"supported"`
	Fallback  []Segment `toml:"fallback"`
}

// Config encapsulates all configuration values for dcimsort.
//
// Configuration sections by subsystem:
//   - Paths: output root, log and state directories
//   - Sorting: operation, duplicate policy, tie-break, hash algorithm
//   - Pipeline: worker count, inbox depth, shutdown timeout
//   - Scanner: recursion depth and classification switches
//   - Logging: log format, level, retention, journal
//   - History: SQLite run history
//   - Layout: target directory segments
type Config struct {
	Paths    Paths    `toml:"paths"`
	Sorting  Sorting  `toml:"sorting"`
	Pipeline Pipeline `toml:"pipeline"`
	Scanner  Scanner  `toml:"scanner"`
	Logging  Logging  `toml:"logging"`
	History  History  `toml:"history"`
	Layout   Layout   `toml:"layout"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dcimsort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories. The output
// directory is left alone so a simulated run never touches it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ShutdownTimeout returns the per-worker shutdown wait. Zero means wait
// indefinitely.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.Pipeline.ShutdownTimeout <= 0 {
		return 0
	}
	return time.Duration(c.Pipeline.ShutdownTimeout) * time.Second
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockDir returns the directory holding per-target run locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
