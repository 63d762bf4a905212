package config

import "strings"

// Overrides carries command-line values that replace loaded settings. Nil
// pointers and empty strings leave the loaded value alone.
type Overrides struct {
	OutputDir       string
	Operation       string
	DuplicatePolicy string
	TieBreak        string
	HashAlgorithm   string
	Workers         *int
	MaxDepth        *int
	IgnoreUnknown   *bool
	SniffContent    *bool
	Debug           bool
}

// WithOverrides returns a copy of c with o applied, normalized and
// validated. The receiver is not modified.
func (c *Config) WithOverrides(o Overrides) (*Config, error) {
	clone := *c
	if v := strings.TrimSpace(o.OutputDir); v != "" {
		clone.Paths.OutputDir = v
	}
	if o.Operation != "" {
		clone.Sorting.Operation = o.Operation
	}
	if o.DuplicatePolicy != "" {
		clone.Sorting.DuplicatePolicy = o.DuplicatePolicy
	}
	if o.TieBreak != "" {
		clone.Sorting.TieBreak = o.TieBreak
	}
	if o.HashAlgorithm != "" {
		clone.Sorting.HashAlgorithm = o.HashAlgorithm
	}
	if o.Workers != nil {
		clone.Pipeline.Workers = *o.Workers
	}
	if o.MaxDepth != nil {
		clone.Scanner.MaxDepth = *o.MaxDepth
	}
	if o.IgnoreUnknown != nil {
		clone.Scanner.IgnoreUnknown = *o.IgnoreUnknown
	}
	if o.SniffContent != nil {
		clone.Scanner.SniffContent = *o.SniffContent
	}
	if o.Debug {
		clone.Logging.Level = "debug"
	}
	if err := clone.normalize(); err != nil {
		return nil, err
	}
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	return &clone, nil
}
