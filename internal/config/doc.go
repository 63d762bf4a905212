// Package config loads, normalizes, and validates dcimsort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// sorting pipeline and CLI need: output/log/state directories, the duplicate
// policy and hash algorithm, worker counts, scanner limits, and the directory
// layout expressed as ordered segment tables.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum spellings, and clear validation errors.
package config
