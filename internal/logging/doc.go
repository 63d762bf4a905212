// Package logging assembles structured slog loggers and formatting helpers used
// across dcimsort.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, worker names, and per-file request IDs. The Journal type
// is the asynchronous, fire-and-forget sink that records skip and duplicate
// notices in a dated log file next to the structured log.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the rest
// of the system.
package logging
