// Package services defines shared utilities consumed by the sorting pipeline
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, worker names, and per-file request
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses for the history store.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the tool.
package services
