// Package main hosts the dcimsort CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, applies flag overrides,
// and hands a run to the internal pipeline: scan the sources, enrich and sort
// every file, print the report, and record the run in the history database.
// Keep this package thin; behavior belongs in the internal packages and is
// only surfaced here.
package main
