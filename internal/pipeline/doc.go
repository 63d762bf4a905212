// Package pipeline fans scanned files out to sorting workers.
//
// A Controller owns N Workers, each with a private buffered inbox and its
// own Sorter, plus the directory Coordinator goroutine shared through
// client handles. Files are dispatched round robin. Shutdown walks the
// workers in order: every worker receives a shutdown request carrying a
// one-shot reply channel, finishes what is already queued, answers with its
// Report and exits. The coordinator is closed only after every worker has
// answered. RunSync is the single goroutine variant used when no workers
// are configured.
package pipeline
