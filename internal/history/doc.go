// Package history persists a summary of every sorting run in SQLite.
//
// The database lives at <state_dir>/history.db. Each run stores its report
// counters, final status and the directories it created (or would have
// created under simulate), so `dcimsort history` can show what earlier runs
// did to an output tree.
package history
