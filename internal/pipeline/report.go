package pipeline

import "fmt"

// Report counts what happened to the files of a run. Each worker owns one
// while running; the controller merges them exactly once at shutdown.
type Report struct {
	Success   int
	Skipped   int
	Duplicate int
	// Errored counts files whose source vanished before they could be sorted.
	Errored int
	// Directories counts directories created, or that would be created
	// under simulate.
	Directories int
}

// Merge adds other into r.
func (r *Report) Merge(other Report) {
	r.Success += other.Success
	r.Skipped += other.Skipped
	r.Duplicate += other.Duplicate
	r.Errored += other.Errored
	r.Directories += other.Directories
}

// Processed is the number of files that reached a final state.
func (r Report) Processed() int {
	return r.Success + r.Skipped + r.Errored
}

func (r Report) String() string {
	return fmt.Sprintf("success=%d skipped=%d duplicate=%d errored=%d directories=%d",
		r.Success, r.Skipped, r.Duplicate, r.Errored, r.Directories)
}
