// Package sorting turns one media file into one filesystem action.
//
// A Translator folds the configured path segments into a target directory,
// the Sorter builds an Action from it, decides what to do when the target
// already exists (Evaluate) and carries the action out (Execute). Directory
// creation goes through a DirCreator so that concurrent workers funnel every
// mkdir through a single Coordinator goroutine. The Comparer decides whether
// two colliding files hold identical content.
package sorting
