// Package media defines the file records that flow through the sorting
// pipeline: the scanned File, its optional capture Metadata, the image
// FileType used to pick a layout, and the coarse Class used by the
// fallback layout.
package media
