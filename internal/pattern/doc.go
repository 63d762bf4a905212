// Package pattern turns a media file into target directory components.
//
// Each Segment contributes at most one path component. Segments are built
// from the [layout] configuration by Build and hold no mutable state, so a
// single instance can serve every pipeline worker.
package pattern
