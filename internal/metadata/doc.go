// Package metadata enriches scanned files with capture details.
//
// A Processor holds a set of Extractors, each bound to a metadata
// container (EXIF or XMP). For every container a file type carries, the
// supporting extractors run in descending priority until one succeeds; the
// per-container results are merged so the earlier container wins on
// conflicting fields. Enrichment never fails: unreadable or missing
// metadata leaves the file with empty metadata.
package metadata
