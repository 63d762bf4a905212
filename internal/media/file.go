package media

import (
	"path/filepath"
	"strings"
	"time"
)

// FileType is the image classification that decides between the supported
// and fallback layouts.
type FileType int

const (
	FileTypeOther FileType = iota
	FileTypeJPEG
	FileTypePNG
	FileTypeHEIC
)

func (t FileType) String() string {
	switch t {
	case FileTypeJPEG:
		return "jpeg"
	case FileTypePNG:
		return "png"
	case FileTypeHEIC:
		return "heic"
	default:
		return "other"
	}
}

// Supported reports whether the type is a recognized image type.
func (t FileType) Supported() bool {
	return t != FileTypeOther
}

// FileTypeFromExtension classifies an extension with or without the leading dot.
func FileTypeFromExtension(ext string) FileType {
	switch normalizeExt(ext) {
	case "jpg", "jpeg":
		return FileTypeJPEG
	case "png":
		return FileTypePNG
	case "heic", "heif":
		return FileTypeHEIC
	default:
		return FileTypeOther
	}
}

// FileTypeFromMIME classifies a sniffed MIME value such as "image/jpeg".
func FileTypeFromMIME(mime string) FileType {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg":
		return FileTypeJPEG
	case "image/png":
		return FileTypePNG
	case "image/heic", "image/heif":
		return FileTypeHEIC
	default:
		return FileTypeOther
	}
}

// Metadata holds capture details read from EXIF/XMP containers.
type Metadata struct {
	CreatedAt  time.Time
	Make       string
	Model      string
	Comment    string
	Screenshot bool
}

// IsZero reports whether no field was populated.
func (m Metadata) IsZero() bool {
	return m.CreatedAt.IsZero() && m.Make == "" && m.Model == "" && m.Comment == "" && !m.Screenshot
}

// Merge returns m with every empty field filled from other. Fields already
// set in m win.
func (m Metadata) Merge(other Metadata) Metadata {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = other.CreatedAt
	}
	if m.Make == "" {
		m.Make = other.Make
	}
	if m.Model == "" {
		m.Model = other.Model
	}
	if m.Comment == "" {
		m.Comment = other.Comment
	}
	if !m.Screenshot {
		m.Screenshot = other.Screenshot
	}
	return m
}

// File is one scanned source file. Values are treated as immutable; the
// metadata is attached once by enrichment through WithMetadata.
type File struct {
	Path    string
	Type    FileType
	Size    int64
	ModTime time.Time

	meta     Metadata
	enriched bool
}

// NewFile builds a File classified by its extension.
func NewFile(path string, size int64, modTime time.Time) File {
	return File{
		Path:    path,
		Type:    FileTypeFromExtension(filepath.Ext(path)),
		Size:    size,
		ModTime: modTime,
	}
}

// Name returns the base file name.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// Ext returns the lower-case extension without the dot.
func (f File) Ext() string {
	return normalizeExt(filepath.Ext(f.Path))
}

// Metadata returns the attached metadata, zero when not enriched.
func (f File) Metadata() Metadata {
	return f.meta
}

// Enriched reports whether metadata enrichment already ran for this file.
func (f File) Enriched() bool {
	return f.enriched
}

// WithMetadata returns a copy carrying m.
func (f File) WithMetadata(m Metadata) File {
	f.meta = m
	f.enriched = true
	return f
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
