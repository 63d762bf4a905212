package pattern

import (
	"dcimsort/internal/media"
)

// FileType files everything under its coarse class: pictures, videos,
// audio_files, documents, text_files or other.
type FileType struct{}

func NewFileType() FileType { return FileType{} }

func (FileType) Translate(file media.File) (string, bool) {
	return string(media.ClassOf(file.Ext())), true
}

func (FileType) Optional() bool { return false }

func (FileType) String() string { return "file_type" }
