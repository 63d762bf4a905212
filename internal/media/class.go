package media

import (
	"github.com/h2non/filetype"
)

// Class is the coarse file category used by the fallback layout.
type Class string

const (
	ClassPicture  Class = "pictures"
	ClassVideo    Class = "videos"
	ClassAudio    Class = "audio_files"
	ClassDocument Class = "documents"
	ClassText     Class = "text_files"
	ClassOther    Class = "other"
)

var classByExtension = map[string]Class{
	"jpg": ClassPicture, "jpeg": ClassPicture, "png": ClassPicture, "heic": ClassPicture,
	"heif": ClassPicture, "gif": ClassPicture, "bmp": ClassPicture, "tif": ClassPicture,
	"tiff": ClassPicture, "webp": ClassPicture, "dng": ClassPicture, "cr2": ClassPicture,
	"nef": ClassPicture, "arw": ClassPicture,

	"mov": ClassVideo, "mp4": ClassVideo, "mpeg": ClassVideo, "mpg": ClassVideo,
	"ts": ClassVideo, "mkv": ClassVideo, "avi": ClassVideo,

	"mp3": ClassAudio, "wav": ClassAudio, "flac": ClassAudio, "ogg": ClassAudio, "wma": ClassAudio,

	"pdf": ClassDocument, "doc": ClassDocument, "docx": ClassDocument, "rtf": ClassDocument,
	"odt": ClassDocument,

	"txt": ClassText, "ini": ClassText, "json": ClassText,
}

// ClassOf returns the category for an extension. Unlisted extensions are
// resolved through the filetype matcher registry by MIME group.
func ClassOf(ext string) Class {
	ext = normalizeExt(ext)
	if ext == "" {
		return ClassOther
	}
	if class, ok := classByExtension[ext]; ok {
		return class
	}
	kind := filetype.GetType(ext)
	if kind == filetype.Unknown {
		return ClassOther
	}
	switch kind.MIME.Type {
	case "image":
		return ClassPicture
	case "video":
		return ClassVideo
	case "audio":
		return ClassAudio
	}
	if isDocumentMIME(kind.MIME.Value) {
		return ClassDocument
	}
	return ClassOther
}

func isDocumentMIME(mime string) bool {
	switch mime {
	case "application/pdf", "application/rtf", "application/msword",
		"application/vnd.ms-excel", "application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/epub+zip":
		return true
	default:
		return false
	}
}
