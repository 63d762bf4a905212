package metadata

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"dcimsort/internal/media"
)

// screenshotComment is the UserComment value phones write into screenshots.
const screenshotComment = "Screenshot"

// ExifExtractor reads EXIF blocks through goexif.
type ExifExtractor struct {
	priority int
}

func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{priority: 100}
}

func (e *ExifExtractor) Name() string { return "goexif" }

func (e *ExifExtractor) Priority() int { return e.priority }

func (e *ExifExtractor) Supports(container Container, fileType media.FileType) bool {
	return container == ContainerExif && fileType.Supported()
}

func (e *ExifExtractor) Extract(path string) (media.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil {
		return media.Metadata{}, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	if err != nil && exif.IsCriticalError(err) {
		return media.Metadata{}, fmt.Errorf("decode exif: %w", err)
	}

	var meta media.Metadata
	if created, err := x.DateTime(); err == nil {
		meta.CreatedAt = created
	}
	meta.Make = exifString(x, exif.Make)
	meta.Model = exifString(x, exif.Model)
	if tag, err := x.Get(exif.UserComment); err == nil {
		meta.Comment = userComment(tag)
	}
	meta.Screenshot = meta.Comment == screenshotComment
	if meta.IsZero() {
		return meta, ErrNoMetadata
	}
	return meta, nil
}

func exifString(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// userComment strips the 8-byte character code prefix of an EXIF UserComment.
func userComment(tag *tiff.Tag) string {
	if len(tag.Val) <= 8 {
		return ""
	}
	body := bytes.TrimRight(tag.Val[8:], "\x00")
	return strings.TrimSpace(string(body))
}
