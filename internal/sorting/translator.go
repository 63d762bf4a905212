package sorting

import (
	"fmt"
	"path/filepath"

	"dcimsort/internal/config"
	"dcimsort/internal/media"
	"dcimsort/internal/pattern"
)

// Translator maps a file to its target directory.
type Translator struct {
	supported []pattern.Segment
	fallback  []pattern.Segment
}

func NewTranslator(supported, fallback []pattern.Segment) *Translator {
	return &Translator{supported: supported, fallback: fallback}
}

// NewTranslatorFromLayout builds the segment lists from configuration.
func NewTranslatorFromLayout(layout config.Layout) (*Translator, error) {
	supported, err := pattern.BuildList(layout.Supported)
	if err != nil {
		return nil, fmt.Errorf("supported layout: %w", err)
	}
	fallback, err := pattern.BuildList(layout.Fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback layout: %w", err)
	}
	return NewTranslator(supported, fallback), nil
}

// Segments returns the list applied to files of the given type.
func (t *Translator) Segments(fileType media.FileType) []pattern.Segment {
	if fileType.Supported() {
		return t.supported
	}
	return t.fallback
}

// Translate joins root with every component the segments contribute.
func (t *Translator) Translate(file media.File, root string) string {
	segments := t.Segments(file.Type)
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, root)
	for _, segment := range segments {
		if component, ok := segment.Translate(file); ok && component != "" {
			parts = append(parts, component)
		}
	}
	return filepath.Join(parts...)
}
