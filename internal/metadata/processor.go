package metadata

import (
	"errors"
	"log/slog"
	"sort"

	"dcimsort/internal/logging"
	"dcimsort/internal/media"
)

// Container identifies where metadata lives inside a file.
type Container int

const (
	ContainerExif Container = iota
	ContainerXMP
)

func (c Container) String() string {
	switch c {
	case ContainerExif:
		return "exif"
	case ContainerXMP:
		return "xmp"
	default:
		return "unknown"
	}
}

// ErrNoMetadata reports that a file carried no readable fields for a container.
var ErrNoMetadata = errors.New("no metadata found")

// Extractor reads one metadata container from files on disk.
type Extractor interface {
	Name() string
	Priority() int
	Supports(container Container, fileType media.FileType) bool
	Extract(path string) (media.Metadata, error)
}

// ContainersFor lists the containers inspected for a file type, in merge order.
func ContainersFor(fileType media.FileType) []Container {
	if !fileType.Supported() {
		return nil
	}
	return []Container{ContainerExif, ContainerXMP}
}

// Processor runs extractors against files.
type Processor struct {
	extractors []Extractor
	logger     *slog.Logger
}

// NewProcessor returns a processor trying extractors by descending priority.
func NewProcessor(logger *slog.Logger, extractors ...Extractor) *Processor {
	ordered := append([]Extractor(nil), extractors...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})
	return &Processor{
		extractors: ordered,
		logger:     logging.NewComponentLogger(logger, "metadata"),
	}
}

// NewDefaultProcessor wires the EXIF and XMP backends.
func NewDefaultProcessor(logger *slog.Logger) *Processor {
	return NewProcessor(logger, NewExifExtractor(), NewXMPExtractor())
}

// Enrich returns file with its metadata attached. Files already enriched
// are returned unchanged.
func (p *Processor) Enrich(file media.File) media.File {
	if file.Enriched() {
		return file
	}
	var merged media.Metadata
	for _, container := range ContainersFor(file.Type) {
		meta, ok := p.extract(container, file)
		if ok {
			merged = merged.Merge(meta)
		}
	}
	return file.WithMetadata(merged)
}

func (p *Processor) extract(container Container, file media.File) (media.Metadata, bool) {
	for _, extractor := range p.extractors {
		if !extractor.Supports(container, file.Type) {
			continue
		}
		meta, err := extractor.Extract(file.Path)
		if err == nil {
			return meta, true
		}
		if !errors.Is(err, ErrNoMetadata) {
			p.logger.Debug("metadata extraction failed",
				logging.String(logging.FieldFile, file.Path),
				logging.String("extractor", extractor.Name()),
				logging.String("container", container.String()),
				logging.Error(err),
			)
		}
	}
	return media.Metadata{}, false
}
