package metadata_test

import (
	"errors"
	"testing"
	"time"

	"dcimsort/internal/logging"
	"dcimsort/internal/media"
	"dcimsort/internal/metadata"
)

type stubExtractor struct {
	name      string
	priority  int
	container metadata.Container
	meta      media.Metadata
	err       error
	calls     int
}

func (s *stubExtractor) Name() string  { return s.name }
func (s *stubExtractor) Priority() int { return s.priority }
func (s *stubExtractor) Supports(c metadata.Container, ft media.FileType) bool {
	return c == s.container && ft.Supported()
}
func (s *stubExtractor) Extract(string) (media.Metadata, error) {
	s.calls++
	return s.meta, s.err
}

func TestEnrichMergesContainersExifFirst(t *testing.T) {
	created := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	exifBackend := &stubExtractor{name: "exif", priority: 10, container: metadata.ContainerExif,
		meta: media.Metadata{Make: "Canon", CreatedAt: created}}
	xmpBackend := &stubExtractor{name: "xmp", priority: 10, container: metadata.ContainerXMP,
		meta: media.Metadata{Make: "Ignored", Model: "R5"}}

	p := metadata.NewProcessor(logging.NewNop(), xmpBackend, exifBackend)
	got := p.Enrich(media.NewFile("/in/a.jpg", 1, time.Time{})).Metadata()

	if got.Make != "Canon" || got.Model != "R5" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected merge %+v", got)
	}
}

func TestEnrichFallsBackByPriority(t *testing.T) {
	high := &stubExtractor{name: "high", priority: 90, container: metadata.ContainerExif, err: errors.New("broken")}
	low := &stubExtractor{name: "low", priority: 10, container: metadata.ContainerExif, meta: media.Metadata{Model: "X100"}}
	lowest := &stubExtractor{name: "lowest", priority: 1, container: metadata.ContainerExif, meta: media.Metadata{Model: "never"}}

	p := metadata.NewProcessor(logging.NewNop(), lowest, low, high)
	got := p.Enrich(media.NewFile("/in/a.heic", 1, time.Time{})).Metadata()

	if got.Model != "X100" {
		t.Fatalf("model = %q", got.Model)
	}
	if high.calls != 1 || low.calls != 1 || lowest.calls != 0 {
		t.Fatalf("calls high=%d low=%d lowest=%d", high.calls, low.calls, lowest.calls)
	}
}

func TestEnrichFailuresLeaveEmptyMetadata(t *testing.T) {
	broken := &stubExtractor{name: "broken", container: metadata.ContainerExif, err: metadata.ErrNoMetadata}
	p := metadata.NewProcessor(logging.NewNop(), broken)

	got := p.Enrich(media.NewFile("/in/a.png", 1, time.Time{}))
	if !got.Enriched() || !got.Metadata().IsZero() {
		t.Fatalf("expected enriched empty metadata, got %+v", got.Metadata())
	}
}

func TestEnrichSkipsOtherTypesAndEnrichedFiles(t *testing.T) {
	backend := &stubExtractor{name: "exif", container: metadata.ContainerExif, meta: media.Metadata{Make: "Sony"}}
	p := metadata.NewProcessor(logging.NewNop(), backend)

	p.Enrich(media.NewFile("/in/movie.mov", 1, time.Time{}))
	if backend.calls != 0 {
		t.Fatal("other file types should not be inspected")
	}

	done := media.NewFile("/in/a.jpg", 1, time.Time{}).WithMetadata(media.Metadata{Make: "Fuji"})
	if got := p.Enrich(done); got.Metadata().Make != "Fuji" || backend.calls != 0 {
		t.Fatal("already enriched file was processed again")
	}
}
