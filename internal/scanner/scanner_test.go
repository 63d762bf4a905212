package scanner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"dcimsort/internal/logging"
	"dcimsort/internal/media"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
)

func newFs(t *testing.T, files map[string][]byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, data := range files {
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func paths(files []media.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestScanRespectsMaxDepth(t *testing.T) {
	fs := newFs(t, map[string][]byte{
		"/in/a.jpg":         []byte("a"),
		"/in/one/b.jpg":     []byte("b"),
		"/in/one/two/c.jpg": []byte("c"),
	})
	s := New(fs, Options{MaxDepth: 2, Logger: logging.NewNop()})

	files, err := s.Scan(context.Background(), "/in")
	if err != nil {
		t.Fatal(err)
	}
	got := paths(files)
	if len(got) != 2 || got[0] != "/in/a.jpg" || got[1] != "/in/one/b.jpg" {
		t.Fatalf("files = %v", got)
	}
}

func TestScanDefaultDepth(t *testing.T) {
	s := New(afero.NewMemMapFs(), Options{})
	if s.opts.MaxDepth != DefaultMaxDepth {
		t.Fatalf("max depth = %d", s.opts.MaxDepth)
	}
}

func TestScanClassifiesAndIgnoresUnknown(t *testing.T) {
	fs := newFs(t, map[string][]byte{
		"/in/IMG.JPG":    []byte("x"),
		"/in/shot.png":   []byte("x"),
		"/in/notes.txt":  []byte("hello"),
		"/in/clip.mov":   []byte("x"),
		"/in/photo.heic": []byte("x"),
	})

	all, err := New(fs, Options{}).Scan(context.Background(), "/in")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("files = %v", paths(all))
	}

	known, err := New(fs, Options{IgnoreUnknown: true}).Scan(context.Background(), "/in")
	if err != nil {
		t.Fatal(err)
	}
	if len(known) != 3 {
		t.Fatalf("known files = %v", paths(known))
	}
	for _, f := range known {
		if !f.Type.Supported() {
			t.Fatalf("unsupported file admitted: %s (%s)", f.Path, f.Type)
		}
	}
}

func TestScanSniffsContent(t *testing.T) {
	fs := newFs(t, map[string][]byte{
		"/in/DSC0001":  jpegMagic,
		"/in/capture":  pngMagic,
		"/in/notes.db": []byte("plain"),
	})

	files, err := New(fs, Options{SniffContent: true, IgnoreUnknown: true}).Scan(context.Background(), "/in")
	if err != nil {
		t.Fatal(err)
	}
	types := map[string]media.FileType{}
	for _, f := range files {
		types[f.Name()] = f.Type
	}
	if len(types) != 2 || types["DSC0001"] != media.FileTypeJPEG || types["capture"] != media.FileTypePNG {
		t.Fatalf("sniffed types = %v", types)
	}

	plain, err := New(fs, Options{IgnoreUnknown: true}).Scan(context.Background(), "/in")
	if err != nil {
		t.Fatal(err)
	}
	if len(plain) != 0 {
		t.Fatalf("without sniffing nothing should be admitted, got %v", paths(plain))
	}
}

func TestScanSingleFileRoot(t *testing.T) {
	fs := newFs(t, map[string][]byte{"/in/a.jpg": []byte("a")})
	files, err := New(fs, Options{}).Scan(context.Background(), "/in/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Type != media.FileTypeJPEG || files[0].Size != 1 {
		t.Fatalf("files = %+v", files)
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := New(afero.NewMemMapFs(), Options{}).Scan(context.Background(), "/nope"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkStopsOnCancel(t *testing.T) {
	fs := newFs(t, map[string][]byte{"/in/a.jpg": nil, "/in/b.jpg": nil, "/in/c.jpg": nil})
	ctx, cancel := context.WithCancel(context.Background())

	seen := 0
	err := New(fs, Options{}).Walk(ctx, "/in", func(media.File) error {
		seen++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if seen != 1 {
		t.Fatalf("seen = %d, want 1", seen)
	}
}
