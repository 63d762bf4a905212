// Package scanner walks the source tree and produces media.File records.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"dcimsort/internal/logging"
	"dcimsort/internal/media"
)

// sniffHeaderSize covers every signature the filetype matchers inspect.
const sniffHeaderSize = 261

// DefaultMaxDepth bounds directory recursion when Options.MaxDepth is unset.
const DefaultMaxDepth = 10

// Options controls traversal and classification.
type Options struct {
	MaxDepth      int
	IgnoreUnknown bool
	SniffContent  bool
	Logger        *slog.Logger
}

// Scanner discovers files below a root.
type Scanner struct {
	fs     afero.Fs
	opts   Options
	logger *slog.Logger
}

// New returns a scanner over fs. A nil fs selects the OS filesystem.
func New(fs afero.Fs, opts Options) *Scanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Scanner{
		fs:     fs,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "scanner"),
	}
}

// Walk calls fn for every admitted file below root in lexical order. Root
// may name a single file. Walking stops when ctx is cancelled or fn returns
// an error.
func (s *Scanner) Walk(ctx context.Context, root string, fn func(media.File) error) error {
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", root, err)
		}
		root = abs
	}
	root = filepath.Clean(root)
	if _, err := s.fs.Stat(root); err != nil {
		return fmt.Errorf("scan root %s: %w", root, err)
	}

	return afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			logging.WarnWithContext(s.logger, "unreadable path skipped", "scan_error",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the source tree"),
			)
			return nil
		}

		depth := depthOf(root, path)
		if info.IsDir() {
			if path != root && depth >= s.opts.MaxDepth {
				s.logger.Debug("max depth reached", logging.String("directory", path), logging.Int("depth", depth))
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		file, ok := s.classify(path, info)
		if !ok {
			return nil
		}
		return fn(file)
	})
}

// Scan collects every admitted file below root.
func (s *Scanner) Scan(ctx context.Context, root string) ([]media.File, error) {
	var files []media.File
	err := s.Walk(ctx, root, func(file media.File) error {
		files = append(files, file)
		return nil
	})
	return files, err
}

func (s *Scanner) classify(path string, info os.FileInfo) (media.File, bool) {
	file := media.NewFile(path, info.Size(), info.ModTime())
	if file.Type == media.FileTypeOther && s.opts.SniffContent {
		sniffed, err := s.sniff(path)
		if err != nil {
			s.logger.Debug("content sniffing failed", logging.String(logging.FieldFile, path), logging.Error(err))
		} else {
			file.Type = sniffed
		}
	}
	if file.Type == media.FileTypeOther && s.opts.IgnoreUnknown {
		s.logger.Debug("unknown file ignored", logging.String(logging.FieldFile, path))
		return media.File{}, false
	}
	return file, true
}

func (s *Scanner) sniff(path string) (media.FileType, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return media.FileTypeOther, err
	}
	defer f.Close()

	head := make([]byte, sniffHeaderSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return media.FileTypeOther, err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return media.FileTypeOther, err
	}
	return media.FileTypeFromMIME(kind.MIME.Value), nil
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
