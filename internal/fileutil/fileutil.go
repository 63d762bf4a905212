// Package fileutil holds small filesystem helpers shared by the sorter and
// the CLI.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile streams src to dst, keeping the source permissions and
// modification time. It returns the number of bytes written.
func CopyFile(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	written, err := CopyFileMode(src, dst, info.Mode().Perm())
	if err != nil {
		return written, err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return written, fmt.Errorf("preserve modification time: %w", err)
	}
	return written, nil
}

// CopyFileMode streams src to dst, setting the given file mode on dst. The
// data goes to a temporary file next to dst that is renamed into place, so
// an existing dst survives a failed copy.
func CopyFileMode(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, err
	}
	tmp := out.Name()
	fail := func(written int64, err error) (int64, error) {
		_ = out.Close()
		_ = os.Remove(tmp)
		return written, err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		return fail(written, err)
	}
	if err := out.Chmod(mode); err != nil {
		return fail(written, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return written, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return written, err
	}
	return written, nil
}

// SameFile reports whether a and b resolve to the same file on disk.
func SameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// IsRegularFile reports whether path names an existing regular file.
// Symlinks are followed.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Exists reports whether anything exists at path without following a
// final symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
