package sorting

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const compareChunkSize = 64 << 10

// HashAlgorithm selects how size-equal files are compared.
type HashAlgorithm int

const (
	// HashNone treats size-equal files as different without reading them.
	HashNone HashAlgorithm = iota
	HashMD5
	HashSHA256
	HashXXH64
)

// ParseHashAlgorithm maps a configuration value to a HashAlgorithm.
func ParseHashAlgorithm(value string) (HashAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return HashNone, nil
	case "md5":
		return HashMD5, nil
	case "sha256", "sha-256":
		return HashSHA256, nil
	case "xxhash", "xxh64":
		return HashXXH64, nil
	default:
		return HashNone, fmt.Errorf("unknown hash algorithm %q", value)
	}
}

func (h HashAlgorithm) String() string {
	switch h {
	case HashMD5:
		return "md5"
	case HashSHA256:
		return "sha256"
	case HashXXH64:
		return "xxhash"
	default:
		return "none"
	}
}

func (h HashAlgorithm) newHash() hash.Hash {
	switch h {
	case HashMD5:
		return md5.New()
	case HashSHA256:
		return sha256.New()
	case HashXXH64:
		return xxhash.New()
	default:
		return nil
	}
}

// Comparer decides whether two files hold identical content.
type Comparer struct {
	algorithm HashAlgorithm
	chunkSize int
}

func NewComparer(algorithm HashAlgorithm) *Comparer {
	return &Comparer{algorithm: algorithm, chunkSize: compareChunkSize}
}

func (c *Comparer) Algorithm() HashAlgorithm { return c.algorithm }

// Matches reports whether source and target have identical content. Files
// of different size never match and are not read.
func (c *Comparer) Matches(source, target string) (bool, error) {
	srcInfo, err := statRegular(source, SideSource)
	if err != nil {
		return false, err
	}
	dstInfo, err := statRegular(target, SideTarget)
	if err != nil {
		return false, err
	}
	if srcInfo.Size() != dstInfo.Size() {
		return false, nil
	}
	if c.algorithm == HashNone {
		return false, nil
	}

	srcSum, err := c.digest(source, SideSource)
	if err != nil {
		return false, err
	}
	dstSum, err := c.digest(target, SideTarget)
	if err != nil {
		return false, err
	}
	return bytes.Equal(srcSum, dstSum), nil
}

func (c *Comparer) digest(path string, side Side) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classify(err, side, path, ComparisonOther)
	}
	defer f.Close()

	h := c.algorithm.newHash()
	buf := make([]byte, c.chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classify(err, side, path, ComparisonOther)
		}
	}
	return h.Sum(nil), nil
}

func statRegular(path string, side Side) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ComparisonError{Kind: ComparisonInvalidFile, Side: side, Path: path, Err: err}
		}
		return nil, classify(err, side, path, ComparisonMetadata)
	}
	if !info.Mode().IsRegular() {
		return nil, &ComparisonError{Kind: ComparisonInvalidFile, Side: side, Path: path, Err: ErrNotRegular}
	}
	return info, nil
}

func classify(err error, side Side, path string, fallback ComparisonKind) error {
	kind := fallback
	if errors.Is(err, fs.ErrPermission) {
		kind = ComparisonAccessDenied
	}
	return &ComparisonError{Kind: kind, Side: side, Path: path, Err: err}
}
