//go:build !unix

package sorting

import "os"

func renameFile(src, dst string) error {
	return os.Rename(src, dst)
}
