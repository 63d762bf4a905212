//go:build unix

package sorting

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func renameFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err != nil && errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("%w: %w", ErrCrossDevice, err)
	}
	return err
}
