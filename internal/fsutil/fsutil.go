// Package fsutil replaces files on disk without losing symlinks or modes.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ReplaceFile writes data to path through a temporary file and a rename.
// Symlinks are followed so the link target is updated, not the link. The
// existing file mode is kept; defaultMode applies to new files. When the
// target cannot be renamed over (bind mounts, other devices) the file is
// rewritten in place.
func ReplaceFile(path string, data []byte, defaultMode fs.FileMode) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	mode := defaultMode
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	// Write to temporary file first
	tempPath := target + ".tmp"
	if err := os.WriteFile(tempPath, data, mode); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Atomic rename
	err := os.Rename(tempPath, target)
	if err == nil {
		return nil
	}
	os.Remove(tempPath) // Clean up temp file

	if errors.Is(err, syscall.EXDEV) || errors.Is(err, syscall.EBUSY) {
		if err := os.WriteFile(target, data, mode); err != nil {
			return fmt.Errorf("failed to write file in place: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to rename temp file: %w", err)
}
