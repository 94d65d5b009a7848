package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WriteFile writes data to path and then forces mode, including on a file
// that already existed with other permissions.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := Chmod(path, mode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return nil
}
