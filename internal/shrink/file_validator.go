package shrink

import (
	"fmt"
	"os"
)

// isRegularFile checks that path exists and is a regular file, following symlinks.
func isRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}
	return nil
}
