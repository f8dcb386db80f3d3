// Package platform smooths over filesystem differences between the
// platforms game installations live on, chiefly Windows path rules.
package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a path while preserving Windows UNC prefixes,
// which filepath.Clean would collapse.
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)
	if runtime.GOOS == "windows" &&
		strings.HasPrefix(path, `\\`) && !strings.HasPrefix(normalized, `\\`) {
		normalized = `\\` + normalized
	}
	return normalized
}

// IsUNCPath reports whether a path names a Windows network share.
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// windowsInvalidChars are rejected in Windows paths. Colons are allowed;
// drive letters carry them legitimately.
const windowsInvalidChars = `<>"|?*`

// ValidatePath rejects paths the current platform cannot address.
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}
	if runtime.GOOS == "windows" && !IsUNCPath(path) {
		if i := strings.IndexAny(path, windowsInvalidChars); i >= 0 {
			return &PathError{Path: path,
				Message: fmt.Sprintf("path contains invalid character %q", path[i])}
		}
	}
	return nil
}

// PathError reports a path that failed validation.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Message)
}
