package diff

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks if an identifier matches any of the given patterns.
// Patterns support:
//   - Simple glob patterns: *.wav, *.tpc
//   - Directory patterns: streamvoice/, movies/
//   - Path patterns: override/*.ncs, **/test/*
func shouldExclude(identifier string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalizedPath := filepath.ToSlash(identifier)
	baseName := filepath.Base(normalizedPath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalizedPattern := filepath.ToSlash(pattern)

		// Directory patterns end with a slash and match any identifier
		// under that directory at any depth
		if strings.HasSuffix(normalizedPattern, "/") {
			dirPattern := strings.TrimSuffix(normalizedPattern, "/")
			if strings.HasPrefix(normalizedPath, dirPattern+"/") ||
				normalizedPath == dirPattern ||
				strings.Contains(normalizedPath, "/"+dirPattern+"/") {
				return true
			}
			continue
		}

		// **/pattern matches the trailing pattern at any depth
		if strings.Contains(normalizedPattern, "**") {
			parts := strings.Split(normalizedPattern, "**/")
			if len(parts) == 2 && parts[0] == "" {
				suffix := parts[1]
				if matchGlob(baseName, suffix) {
					return true
				}
				if strings.HasSuffix(normalizedPath, "/"+suffix) || normalizedPath == suffix {
					return true
				}
			}
			continue
		}

		if strings.Contains(normalizedPattern, "/") {
			// Pattern applies to the full identifier
			matched, _ := filepath.Match(normalizedPattern, normalizedPath)
			if matched {
				return true
			}
			if strings.HasSuffix(normalizedPath, normalizedPattern) {
				return true
			}
		} else {
			// Pattern applies to the basename only
			if matchGlob(baseName, normalizedPattern) {
				return true
			}
		}
	}

	return false
}

func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}
