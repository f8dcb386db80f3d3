package capsule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// A module is split across sibling capsules sharing a filename stem: the
// base archive plus companion sound and dialog archives. Family resolution
// regroups those siblings so they diff as one logical resource space.

// familySuffixes are the recognized suffix/extension combinations, in the
// fixed aggregation order.
var familySuffixes = []string{".rim", ".mod", "_s.rim", "_dlg.erf"}

// Family is a group of sibling capsules forming one logical namespace.
type Family struct {
	// RootName is the shared filename stem
	RootName string

	// MemberPaths are the existing sibling files in aggregation order
	MemberPaths []string
}

// FamilyRoot computes the shared stem of a capsule filename: the extension
// is stripped, then one companion suffix if present. Matching is
// case-insensitive.
func FamilyRoot(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	lower := strings.ToLower(stem)
	for _, suffix := range []string{"_s", "_dlg"} {
		if strings.HasSuffix(lower, suffix) {
			return stem[:len(stem)-len(suffix)]
		}
	}
	return stem
}

// FamilyFromNames resolves the family of a capsule purely from the file
// list of its directory. The result is independent of name order.
func FamilyFromNames(dir, filename string, names []string) Family {
	root := FamilyRoot(filename)

	// Capsules inside a "rims" holding folder are raw engine fallback
	// files; they never aggregate with siblings.
	if strings.EqualFold(filepath.Base(dir), "rims") {
		return Family{RootName: root, MemberPaths: []string{filepath.Join(dir, filename)}}
	}

	byLower := make(map[string]string, len(names))
	for _, n := range names {
		byLower[strings.ToLower(n)] = n
	}

	f := Family{RootName: root}
	for _, suffix := range familySuffixes {
		want := strings.ToLower(root + suffix)
		if actual, ok := byLower[want]; ok {
			f.MemberPaths = append(f.MemberPaths, filepath.Join(dir, actual))
		}
	}
	if len(f.MemberPaths) == 0 {
		f.MemberPaths = []string{filepath.Join(dir, filename)}
	}
	return f
}

// ResolveFamily resolves the family of a capsule file on disk.
func ResolveFamily(path string) (Family, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Family{}, fmt.Errorf("capsule: list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return FamilyFromNames(dir, filepath.Base(path), names), nil
}
