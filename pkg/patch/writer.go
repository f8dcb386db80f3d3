package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurorakit/resdiff/pkg/logging"
)

// Writer receives directives incrementally, in the order the synthesizer
// produced them, and persists them. Close flushes any buffered state.
type Writer interface {
	// AddInstallFile is called once per deduplicated install directive
	// and is responsible for the byte copy
	AddInstallFile(f *InstallFile) error

	// WriteModification is called once per modification directive
	WriteModification(m *Modification) error

	// Close finalizes the persisted patch
	Close() error
}

// DirWriter materializes a patch as a staging directory: install payloads
// land under destination-shaped subfolders, and a changes manifest lists
// every directive in order so the patch is reviewable as plain text.
type DirWriter struct {
	dir      string
	log      logging.Logger
	manifest strings.Builder
	closed   bool
}

// NewDirWriter creates the staging directory and an empty manifest.
func NewDirWriter(dir string, log logging.Logger) (*DirWriter, error) {
	if log == nil {
		log = logging.NewNullLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("patch: create staging dir: %w", err)
	}
	return &DirWriter{dir: dir, log: log}, nil
}

func (w *DirWriter) AddInstallFile(f *InstallFile) error {
	// Destination tokens use forward slashes regardless of platform
	destDir := filepath.Join(w.dir, filepath.FromSlash(f.Dest))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("patch: create %s: %w", destDir, err)
	}
	target := filepath.Join(destDir, f.Name)
	if err := os.WriteFile(target, f.Data, 0o644); err != nil {
		return fmt.Errorf("patch: write %s: %w", target, err)
	}

	fmt.Fprintf(&w.manifest, "install %s -> %s\n", f.Name, f.Dest)
	return nil
}

func (w *DirWriter) WriteModification(m *Modification) error {
	header := "modify"
	if m.FreshInstall {
		header = "modify-fresh"
	}
	fmt.Fprintf(&w.manifest, "%s %s [%s] -> %s (%d edits)\n",
		header, m.SourceFilename, m.Family, m.Dest, len(m.Edits))
	for _, e := range m.Edits {
		fmt.Fprintf(&w.manifest, "  %s: %q -> %q\n", e.Path, e.Old, e.New)
	}
	return nil
}

// Close writes the manifest. Further writes after Close are an error.
func (w *DirWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	target := filepath.Join(w.dir, "changes.txt")
	if err := os.WriteFile(target, []byte(w.manifest.String()), 0o644); err != nil {
		return fmt.Errorf("patch: write manifest: %w", err)
	}
	return nil
}
