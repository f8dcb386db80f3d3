package patch

import (
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// Directive is one patch instruction. Concrete types are InstallFile and
// Modification.
type Directive interface {
	// Destination returns the folder token the directive targets
	Destination() string

	// Filename returns the file the directive installs or patches
	Filename() string
}

// InstallFile installs a brand-new file into a destination folder. At
// most one InstallFile exists per case-insensitive (destination, filename)
// pair within a patch.
type InstallFile struct {
	// Dest is the destination folder token, e.g. "override" or
	// "modules/danm13.mod"
	Dest string

	// Name is the installed filename
	Name string

	// SourcePath is the modded-side physical path the content came from;
	// for in-capsule resources this is the capsule path
	SourcePath string

	// Data is the content to install
	Data []byte
}

func (f *InstallFile) Destination() string { return f.Dest }
func (f *InstallFile) Filename() string    { return f.Name }

// Modification patches an existing (or freshly installed) file with a
// list of located edits. The edit vocabulary is family specific: field
// paths for structured resources, row/column for tabular, index/field for
// string tables, slot names for sound sets.
type Modification struct {
	// Family selects the edit vocabulary
	Family resource.Family

	// Kind is the resource type being patched
	Kind resource.Type

	// Dest is the destination folder token
	Dest string

	// SourceFilename is the vanilla-relative filename used as the patch
	// base
	SourceFilename string

	// Edits are the located differences to apply
	Edits []models.DeltaEntry

	// FreshInstall marks a modification synthesized against an empty
	// base, paired with the InstallFile that provides the base
	FreshInstall bool
}

func (m *Modification) Destination() string { return m.Dest }
func (m *Modification) Filename() string    { return m.SourceFilename }

// Patch is the ordered, deduplicated output of one synthesis pass.
type Patch struct {
	// Installs in synthesis order, at most one per (destination, filename)
	Installs []*InstallFile

	// Modifications in synthesis order
	Modifications []*Modification
}

// ByFamily returns the modifications of one family, preserving order.
func (p *Patch) ByFamily(f resource.Family) []*Modification {
	var out []*Modification
	for _, m := range p.Modifications {
		if m.Family == f {
			out = append(out, m)
		}
	}
	return out
}

// Empty reports whether the patch carries no directives.
func (p *Patch) Empty() bool {
	return len(p.Installs) == 0 && len(p.Modifications) == 0
}

// Apply streams the patch into a writer: installs first, then
// modifications, each in synthesis order.
func (p *Patch) Apply(w Writer) error {
	for _, f := range p.Installs {
		if err := w.AddInstallFile(f); err != nil {
			return err
		}
	}
	for _, m := range p.Modifications {
		if err := w.WriteModification(m); err != nil {
			return err
		}
	}
	return nil
}
