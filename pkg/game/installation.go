// Package game models a game installation: the marker-detected root, its
// resource folders, the engine's resource resolution order, and the
// destination rules patches must follow.
package game

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurorakit/resdiff/pkg/capsule"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// MarkerFile identifies an installation root.
const MarkerFile = "chitin.key"

// ErrNotFound indicates a resource absent from every searched location.
var ErrNotFound = errors.New("game: resource not found")

// Located is a resource annotated with where the resolution order found it.
type Located struct {
	resource.Comparable

	// Location is the resolution-order tag
	Location models.Location

	// PhysicalPath is the concrete file the resource was found at; for
	// in-capsule resources, the capsule path
	PhysicalPath string
}

// Installation is a loaded game installation root.
type Installation struct {
	root string
	log  logging.Logger

	overrideDir string
	modulesDir  string
	lipsDir     string
}

// IsInstallation reports whether root carries the installation marker.
func IsInstallation(root string) bool {
	return findChild(root, MarkerFile) != ""
}

// Load validates the marker and resolves the installation's folders.
// Folder name lookup is case-insensitive; the game ships with mixed casing
// across platforms.
func Load(root string, log logging.Logger) (*Installation, error) {
	if log == nil {
		log = logging.NewNullLogger()
	}
	if !IsInstallation(root) {
		return nil, fmt.Errorf("game: %s: no %s marker", root, MarkerFile)
	}
	inst := &Installation{
		root:        root,
		log:         log,
		overrideDir: findChild(root, "override"),
		modulesDir:  findChild(root, "modules"),
		lipsDir:     findChild(root, "lips"),
	}
	if inst.overrideDir == "" {
		inst.overrideDir = filepath.Join(root, "override")
	}
	if inst.modulesDir == "" {
		inst.modulesDir = filepath.Join(root, "modules")
	}
	return inst, nil
}

// Root returns the installation root path.
func (i *Installation) Root() string { return i.root }

// OverrideDir returns the loose-file override folder path.
func (i *Installation) OverrideDir() string { return i.overrideDir }

// ModulesDir returns the module capsule folder path.
func (i *Installation) ModulesDir() string { return i.modulesDir }

// ModuleRoots returns the distinct module family stems under the modules
// folder, sorted case-insensitively.
func (i *Installation) ModuleRoots() ([]string, error) {
	entries, err := os.ReadDir(i.modulesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("game: list modules: %w", err)
	}

	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !resource.IsCapsule(resource.TypeFromPath(e.Name())) {
			continue
		}
		root := capsule.FamilyRoot(e.Name())
		if _, ok := seen[strings.ToLower(root)]; !ok {
			seen[strings.ToLower(root)] = root
		}
	}

	roots := make([]string, 0, len(seen))
	for _, r := range seen {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(a, b int) bool {
		return strings.ToLower(roots[a]) < strings.ToLower(roots[b])
	})
	return roots, nil
}

// ModulePrimary returns the path family resolution should start from for a
// module stem: the mutable .mod when present, else the first family member
// found. Returns "" when no family file exists on this side.
func (i *Installation) ModulePrimary(moduleRoot string) string {
	for _, suffix := range []string{".mod", ".rim", "_s.rim", "_dlg.erf"} {
		p := findChild(i.modulesDir, moduleRoot+suffix)
		if p != "" {
			return p
		}
	}
	return ""
}

// LipCapsules returns the capsule files under the lip-sync folder.
func (i *Installation) LipCapsules() []string {
	if i.lipsDir == "" {
		return nil
	}
	entries, err := os.ReadDir(i.lipsDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && resource.IsCapsule(resource.TypeFromPath(e.Name())) {
			out = append(out, filepath.Join(i.lipsDir, e.Name()))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return strings.ToLower(out[a]) < strings.ToLower(out[b])
	})
	return out
}

// Resource looks a resource up following the engine's priority order:
// override first, then mutable module capsules, then read-only module
// capsule groups. The base-game bulk archive is never enumerated; a
// resource only present there is reported not found, which matches what a
// patch can target. The trace records each location consulted.
func (i *Installation) Resource(ref resource.ResRef, t resource.Type, trace *Trace) (*Located, error) {
	name := fmt.Sprintf("%s.%s", ref, t)

	if p := findChild(i.overrideDir, name); p != "" {
		trace.Addf("override hit: %s", p)
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("game: read %s: %w", p, err)
		}
		return &Located{
			Comparable:   resource.Comparable{Identifier: name, Kind: t, Data: data},
			Location:     models.LocationOverride,
			PhysicalPath: p,
		}, nil
	}
	trace.Addf("override miss: %s", name)

	roots, err := i.ModuleRoots()
	if err != nil {
		return nil, err
	}

	// Mutable .mod capsules shadow the read-only groups.
	for _, pass := range []struct {
		location models.Location
		match    func(path string) bool
	}{
		{models.LocationModuleMod, func(p string) bool {
			return strings.EqualFold(filepath.Ext(p), ".mod")
		}},
		{models.LocationModuleReadOnly, func(p string) bool {
			return !strings.EqualFold(filepath.Ext(p), ".mod")
		}},
	} {
		for _, moduleRoot := range roots {
			family, err := capsule.ResolveFamily(i.ModulePrimary(moduleRoot))
			if err != nil {
				continue
			}
			for _, memberPath := range family.MemberPaths {
				if !pass.match(memberPath) {
					continue
				}
				c, err := capsule.Open(memberPath)
				if err != nil {
					i.log.Warn(context.Background(), "skipping unreadable capsule",
						logging.Fields{"path": memberPath, "error": err.Error()})
					continue
				}
				if e := c.Find(ref, t); e != nil {
					trace.Addf("%s hit: %s", pass.location, memberPath)
					return &Located{
						Comparable: resource.Comparable{
							Identifier: filepath.Base(memberPath) + "/" + name,
							Kind:       t,
							Data:       e.Data,
						},
						Location:     pass.location,
						PhysicalPath: memberPath,
					}, nil
				}
			}
		}
		trace.Addf("%s miss: %s", pass.location, name)
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// findChild returns the path of a direct child matched case-insensitively,
// or "".
func findChild(dir, name string) string {
	if dir == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}
