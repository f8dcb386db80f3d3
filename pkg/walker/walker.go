// Package walker enumerates every comparable resource reachable from a
// filesystem root: a single loose file, a capsule, a directory tree, or a
// full game installation.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aurorakit/resdiff/pkg/capsule"
	"github.com/aurorakit/resdiff/pkg/game"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// Walker produces uniform resource streams from arbitrary roots.
type Walker struct {
	log logging.Logger
}

// New creates a walker. A nil logger disables walk diagnostics.
func New(log logging.Logger) *Walker {
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Walker{log: log}
}

// Walk dispatches on the root type, first match wins: capsule file, loose
// file, installation root, directory.
func (w *Walker) Walk(ctx context.Context, root string) ([]resource.Comparable, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: stat %s: %w", root, err)
	}

	if !info.IsDir() {
		if resource.IsCapsule(resource.TypeFromPath(root)) {
			return w.WalkCapsule(root, false)
		}
		return w.walkFile(root)
	}

	if game.IsInstallation(root) {
		return w.walkInstallation(ctx, root)
	}

	return w.WalkDir(ctx, root)
}

// WalkCapsule enumerates a capsule's members. With composite set, sibling
// family members aggregate into one namespace: members are additive and
// the first-seen copy of a name wins.
func (w *Walker) WalkCapsule(path string, composite bool) ([]resource.Comparable, error) {
	containerName := filepath.Base(path)

	paths := []string{path}
	if composite {
		family, err := capsule.ResolveFamily(path)
		if err != nil {
			return nil, err
		}
		paths = family.MemberPaths
	}

	seen := make(map[string]bool)
	var out []resource.Comparable
	loaded := 0
	for _, memberPath := range paths {
		c, err := capsule.Open(memberPath)
		if err != nil {
			if !composite || memberPath == path {
				return nil, err
			}
			// A corrupt sibling does not abort family aggregation.
			w.log.Warn(context.Background(), "skipping unreadable family member",
				logging.Fields{"path": memberPath, "error": err.Error()})
			continue
		}
		loaded++
		for _, e := range c.Entries {
			name := strings.ToLower(e.Name())
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, resource.Comparable{
				Identifier: containerName + "/" + e.Name(),
				Kind:       e.Type,
				Data:       e.Data,
			})
		}
	}
	if composite && loaded == 0 {
		return nil, fmt.Errorf("walker: no readable family member for %s", path)
	}

	sortResources(out)
	return out, nil
}

func (w *Walker) walkFile(path string) ([]resource.Comparable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("walker: read %s: %w", path, err)
	}
	return []resource.Comparable{{
		Identifier: filepath.Base(path),
		Kind:       resource.TypeFromPath(path),
		Data:       data,
	}}, nil
}

// WalkDir enumerates all files under a directory; identifiers are
// POSIX-style relative paths.
func (w *Walker) WalkDir(ctx context.Context, root string) ([]resource.Comparable, error) {
	var out []resource.Comparable

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out = append(out, resource.Comparable{
			Identifier: filepath.ToSlash(rel),
			Kind:       resource.TypeFromPath(p),
			Data:       data,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: walk %s: %w", root, err)
	}

	sortResources(out)
	return out, nil
}

// walkInstallation yields override resources first, then every module
// capsule with family resolution applied, then lip-sync capsules. The
// fixed order lets destination resolution apply last-wins semantics for
// identifiers declared in several places.
func (w *Walker) walkInstallation(ctx context.Context, root string) ([]resource.Comparable, error) {
	inst, err := game.Load(root, w.log)
	if err != nil {
		return nil, err
	}

	var out []resource.Comparable

	override, err := w.WalkDir(ctx, inst.OverrideDir())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, r := range override {
		r.Identifier = "override/" + r.Identifier
		out = append(out, r)
	}

	roots, err := inst.ModuleRoots()
	if err != nil {
		return nil, err
	}
	for _, moduleRoot := range roots {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		primary := inst.ModulePrimary(moduleRoot)
		if primary == "" {
			continue
		}
		// A .mod is the aggregated form already; expanding it would let
		// leftover read-only siblings shadow its members.
		composite := !strings.EqualFold(filepath.Ext(primary), ".mod")
		members, err := w.WalkCapsule(primary, composite)
		if err != nil {
			w.log.Warn(ctx, "skipping unreadable module",
				logging.Fields{"module": moduleRoot, "error": err.Error()})
			continue
		}
		for _, r := range members {
			r.Identifier = "modules/" + r.Identifier
			out = append(out, r)
		}
	}

	for _, lipPath := range inst.LipCapsules() {
		members, err := w.WalkCapsule(lipPath, false)
		if err != nil {
			w.log.Warn(ctx, "skipping unreadable lip capsule",
				logging.Fields{"path": lipPath, "error": err.Error()})
			continue
		}
		for _, r := range members {
			r.Identifier = "lips/" + r.Identifier
			out = append(out, r)
		}
	}

	return out, nil
}

// sortResources orders resources by case-insensitive identifier so runs
// over identical inputs enumerate identically.
func sortResources(rs []resource.Comparable) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := strings.ToLower(rs[i].Identifier), strings.ToLower(rs[j].Identifier)
		if a == b {
			return rs[i].Identifier < rs[j].Identifier
		}
		return a < b
	})
}
