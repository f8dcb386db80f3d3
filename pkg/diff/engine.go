package diff

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurorakit/resdiff/pkg/format"
	"github.com/aurorakit/resdiff/pkg/game"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
	"github.com/aurorakit/resdiff/pkg/walker"
)

// ErrIncompatibleRoots is returned when the two roots cannot be reconciled
// into any comparison mode. It is the only fatal pairing condition; every
// per-resource failure degrades instead.
var ErrIncompatibleRoots = errors.New("diff: incompatible root types")

// Options configures one comparison run.
type Options struct {
	// Excludes are glob-style patterns matched against identifiers;
	// matching resources are skipped on both sides
	Excludes []string

	// MaxBytecodeDiffLines caps bytecode listing output per verdict;
	// zero selects DefaultBytecodeDiffLines
	MaxBytecodeDiffLines int

	// OnVerdict, when set, is invoked for every verdict as it is
	// produced, before the run finishes
	OnVerdict func(*models.Verdict)
}

// Engine drives a full vanilla-vs-modded comparison: enumeration, pairing,
// per-resource dispatch. It is single threaded; one Run at a time.
type Engine struct {
	opts     Options
	log      logging.Logger
	registry *format.Registry
	walker   *walker.Walker
	report   *models.DiffReport
}

// NewEngine creates an engine with the standard codec registry.
func NewEngine(opts Options, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Engine{
		opts:     opts,
		log:      log,
		registry: format.NewRegistry(),
		walker:   walker.New(log),
	}
}

type rootKind int

const (
	rootFile rootKind = iota
	rootCapsule
	rootDir
	rootInstallation
)

func (k rootKind) String() string {
	switch k {
	case rootFile:
		return "file"
	case rootCapsule:
		return "capsule"
	case rootDir:
		return "directory"
	case rootInstallation:
		return "installation"
	}
	return "unknown"
}

func classifyRoot(root string) (rootKind, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("diff: root %s: %w", root, err)
	}
	if !info.IsDir() {
		if resource.IsCapsule(resource.TypeFromPath(root)) {
			return rootCapsule, nil
		}
		return rootFile, nil
	}
	if game.IsInstallation(root) {
		return rootInstallation, nil
	}
	return rootDir, nil
}

// Run compares two roots and returns the full report. Each root may be a
// loose file, a capsule, a plain directory, or an installation root; the
// stage order below picks the first mode both roots fit.
func (e *Engine) Run(ctx context.Context, vanillaRoot, moddedRoot string) (*models.DiffReport, error) {
	e.report = &models.DiffReport{
		RunID:       uuid.NewString(),
		VanillaRoot: vanillaRoot,
		ModdedRoot:  moddedRoot,
		StartTime:   time.Now(),
	}

	vk, err := classifyRoot(vanillaRoot)
	if err != nil {
		return e.fail(err)
	}
	mk, err := classifyRoot(moddedRoot)
	if err != nil {
		return e.fail(err)
	}

	e.log.Info(ctx, "comparison run started", logging.Fields{
		"run_id":  e.report.RunID,
		"vanilla": fmt.Sprintf("%s (%s)", vanillaRoot, vk),
		"modded":  fmt.Sprintf("%s (%s)", moddedRoot, mk),
	})

	switch {
	case vk == rootInstallation && mk == rootInstallation:
		err = e.compareInstallations(ctx, vanillaRoot, moddedRoot)
	case vk == rootInstallation:
		err = e.compareAgainstInstallation(ctx, vanillaRoot, moddedRoot, mk, true)
	case mk == rootInstallation:
		err = e.compareAgainstInstallation(ctx, moddedRoot, vanillaRoot, vk, false)
	case vk == rootCapsule && mk == rootCapsule:
		err = e.compareCapsuleRoots(ctx, vanillaRoot, moddedRoot)
	case vk == rootDir && mk == rootDir:
		err = e.compareDirs(ctx, vanillaRoot, moddedRoot)
	case vk == rootFile && mk == rootFile:
		err = e.compareFiles(ctx, vanillaRoot, moddedRoot)
	default:
		err = fmt.Errorf("%w: %s vs %s", ErrIncompatibleRoots, vk, mk)
	}
	if err != nil {
		return e.fail(err)
	}

	e.report.Finalize()
	e.log.Info(ctx, "comparison run finished", logging.Fields{
		"run_id":    e.report.RunID,
		"scanned":   e.report.Stats.ResourcesScanned,
		"identical": e.report.Stats.Identical,
		"modified":  e.report.Stats.Modified,
		"missing":   e.report.Stats.MissingInVanilla,
		"removed":   e.report.Stats.RemovedInModded,
		"errors":    e.report.Stats.Errors,
		"status":    string(e.report.Status),
	})
	return e.report, nil
}

func (e *Engine) fail(err error) (*models.DiffReport, error) {
	e.report.EndTime = time.Now()
	e.report.Duration = e.report.EndTime.Sub(e.report.StartTime)
	e.report.Status = models.StatusFailed
	return e.report, err
}

// emit records one verdict into the report.
func (e *Engine) emit(ctx context.Context, v *models.Verdict) {
	e.report.Verdicts = append(e.report.Verdicts, v)
	e.report.Stats.Record(v)
	if e.opts.OnVerdict != nil {
		e.opts.OnVerdict(v)
	}
	if v.Outcome != models.OutcomeIdentical {
		e.log.Debug(ctx, "verdict", logging.Fields{
			"identifier": v.Identifier,
			"outcome":    string(v.Outcome),
			"reason":     v.Reason,
		})
	}
}

// contextFunc builds the comparison context for one pairing; either side
// may be nil for symmetric-difference outcomes.
type contextFunc func(vanilla, modded *resource.Comparable) *models.DiffContext

// comparePaired indexes both streams by key, emits missing/removed
// verdicts for the symmetric difference, and compares the intersection.
// Keys are visited in sorted order so verdict ordering is deterministic.
func (e *Engine) comparePaired(ctx context.Context, vanilla, modded []resource.Comparable, key func(resource.Comparable) string, mk contextFunc) {
	type slot struct {
		vanilla *resource.Comparable
		modded  *resource.Comparable
	}
	index := make(map[string]*slot)
	var keys []string

	add := func(rs []resource.Comparable, assign func(*slot, *resource.Comparable)) {
		for i := range rs {
			if shouldExclude(rs[i].Identifier, e.opts.Excludes) {
				continue
			}
			k := key(rs[i])
			s, ok := index[k]
			if !ok {
				s = &slot{}
				index[k] = s
				keys = append(keys, k)
			}
			assign(s, &rs[i])
		}
	}
	add(vanilla, func(s *slot, r *resource.Comparable) {
		if s.vanilla == nil {
			s.vanilla = r
		}
	})
	add(modded, func(s *slot, r *resource.Comparable) {
		if s.modded == nil {
			s.modded = r
		}
	})
	sort.Strings(keys)

	for _, k := range keys {
		if ctx.Err() != nil {
			return
		}
		s := index[k]
		dctx := mk(s.vanilla, s.modded)
		switch {
		case s.vanilla == nil:
			e.report.Stats.BytesScanned += int64(len(s.modded.Data))
			e.emit(ctx, &models.Verdict{
				Identifier: s.modded.Identifier,
				Kind:       s.modded.Kind,
				Outcome:    models.OutcomeMissingInVanilla,
				Reason:     "present only in modded tree",
				Context:    dctx,
				ModdedData: s.modded.Data,
			})
		case s.modded == nil:
			e.report.Stats.BytesScanned += int64(len(s.vanilla.Data))
			e.emit(ctx, &models.Verdict{
				Identifier: s.vanilla.Identifier,
				Kind:       s.vanilla.Kind,
				Outcome:    models.OutcomeRemovedInModded,
				Reason:     "present only in vanilla tree",
				Context:    dctx,
			})
		default:
			e.report.Stats.BytesScanned += int64(len(s.vanilla.Data) + len(s.modded.Data))
			v := e.compareResource(ctx, dctx, s.vanilla.Data, s.modded.Data)
			if v.Changed() {
				v.ModdedData = s.modded.Data
			}
			e.emit(ctx, v)
		}
	}
}

// pathKey pairs loose files by lowercase relative path.
func pathKey(r resource.Comparable) string {
	return strings.ToLower(r.Identifier)
}

// memberKey pairs in-capsule resources by member name alone, so resources
// pair across differently named containers (a .rim family member against
// its .mod counterpart).
func memberKey(r resource.Comparable) string {
	return strings.ToLower(memberName(r))
}

func memberName(r resource.Comparable) string {
	id := r.Identifier
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

func (e *Engine) compareDirs(ctx context.Context, vanillaRoot, moddedRoot string) error {
	vres, err := e.walker.WalkDir(ctx, vanillaRoot)
	if err != nil {
		return err
	}
	mres, err := e.walker.WalkDir(ctx, moddedRoot)
	if err != nil {
		return err
	}
	e.comparePaired(ctx, vres, mres, pathKey, func(v, m *resource.Comparable) *models.DiffContext {
		dctx := &models.DiffContext{
			VanillaLocation: models.LocationUnknown,
			ModdedLocation:  models.LocationUnknown,
		}
		if v != nil {
			dctx.VanillaPath = v.Identifier
			dctx.Kind = v.Kind
		}
		if m != nil {
			dctx.ModdedPath = m.Identifier
			dctx.Kind = m.Kind
			dctx.ModdedPhysicalPath = filepath.Join(moddedRoot, filepath.FromSlash(m.Identifier))
		}
		return dctx
	})
	return nil
}

func (e *Engine) compareFiles(ctx context.Context, vanillaPath, moddedPath string) error {
	vdata, err := os.ReadFile(vanillaPath)
	if err != nil {
		return fmt.Errorf("diff: read %s: %w", vanillaPath, err)
	}
	mdata, err := os.ReadFile(moddedPath)
	if err != nil {
		return fmt.Errorf("diff: read %s: %w", moddedPath, err)
	}
	dctx := &models.DiffContext{
		VanillaPath:        filepath.Base(vanillaPath),
		ModdedPath:         filepath.Base(moddedPath),
		Kind:               resource.TypeFromPath(moddedPath),
		VanillaLocation:    models.LocationUnknown,
		ModdedLocation:     models.LocationUnknown,
		ModdedPhysicalPath: moddedPath,
	}
	e.report.Stats.BytesScanned += int64(len(vdata) + len(mdata))
	v := e.compareResource(ctx, dctx, vdata, mdata)
	if v.Changed() {
		v.ModdedData = mdata
	}
	e.emit(ctx, v)
	return nil
}

// capsuleLocation tags a capsule by mutability: a .mod can be patched in
// place, anything else is a read-only archive shadowed by a .mod.
func capsuleLocation(path string) models.Location {
	if isModCapsule(path) {
		return models.LocationModuleMod
	}
	return models.LocationModuleReadOnly
}

func isModCapsule(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mod")
}

// compareCapsuleRoots compares two directly-addressed capsules. A side
// expands to its sibling family unless that side is itself a .mod: a .mod
// already subsumes a whole family and stands alone, while a family member
// facing it must be expanded so every member the .mod carries can be
// matched.
func (e *Engine) compareCapsuleRoots(ctx context.Context, vanillaPath, moddedPath string) error {
	vres, err := e.walker.WalkCapsule(vanillaPath, !isModCapsule(vanillaPath))
	if err != nil {
		return fmt.Errorf("diff: load container %s: %w", vanillaPath, err)
	}
	mres, err := e.walker.WalkCapsule(moddedPath, !isModCapsule(moddedPath))
	if err != nil {
		return fmt.Errorf("diff: load container %s: %w", moddedPath, err)
	}
	e.compareCapsuleMembers(ctx, vres, mres,
		capsuleLocation(vanillaPath), capsuleLocation(moddedPath), moddedPath, false)
	return nil
}

// compareCapsuleMembers pairs two member streams by member name.
func (e *Engine) compareCapsuleMembers(ctx context.Context, vres, mres []resource.Comparable, vLoc, mLoc models.Location, moddedPhysical string, skipDev bool) {
	e.comparePaired(ctx, vres, mres, memberKey, func(v, m *resource.Comparable) *models.DiffContext {
		dctx := &models.DiffContext{
			VanillaLocation: vLoc,
			ModdedLocation:  mLoc,
			SkipDevSources:  skipDev,
		}
		if v != nil {
			dctx.VanillaPath = v.Identifier
			dctx.ResourceName = memberName(*v)
			dctx.Kind = v.Kind
		}
		if m != nil {
			dctx.ModdedPath = m.Identifier
			dctx.ResourceName = memberName(*m)
			dctx.Kind = m.Kind
			dctx.ModdedPhysicalPath = moddedPhysical
		}
		return dctx
	})
}

// compareInstallations decomposes a whole-installation comparison into the
// override folders, the union of both sides' module families, and the lip
// sync capsules, in that fixed order.
func (e *Engine) compareInstallations(ctx context.Context, vanillaRoot, moddedRoot string) error {
	vi, err := game.Load(vanillaRoot, e.log)
	if err != nil {
		return err
	}
	mi, err := game.Load(moddedRoot, e.log)
	if err != nil {
		return err
	}

	if err := e.compareOverrides(ctx, vi, mi); err != nil {
		return err
	}
	if err := e.compareModules(ctx, vi, mi); err != nil {
		return err
	}
	e.compareLips(ctx, vi, mi)
	return nil
}

func (e *Engine) compareOverrides(ctx context.Context, vi, mi *game.Installation) error {
	vres, err := e.walkOptionalDir(ctx, vi.OverrideDir())
	if err != nil {
		return err
	}
	mres, err := e.walkOptionalDir(ctx, mi.OverrideDir())
	if err != nil {
		return err
	}
	prefixIdentifiers(vres, "override/")
	prefixIdentifiers(mres, "override/")

	moddedOverride := mi.OverrideDir()
	e.comparePaired(ctx, vres, mres, pathKey, func(v, m *resource.Comparable) *models.DiffContext {
		dctx := &models.DiffContext{
			VanillaLocation: models.LocationOverride,
			ModdedLocation:  models.LocationOverride,
			SkipDevSources:  true,
		}
		if v != nil {
			dctx.VanillaPath = v.Identifier
			dctx.Kind = v.Kind
		}
		if m != nil {
			dctx.ModdedPath = m.Identifier
			dctx.Kind = m.Kind
			rel := strings.TrimPrefix(m.Identifier, "override/")
			dctx.ModdedPhysicalPath = filepath.Join(moddedOverride, filepath.FromSlash(rel))
		}
		return dctx
	})
	return nil
}

func (e *Engine) compareModules(ctx context.Context, vi, mi *game.Installation) error {
	vroots, err := vi.ModuleRoots()
	if err != nil {
		return err
	}
	mroots, err := mi.ModuleRoots()
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var union []string
	for _, r := range append(append([]string{}, vroots...), mroots...) {
		k := strings.ToLower(r)
		if !seen[k] {
			seen[k] = true
			union = append(union, r)
		}
	}
	sort.Slice(union, func(i, j int) bool {
		return strings.ToLower(union[i]) < strings.ToLower(union[j])
	})

	for _, root := range union {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.compareModuleFamily(ctx, vi, mi, root)
	}
	return nil
}

// compareModuleFamily compares one module family across two installations.
// A corrupt family on either side is logged and skipped; a single bad
// module never aborts an installation run.
func (e *Engine) compareModuleFamily(ctx context.Context, vi, mi *game.Installation, root string) {
	vprimary := vi.ModulePrimary(root)
	mprimary := mi.ModulePrimary(root)
	if vprimary == "" && mprimary == "" {
		return
	}

	var vres, mres []resource.Comparable
	var err error
	if vprimary != "" {
		vres, err = e.walker.WalkCapsule(vprimary, !isModCapsule(vprimary))
		if err != nil {
			e.warnModule(ctx, root, vprimary, err)
			return
		}
	}
	if mprimary != "" {
		mres, err = e.walker.WalkCapsule(mprimary, !isModCapsule(mprimary))
		if err != nil {
			e.warnModule(ctx, root, mprimary, err)
			return
		}
	}

	// Installation-scoped identifiers share one folder-prefixed scheme
	// with walker enumeration, so ls output and verdicts name resources
	// identically.
	prefixIdentifiers(vres, "modules/")
	prefixIdentifiers(mres, "modules/")

	vLoc := models.LocationUnknown
	if vprimary != "" {
		vLoc = capsuleLocation(vprimary)
	}
	mLoc := models.LocationUnknown
	if mprimary != "" {
		mLoc = capsuleLocation(mprimary)
	}
	e.compareCapsuleMembers(ctx, vres, mres, vLoc, mLoc, mprimary, true)
}

func (e *Engine) warnModule(ctx context.Context, root, path string, err error) {
	e.report.Warnings = append(e.report.Warnings, models.RunWarning{
		Identifier: root,
		ModdedPath: path,
		Message:    err.Error(),
	})
	e.log.Warn(ctx, "module family skipped", logging.Fields{
		"module": root,
		"path":   path,
		"error":  err.Error(),
	})
}

// compareLips pairs voice-sync capsules by filename and compares each pair
// member by member. Lip capsules have no companion families.
func (e *Engine) compareLips(ctx context.Context, vi, mi *game.Installation) {
	vlips := lipIndex(vi.LipCapsules())
	mlips := lipIndex(mi.LipCapsules())

	var keys []string
	for k := range vlips {
		keys = append(keys, k)
	}
	for k := range mlips {
		if _, ok := vlips[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if ctx.Err() != nil {
			return
		}
		vpath, mpath := vlips[k], mlips[k]

		var vres, mres []resource.Comparable
		var err error
		if vpath != "" {
			if vres, err = e.walker.WalkCapsule(vpath, false); err != nil {
				e.warnModule(ctx, k, vpath, err)
				continue
			}
		}
		if mpath != "" {
			if mres, err = e.walker.WalkCapsule(mpath, false); err != nil {
				e.warnModule(ctx, k, mpath, err)
				continue
			}
		}
		prefixIdentifiers(vres, "lips/")
		prefixIdentifiers(mres, "lips/")
		vLoc := models.LocationUnknown
		if vpath != "" {
			vLoc = capsuleLocation(vpath)
		}
		mLoc := models.LocationUnknown
		if mpath != "" {
			mLoc = capsuleLocation(mpath)
		}
		e.compareCapsuleMembers(ctx, vres, mres, vLoc, mLoc, mpath, true)
	}
}

func lipIndex(paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		out[strings.ToLower(filepath.Base(p))] = p
	}
	return out
}

// compareAgainstInstallation handles the narrower-side-vs-installation
// modes: every resource on the narrow side is resolved through the
// installation's lookup order and compared against what the game would
// actually load.
func (e *Engine) compareAgainstInstallation(ctx context.Context, installRoot, narrowPath string, narrowKind rootKind, installIsVanilla bool) error {
	inst, err := game.Load(installRoot, e.log)
	if err != nil {
		return err
	}

	var nres []resource.Comparable
	switch narrowKind {
	case rootCapsule:
		nres, err = e.walker.WalkCapsule(narrowPath, !isModCapsule(narrowPath))
		if err != nil {
			return fmt.Errorf("diff: load container %s: %w", narrowPath, err)
		}
	case rootDir:
		nres, err = e.walker.WalkDir(ctx, narrowPath)
		if err != nil {
			return err
		}
	case rootFile:
		data, rerr := os.ReadFile(narrowPath)
		if rerr != nil {
			return fmt.Errorf("diff: read %s: %w", narrowPath, rerr)
		}
		nres = []resource.Comparable{{
			Identifier: filepath.Base(narrowPath),
			Kind:       resource.TypeFromPath(narrowPath),
			Data:       data,
		}}
	default:
		return fmt.Errorf("%w: installation vs %s", ErrIncompatibleRoots, narrowKind)
	}

	for i := range nres {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r := &nres[i]
		if shouldExclude(r.Identifier, e.opts.Excludes) {
			continue
		}

		name := memberName(*r)
		ref := resource.NewResRef(strings.TrimSuffix(name, path.Ext(name)))
		trace := &game.Trace{}
		located, lerr := inst.Resource(ref, r.Kind, trace)
		for _, line := range trace.Lines() {
			e.log.Debug(ctx, line, logging.Fields{"identifier": r.Identifier})
		}

		dctx := &models.DiffContext{Kind: r.Kind}
		if r.InContainer() {
			dctx.ResourceName = name
		}
		if installIsVanilla {
			dctx.ModdedPath = r.Identifier
			dctx.ModdedLocation = models.LocationUnknown
			dctx.ModdedPhysicalPath = narrowPath
			if located != nil {
				dctx.VanillaPath = located.Identifier
				dctx.VanillaLocation = located.Location
			}
		} else {
			dctx.VanillaPath = r.Identifier
			dctx.VanillaLocation = models.LocationUnknown
			if located != nil {
				dctx.ModdedPath = located.Identifier
				dctx.ModdedLocation = located.Location
				dctx.ModdedPhysicalPath = located.PhysicalPath
			}
		}

		switch {
		case errors.Is(lerr, game.ErrNotFound):
			outcome := models.OutcomeRemovedInModded
			reason := "absent from modded installation"
			if installIsVanilla {
				outcome = models.OutcomeMissingInVanilla
				reason = "absent from vanilla installation"
			}
			e.report.Stats.BytesScanned += int64(len(r.Data))
			v := &models.Verdict{
				Identifier: r.Identifier,
				Kind:       r.Kind,
				Outcome:    outcome,
				Reason:     reason,
				Context:    dctx,
			}
			if outcome == models.OutcomeMissingInVanilla {
				v.ModdedData = r.Data
			}
			e.emit(ctx, v)
		case lerr != nil:
			e.report.Warnings = append(e.report.Warnings, models.RunWarning{
				Identifier: r.Identifier,
				Message:    lerr.Error(),
			})
			e.emit(ctx, &models.Verdict{
				Identifier: r.Identifier,
				Kind:       r.Kind,
				Outcome:    models.OutcomeError,
				Err:        lerr,
				Reason:     "installation lookup failed",
				Context:    dctx,
			})
		default:
			e.report.Stats.BytesScanned += int64(len(r.Data) + len(located.Data))
			var v *models.Verdict
			if installIsVanilla {
				v = e.compareResource(ctx, dctx, located.Data, r.Data)
				if v.Changed() {
					v.ModdedData = r.Data
				}
			} else {
				v = e.compareResource(ctx, dctx, r.Data, located.Data)
				if v.Changed() {
					v.ModdedData = located.Data
				}
			}
			e.emit(ctx, v)
		}
	}
	return nil
}

func (e *Engine) walkOptionalDir(ctx context.Context, dir string) ([]resource.Comparable, error) {
	if dir == "" {
		return nil, nil
	}
	rs, err := e.walker.WalkDir(ctx, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return rs, err
}

func prefixIdentifiers(rs []resource.Comparable, prefix string) {
	for i := range rs {
		rs[i].Identifier = prefix + rs[i].Identifier
	}
}
