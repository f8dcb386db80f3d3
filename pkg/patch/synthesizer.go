package patch

import (
	"context"
	"strings"

	"github.com/aurorakit/resdiff/pkg/format"
	"github.com/aurorakit/resdiff/pkg/game"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// Synthesizer turns a verdict stream into an ordered patch. It owns the
// growing directive list and the install deduplication index for the
// duration of one run; a fresh Synthesizer is needed per run.
type Synthesizer struct {
	log      logging.Logger
	resolver *game.Resolver
	registry *format.Registry

	patch     Patch
	installed map[string]bool
}

// NewSynthesizer creates a synthesizer with the standard codec registry.
func NewSynthesizer(log logging.Logger) *Synthesizer {
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Synthesizer{
		log:       log,
		resolver:  game.NewResolver(log),
		registry:  format.NewRegistry(),
		installed: make(map[string]bool),
	}
}

// Synthesize consumes a finished report and returns the patch. Verdict
// order is preserved, so a deterministic report yields a deterministic
// patch.
func (s *Synthesizer) Synthesize(ctx context.Context, report *models.DiffReport) (*Patch, error) {
	for _, v := range report.Verdicts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		switch v.Outcome {
		case models.OutcomeModified:
			s.synthesizeModified(ctx, v)
		case models.OutcomeMissingInVanilla:
			s.synthesizeMissing(ctx, v)
		}
		// Removed and error outcomes are report-only
	}
	report.Stats.InstallDirectives = len(s.patch.Installs)
	report.Stats.ModifyDirectives = len(s.patch.Modifications)
	return &s.patch, nil
}

// synthesizeModified emits one modification directive for a codec-backed
// kind, or an install directive replacing the whole file when no codec
// covers the kind.
func (s *Synthesizer) synthesizeModified(ctx context.Context, v *models.Verdict) {
	dctx := v.Context
	trace := &game.Trace{}
	// Destination always follows the modded side: the patch targets the
	// layout the patched installation will actually have.
	dest := s.resolver.Destination(dctx.ModdedLocation, dctx.ModdedPhysicalPath, trace)
	s.debugTrace(ctx, v.Identifier, trace)

	family := resource.FamilyOf(v.Kind)
	if _, ok := s.registry.Lookup(family); ok && len(v.Delta) > 0 {
		s.patch.Modifications = append(s.patch.Modifications, &Modification{
			Family:         family,
			Kind:           v.Kind,
			Dest:           dest,
			SourceFilename: sourceFilename(dctx),
			Edits:          v.Delta,
		})
		return
	}

	// Hash-settled or line-settled differences have no edit vocabulary;
	// the whole file is reinstalled.
	s.addInstall(ctx, dest, installName(v), dctx.ModdedPhysicalPath, v.ModdedData)
}

// synthesizeMissing emits a deduplicated install directive and, when a
// codec covers the kind, a fresh-install modification built against an
// empty base so downstream application stays uniform: install, then patch.
func (s *Synthesizer) synthesizeMissing(ctx context.Context, v *models.Verdict) {
	dctx := v.Context
	trace := &game.Trace{}
	dest := s.resolver.Destination(dctx.ModdedLocation, dctx.ModdedPhysicalPath, trace)
	s.debugTrace(ctx, v.Identifier, trace)

	name := installName(v)
	s.addInstall(ctx, dest, name, dctx.ModdedPhysicalPath, v.ModdedData)

	family := resource.FamilyOf(v.Kind)
	codec, ok := s.registry.Lookup(family)
	if !ok {
		return
	}
	moddedValue, err := codec.Parse(v.ModdedData)
	if err != nil {
		s.log.Warn(ctx, "fresh-install modification skipped, content does not parse",
			logging.Fields{"identifier": v.Identifier, "error": err.Error()})
		return
	}
	equal, edits, err := codec.Compare(codec.Empty(), moddedValue)
	if err != nil {
		s.log.Warn(ctx, "fresh-install modification skipped, comparison failed",
			logging.Fields{"identifier": v.Identifier, "error": err.Error()})
		return
	}
	if equal {
		return
	}
	s.patch.Modifications = append(s.patch.Modifications, &Modification{
		Family:         family,
		Kind:           v.Kind,
		Dest:           dest,
		SourceFilename: name,
		Edits:          edits,
		FreshInstall:   true,
	})
}

// addInstall appends an install directive unless one already exists for
// the same case-insensitive (destination, filename) pair.
func (s *Synthesizer) addInstall(ctx context.Context, dest, name, sourcePath string, data []byte) {
	key := strings.ToLower(dest) + "|" + strings.ToLower(name)
	if s.installed[key] {
		s.log.Debug(ctx, "duplicate install suppressed", logging.Fields{
			"destination": dest,
			"filename":    name,
		})
		return
	}
	s.installed[key] = true
	s.patch.Installs = append(s.patch.Installs, &InstallFile{
		Dest:       dest,
		Name:       name,
		SourcePath: sourcePath,
		Data:       data,
	})
}

func (s *Synthesizer) debugTrace(ctx context.Context, identifier string, trace *game.Trace) {
	for _, line := range trace.Lines() {
		s.log.Debug(ctx, line, logging.Fields{"identifier": identifier})
	}
}

// sourceFilename is the vanilla-relative base filename for a modification.
func sourceFilename(dctx *models.DiffContext) string {
	name := dctx.SourceFilename()
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// installName is the filename an install directive places at its
// destination.
func installName(v *models.Verdict) string {
	if v.Context != nil && v.Context.ResourceName != "" {
		return v.Context.ResourceName
	}
	name := v.Identifier
	if v.Context != nil && v.Context.ModdedPath != "" {
		name = v.Context.ModdedPath
	}
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
