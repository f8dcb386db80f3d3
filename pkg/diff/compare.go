package diff

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/zeebo/xxh3"

	"github.com/aurorakit/resdiff/pkg/format/ncs"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// printableThreshold is the minimum printable-ASCII ratio for the text
// heuristic to treat undeclared content as text.
const printableThreshold = 0.70

// DefaultBytecodeDiffLines caps how many bytecode listing differences a
// verdict reports; the remainder is summarized as a count.
const DefaultBytecodeDiffLines = 16

// compareResource produces exactly one verdict for a pairing where both
// sides exist. Dispatch follows a fixed priority: registered structural
// codec, bytecode listing, known-binary hashing with a size short-circuit
// for bulk assets, then the text heuristic, then hashing.
func (e *Engine) compareResource(ctx context.Context, dctx *models.DiffContext, vanilla, modded []byte) *models.Verdict {
	v := &models.Verdict{
		Identifier: dctx.ModdedPath,
		Kind:       dctx.Kind,
		Context:    dctx,
	}

	if dctx.SkipDevSources && resource.IsDevSource(dctx.Kind) {
		v.Outcome = models.OutcomeIdentical
		v.Reason = "developer source skipped"
		return v
	}

	// One empty side is ambiguous: a legitimately empty resource and an
	// unreadable one are indistinguishable.
	if (len(vanilla) == 0) != (len(modded) == 0) {
		v.Outcome = models.OutcomeError
		v.Err = fmt.Errorf("ambiguous empty data: vanilla %d bytes, modded %d bytes",
			len(vanilla), len(modded))
		v.Reason = "one side is empty"
		return v
	}

	family := resource.FamilyOf(dctx.Kind)

	if codec, ok := e.registry.Lookup(family); ok {
		vanillaValue, vErr := codec.Parse(vanilla)
		moddedValue, mErr := codec.Parse(modded)
		if vErr != nil || mErr != nil {
			// A parse failure never aborts the pairing; comparison
			// degrades to content hashing with a warning.
			e.warn(ctx, dctx, firstError(vErr, mErr))
			return e.compareHash(dctx, v, vanilla, modded)
		}
		equal, deltas, err := codec.Compare(vanillaValue, moddedValue)
		if err != nil {
			e.warn(ctx, dctx, err)
			return e.compareHash(dctx, v, vanilla, modded)
		}
		if equal {
			v.Outcome = models.OutcomeIdentical
			v.Reason = fmt.Sprintf("%s comparison: equal", codec.Name())
		} else {
			v.Outcome = models.OutcomeModified
			v.Delta = deltas
			v.Reason = fmt.Sprintf("%s comparison: %d differences", codec.Name(), len(deltas))
		}
		return v
	}

	switch family {
	case resource.FamilyBytecode:
		return e.compareBytecode(ctx, dctx, v, vanilla, modded)
	case resource.FamilyLargeBinary:
		if len(vanilla) != len(modded) {
			v.Outcome = models.OutcomeModified
			v.Reason = fmt.Sprintf("sizes differ: %d vs %d bytes", len(vanilla), len(modded))
			return v
		}
		return e.compareHash(dctx, v, vanilla, modded)
	case resource.FamilyBinary:
		return e.compareHash(dctx, v, vanilla, modded)
	}

	if looksLikeText(vanilla) && looksLikeText(modded) {
		return e.compareText(dctx, v, vanilla, modded)
	}
	return e.compareHash(dctx, v, vanilla, modded)
}

// compareHash settles a pairing by content hash. The degraded path must
// agree with a direct byte comparison in both directions.
func (e *Engine) compareHash(dctx *models.DiffContext, v *models.Verdict, vanilla, modded []byte) *models.Verdict {
	vanillaHash := xxh3.Hash128(vanilla)
	moddedHash := xxh3.Hash128(modded)
	if vanillaHash == moddedHash && bytes.Equal(vanilla, modded) {
		v.Outcome = models.OutcomeIdentical
		v.Reason = "content hashes match"
	} else {
		v.Outcome = models.OutcomeModified
		v.Reason = fmt.Sprintf("content hashes differ: %x vs %x",
			vanillaHash.Bytes(), moddedHash.Bytes())
	}
	return v
}

// compareBytecode reports instruction counts and a capped number of
// listing differences; full bytecode deltas are too voluminous to be
// useful verbatim.
func (e *Engine) compareBytecode(ctx context.Context, dctx *models.DiffContext, v *models.Verdict, vanilla, modded []byte) *models.Verdict {
	vanillaIns, vErr := ncs.List(vanilla)
	moddedIns, mErr := ncs.List(modded)
	if vErr != nil || mErr != nil {
		e.warn(ctx, dctx, firstError(vErr, mErr))
		return e.compareHash(dctx, v, vanilla, modded)
	}

	if bytes.Equal(vanilla, modded) {
		v.Outcome = models.OutcomeIdentical
		v.Reason = fmt.Sprintf("bytecode equal: %d instructions", len(vanillaIns))
		return v
	}

	diffLines := listingDiff(ncs.Listing(vanillaIns), ncs.Listing(moddedIns))
	cap := e.opts.MaxBytecodeDiffLines
	if cap <= 0 {
		cap = DefaultBytecodeDiffLines
	}
	if len(diffLines) > cap {
		omitted := len(diffLines) - cap
		diffLines = append(diffLines[:cap], fmt.Sprintf("... %d more difference lines", omitted))
	}

	v.Outcome = models.OutcomeModified
	v.Lines = diffLines
	v.Reason = fmt.Sprintf("bytecode differs: %d vs %d instructions",
		len(vanillaIns), len(moddedIns))
	return v
}

// compareText produces a unified line diff for content that decodes as
// text on both sides.
func (e *Engine) compareText(dctx *models.DiffContext, v *models.Verdict, vanilla, modded []byte) *models.Verdict {
	if bytes.Equal(vanilla, modded) {
		v.Outcome = models.OutcomeIdentical
		v.Reason = "text content matches"
		return v
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(vanilla)),
		B:        difflib.SplitLines(string(modded)),
		FromFile: dctx.VanillaPath,
		ToFile:   dctx.ModdedPath,
		Context:  2,
	})
	if err != nil {
		return e.compareHash(dctx, v, vanilla, modded)
	}

	v.Outcome = models.OutcomeModified
	v.Lines = strings.Split(strings.TrimRight(unified, "\n"), "\n")
	v.Reason = "text content differs"
	return v
}

// listingDiff returns the lines present on exactly one side of two
// instruction listings, in listing order.
func listingDiff(vanilla, modded []string) []string {
	var out []string
	n := min(len(vanilla), len(modded))
	for i := 0; i < n; i++ {
		if vanilla[i] != modded[i] {
			out = append(out, "- "+vanilla[i], "+ "+modded[i])
		}
	}
	for _, line := range vanilla[n:] {
		out = append(out, "- "+line)
	}
	for _, line := range modded[n:] {
		out = append(out, "+ "+line)
	}
	return out
}

// looksLikeText reports whether content decodes as valid UTF-8 or is at
// least 70% printable ASCII.
func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return true
	}
	printable := 0
	for _, b := range data {
		if b == '\t' || b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7F) {
			printable++
		}
	}
	return float64(printable)/float64(len(data)) >= printableThreshold
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) warn(ctx context.Context, dctx *models.DiffContext, err error) {
	w := models.RunWarning{
		Identifier:  dctx.ModdedPath,
		VanillaPath: dctx.VanillaPath,
		ModdedPath:  dctx.ModdedPath,
	}
	if err != nil {
		w.Message = err.Error()
	}
	e.report.Warnings = append(e.report.Warnings, w)
	e.log.Warn(ctx, "structural comparison degraded to hashing", logging.Fields{
		"identifier": w.Identifier,
		"vanilla":    w.VanillaPath,
		"modded":     w.ModdedPath,
		"error":      w.Message,
	})
}
