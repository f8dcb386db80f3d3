package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurorakit/resdiff/pkg/capsule"
	"github.com/aurorakit/resdiff/pkg/diff"
	"github.com/aurorakit/resdiff/pkg/format/gff"
	"github.com/aurorakit/resdiff/pkg/format/twoda"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/patch"
	"github.com/aurorakit/resdiff/pkg/walker"
)

// fixture builds one side of a comparison: an installation-shaped tree
// with a marker file, an override folder and a modules folder.
type fixture struct {
	t    *testing.T
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "chitin.key"), []byte("KEY V1  "), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "override"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "modules"), 0o755))
	return &fixture{t: t, root: root}
}

func (f *fixture) override(name string, data []byte) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.root, "override", name), data, 0o644))
}

func (f *fixture) module(name, fileType string, entries ...capsule.Entry) {
	f.t.Helper()
	data, err := capsule.Encode(&capsule.Capsule{FileType: fileType, Entries: entries})
	require.NoError(f.t, err)
	require.NoError(f.t, os.WriteFile(filepath.Join(f.root, "modules", name), data, 0o644))
}

func appearance(t *testing.T, cell string) []byte {
	t.Helper()
	tbl := twoda.New()
	tbl.Columns = []string{"label", "modela"}
	tbl.AddRow("0", []string{"zero", cell})
	data, err := twoda.Write(tbl)
	require.NoError(t, err)
	return data
}

func creature(t *testing.T, hitPoints int64) []byte {
	t.Helper()
	r := gff.New("UTC")
	r.Top.Set(&gff.Field{Label: "Tag", Type: gff.TypeString, Str: "guard"})
	r.Top.Set(&gff.Field{Label: "HitPoints", Type: gff.TypeShort, Int: hitPoints})
	data, err := gff.Write(r)
	require.NoError(t, err)
	return data
}

// TestInstallationDiffAndSynthesis drives the whole pipeline over two
// installation trees: enumeration, pairing, verdicts, patch synthesis and
// staging-directory output.
func TestInstallationDiffAndSynthesis(t *testing.T) {
	vanilla := newFixture(t)
	modded := newFixture(t)

	// Override: one modified table, one untouched file, one addition.
	vanilla.override("appearance.2da", appearance(t, "old_model"))
	modded.override("appearance.2da", appearance(t, "new_model"))
	vanilla.override("readme.txt", []byte("shared\n"))
	modded.override("readme.txt", []byte("shared\n"))
	modded.override("heads.2da", appearance(t, "added"))

	// Modules: the modded side replaces a .rim with a .mod carrying one
	// changed creature.
	vanilla.module("danm13.rim", "RIM ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: creature(t, 24)},
	)
	modded.module("danm13.mod", "MOD ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: creature(t, 40)},
	)

	engine := diff.NewEngine(diff.Options{}, nil)
	report, err := engine.Run(context.Background(), vanilla.root, modded.root)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, report.Status)

	outcomes := make(map[string]models.Outcome)
	for _, v := range report.Verdicts {
		outcomes[v.Identifier] = v.Outcome
	}
	assert.Equal(t, models.OutcomeModified, outcomes["override/appearance.2da"])
	assert.Equal(t, models.OutcomeIdentical, outcomes["override/readme.txt"])
	assert.Equal(t, models.OutcomeMissingInVanilla, outcomes["override/heads.2da"])
	assert.Equal(t, models.OutcomeModified, outcomes["modules/danm13.mod/n_guard.utc"])

	synth := patch.NewSynthesizer(nil)
	p, err := synth.Synthesize(context.Background(), report)
	require.NoError(t, err)

	// The changed table and creature become modifications; the new table
	// becomes an install plus a fresh-install modification.
	require.Len(t, p.Installs, 1)
	assert.Equal(t, "override", p.Installs[0].Dest)
	assert.Equal(t, "heads.2da", p.Installs[0].Name)

	require.Len(t, p.Modifications, 3)
	dests := make(map[string]string)
	for _, m := range p.Modifications {
		dests[m.SourceFilename] = m.Dest
	}
	assert.Equal(t, "override", dests["appearance.2da"])
	assert.Equal(t, "override", dests["heads.2da"])
	assert.Equal(t, "modules/danm13.mod", dests["n_guard.utc"])

	staging := filepath.Join(t.TempDir(), "patch")
	w, err := patch.NewDirWriter(staging, nil)
	require.NoError(t, err)
	require.NoError(t, p.Apply(w))
	require.NoError(t, w.Close())

	installed, err := os.ReadFile(filepath.Join(staging, "override", "heads.2da"))
	require.NoError(t, err)
	assert.Equal(t, appearance(t, "added"), installed)

	manifest, err := os.ReadFile(filepath.Join(staging, "changes.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "install heads.2da -> override")
	assert.Contains(t, string(manifest), "modify appearance.2da")
}

// TestSelfCompareProducesEmptyPatch checks the idempotence baseline: an
// installation diffed against itself yields only identical verdicts and an
// empty patch.
func TestSelfCompareProducesEmptyPatch(t *testing.T) {
	inst := newFixture(t)
	inst.override("appearance.2da", appearance(t, "model"))
	inst.module("danm13.rim", "RIM ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: creature(t, 24)},
	)

	report, err := diff.NewEngine(diff.Options{}, nil).Run(context.Background(), inst.root, inst.root)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, report.Status)
	for _, v := range report.Verdicts {
		assert.Equal(t, models.OutcomeIdentical, v.Outcome, v.Identifier)
	}

	p, err := patch.NewSynthesizer(nil).Synthesize(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

// TestEnumerationMatchesVerdictIdentifiers pins the identifier scheme:
// walking an installation and diffing it against itself must name every
// resource identically, so listing output lines up with verdicts.
func TestEnumerationMatchesVerdictIdentifiers(t *testing.T) {
	inst := newFixture(t)
	inst.override("appearance.2da", appearance(t, "model"))
	inst.module("danm13.rim", "RIM ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: creature(t, 24)},
	)
	inst.module("danm13_s.rim", "RIM ",
		capsule.Entry{ResRef: "sound", Type: "txt", Data: []byte("sound\n")},
	)

	listed, err := walker.New(nil).Walk(context.Background(), inst.root)
	require.NoError(t, err)
	var listedIDs []string
	for _, r := range listed {
		listedIDs = append(listedIDs, r.Identifier)
	}

	report, err := diff.NewEngine(diff.Options{}, nil).Run(context.Background(), inst.root, inst.root)
	require.NoError(t, err)
	var verdictIDs []string
	for _, v := range report.Verdicts {
		verdictIDs = append(verdictIDs, v.Identifier)
	}

	assert.ElementsMatch(t, listedIDs, verdictIDs)
}

// TestModAgainstVanillaInstallation resolves a directly targeted capsule
// through the installation's lookup order.
func TestModAgainstVanillaInstallation(t *testing.T) {
	vanilla := newFixture(t)
	vanilla.module("danm13.rim", "RIM ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: creature(t, 24)},
	)

	moddedDir := t.TempDir()
	modPath := filepath.Join(moddedDir, "danm13.mod")
	data, err := capsule.Encode(&capsule.Capsule{FileType: "MOD ", Entries: []capsule.Entry{
		{ResRef: "n_guard", Type: "utc", Data: creature(t, 40)},
		{ResRef: "n_new", Type: "utc", Data: creature(t, 10)},
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(modPath, data, 0o644))

	report, err := diff.NewEngine(diff.Options{}, nil).Run(context.Background(), vanilla.root, modPath)
	require.NoError(t, err)

	outcomes := make(map[string]models.Outcome)
	for _, v := range report.Verdicts {
		outcomes[v.Identifier] = v.Outcome
	}
	assert.Equal(t, models.OutcomeModified, outcomes["danm13.mod/n_guard.utc"])
	assert.Equal(t, models.OutcomeMissingInVanilla, outcomes["danm13.mod/n_new.utc"])

	p, err := patch.NewSynthesizer(nil).Synthesize(context.Background(), report)
	require.NoError(t, err)
	require.Len(t, p.Installs, 1)
	assert.Equal(t, "n_new.utc", p.Installs[0].Name)
}
