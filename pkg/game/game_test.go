package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aurorakit/resdiff/pkg/capsule"
	"github.com/aurorakit/resdiff/pkg/models"
)

func TestDestination(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name     string
		location models.Location
		path     string
		want     string
	}{
		{"Override", models.LocationOverride, "override/appearance.2da", "override"},
		{"ModuleMod", models.LocationModuleMod, "modules/danm13.mod", "modules/danm13.mod"},
		{"ModuleReadOnly", models.LocationModuleReadOnly, "modules/danm13.rim", "modules/danm13.mod"},
		{"ModuleReadOnlyCompanion", models.LocationModuleReadOnly, "modules/danm13_s.rim", "modules/danm13.mod"},
		{"Chitin", models.LocationChitin, "data/textures.bif", "override"},
		{"UnknownInfersOverrideSegment", models.LocationUnknown, "game/Override/boots.uti", "override"},
		{"UnknownInfersModSegment", models.LocationUnknown, "modules/danm13.mod/n_guard.utc", "modules/danm13.mod"},
		{"UnknownInfersRimSegment", models.LocationUnknown, "modules/danm13_dlg.erf/talk.dlg", "modules/danm13.mod"},
		{"UnknownInfersChitin", models.LocationUnknown, "data/2da.bif/appearance.2da", "override"},
		{"UnknownDefaultsOverride", models.LocationUnknown, "somewhere/else.txt", "override"},
		{"UnrecognizedTagInfers", models.Location("weird"), "modules/tar_m02aa.rim/door.utd", "modules/tar_m02aa.mod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := &Trace{}
			got := r.Destination(tt.location, tt.path, trace)
			if got != tt.want {
				t.Errorf("Destination(%s, %s) = %q, want %q", tt.location, tt.path, got, tt.want)
			}
			if len(trace.Lines()) == 0 {
				t.Error("every resolution should leave a trace line")
			}
		})
	}
}

func TestDestination_NilTrace(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Destination(models.LocationOverride, "x", nil); got != "override" {
		t.Errorf("Destination with nil trace = %q, want override", got)
	}
}

func writeCapsule(t *testing.T, path, fileType string, entries ...capsule.Entry) {
	t.Helper()
	data, err := capsule.Encode(&capsule.Capsule{FileType: fileType, Entries: entries})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// fixtureInstallation lays out a minimal installation: marker, override
// with one loose file, one module present as both .mod and .rim.
func fixtureInstallation(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "chitin.key"), []byte("KEY V1  "), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"Override", "Modules"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "Override", "boots.uti"), []byte("override copy"), 0o644); err != nil {
		t.Fatal(err)
	}

	writeCapsule(t, filepath.Join(root, "Modules", "danm13.mod"), "MOD ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: []byte("mod copy")},
	)
	writeCapsule(t, filepath.Join(root, "Modules", "danm13.rim"), "RIM ",
		capsule.Entry{ResRef: "n_guard", Type: "utc", Data: []byte("rim copy")},
		capsule.Entry{ResRef: "m01aa", Type: "are", Data: []byte("area")},
	)
	return root
}

func TestIsInstallation(t *testing.T) {
	root := fixtureInstallation(t)
	if !IsInstallation(root) {
		t.Error("marker file should identify the installation")
	}
	if IsInstallation(t.TempDir()) {
		t.Error("bare directory should not register as an installation")
	}
}

func TestLoad(t *testing.T) {
	root := fixtureInstallation(t)

	inst, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Folder casing on disk is "Override"/"Modules".
	if filepath.Base(inst.OverrideDir()) != "Override" {
		t.Errorf("OverrideDir = %q, want the mixed-case folder", inst.OverrideDir())
	}
	if filepath.Base(inst.ModulesDir()) != "Modules" {
		t.Errorf("ModulesDir = %q, want the mixed-case folder", inst.ModulesDir())
	}

	if _, err := Load(t.TempDir(), nil); err == nil {
		t.Error("Load() should fail without the marker")
	}
}

func TestModuleRoots(t *testing.T) {
	inst, err := Load(fixtureInstallation(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	roots, err := inst.ModuleRoots()
	if err != nil {
		t.Fatalf("ModuleRoots() error = %v", err)
	}
	// .mod and .rim of the same stem collapse into one family root.
	if len(roots) != 1 || roots[0] != "danm13" {
		t.Errorf("ModuleRoots() = %v, want [danm13]", roots)
	}
}

func TestModulePrimary(t *testing.T) {
	inst, err := Load(fixtureInstallation(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := inst.ModulePrimary("danm13"); filepath.Base(got) != "danm13.mod" {
		t.Errorf("ModulePrimary() = %q, want the mutable capsule first", got)
	}
	// A stem with no family file on this side has no primary; callers use
	// the empty path to treat the whole module as one-sided.
	if got := inst.ModulePrimary("newarea"); got != "" {
		t.Errorf("ModulePrimary(absent) = %q, want empty", got)
	}
}

func TestResource(t *testing.T) {
	inst, err := Load(fixtureInstallation(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("OverrideHit", func(t *testing.T) {
		trace := &Trace{}
		loc, err := inst.Resource("boots", "uti", trace)
		if err != nil {
			t.Fatalf("Resource() error = %v", err)
		}
		if loc.Location != models.LocationOverride {
			t.Errorf("Location = %s, want override", loc.Location)
		}
		if string(loc.Data) != "override copy" {
			t.Errorf("Data = %q", loc.Data)
		}
		if len(trace.Lines()) == 0 {
			t.Error("lookup should leave trace lines")
		}
	})

	t.Run("ModShadowsRim", func(t *testing.T) {
		loc, err := inst.Resource("n_guard", "utc", nil)
		if err != nil {
			t.Fatalf("Resource() error = %v", err)
		}
		if loc.Location != models.LocationModuleMod {
			t.Errorf("Location = %s, want module-mod", loc.Location)
		}
		if string(loc.Data) != "mod copy" {
			t.Errorf("Data = %q, want the mutable capsule's copy", loc.Data)
		}
		if filepath.Base(loc.PhysicalPath) != "danm13.mod" {
			t.Errorf("PhysicalPath = %q", loc.PhysicalPath)
		}
	})

	t.Run("RimOnlyMember", func(t *testing.T) {
		loc, err := inst.Resource("m01aa", "are", nil)
		if err != nil {
			t.Fatalf("Resource() error = %v", err)
		}
		if loc.Location != models.LocationModuleReadOnly {
			t.Errorf("Location = %s, want module-rim", loc.Location)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := inst.Resource("absent", "utc", nil); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resource() error = %v, want ErrNotFound", err)
		}
	})
}
