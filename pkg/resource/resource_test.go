package resource

import (
	"strings"
	"testing"
)

func TestTypeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Type
	}{
		{"override/appearance.2da", "2da"},
		{"modules/danm13.rim", "rim"},
		{"N_GUARD.UTC", "utc"},
		{"modules\\danm13.mod", "mod"},
		{"noextension", ""},
		{"danm13.rim/n_guard.utc", "utc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := TypeFromPath(tt.path); got != tt.want {
				t.Errorf("TypeFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewResRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ResRef
	}{
		{"Lowercases", "N_Guard", "n_guard"},
		{"Stripspadding", "n_guard\x00\x00\x00", "n_guard"},
		{"TruncatesOverlong", strings.Repeat("a", 20), ResRef(strings.Repeat("a", 16))},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewResRef(tt.in); got != tt.want {
				t.Errorf("NewResRef(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestComparable(t *testing.T) {
	t.Run("Filename", func(t *testing.T) {
		c := Comparable{Identifier: "modules/danm13.rim/n_guard.utc"}
		if got := c.Filename(); got != "n_guard.utc" {
			t.Errorf("Filename() = %q, want n_guard.utc", got)
		}
	})

	t.Run("FilenameBackslashes", func(t *testing.T) {
		c := Comparable{Identifier: "override\\appearance.2da"}
		if got := c.Filename(); got != "appearance.2da" {
			t.Errorf("Filename() = %q, want appearance.2da", got)
		}
	})

	t.Run("InContainer", func(t *testing.T) {
		tests := []struct {
			identifier string
			want       bool
		}{
			{"danm13.rim/n_guard.utc", true},
			{"modules/danm13.mod/n_guard.utc", true},
			{"override/appearance.2da", false},
			{"appearance.2da", false},
		}
		for _, tt := range tests {
			c := Comparable{Identifier: tt.identifier}
			if got := c.InContainer(); got != tt.want {
				t.Errorf("InContainer(%q) = %v, want %v", tt.identifier, got, tt.want)
			}
		}
	})
}

func TestIsCapsule(t *testing.T) {
	for _, capsule := range []Type{"erf", "mod", "rim", "sav"} {
		if !IsCapsule(capsule) {
			t.Errorf("IsCapsule(%q) = false", capsule)
		}
	}
	for _, plain := range []Type{"utc", "2da", "", "zip"} {
		if IsCapsule(plain) {
			t.Errorf("IsCapsule(%q) = true", plain)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		kind Type
		want Family
	}{
		{"utc", FamilyStructured},
		{"dlg", FamilyStructured},
		{"gff", FamilyStructured},
		{"2da", FamilyTabular},
		{"tlk", FamilyStringTable},
		{"ssf", FamilySoundSet},
		{"ncs", FamilyBytecode},
		{"wav", FamilyLargeBinary},
		{"mdl", FamilyLargeBinary},
		{"lip", FamilyBinary},
		{"txt", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := FamilyOf(tt.kind); got != tt.want {
				t.Errorf("FamilyOf(%q) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestIsDevSource(t *testing.T) {
	if !IsDevSource("nss") {
		t.Error("IsDevSource(nss) = false")
	}
	if IsDevSource("ncs") {
		t.Error("IsDevSource(ncs) = true")
	}
}

func TestTypeIDs(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, kind := range []Type{"utc", "2da", "ncs", "rim", "mdl"} {
			id := IDOf(kind)
			if id == 0xFFFF {
				t.Errorf("IDOf(%q) unmapped", kind)
				continue
			}
			if back := TypeOfID(id); back != kind {
				t.Errorf("TypeOfID(IDOf(%q)) = %q", kind, back)
			}
		}
	})

	t.Run("Unmapped", func(t *testing.T) {
		if id := IDOf("zip"); id != 0xFFFF {
			t.Errorf("IDOf(zip) = %d, want 0xFFFF", id)
		}
		if kind := TypeOfID(9999); kind != "" {
			t.Errorf("TypeOfID(9999) = %q, want empty", kind)
		}
	})
}
