package gff

import (
	"testing"
)

func sampleRoot() *Root {
	r := New("UTC")
	r.Top.Set(&Field{Label: "Tag", Type: TypeString, Str: "guard"})
	r.Top.Set(&Field{Label: "HitPoints", Type: TypeShort, Int: 24})
	r.Top.Set(&Field{Label: "TemplateResRef", Type: TypeResRef, Str: "n_guard"})
	r.Top.Set(&Field{Label: "FirstName", Type: TypeLocString, Loc: &LocString{
		StrRef:  -1,
		Strings: []LocSub{{ID: 0, Text: "Guard"}},
	}})

	item := &Struct{ID: 0}
	item.Set(&Field{Label: "InventoryRes", Type: TypeResRef, Str: "g_w_blaster"})
	item.Set(&Field{Label: "Repos_PosX", Type: TypeWord, Uint: 3})
	r.Top.Set(&Field{Label: "ItemList", Type: TypeList, List: []*Struct{item}})

	pos := &Struct{ID: 1}
	pos.Set(&Field{Label: "Appearance", Type: TypeDWord, Uint: 101})
	r.Top.Set(&Field{Label: "SubStruct", Type: TypeStruct, Struct: pos})

	return r
}

func TestNew_PadsFileType(t *testing.T) {
	if r := New("UTC"); r.FileType != "UTC " {
		t.Errorf("FileType = %q, want %q", r.FileType, "UTC ")
	}
	if r := New("BIC "); r.FileType != "BIC " {
		t.Errorf("FileType = %q, want %q", r.FileType, "BIC ")
	}
}

func TestRoundTrip(t *testing.T) {
	orig := sampleRoot()

	data, err := Write(orig)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	parsed, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if parsed.FileType != "UTC " {
		t.Errorf("FileType = %q, want %q", parsed.FileType, "UTC ")
	}
	if equal, deltas := orig.Compare(parsed); !equal {
		t.Errorf("roundtrip not equal, deltas = %v", deltas)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"ShortHeader", []byte("UTC V3.2")},
		{"BadVersion", append([]byte("UTC V9.9"), make([]byte, 56)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(tt.data); err == nil {
				t.Error("Read() should fail")
			}
		})
	}
}

func TestCompare(t *testing.T) {
	t.Run("ScalarChange", func(t *testing.T) {
		old := sampleRoot()
		new := sampleRoot()
		new.Top.Set(&Field{Label: "HitPoints", Type: TypeShort, Int: 30})

		equal, deltas := old.Compare(new)
		if equal {
			t.Fatal("roots should differ")
		}
		if len(deltas) != 1 {
			t.Fatalf("got %d deltas, want 1: %v", len(deltas), deltas)
		}
		d := deltas[0]
		if d.Path != "HitPoints" || d.Old != "24" || d.New != "30" {
			t.Errorf("delta = %+v, want HitPoints 24->30", d)
		}
	})

	t.Run("NestedListChange", func(t *testing.T) {
		old := sampleRoot()
		new := sampleRoot()
		new.Top.Field("ItemList").List[0].Set(&Field{
			Label: "InventoryRes", Type: TypeResRef, Str: "g_w_rifle",
		})

		_, deltas := old.Compare(new)
		if len(deltas) != 1 {
			t.Fatalf("got %d deltas, want 1: %v", len(deltas), deltas)
		}
		if deltas[0].Path != "ItemList/0/InventoryRes" {
			t.Errorf("Path = %q, want ItemList/0/InventoryRes", deltas[0].Path)
		}
	})

	t.Run("RemovedField", func(t *testing.T) {
		old := sampleRoot()
		new := sampleRoot()
		var kept []*Field
		for _, f := range new.Top.Fields {
			if f.Label != "Tag" {
				kept = append(kept, f)
			}
		}
		new.Top.Fields = kept

		_, deltas := old.Compare(new)
		if len(deltas) != 1 {
			t.Fatalf("got %d deltas, want 1: %v", len(deltas), deltas)
		}
		d := deltas[0]
		if d.Path != "Tag" || d.Old != "guard" || d.New != absent {
			t.Errorf("delta = %+v, want Tag guard->(missing)", d)
		}
	})

	t.Run("TypeChange", func(t *testing.T) {
		old := sampleRoot()
		new := sampleRoot()
		new.Top.Set(&Field{Label: "Tag", Type: TypeInt, Int: 7})

		_, deltas := old.Compare(new)
		if len(deltas) != 1 {
			t.Fatalf("got %d deltas, want 1: %v", len(deltas), deltas)
		}
		if deltas[0].Old != "String guard" || deltas[0].New != "Int 7" {
			t.Errorf("delta = %+v, want typed value strings", deltas[0])
		}
	})

	t.Run("ListGrowth", func(t *testing.T) {
		old := sampleRoot()
		new := sampleRoot()
		extra := &Struct{ID: 0}
		extra.Set(&Field{Label: "InventoryRes", Type: TypeResRef, Str: "g_i_medpac"})
		f := new.Top.Field("ItemList")
		f.List = append(f.List, extra)

		_, deltas := old.Compare(new)
		var sawCount, sawEntry bool
		for _, d := range deltas {
			switch d.Path {
			case "ItemList/(count)":
				sawCount = true
			case "ItemList/1":
				sawEntry = true
			}
		}
		if !sawCount || !sawEntry {
			t.Errorf("deltas = %v, want list count change and added entry", deltas)
		}
	})
}

func TestFieldValueString(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"Uint", Field{Type: TypeDWord, Uint: 42}, "42"},
		{"Int", Field{Type: TypeInt, Int: -7}, "-7"},
		{"Float", Field{Type: TypeFloat, Float: 1.5}, "1.5"},
		{"String", Field{Type: TypeString, Str: "hi"}, "hi"},
		{"Void", Field{Type: TypeVoid, Data: []byte{1, 2, 3}}, "void[3]"},
		{"Vector", Field{Type: TypeVector, Vec: [4]float64{1, 2, 3}}, "(1, 2, 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.ValueString(); got != tt.want {
				t.Errorf("ValueString() = %q, want %q", got, tt.want)
			}
		})
	}
}
