package twoda

import (
	"errors"
	"testing"
)

func sampleTable() *Table {
	t := New()
	t.Columns = []string{"label", "Col1", "Col2"}
	t.AddRow("0", []string{"zero", "a", "b"})
	t.AddRow("1", []string{"one", "c", "d"})
	t.AddRow("2", []string{"two", "e", ""})
	return t
}

func TestRoundTrip(t *testing.T) {
	orig := sampleTable()

	data, err := Write(orig)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	parsed, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if equal, deltas := orig.Compare(parsed); !equal {
		t.Errorf("roundtrip not equal, deltas = %v", deltas)
	}
	if got := parsed.RowCount(); got != 3 {
		t.Errorf("RowCount() = %d, want 3", got)
	}
	if cell, ok := parsed.Cell(1, "Col1"); !ok || cell != "c" {
		t.Errorf("Cell(1, Col1) = %q, %v", cell, ok)
	}
}

func TestRoundTrip_SharedCells(t *testing.T) {
	// Repeated values share one data-block entry on write; reading must
	// still place the value in every referencing cell.
	tbl := New()
	tbl.Columns = []string{"a", "b"}
	tbl.AddRow("0", []string{"same", "same"})
	tbl.AddRow("1", []string{"same", "other"})

	data, err := Write(tbl)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	parsed, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for _, tc := range []struct {
		row  int
		col  string
		want string
	}{
		{0, "a", "same"}, {0, "b", "same"}, {1, "a", "same"}, {1, "b", "other"},
	} {
		if cell, _ := parsed.Cell(tc.row, tc.col); cell != tc.want {
			t.Errorf("Cell(%d, %s) = %q, want %q", tc.row, tc.col, cell, tc.want)
		}
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, ErrTruncated},
		{"BadVersion", []byte("2DA V1.0\n"), ErrBadVersion},
		{"HeadersOnly", []byte(Version + "\ncol\t"), ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("Read() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	t.Run("CellChange", func(t *testing.T) {
		old := sampleTable()
		new := sampleTable()
		new.Cells[0][1] = "X"

		equal, deltas := old.Compare(new)
		if equal {
			t.Fatal("tables should differ")
		}
		if len(deltas) != 1 {
			t.Fatalf("got %d deltas, want 1: %v", len(deltas), deltas)
		}
		d := deltas[0]
		if d.Path != "0/Col1" || d.Old != "a" || d.New != "X" {
			t.Errorf("delta = %+v, want 0/Col1 a->X", d)
		}
	})

	t.Run("AddedRow", func(t *testing.T) {
		old := sampleTable()
		new := sampleTable()
		new.AddRow("3", []string{"three", "x", "y"})

		equal, deltas := old.Compare(new)
		if equal {
			t.Fatal("tables should differ")
		}
		var sawCount, sawRow bool
		for _, d := range deltas {
			switch d.Path {
			case "(rows)":
				sawCount = true
			case "3":
				sawRow = true
			}
		}
		if !sawCount || !sawRow {
			t.Errorf("deltas = %v, want row count change and new row entry", deltas)
		}
	})

	t.Run("AddedColumn", func(t *testing.T) {
		old := sampleTable()
		new := sampleTable()
		new.Columns = append(new.Columns, "Col3")
		for i := range new.Cells {
			new.Cells[i] = append(new.Cells[i], "v")
		}

		_, deltas := new.Compare(old)
		// One delta for the removed column, none per cell.
		if len(deltas) != 1 || deltas[0].Path != "(column)/Col3" {
			t.Errorf("deltas = %v, want single (column)/Col3 entry", deltas)
		}
	})

	t.Run("RowsPairByLabel", func(t *testing.T) {
		old := New()
		old.Columns = []string{"v"}
		old.AddRow("alpha", []string{"1"})
		old.AddRow("beta", []string{"2"})

		new := New()
		new.Columns = []string{"v"}
		new.AddRow("beta", []string{"2"})
		new.AddRow("alpha", []string{"1"})

		if equal, deltas := old.Compare(new); !equal {
			t.Errorf("reordered rows should pair by label, deltas = %v", deltas)
		}
	})
}

func TestWrite_RejectsRaggedRows(t *testing.T) {
	tbl := New()
	tbl.Columns = []string{"a", "b"}
	tbl.RowLabels = []string{"0"}
	tbl.Cells = [][]string{{"only"}}

	if _, err := Write(tbl); err == nil {
		t.Error("Write() should reject rows narrower than the column set")
	}
}
