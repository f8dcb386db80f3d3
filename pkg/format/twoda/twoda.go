// Package twoda implements the binary tabular format ("2DA V2.b"): labeled
// rows, named columns, string cells.
package twoda

import (
	"fmt"
	"strconv"
)

// Version is the supported binary format version line.
const Version = "2DA V2.b"

// Table is a parsed tabular resource.
type Table struct {
	// Columns holds the column headers in file order
	Columns []string

	// RowLabels holds one label per row; labels are usually but not
	// necessarily row indices
	RowLabels []string

	// Cells is row-major: Cells[row][col]
	Cells [][]string
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.RowLabels)
}

// ColumnIndex returns the index of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, column name); ok is false when either is
// out of range.
func (t *Table) Cell(row int, column string) (string, bool) {
	ci := t.ColumnIndex(column)
	if ci < 0 || row < 0 || row >= len(t.Cells) {
		return "", false
	}
	return t.Cells[row][ci], true
}

// AddRow appends a row. Missing cells are padded empty, extras dropped.
func (t *Table) AddRow(label string, cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	if label == "" {
		label = strconv.Itoa(len(t.RowLabels))
	}
	t.RowLabels = append(t.RowLabels, label)
	t.Cells = append(t.Cells, row)
}

// rowKey pairs a row with the identity used for comparison: the row label
// when present, else the row index.
func (t *Table) rowKey(i int) string {
	if i < len(t.RowLabels) && t.RowLabels[i] != "" {
		return t.RowLabels[i]
	}
	return strconv.Itoa(i)
}

func (t *Table) validate() error {
	for i, row := range t.Cells {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("2da: row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	if len(t.Cells) != len(t.RowLabels) {
		return fmt.Errorf("2da: %d rows but %d labels", len(t.Cells), len(t.RowLabels))
	}
	return nil
}
