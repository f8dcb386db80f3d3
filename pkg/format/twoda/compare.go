package twoda

import (
	"fmt"
	"strconv"

	"github.com/aurorakit/resdiff/pkg/models"
)

// Compare compares two tables. Rows pair by label when labels are present
// on both sides, else by index; cells pair by column name. Delta paths are
// "rowKey/column".
func (t *Table) Compare(other *Table) (bool, []models.DeltaEntry) {
	var deltas []models.DeltaEntry

	if t.RowCount() != other.RowCount() {
		deltas = append(deltas, models.DeltaEntry{
			Path: "(rows)",
			Old:  strconv.Itoa(t.RowCount()),
			New:  strconv.Itoa(other.RowCount()),
		})
	}

	// Column set changes are reported once per column, not per cell.
	for _, c := range t.Columns {
		if other.ColumnIndex(c) < 0 {
			deltas = append(deltas, models.DeltaEntry{Path: "(column)/" + c, Old: c, New: "(missing)"})
		}
	}
	for _, c := range other.Columns {
		if t.ColumnIndex(c) < 0 {
			deltas = append(deltas, models.DeltaEntry{Path: "(column)/" + c, Old: "(missing)", New: c})
		}
	}

	otherRows := make(map[string]int, other.RowCount())
	for i := 0; i < other.RowCount(); i++ {
		key := other.rowKey(i)
		if _, dup := otherRows[key]; !dup {
			otherRows[key] = i
		}
	}

	matched := make(map[int]bool, other.RowCount())
	for i := 0; i < t.RowCount(); i++ {
		key := t.rowKey(i)
		j, ok := otherRows[key]
		if !ok {
			deltas = append(deltas, models.DeltaEntry{
				Path: key, Old: fmt.Sprintf("row %d", i), New: "(missing)",
			})
			continue
		}
		matched[j] = true
		for _, c := range t.Columns {
			if other.ColumnIndex(c) < 0 {
				continue
			}
			oldCell, _ := t.Cell(i, c)
			newCell, _ := other.Cell(j, c)
			if oldCell != newCell {
				deltas = append(deltas, models.DeltaEntry{
					Path: key + "/" + c, Old: oldCell, New: newCell,
				})
			}
		}
	}

	for j := 0; j < other.RowCount(); j++ {
		if !matched[j] {
			deltas = append(deltas, models.DeltaEntry{
				Path: other.rowKey(j), Old: "(missing)", New: fmt.Sprintf("row %d", j),
			})
		}
	}

	return len(deltas) == 0, deltas
}
