package gff

import (
	"bytes"
	"fmt"

	"github.com/aurorakit/resdiff/pkg/models"
)

// Compare structurally compares two parsed files. Fields match by label,
// list entries by position. It returns whether the files are equal and the
// located differences.
func (r *Root) Compare(other *Root) (bool, []models.DeltaEntry) {
	var deltas []models.DeltaEntry
	if r.FileType != other.FileType {
		deltas = append(deltas, models.DeltaEntry{
			Path: "(filetype)", Old: r.FileType, New: other.FileType,
		})
	}
	deltas = append(deltas, compareStructs("", r.Top, other.Top)...)
	return len(deltas) == 0, deltas
}

const absent = "(missing)"

func compareStructs(prefix string, old, new *Struct) []models.DeltaEntry {
	var deltas []models.DeltaEntry

	if old.ID != new.ID {
		deltas = append(deltas, models.DeltaEntry{
			Path: join(prefix, "(struct-id)"),
			Old:  fmt.Sprintf("%d", old.ID),
			New:  fmt.Sprintf("%d", new.ID),
		})
	}

	for _, of := range old.Fields {
		nf := new.Field(of.Label)
		if nf == nil {
			deltas = append(deltas, models.DeltaEntry{
				Path: join(prefix, of.Label), Old: of.ValueString(), New: absent,
			})
			continue
		}
		deltas = append(deltas, compareFields(join(prefix, of.Label), of, nf)...)
	}

	for _, nf := range new.Fields {
		if old.Field(nf.Label) == nil {
			deltas = append(deltas, models.DeltaEntry{
				Path: join(prefix, nf.Label), Old: absent, New: nf.ValueString(),
			})
		}
	}

	return deltas
}

func compareFields(path string, old, new *Field) []models.DeltaEntry {
	if old.Type != new.Type {
		return []models.DeltaEntry{{
			Path: path,
			Old:  fmt.Sprintf("%s %s", old.Type, old.ValueString()),
			New:  fmt.Sprintf("%s %s", new.Type, new.ValueString()),
		}}
	}

	switch old.Type {
	case TypeStruct:
		return compareStructs(path, old.Struct, new.Struct)
	case TypeList:
		return compareLists(path, old.List, new.List)
	case TypeVoid:
		if !bytes.Equal(old.Data, new.Data) {
			return []models.DeltaEntry{{
				Path: path, Old: old.ValueString(), New: new.ValueString(),
			}}
		}
		return nil
	}

	if old.ValueString() != new.ValueString() {
		return []models.DeltaEntry{{
			Path: path, Old: old.ValueString(), New: new.ValueString(),
		}}
	}
	return nil
}

// compareLists is order-sensitive: entries pair by index.
func compareLists(path string, old, new []*Struct) []models.DeltaEntry {
	var deltas []models.DeltaEntry

	if len(old) != len(new) {
		deltas = append(deltas, models.DeltaEntry{
			Path: join(path, "(count)"),
			Old:  fmt.Sprintf("%d", len(old)),
			New:  fmt.Sprintf("%d", len(new)),
		})
	}

	n := min(len(old), len(new))
	for i := 0; i < n; i++ {
		deltas = append(deltas, compareStructs(fmt.Sprintf("%s/%d", path, i), old[i], new[i])...)
	}
	for i := n; i < len(old); i++ {
		deltas = append(deltas, models.DeltaEntry{
			Path: fmt.Sprintf("%s/%d", path, i),
			Old:  fmt.Sprintf("struct(%d)", old[i].ID),
			New:  absent,
		})
	}
	for i := n; i < len(new); i++ {
		deltas = append(deltas, models.DeltaEntry{
			Path: fmt.Sprintf("%s/%d", path, i),
			Old:  absent,
			New:  fmt.Sprintf("struct(%d)", new[i].ID),
		})
	}

	return deltas
}

func join(prefix, label string) string {
	if prefix == "" {
		return label
	}
	return prefix + "/" + label
}
