package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/tabular"
)

// FromTabular lifts a bounded tabular.Frame into a fresh base Table, the
// debug loader's entry point into the plan (§6 "Debug loader"). It goes
// through FromColumns exactly like any other source, so a tabular-backed
// table is never a special case downstream: the frame's schema becomes
// the table's schema one-for-one.
//
// idColumn, when non-empty, must name one of frame's columns; the result
// is reindexed so its identity is pointer_from(that column), the way a
// debug fixture derives row identity from a natural key instead of row
// position. An empty idColumn leaves the table under the fresh identity
// FromColumns mints.
func FromTabular(builder *graph.Builder, frame tabular.Frame, idColumn string) (Table, error) {
	schema := frame.Schema()
	names := schema.Names()
	props := make([]column.Properties, len(names))
	for i, name := range names {
		field, _ := schema.Field(name)
		props[i] = column.Properties{Type: field.Type, AppendOnly: field.AppendOnly}
	}

	tbl, err := FromColumns(builder, names, props)
	if err != nil {
		return Table{}, err
	}
	if idColumn == "" {
		return tbl, nil
	}
	return tbl.WithIDFrom(tbl.ColumnRef(idColumn))
}
