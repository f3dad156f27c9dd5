package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// mintIDColumn allocates a fresh identity column bound to u, returning the
// pieces needed both for the new Table's byID map and for the buildSpec's
// fresh-column list.
func mintIDColumn(b *graph.Builder, u universe.Universe) (ids.ColumnID, column.Column, graph.FreshColumn) {
	id := b.NewColumnID()
	lineage := column.NewLineage()
	col := column.NewIdColumn(u, lineage)
	return id, col, graph.FreshColumn{ID: id, Name: "id", Lineage: lineage}
}

// rebindSubset rebuilds t's schema columns under a narrower universe newU,
// via ctxFor(origID, newID) to produce the per-column Context (newID is
// minted before the call, so a Context needing to name "its own" result
// column, like Flatten's ResultColumn, can do so), and applies any narrow
// overrides (e.g. the `col is not None` type-narrowing filter rewrite) to
// the rebuilt column's dtype. It is shared by every universe-narrowing
// operator: filter, restrict, difference, intersect, having, ix, flatten.
func (t Table) rebindSubset(newU universe.Universe, ctxFor func(origID, newID ids.ColumnID) column.Context, narrow map[ids.ColumnID]dtype.Type) (order []string, cols map[string]ids.ColumnID, byID map[ids.ColumnID]column.Column, fresh []graph.FreshColumn, idID ids.ColumnID) {
	order = append([]string(nil), t.order...)
	cols = make(map[string]ids.ColumnID, len(order))
	byID = make(map[ids.ColumnID]column.Column, len(order)+1)

	for _, name := range order {
		origID := t.byName[name]
		origCol := t.byID[origID]
		props := origCol.Properties()
		if nt, ok := narrow[origID]; ok {
			props.Type = nt
		}

		id := t.builder.NewColumnID()
		lineage := column.NewLineage()
		ctx := ctxFor(origID, id)
		refExpr := expr.ColumnRef{Table: t.tableID, Column: origID, Name: name}
		col := column.NewWithExpression(newU, props, lineage, ctx, refExpr)

		cols[name] = id
		byID[id] = col
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
	}

	var idCol column.Column
	var idFresh graph.FreshColumn
	idID, idCol, idFresh = mintIDColumn(t.builder, newU)
	byID[idID] = idCol
	fresh = append(fresh, idFresh)

	return order, cols, byID, fresh, idID
}
