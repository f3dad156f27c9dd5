package table

import (
	"fmt"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
)

// SortExperimental establishes a per-instance ordering of t's rows by key,
// grouped by instance, exposing the result as two new Optional(Pointer)
// columns ("prev", "next") alongside t's existing ones. Stability of
// prev/next under concurrent instance changes is not guaranteed — hence
// "experimental", matching the source's own caveat.
func (t Table) SortExperimental(key, instance ids.ColumnID) (Table, error) {
	if _, ok := t.byID[key]; !ok {
		return Table{}, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", key))
	}
	if _, ok := t.byID[instance]; !ok {
		return Table{}, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", instance))
	}

	ctx := column.SortingContext{KeyColumn: key, InstanceColumn: instance}

	order := append([]string(nil), t.order...)
	cols := make(map[string]ids.ColumnID, len(order)+2)
	byID := make(map[ids.ColumnID]column.Column, len(order)+3)
	for _, name := range order {
		id := t.byName[name]
		cols[name] = id
		byID[id] = t.byID[id]
	}
	byID[t.idColumnID] = t.byID[t.idColumnID]

	var fresh []graph.FreshColumn
	for _, name := range []string{"prev", "next"} {
		id := t.builder.NewColumnID()
		lineage := column.NewLineage()
		byID[id] = column.NewWithExpression(t.universe, column.Properties{Type: dtype.Optional(dtype.Pointer), AppendOnly: false}, lineage, ctx, nil)
		cols[name] = id
		order = append(order, name)
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
	}

	return t.build(buildSpec{
		kind:       "sort_experimental",
		inputs:     []ids.TableID{t.tableID},
		universe:   t.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: t.idColumnID,
	})
}
