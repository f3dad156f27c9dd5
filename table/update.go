package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/rowschema"
	"github.com/pathwaydb/flowcore/universe"
)

// UpdateCells overwrites t's cells with other's wherever other has a value,
// for the subset of rows other covers. Preconditions: other's columns are a
// subset of t's (by name), and other.U is a known subset of t.U. The result
// universe is unchanged (t.U). Equal universes are legal but logged as a
// warning — with_columns is the non-overwriting alternative the source
// recommends for that case.
func (t Table) UpdateCells(other Table) (Table, error) {
	for _, name := range other.order {
		if !t.schema.Has(name) {
			return Table{}, flowerrors.SchemaMismatch.New([]string{name})
		}
	}
	solver := t.builder.Solver()
	if !solver.QueryIsSubset(other.universe, t.universe) {
		return Table{}, flowerrors.UniverseMismatch.New("update_cells requires other's universe to be a subset of this table's")
	}
	if solver.QueryAreEqual(other.universe, t.universe) {
		log.WithField("op", "update_cells").Warn("other has the same universe as this table; with_columns is the non-overwriting alternative")
	}

	overwrites := make([]ids.ColumnID, 0, len(other.order))
	for _, name := range other.order {
		overwrites = append(overwrites, other.byName[name])
	}
	ctx := column.UpdateCellsContext{Union: []universe.Universe{t.universe, other.universe}, Overwrites: overwrites}

	order := append([]string(nil), t.order...)
	cols := make(map[string]ids.ColumnID, len(order))
	byID := make(map[ids.ColumnID]column.Column, len(order)+1)
	var fresh []graph.FreshColumn

	for _, name := range order {
		origID := t.byName[name]
		origCol := t.byID[origID]
		if otherID, overwritten := other.byName[name]; overwritten {
			mergedType, err := dtype.LCA(origCol.Properties().Type, other.byID[otherID].Properties().Type)
			if err != nil {
				return Table{}, err
			}
			id := t.builder.NewColumnID()
			lineage := column.NewLineage()
			byID[id] = column.NewWithExpression(t.universe, column.Properties{Type: mergedType, AppendOnly: false}, lineage, ctx, nil)
			cols[name] = id
			fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
			continue
		}
		cols[name] = origID
		byID[origID] = origCol
	}
	byID[t.idColumnID] = t.byID[t.idColumnID]

	return t.build(buildSpec{
		kind:       "update_cells",
		inputs:     []ids.TableID{t.tableID, other.tableID},
		universe:   t.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: t.idColumnID,
	})
}

// UpdateRows merges t and other row-wise: preconditions require identical
// column key-sets; dtypes merge via LCA. Result universe is
// solver.GetUnion(t.U, other.U), unless t.U is already a known subset of
// other.U, in which case UpdateRows shortcuts to returning other directly.
func (t Table) UpdateRows(other Table) (Table, error) {
	if !rowschema.SameColumnSet(t.schema, other.schema) {
		return Table{}, flowerrors.SchemaMismatch.New(rowschema.SymmetricDifference(t.schema, other.schema))
	}
	solver := t.builder.Solver()
	if solver.QueryIsSubset(t.universe, other.universe) {
		return other, nil
	}

	newU, err := solver.GetUnion(t.universe, other.universe)
	if err != nil {
		return Table{}, err
	}

	overwrites := make([]ids.ColumnID, 0, len(other.order))
	for _, name := range other.order {
		overwrites = append(overwrites, other.byName[name])
	}
	ctx := column.UpdateRowsContext{Union: []universe.Universe{t.universe, other.universe}, Overwrites: overwrites}

	order := append([]string(nil), t.order...)
	cols := make(map[string]ids.ColumnID, len(order))
	byID := make(map[ids.ColumnID]column.Column, len(order)+1)
	var fresh []graph.FreshColumn

	for _, name := range order {
		tField, _ := t.schema.Field(name)
		oField, _ := other.schema.Field(name)
		mergedType, err := dtype.LCA(tField.Type, oField.Type)
		if err != nil {
			return Table{}, err
		}
		id := t.builder.NewColumnID()
		lineage := column.NewLineage()
		byID[id] = column.NewWithExpression(newU, column.Properties{Type: mergedType, AppendOnly: false}, lineage, ctx, nil)
		cols[name] = id
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
	}

	idID, idCol, idFresh := mintIDColumn(t.builder, newU)
	byID[idID] = idCol
	fresh = append(fresh, idFresh)

	return t.build(buildSpec{
		kind:       "update_rows",
		inputs:     []ids.TableID{t.tableID, other.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
