package table

import (
	"fmt"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
)

// Flatten expands col, an Array(x)-typed column of t, one row per element;
// every other column is replicated across the expanded rows. The result
// universe is fresh and unrelated to t.U (there is no subset relationship
// between a table and its flattening).
func (t Table) Flatten(col ids.ColumnID) (Table, error) {
	orig, ok := t.byID[col]
	if !ok {
		return Table{}, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", col))
	}
	elem, ok := dtype.Unoptionalize(orig.Properties().Type).Inner()
	if !ok {
		return Table{}, flowerrors.TypeMismatch.New("<flatten>", "Array(_)", orig.Properties().Type.String())
	}

	newU := t.builder.Solver().NewUniverse()

	ctxFor := func(_, newID ids.ColumnID) column.Context {
		return column.FlattenContext{FlattenColumn: col, ResultColumn: newID, Orig: t.universe}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, map[ids.ColumnID]dtype.Type{col: elem})

	return t.build(buildSpec{
		kind:       "flatten",
		inputs:     []ids.TableID{t.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
