package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// Ix reindexes t by keyColumn, a pointer-typed column belonging to whatever
// table keyUniverse is the universe of: the result is aligned row-for-row
// with keyUniverse instead of t.U, exactly the escape hatch select()
// otherwise forbids ("fails if any expression references a column whose
// universe != U unless wrapped by ix"). If optional is true every column's
// dtype is widened to Optional, since a key value might not resolve to any
// row of t.
func (t Table) Ix(keyColumn ids.ColumnID, keyUniverse universe.Universe, optional bool) (Table, error) {
	var narrow map[ids.ColumnID]dtype.Type
	if optional {
		narrow = make(map[ids.ColumnID]dtype.Type, len(t.order))
		for _, name := range t.order {
			id := t.byName[name]
			narrow[id] = dtype.Optional(t.byID[id].Properties().Type)
		}
	}

	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.IxContext{KeyColumn: keyColumn, Optional: optional}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(keyUniverse, ctxFor, narrow)
	return t.build(buildSpec{
		kind:       "ix",
		inputs:     []ids.TableID{t.tableID},
		universe:   keyUniverse,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
