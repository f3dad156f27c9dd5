package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// Restrict subsets t to target, which must already be known (via the
// universe solver) to be a subset of t's own universe — the precondition
// distinguishing Restrict from Filter: Restrict never creates a new fact,
// it only exploits one already proven.
func (t Table) Restrict(target universe.Universe) (Table, error) {
	if !t.builder.Solver().QueryIsSubset(target, t.universe) {
		return Table{}, flowerrors.UniverseMismatch.New(
			"restrict target is not a known subset of this table's universe; use filter or promise_is_subset_of first")
	}

	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.RestrictContext{Target: target, Original: t.universe}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(target, ctxFor, nil)

	return t.build(buildSpec{
		kind:       "restrict",
		inputs:     []ids.TableID{t.tableID},
		universe:   target,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
