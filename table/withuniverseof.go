package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/ids"
)

// WithUniverseOf binds t to other's universe. If the solver already knows
// them equal, this is a no-op copy of t. Otherwise it records the equality
// as a new promise (failing with UniverseContradiction if the solver
// already proved them disjoint) and rebuilds t's columns under a
// PromiseSameUniverse context asserting the equality to the runtime.
func (t Table) WithUniverseOf(other Table) (Table, error) {
	solver := t.builder.Solver()
	if solver.QueryAreEqual(t.universe, other.universe) {
		return t, nil
	}
	if err := solver.PromiseAreEqual(t.universe, other.universe); err != nil {
		return Table{}, err
	}

	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.PromiseSameUniverseContext{Claimed: other.universe}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(other.universe, ctxFor, nil)

	return t.build(buildSpec{
		kind:       "with_universe_of",
		inputs:     []ids.TableID{t.tableID, other.tableID},
		universe:   other.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
