package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// Having keeps the rows of t whose id is present among indexers' values.
// Zero indexers is a documented no-op: t is returned unchanged. Multiple
// indexers intersect: each contributes its own subset universe of t.U, and
// the final result is their solver intersection.
func (t Table) Having(indexers ...ids.ColumnID) (Table, error) {
	if len(indexers) == 0 {
		return t, nil
	}

	solver := t.builder.Solver()
	subsets := make([]universe.Universe, len(indexers))
	for i := range indexers {
		u := solver.NewUniverse()
		if err := solver.PromiseIsSubsetOf(u, t.universe); err != nil {
			return Table{}, err
		}
		subsets[i] = u
	}

	newU := subsets[0]
	if len(subsets) > 1 {
		var err error
		newU, err = solver.GetIntersection(subsets...)
		if err != nil {
			return Table{}, err
		}
	}

	representative := indexers[0]
	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.HavingContext{Indexer: representative}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, nil)
	return t.build(buildSpec{
		kind:       "having",
		inputs:     []ids.TableID{t.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
