package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// Difference returns the rows of t not present in other: result universe is
// solver.GetDifference(t.U, other.U), a fresh subset of t.U disjoint from
// other.U; schema is preserved.
func (t Table) Difference(other Table) (Table, error) {
	newU, err := t.builder.Solver().GetDifference(t.universe, other.universe)
	if err != nil {
		return Table{}, err
	}
	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.DifferenceContext{Left: t.universe, Right: other.universe}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, nil)
	return t.build(buildSpec{
		kind:       "difference",
		inputs:     []ids.TableID{t.tableID, other.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}

// Intersect returns the rows of t common to every table in others. If the
// solver can prove one of the universes involved is a subset of every
// other, that shortcut is taken and the result is built under a Restrict
// context instead of a fresh Intersect context — the source's own
// optimization, preserved here. Schema is preserved.
func (t Table) Intersect(others ...Table) (Table, error) {
	all := append([]Table{t}, others...)
	us := make([]universe.Universe, len(all))
	for i, tab := range all {
		us[i] = tab.universe
	}

	solver := t.builder.Solver()
	newU, err := solver.GetIntersection(us...)
	if err != nil {
		return Table{}, err
	}

	shortcut := false
	for _, u := range us {
		if newU == u {
			shortcut = true
			break
		}
	}

	var ctxFor func(ids.ColumnID, ids.ColumnID) column.Context
	if shortcut {
		// GetIntersection returned one of the arguments directly: it is
		// already known a subset of every other argument, t's included.
		ctxFor = func(ids.ColumnID, ids.ColumnID) column.Context {
			return column.RestrictContext{Target: newU, Original: t.universe}
		}
	} else {
		ctxFor = func(ids.ColumnID, ids.ColumnID) column.Context {
			return column.IntersectContext{Universes: us}
		}
	}

	inputs := make([]ids.TableID, len(all))
	for i, tab := range all {
		inputs[i] = tab.tableID
	}

	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, nil)
	return t.build(buildSpec{
		kind:       "intersect",
		inputs:     inputs,
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
