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

// Concat is the disjoint union of t and others: every argument must share
// the same column key-set, and their universes must be pairwise disjoint
// (proven by the solver — same-universe inputs are an error here, not a
// warning, unless the solver can prove disjointness some other way).
// Column dtypes merge via LCA; result universe is solver.GetUnion(...).
func (t Table) Concat(others ...Table) (Table, error) {
	all := append([]Table{t}, others...)
	for _, o := range all[1:] {
		if !rowschema.SameColumnSet(t.schema, o.schema) {
			return Table{}, flowerrors.SchemaMismatch.New(rowschema.SymmetricDifference(t.schema, o.schema))
		}
	}

	us := make([]universe.Universe, len(all))
	for i, tab := range all {
		us[i] = tab.universe
	}
	solver := t.builder.Solver()
	if !solver.QueryAreDisjoint(us...) {
		return Table{}, flowerrors.UniverseMismatch.New("concat requires pairwise disjoint universes")
	}
	newU, err := solver.GetUnion(us...)
	if err != nil {
		return Table{}, err
	}

	perSource := make(map[universe.Universe][]ids.ColumnID, len(all))
	for _, tab := range all {
		colIDs := make([]ids.ColumnID, len(tab.order))
		for i, name := range tab.order {
			colIDs[i] = tab.byName[name]
		}
		perSource[tab.universe] = colIDs
	}
	ctx := column.ConcatUnsafeContext{Universes: us, PerSourceColumns: perSource}

	order := append([]string(nil), t.order...)
	cols := make(map[string]ids.ColumnID, len(order))
	byID := make(map[ids.ColumnID]column.Column, len(order)+1)
	var fresh []graph.FreshColumn

	for _, name := range order {
		ty, err := dtype.LCAAll(fieldTypes(all, name)...)
		if err != nil {
			return Table{}, err
		}
		id := t.builder.NewColumnID()
		lineage := column.NewLineage()
		byID[id] = column.NewWithExpression(newU, column.Properties{Type: ty, AppendOnly: false}, lineage, ctx, nil)
		cols[name] = id
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
	}

	idID, idCol, idFresh := mintIDColumn(t.builder, newU)
	byID[idID] = idCol
	fresh = append(fresh, idFresh)

	inputs := make([]ids.TableID, len(all))
	for i, tab := range all {
		inputs[i] = tab.tableID
	}

	return t.build(buildSpec{
		kind:       "concat",
		inputs:     inputs,
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}

func fieldTypes(tabs []Table, name string) []dtype.Type {
	out := make([]dtype.Type, len(tabs))
	for i, tab := range tabs {
		f, _ := tab.schema.Field(name)
		out[i] = f.Type
	}
	return out
}

// ConcatReindex reindexes t and every argument by a fresh, independent
// identity (discarding their original keys), promises the results pairwise
// disjoint, and concatenates them.
func (t Table) ConcatReindex(others ...Table) (Table, error) {
	all := append([]Table{t}, others...)
	reindexed := make([]Table, len(all))
	for i, tab := range all {
		r, err := tab.reindexByRowIndex()
		if err != nil {
			return Table{}, err
		}
		reindexed[i] = r
	}

	us := make([]universe.Universe, len(reindexed))
	for i, r := range reindexed {
		us[i] = r.universe
	}
	if err := t.builder.Solver().PromiseArePairwiseDisjoint(us...); err != nil {
		return Table{}, err
	}

	return reindexed[0].Concat(reindexed[1:]...)
}

func (t Table) reindexByRowIndex() (Table, error) {
	newU := t.builder.Solver().NewUniverse()
	keyID := t.idColumnID
	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.ReindexContext{KeyColumn: keyID}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, nil)
	return t.build(buildSpec{
		kind:       "reindex",
		inputs:     []ids.TableID{t.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
