package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
)

// Filter restricts t to the rows where cond holds. cond must type as Bool
// (optionally Optional(Bool), treated as false on None). The special
// syntactic form `col is not None` narrows the result column's dtype by
// stripping one level of Optional — the source's well-known type-narrowing
// idiom.
func (t Table) Filter(cond expr.Expr) (Table, error) {
	if err := t.columnsInTable(cond); err != nil {
		return Table{}, err
	}

	ctx := column.RowwiseContext{Universe: t.universe}
	env := column.TypeEnv(ctx, t)
	condType, err := expr.TypeOf(cond, env)
	if err != nil {
		return Table{}, err
	}
	if dtype.Unoptionalize(condType).Kind() != dtype.KindBool {
		return Table{}, flowerrors.TypeMismatch.New("<filter>", dtype.Bool.String(), condType.String())
	}

	var filterColID ids.ColumnID
	var extraFresh []graph.FreshColumn
	if ref, ok := cond.(expr.ColumnRef); ok {
		filterColID = ref.Column
	} else {
		filterColID = t.builder.NewColumnID()
		lineage := column.NewLineage()
		extraFresh = append(extraFresh, graph.FreshColumn{ID: filterColID, Name: "<filter-predicate>", Lineage: lineage})
	}

	newU := t.builder.Solver().NewUniverse()
	if err := t.builder.Solver().PromiseIsSubsetOf(newU, t.universe); err != nil {
		return Table{}, err
	}

	narrow := map[ids.ColumnID]dtype.Type{}
	if narrowedRef, ok := expr.GetColumnFilteredByIsNone(cond); ok && narrowedRef.Table == t.tableID {
		if origCol, ok := t.byID[narrowedRef.Column]; ok {
			narrow[narrowedRef.Column] = dtype.Unoptionalize(origCol.Properties().Type)
		}
	}

	ctxFor := func(origID, _ ids.ColumnID) column.Context {
		return column.FilterContext{FilterColumn: filterColID, Original: t.universe}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, narrow)
	fresh = append(extraFresh, fresh...)

	return t.build(buildSpec{
		kind:       "filter",
		inputs:     []ids.TableID{t.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
