package table

import (
	"fmt"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// GroupedTable is the intermediate value groupby() returns: a pending
// aggregation, not yet a Table, until reduce() supplies the output
// expressions.
type GroupedTable struct {
	orig      Table
	groupCols []ids.ColumnID
	universe  universe.Universe
}

// GroupBy starts a grouped aggregation over cols, columns of t. The grouped
// result universe is always fresh: a new identity space keyed by distinct
// group-by values (pointer_from(cols) unless reduce's caller is expected to
// override the identity through a later with_id, matching the source's
// `id=` escape hatch).
func (t Table) GroupBy(cols ...ids.ColumnID) (GroupedTable, error) {
	if len(cols) == 0 {
		return GroupedTable{}, flowerrors.EmptyInput.New("table.GroupBy")
	}
	for _, c := range cols {
		if _, ok := t.byID[c]; !ok {
			return GroupedTable{}, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", c))
		}
	}
	newU := t.builder.Solver().NewUniverse()
	return GroupedTable{orig: t, groupCols: append([]ids.ColumnID(nil), cols...), universe: newU}, nil
}

// Reduce computes assignments under g's grouped context. Every assignment
// must either be a bare reference to one of the group columns (passthrough
// of the grouping key) or contain a Reducer node; reducers are illegal
// anywhere expressions are typed rowwise, so InGroupedContext gates them.
func (g GroupedTable) Reduce(assignments []Assignment) (Table, error) {
	if len(assignments) == 0 {
		return Table{}, flowerrors.EmptyInput.New("table.Reduce")
	}

	ctx := column.GroupedContext{GroupColumns: g.groupCols, Universe: g.universe}
	env := column.TypeEnv(ctx, g.orig)

	isGroupCol := make(map[ids.ColumnID]bool, len(g.groupCols))
	for _, c := range g.groupCols {
		isGroupCol[c] = true
	}

	order := make([]string, 0, len(assignments))
	cols := make(map[string]ids.ColumnID, len(assignments))
	byID := make(map[ids.ColumnID]column.Column, len(assignments)+1)
	var fresh []graph.FreshColumn

	for _, a := range assignments {
		if err := g.orig.columnsInTable(a.Expr); err != nil {
			return Table{}, err
		}
		ref, isRef := a.Expr.(expr.ColumnRef)
		if !expr.ContainsReducer(a.Expr) && !(isRef && isGroupCol[ref.Column]) {
			return Table{}, flowerrors.TypeMismatch.New(a.Name,
				"reducer expression or grouping-column reference", "plain rowwise expression")
		}

		ty, err := expr.TypeOf(a.Expr, env)
		if err != nil {
			return Table{}, err
		}

		id := g.orig.builder.NewColumnID()
		lineage := column.NewLineage()
		byID[id] = column.NewWithExpression(g.universe, column.Properties{Type: ty, AppendOnly: false}, lineage, ctx, a.Expr)
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: a.Name, Lineage: lineage})
		order = append(order, a.Name)
		cols[a.Name] = id
	}

	idID, idCol, idFresh := mintIDColumn(g.orig.builder, g.universe)
	byID[idID] = idCol
	fresh = append(fresh, idFresh)

	return g.orig.build(buildSpec{
		kind:       "reduce",
		inputs:     []ids.TableID{g.orig.tableID},
		universe:   g.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
