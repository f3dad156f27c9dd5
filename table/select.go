package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
)

// Assignment names one output column of a select(), a reduce(), or a
// rewrite operator, and the expression computing it.
type Assignment struct {
	Name string
	Expr expr.Expr
}

// Select projects t onto assignments, computed rowwise against t's own
// columns. A pure column reference (T[name] with no transformation) is
// passed through under the same column id — the operator never manufactures
// a new identity for a column it didn't actually change, so
// T.Select(passthrough-only) round-trips to a table sharing every column id
// with T.
func (t Table) Select(assignments []Assignment) (Table, error) {
	if len(assignments) == 0 {
		return Table{}, flowerrors.EmptyInput.New("table.Select")
	}

	ctx := column.RowwiseContext{Universe: t.universe}
	env := column.TypeEnv(ctx, t)

	order := make([]string, 0, len(assignments))
	cols := make(map[string]ids.ColumnID, len(assignments))
	byID := make(map[ids.ColumnID]column.Column, len(assignments)+1)
	var fresh []graph.FreshColumn

	for _, a := range assignments {
		if err := t.columnsInTable(a.Expr); err != nil {
			return Table{}, err
		}
		ty, err := expr.TypeOf(a.Expr, env)
		if err != nil {
			return Table{}, err
		}

		var id ids.ColumnID
		if ref, ok := a.Expr.(expr.ColumnRef); ok {
			id = ref.Column
			byID[id] = t.byID[ref.Column]
		} else {
			id = t.builder.NewColumnID()
			lineage := column.NewLineage()
			props := column.Properties{Type: ty, AppendOnly: false}
			byID[id] = column.NewWithExpression(t.universe, props, lineage, ctx, a.Expr)
			fresh = append(fresh, graph.FreshColumn{ID: id, Name: a.Name, Lineage: lineage})
		}
		order = append(order, a.Name)
		cols[a.Name] = id
	}

	byID[t.idColumnID] = t.byID[t.idColumnID]

	return t.build(buildSpec{
		kind:       "select",
		inputs:     []ids.TableID{t.tableID},
		universe:   t.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: t.idColumnID,
	})
}
