package table

import (
	"fmt"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
)

// WithID reindexes t so its identity is derived from key, an existing
// Pointer-typed column of t. The result is a fresh universe (a new identity
// space); schema is preserved.
func (t Table) WithID(key ids.ColumnID) (Table, error) {
	keyCol, ok := t.byID[key]
	if !ok {
		return Table{}, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", key))
	}
	if !dtype.Unoptionalize(keyCol.Properties().Type).IsPointer() {
		return Table{}, flowerrors.TypeMismatch.New("<with_id>", dtype.Pointer.String(), keyCol.Properties().Type.String())
	}
	return t.withIDKeyed(key, nil)
}

// WithIDFrom derives a fresh identity from pointer_from(exprs...): a pure
// pseudo-random hash guaranteeing row-wise uniqueness when the inputs
// differ. The hash itself is computed by the execution engine at run time
// (package engineapi/memengine); here the plan only records the
// PointerCtor expression and the key column it is bound into.
func (t Table) WithIDFrom(exprs ...expr.Expr) (Table, error) {
	if len(exprs) == 0 {
		return Table{}, flowerrors.EmptyInput.New("table.WithIDFrom")
	}
	ctx := column.RowwiseContext{Universe: t.universe}
	env := column.TypeEnv(ctx, t)
	for _, e := range exprs {
		if err := t.columnsInTable(e); err != nil {
			return Table{}, err
		}
		if _, err := expr.TypeOf(e, env); err != nil {
			return Table{}, err
		}
	}

	ctor := expr.PointerCtor{Args: exprs, Optional: false}
	keyID := t.builder.NewColumnID()
	lineage := column.NewLineage()
	keyCol := column.NewWithExpression(t.universe, column.Properties{Type: dtype.Pointer, AppendOnly: false}, lineage, ctx, ctor)

	extraByID := map[ids.ColumnID]column.Column{keyID: keyCol}
	extraFresh := []graph.FreshColumn{{ID: keyID, Name: "<with_id_from-key>", Lineage: lineage}}
	return t.withIDKeyed(keyID, extraByID, extraFresh)
}

// withIDKeyed reindexes t under keyID (already resolvable in byID — either
// an existing column of t, or one of extraByID minted by the caller), and
// records extraFresh alongside the reindex node's own fresh columns so
// every newly minted column (including ones never exposed in the output
// schema, like pointer_from's synthetic key column) gets its lineage
// assigned exactly once.
func (t Table) withIDKeyed(keyID ids.ColumnID, extraByID map[ids.ColumnID]column.Column, extraFresh ...[]graph.FreshColumn) (Table, error) {
	newU := t.builder.Solver().NewUniverse()
	ctxFor := func(ids.ColumnID, ids.ColumnID) column.Context {
		return column.ReindexContext{KeyColumn: keyID}
	}
	order, cols, byID, fresh, idID := t.rebindSubset(newU, ctxFor, nil)

	for id, col := range extraByID {
		byID[id] = col
	}
	for _, fc := range extraFresh {
		fresh = append(fc, fresh...)
	}

	return t.build(buildSpec{
		kind:       "with_id",
		inputs:     []ids.TableID{t.tableID},
		universe:   newU,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
