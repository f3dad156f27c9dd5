package table

import (
	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
)

// Rename renames t's columns per mapping (old name -> new name); columns
// not named in mapping keep their name. Universe and column identities are
// unchanged — rename touches only the name-to-id mapping, not the columns
// themselves.
func (t Table) Rename(mapping map[string]string) (Table, error) {
	order := make([]string, len(t.order))
	cols := make(map[string]ids.ColumnID, len(t.order))
	byID := make(map[ids.ColumnID]column.Column, len(t.byID))
	for id, col := range t.byID {
		byID[id] = col
	}

	seen := make(map[string]bool, len(t.order))
	for i, old := range t.order {
		name := old
		if n, ok := mapping[old]; ok {
			name = n
		}
		if seen[name] {
			return Table{}, flowerrors.SchemaMismatch.New([]string{name})
		}
		seen[name] = true
		order[i] = name
		cols[name] = t.byName[old]
	}

	return t.build(buildSpec{
		kind:       "rename",
		inputs:     []ids.TableID{t.tableID},
		universe:   t.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      nil,
		idColumnID: t.idColumnID,
	})
}

// WithPrefix prefixes every column name with prefix.
func (t Table) WithPrefix(prefix string) (Table, error) {
	mapping := make(map[string]string, len(t.order))
	for _, name := range t.order {
		mapping[name] = prefix + name
	}
	return t.Rename(mapping)
}

// WithSuffix suffixes every column name with suffix.
func (t Table) WithSuffix(suffix string) (Table, error) {
	mapping := make(map[string]string, len(t.order))
	for _, name := range t.order {
		mapping[name] = name + suffix
	}
	return t.Rename(mapping)
}

// Without drops names from t's schema; it is an error to name a column that
// is not present.
func (t Table) Without(names ...string) (Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !t.schema.Has(n) {
			return Table{}, flowerrors.UnknownColumn.New(n)
		}
		drop[n] = true
	}

	order := make([]string, 0, len(t.order))
	cols := make(map[string]ids.ColumnID, len(t.order))
	byID := make(map[ids.ColumnID]column.Column, len(t.byID))
	for _, name := range t.order {
		if drop[name] {
			continue
		}
		order = append(order, name)
		id := t.byName[name]
		cols[name] = id
		byID[id] = t.byID[id]
	}
	byID[t.idColumnID] = t.byID[t.idColumnID]

	return t.build(buildSpec{
		kind:       "without",
		inputs:     []ids.TableID{t.tableID},
		universe:   t.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      nil,
		idColumnID: t.idColumnID,
	})
}

// UpdateTypes asserts new declared dtypes for the named columns without any
// runtime check (expr.Declare) — for cases where the caller has external
// knowledge the type checker cannot derive on its own.
func (t Table) UpdateTypes(overrides map[string]dtype.Type) (Table, error) {
	return t.rewriteTypes(overrides, false)
}

// CastToTypes coerces the named columns to new dtypes at run time
// (expr.Cast), failing if a value cannot be converted.
func (t Table) CastToTypes(overrides map[string]dtype.Type) (Table, error) {
	return t.rewriteTypes(overrides, true)
}

func (t Table) rewriteTypes(overrides map[string]dtype.Type, runtimeCast bool) (Table, error) {
	ctx := column.RowwiseContext{Universe: t.universe}

	order := append([]string(nil), t.order...)
	cols := make(map[string]ids.ColumnID, len(order))
	byID := make(map[ids.ColumnID]column.Column, len(order)+1)
	var fresh []graph.FreshColumn

	for _, name := range order {
		origID := t.byName[name]
		target, overridden := overrides[name]
		if !overridden {
			cols[name] = origID
			byID[origID] = t.byID[origID]
			continue
		}

		ref := expr.ColumnRef{Table: t.tableID, Column: origID, Name: name}
		var e expr.Expr
		if runtimeCast {
			e = expr.Cast{Operand: ref, Target: target}
		} else {
			e = expr.Declare{Operand: ref, Target: target}
		}

		id := t.builder.NewColumnID()
		lineage := column.NewLineage()
		byID[id] = column.NewWithExpression(t.universe, column.Properties{Type: target, AppendOnly: false}, lineage, ctx, e)
		cols[name] = id
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
	}
	byID[t.idColumnID] = t.byID[t.idColumnID]

	kind := "update_types"
	if runtimeCast {
		kind = "cast_to_types"
	}
	return t.build(buildSpec{
		kind:       kind,
		inputs:     []ids.TableID{t.tableID},
		universe:   t.universe,
		order:      order,
		cols:       cols,
		byID:       byID,
		fresh:      fresh,
		idColumnID: t.idColumnID,
	})
}
