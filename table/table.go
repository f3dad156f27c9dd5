// Package table implements the logical operator contracts over streams:
// select, filter, join-like set operations, groupby/reduce, concat,
// update, reindex, flatten, ix. Every operator returns a fresh, immutable
// Table, sharing columns with its input wherever the operator's semantics
// allow it (the copy-on-write discipline the teacher's transform package
// calls TreeIdentity: SameTree/NewTree, generalized here to "same column
// id" vs "fresh column id").
package table

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/rowschema"
	"github.com/pathwaydb/flowcore/universe"
)

var log = logrus.WithField("component", "table")

// Table is (ordered mapping name->Column, universe U, primary-key columns
// subset, schema, identity column). Tables are immutable values; every
// operator method returns a fresh Table.
type Table struct {
	builder *graph.Builder
	tableID ids.TableID

	universe universe.Universe
	order    []string
	byName   map[string]ids.ColumnID
	byID     map[ids.ColumnID]column.Column

	schema     rowschema.Schema
	primaryKey []string

	idColumnID ids.ColumnID
}

// Builder returns the parse-graph builder this table was built through.
// Two tables can only be combined by operators (concat, update_*) if
// they share the same Builder.
func (t Table) Builder() *graph.Builder { return t.builder }

// Universe returns t's universe.
func (t Table) Universe() universe.Universe { return t.universe }

// TableID returns the id this table's producing node registered as its
// output — the id expr.ColumnRef.Table uses to tag "this table's own
// columns" in expressions built against t.
func (t Table) TableID() ids.TableID { return t.tableID }

// Schema returns t's schema. schema.Names() == t.ColumnNames() in order,
// the core representation invariant.
func (t Table) Schema() rowschema.Schema { return t.schema }

// ColumnNames returns the table's column names in schema order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// PrimaryKey returns the subset of column names forming the table's
// primary key, if any were declared (with_id/with_id_from always set the
// identity column; PrimaryKey is about declared key columns on top of
// that). None of the operators in this package declare one, groupby
// included, so it is empty for every table they build.
func (t Table) PrimaryKey() []string {
	out := make([]string, len(t.primaryKey))
	copy(out, t.primaryKey)
	return out
}

// Column returns the logical column bound to name, or ok=false.
func (t Table) Column(name string) (column.Column, bool) {
	id, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.byID[id], true
}

// ColumnID returns the id bound to name, or ok=false.
func (t Table) ColumnID(name string) (ids.ColumnID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// ColumnRef builds an expr.ColumnRef pointing at name, for use in
// expressions built against t (select, filter, reduce, ...). It panics if
// name is not a column of t — the same way indexing a map with a known-bad
// key would be a caller bug, not a recoverable runtime condition.
func (t Table) ColumnRef(name string) expr.ColumnRef {
	id, ok := t.byName[name]
	if !ok {
		panic(flowerrors.UnknownColumn.New(name))
	}
	return expr.ColumnRef{Table: t.tableID, Column: id, Name: name}
}

// IDColumnRef builds an expr.ColumnRef to t's implicit identity column.
func (t Table) IDColumnRef() expr.ColumnRef {
	return expr.ColumnRef{Table: t.tableID, Column: t.idColumnID, Name: "id"}
}

// Properties implements column.Resolver so a Table's own columns can be
// typed through expr.TypeOf via column.TypeEnv.
func (t Table) Properties(id ids.ColumnID) (column.Properties, error) {
	col, ok := t.byID[id]
	if !ok {
		return column.Properties{}, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", id))
	}
	return col.Properties(), nil
}

// columnsInTable reports whether every ColumnRef in e points at t's own
// table id — the precondition select/filter/groupby expressions must
// satisfy unless the column arrived through ix.
func (t Table) columnsInTable(e expr.Expr) error {
	for _, tbl := range expr.CollectTables(e) {
		if tbl != t.tableID {
			return flowerrors.UniverseMismatch.New(
				fmt.Sprintf("expression references table %d, not this table (%d)", tbl, t.tableID))
		}
	}
	return nil
}

// spec bundles everything needed to build a new Table sharing this
// builder/graph: the pieces an operator computes, before the parse graph
// records the node and assigns lineage to freshly-created columns.
type buildSpec struct {
	kind       string
	inputs     []ids.TableID
	universe   universe.Universe
	order      []string
	cols       map[string]ids.ColumnID
	byID       map[ids.ColumnID]column.Column
	fresh      []graph.FreshColumn
	primaryKey []string
	idColumnID ids.ColumnID
}

// build records spec's operator node in the parse graph (assigning
// lineage to every fresh column exactly once) and returns the resulting
// Table.
func (t Table) build(spec buildSpec) (Table, error) {
	if spec.idColumnID == 0 {
		return Table{}, flowerrors.InvariantViolation.New("buildSpec missing idColumnID")
	}
	schema, err := schemaFromSpec(spec)
	if err != nil {
		return Table{}, err
	}

	node := t.builder.Add(spec.kind, spec.inputs, spec.fresh)
	log.WithFields(logrus.Fields{"kind": spec.kind, "node": node.ID()}).Debug("operator built")

	return Table{
		builder:    t.builder,
		tableID:    node.Output(),
		universe:   spec.universe,
		order:      spec.order,
		byName:     spec.cols,
		byID:       spec.byID,
		schema:     schema,
		primaryKey: spec.primaryKey,
		idColumnID: spec.idColumnID,
	}, nil
}

func schemaFromSpec(spec buildSpec) (rowschema.Schema, error) {
	fields := make([]rowschema.Field, len(spec.order))
	for i, name := range spec.order {
		id := spec.cols[name]
		col := spec.byID[id]
		props := col.Properties()
		fields[i] = rowschema.Field{Name: name, Type: props.Type, AppendOnly: props.AppendOnly}
	}
	return rowschema.New(fields...)
}

// FromColumns constructs a brand-new base Table from a fresh universe and
// an ordered set of materialized columns, minted by builder. It is the
// entry point every source/connector and the debug loader (tabular) use
// to lift external data into the plan; it fails on zero columns.
func FromColumns(builder *graph.Builder, names []string, props []column.Properties) (Table, error) {
	if len(names) == 0 {
		return Table{}, flowerrors.EmptyInput.New("table.FromColumns")
	}
	if len(names) != len(props) {
		return Table{}, flowerrors.SchemaMismatch.New([]string{"names and props length mismatch"})
	}

	u := builder.Solver().NewUniverse()

	byName := make(map[string]ids.ColumnID, len(names))
	byID := make(map[ids.ColumnID]column.Column, len(names)+1)
	var fresh []graph.FreshColumn

	idLineage := column.NewLineage()
	idID := builder.NewColumnID()
	byID[idID] = column.NewIdColumn(u, idLineage)
	fresh = append(fresh, graph.FreshColumn{ID: idID, Name: "id", Lineage: idLineage})

	for i, name := range names {
		id := builder.NewColumnID()
		lineage := column.NewLineage()
		byID[id] = column.NewMaterialized(u, props[i], lineage)
		byName[name] = id
		fresh = append(fresh, graph.FreshColumn{ID: id, Name: name, Lineage: lineage})
	}

	empty := Table{builder: builder}
	return empty.build(buildSpec{
		kind:       "from_columns",
		inputs:     nil,
		universe:   u,
		order:      append([]string(nil), names...),
		cols:       byName,
		byID:       byID,
		fresh:      fresh,
		idColumnID: idID,
	})
}
