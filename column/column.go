// Package column implements columns bound to universes, and the Context
// metadata describing the operator kind under which a lazy column's
// expression is evaluated.
package column

import (
	"fmt"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// Properties carries a column's dtype and append-only flag — the part of
// a Schema.Field that travels with the column itself.
type Properties struct {
	Type       dtype.Type
	AppendOnly bool
}

// Lineage carries a display name and a back-reference to the operator
// node that produced a column. It is assigned exactly once, by
// graph.Builder.Add, after the operator is placed in the parse graph;
// assigning twice is an InvariantViolation.
type Lineage struct {
	cell *lineageCell
}

type lineageCell struct {
	set  bool
	name string
	node ids.NodeID
}

// NewLineage returns an unassigned Lineage, to be filled in once by the
// parse graph.
func NewLineage() Lineage {
	return Lineage{cell: &lineageCell{}}
}

// Assign sets name/node on l the first time it is called. A second call
// panics with flowerrors.InvariantViolation: lineage is set-once by
// design, and a second write means the graph builder has a bug.
func (l Lineage) Assign(name string, node ids.NodeID) {
	if l.cell.set {
		panic(flowerrors.InvariantViolation.New(
			fmt.Sprintf("lineage already assigned: name=%q node=%d", l.cell.name, l.cell.node)))
	}
	l.cell.name = name
	l.cell.node = node
	l.cell.set = true
}

// Get returns the assigned name/node, or ok=false if Assign has not been
// called yet (e.g. a column still under construction, not yet placed in
// the graph).
func (l Lineage) Get() (name string, node ids.NodeID, ok bool) {
	if l.cell == nil || !l.cell.set {
		return "", 0, false
	}
	return l.cell.name, l.cell.node, true
}

// Column is a value per row of a universe. Every variant below carries the
// shared base fields through an embedded base.
type Column interface {
	Universe() universe.Universe
	Properties() Properties
	Lineage() Lineage
	isColumn()
}

type base struct {
	universe   universe.Universe
	properties Properties
	lineage    Lineage
}

func (b base) Universe() universe.Universe { return b.universe }
func (b base) Properties() Properties      { return b.properties }
func (b base) Lineage() Lineage            { return b.lineage }

// Materialized is a physical column produced by an operator; after
// lowering it owns an engine-side handle, tracked by scope.State (not
// here — columns are plan-time values and are never mutated once built).
type Materialized struct {
	base
}

func (Materialized) isColumn() {}

// NewMaterialized constructs a Materialized column bound to u.
func NewMaterialized(u universe.Universe, props Properties, lineage Lineage) Materialized {
	return Materialized{base{universe: u, properties: props, lineage: lineage}}
}

// WithExpression is a lazy column: (context, expression). It is
// semantically equivalent to evaluating Expr within Context's universe.
type WithExpression struct {
	base
	Context Context
	Expr    expr.Expr
}

func (WithExpression) isColumn() {}

// NewWithExpression constructs a lazy column.
func NewWithExpression(u universe.Universe, props Properties, lineage Lineage, ctx Context, e expr.Expr) WithExpression {
	return WithExpression{base{universe: u, properties: props, lineage: lineage}, ctx, e}
}

// IdColumn is the implicit identity column of a table's universe: its
// value is the row's own key.
type IdColumn struct {
	base
}

func (IdColumn) isColumn() {}

// NewIdColumn constructs the identity column of universe u. Its dtype is
// always Pointer.
func NewIdColumn(u universe.Universe, lineage Lineage) IdColumn {
	return IdColumn{base{universe: u, properties: Properties{Type: dtype.Pointer, AppendOnly: true}, lineage: lineage}}
}

// ExternalMaterialized is a placeholder representing engine-supplied data;
// it is not stored in any logical storage. scope.State has no separate
// path for this variant: it resolves columns only through a registered
// Storage.
type ExternalMaterialized struct {
	base
}

func (ExternalMaterialized) isColumn() {}

// NewExternalMaterialized constructs an externally-supplied column.
func NewExternalMaterialized(u universe.Universe, props Properties, lineage Lineage) ExternalMaterialized {
	return ExternalMaterialized{base{universe: u, properties: props, lineage: lineage}}
}
