package column

import (
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// ContextKind tags which operator produced a Context.
type ContextKind int

const (
	CtxRowwise ContextKind = iota
	CtxFilter
	CtxRestrict
	CtxDifference
	CtxIntersect
	CtxReindex
	CtxConcatUnsafe
	CtxUpdateCells
	CtxUpdateRows
	CtxFlatten
	CtxForget
	CtxFreeze
	CtxBuffer
	CtxFilterOutForgetting
	CtxIx
	CtxHaving
	CtxPromiseSameUniverse
	CtxSorting
	// CtxGrouped is not in the spec's context table verbatim but is the
	// context reduce() expressions are typed under — the thing that makes
	// Reducer nodes legal. groupby(...).reduce(...) builds one of these.
	CtxGrouped
)

// Context is tagged metadata identifying an operator kind and its
// arguments at the column level. Every variant below implements it.
type Context interface {
	Kind() ContextKind
	// Dependencies enumerates the columns this context consumes, besides
	// whatever a bound WithExpression column's own expression references.
	Dependencies() []ids.ColumnID
}

// Resolver is the minimal column-metadata lookup a Context's type
// interpreter needs; package table implements it over a table's column
// map.
type Resolver interface {
	Properties(ids.ColumnID) (Properties, error)
}

// TypeEnv returns the expr.TypeEnv implied by ctx: column types resolve
// through r, and Reducer expressions are legal only under CtxGrouped. This
// is the "type interpreter" service every Context exposes.
func TypeEnv(ctx Context, r Resolver) expr.TypeEnv {
	return boundTypeEnv{resolver: r, grouped: ctx.Kind() == CtxGrouped}
}

type boundTypeEnv struct {
	resolver Resolver
	grouped  bool
}

func (e boundTypeEnv) ColumnType(_ ids.TableID, col ids.ColumnID) (dtype.Type, error) {
	p, err := e.resolver.Properties(col)
	if err != nil {
		return dtype.Type{}, err
	}
	return p.Type, nil
}

func (e boundTypeEnv) InGroupedContext() bool { return e.grouped }

// RowwiseContext is a plain projection: the owning universe, no subsetting
// or merging.
type RowwiseContext struct {
	Universe universe.Universe
}

func (RowwiseContext) Kind() ContextKind        { return CtxRowwise }
func (RowwiseContext) Dependencies() []ids.ColumnID { return nil }

// FilterContext subsets rows by a boolean column.
type FilterContext struct {
	FilterColumn ids.ColumnID
	Original     universe.Universe
}

func (FilterContext) Kind() ContextKind { return CtxFilter }
func (c FilterContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.FilterColumn}
}

// RestrictContext subsets by a universe already proven a subset of
// Original.
type RestrictContext struct {
	Target   universe.Universe
	Original universe.Universe
}

func (RestrictContext) Kind() ContextKind            { return CtxRestrict }
func (RestrictContext) Dependencies() []ids.ColumnID { return nil }

// DifferenceContext is Left minus Right.
type DifferenceContext struct {
	Left, Right universe.Universe
}

func (DifferenceContext) Kind() ContextKind            { return CtxDifference }
func (DifferenceContext) Dependencies() []ids.ColumnID { return nil }

// IntersectContext is the intersection of N universes.
type IntersectContext struct {
	Universes []universe.Universe
}

func (IntersectContext) Kind() ContextKind            { return CtxIntersect }
func (IntersectContext) Dependencies() []ids.ColumnID { return nil }

// ReindexContext derives new keys from a pointer-typed column.
type ReindexContext struct {
	KeyColumn ids.ColumnID
}

func (ReindexContext) Kind() ContextKind { return CtxReindex }
func (c ReindexContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.KeyColumn}
}

// ConcatUnsafeContext is a disjoint union with per-source column bindings.
type ConcatUnsafeContext struct {
	Universes        []universe.Universe
	PerSourceColumns map[universe.Universe][]ids.ColumnID
}

func (ConcatUnsafeContext) Kind() ContextKind { return CtxConcatUnsafe }
func (c ConcatUnsafeContext) Dependencies() []ids.ColumnID {
	var out []ids.ColumnID
	for _, u := range c.Universes {
		out = append(out, c.PerSourceColumns[u]...)
	}
	return out
}

// UpdateCellsContext overwrites a subset of rows in place on the same
// universe.
type UpdateCellsContext struct {
	Union      []universe.Universe
	Overwrites []ids.ColumnID
}

func (UpdateCellsContext) Kind() ContextKind { return CtxUpdateCells }
func (c UpdateCellsContext) Dependencies() []ids.ColumnID {
	return c.Overwrites
}

// UpdateRowsContext merges rows from a superset universe.
type UpdateRowsContext struct {
	Union      []universe.Universe
	Overwrites []ids.ColumnID
}

func (UpdateRowsContext) Kind() ContextKind { return CtxUpdateRows }
func (c UpdateRowsContext) Dependencies() []ids.ColumnID {
	return c.Overwrites
}

// FlattenContext expands an iterable column row-wise.
type FlattenContext struct {
	FlattenColumn ids.ColumnID
	ResultColumn  ids.ColumnID
	Orig          universe.Universe
}

func (FlattenContext) Kind() ContextKind { return CtxFlatten }
func (c FlattenContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.FlattenColumn}
}

// LifecycleContext covers Forget/Freeze/Buffer/FilterOutForgetting: the
// four temporal lifecycle controls, distinguished by Kind, sharing the
// same (threshold column, time column) shape.
type LifecycleContext struct {
	SubKind         ContextKind // one of CtxForget, CtxFreeze, CtxBuffer, CtxFilterOutForgetting
	ThresholdColumn ids.ColumnID
	TimeColumn      ids.ColumnID
}

func (c LifecycleContext) Kind() ContextKind { return c.SubKind }
func (c LifecycleContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.ThresholdColumn, c.TimeColumn}
}

// IxContext is a pointer-indexed lookup.
type IxContext struct {
	KeyColumn ids.ColumnID
	Optional  bool
}

func (IxContext) Kind() ContextKind { return CtxIx }
func (c IxContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.KeyColumn}
}

// HavingContext keeps rows whose key exists in an indexer column.
type HavingContext struct {
	Indexer ids.ColumnID
}

func (HavingContext) Kind() ContextKind { return CtxHaving }
func (c HavingContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.Indexer}
}

// PromiseSameUniverseContext is an assert-only universe equality: it
// carries no runtime dependency, only a solver-level promise made when the
// context is constructed.
type PromiseSameUniverseContext struct {
	Claimed universe.Universe
}

func (PromiseSameUniverseContext) Kind() ContextKind            { return CtxPromiseSameUniverse }
func (PromiseSameUniverseContext) Dependencies() []ids.ColumnID { return nil }

// SortingContext establishes a per-instance ordering (prev/next pointers).
type SortingContext struct {
	KeyColumn      ids.ColumnID
	InstanceColumn ids.ColumnID
}

func (SortingContext) Kind() ContextKind { return CtxSorting }
func (c SortingContext) Dependencies() []ids.ColumnID {
	return []ids.ColumnID{c.KeyColumn, c.InstanceColumn}
}

// GroupedContext is the context reduce() expressions are typed under.
type GroupedContext struct {
	GroupColumns []ids.ColumnID
	Universe     universe.Universe
}

func (GroupedContext) Kind() ContextKind { return CtxGrouped }
func (c GroupedContext) Dependencies() []ids.ColumnID {
	return c.GroupColumns
}
