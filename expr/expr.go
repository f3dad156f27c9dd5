// Package expr implements the pure expression tree evaluated over column
// references: leaves (column reference, constant, pointer constructor) and
// inner nodes (arithmetic, comparison, logical, cast/declare, reducers).
// Expressions never reference a column package directly — only the bare
// ids.TableID/ids.ColumnID identities — so package column can hold an
// Expr without creating an import cycle.
package expr

import (
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/ids"
)

// Kind tags the dynamic variant of an Expr node, realizing the source's
// dynamic expression dispatch as a plain tagged union plus type switch.
type Kind int

const (
	KindColumnRef Kind = iota
	KindConst
	KindPointerCtor
	KindBinary
	KindUnary
	KindCast
	KindDeclare
	KindReducer
)

// Expr is the common interface of every expression node.
type Expr interface {
	Kind() Kind
	children() []Expr
}

// ColumnRef is a leaf referencing a single column of a table by id and
// display name.
type ColumnRef struct {
	Table  ids.TableID
	Column ids.ColumnID
	Name   string
}

func (ColumnRef) Kind() Kind        { return KindColumnRef }
func (ColumnRef) children() []Expr  { return nil }

// Const is a leaf literal value with a known, already-inferred type.
type Const struct {
	Value interface{}
	Type  dtype.Type
}

func (Const) Kind() Kind       { return KindConst }
func (Const) children() []Expr { return nil }

// PointerCtor builds a pseudo-random identity hash (pointer_from) from its
// argument expressions; Optional controls whether a nil-containing row
// still yields a pointer or propagates None.
type PointerCtor struct {
	Args     []Expr
	Optional bool
}

func (e PointerCtor) Kind() Kind       { return KindPointerCtor }
func (e PointerCtor) children() []Expr { return e.Args }

// BinOp enumerates binary operators: arithmetic, comparison, logical.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// Binary is a two-operand arithmetic/comparison/logical expression.
type Binary struct {
	Op          BinOp
	Left, Right Expr
}

func (e Binary) Kind() Kind       { return KindBinary }
func (e Binary) children() []Expr { return []Expr{e.Left, e.Right} }

// UnOp enumerates unary operators.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	// OpIsNone and OpIsNotNone are the syntactic forms GetColumnFilteredByIsNone
	// recognizes for type-narrowing filters.
	OpIsNone
	OpIsNotNone
)

// Unary is a single-operand expression.
type Unary struct {
	Op      UnOp
	Operand Expr
}

func (e Unary) Kind() Kind       { return KindUnary }
func (e Unary) children() []Expr { return []Expr{e.Operand} }

// Cast runtime-converts Operand to Target, failing if the value cannot be
// coerced (update_types/cast_to_types).
type Cast struct {
	Operand Expr
	Target  dtype.Type
}

func (e Cast) Kind() Kind       { return KindCast }
func (e Cast) children() []Expr { return []Expr{e.Operand} }

// Declare asserts Operand's type is Target without a runtime check; used
// where the caller has external knowledge the type checker cannot derive.
type Declare struct {
	Operand Expr
	Target  dtype.Type
}

func (e Declare) Kind() Kind       { return KindDeclare }
func (e Declare) children() []Expr { return []Expr{e.Operand} }

// ReducerOp enumerates the aggregation functions valid under a grouped
// context.
type ReducerOp int

const (
	ReducerSum ReducerOp = iota
	ReducerCount
	ReducerMin
	ReducerMax
	ReducerAny
	ReducerUnique
	ReducerArgMin
	ReducerArgMax
)

// Reducer aggregates Operand across the rows of one group. It is only
// legal inside reduce()/groupby().reduce(); TypeOf rejects it elsewhere.
type Reducer struct {
	Op      ReducerOp
	Operand Expr
}

func (e Reducer) Kind() Kind       { return KindReducer }
func (e Reducer) children() []Expr { return []Expr{e.Operand} }
