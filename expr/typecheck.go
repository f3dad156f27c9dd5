package expr

import (
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
)

// TypeEnv is the type interpreter state a Context derives for its bound
// columns: it answers "what is the dtype of this column reference" and
// "are reducers legal here" without the expr package needing to know
// anything about columns, contexts or tables directly.
type TypeEnv interface {
	// ColumnType resolves the dtype of a bound column reference.
	ColumnType(table ids.TableID, column ids.ColumnID) (dtype.Type, error)
	// InGroupedContext reports whether the expression is being typed
	// inside a reduce()/groupby().reduce() context, where Reducer nodes
	// are legal.
	InGroupedContext() bool
}

// TypeOf structurally evaluates e's type against env, the way the source
// types expressions by walking the tree against a type-interpreter state
// derived from the context.
func TypeOf(e Expr, env TypeEnv) (dtype.Type, error) {
	switch n := e.(type) {
	case ColumnRef:
		return env.ColumnType(n.Table, n.Column)

	case Const:
		return n.Type, nil

	case PointerCtor:
		for _, a := range n.Args {
			if _, err := TypeOf(a, env); err != nil {
				return dtype.Type{}, err
			}
		}
		if n.Optional {
			return dtype.Optional(dtype.Pointer), nil
		}
		return dtype.Pointer, nil

	case Binary:
		return typeOfBinary(n, env)

	case Unary:
		return typeOfUnary(n, env)

	case Cast:
		if _, err := TypeOf(n.Operand, env); err != nil {
			return dtype.Type{}, err
		}
		return n.Target, nil

	case Declare:
		return n.Target, nil

	case Reducer:
		if !env.InGroupedContext() {
			return dtype.Type{}, flowerrors.TypeMismatch.New("<reducer>", "reduce context", "rowwise context")
		}
		operandType, err := TypeOf(n.Operand, env)
		if err != nil {
			return dtype.Type{}, err
		}
		return typeOfReducer(n.Op, operandType)

	default:
		return dtype.Type{}, flowerrors.TypeMismatch.New("<expr>", "known expression kind", "unknown")
	}
}

func typeOfBinary(n Binary, env TypeEnv) (dtype.Type, error) {
	lt, err := TypeOf(n.Left, env)
	if err != nil {
		return dtype.Type{}, err
	}
	rt, err := TypeOf(n.Right, env)
	if err != nil {
		return dtype.Type{}, err
	}

	switch n.Op {
	case OpAnd, OpOr:
		if dtype.Unoptionalize(lt).Kind() != dtype.KindBool || dtype.Unoptionalize(rt).Kind() != dtype.KindBool {
			return dtype.Type{}, flowerrors.TypeMismatch.New("<logical>", dtype.Bool.String(), lt.String()+"/"+rt.String())
		}
		return dtype.Bool, nil

	case OpEq, OpNe:
		// Pointer comparison is valid only between pointers; everything
		// else just needs a common supertype.
		if lt.IsPointer() != rt.IsPointer() {
			return dtype.Type{}, flowerrors.TypeMismatch.New("<comparison>", "matching pointer-ness", lt.String()+" vs "+rt.String())
		}
		if _, err := dtype.LCA(lt, rt); err != nil {
			return dtype.Type{}, err
		}
		return dtype.Bool, nil

	case OpLt, OpLe, OpGt, OpGe:
		if lt.IsPointer() || rt.IsPointer() {
			return dtype.Type{}, flowerrors.TypeMismatch.New("<comparison>", "orderable type", "pointer")
		}
		if _, err := dtype.LCA(lt, rt); err != nil {
			return dtype.Type{}, err
		}
		return dtype.Bool, nil

	default: // arithmetic
		if lt.IsPointer() || rt.IsPointer() {
			return dtype.Type{}, flowerrors.TypeMismatch.New("<arithmetic>", "numeric type", "pointer")
		}
		return dtype.LCA(lt, rt)
	}
}

func typeOfUnary(n Unary, env TypeEnv) (dtype.Type, error) {
	operandType, err := TypeOf(n.Operand, env)
	if err != nil {
		return dtype.Type{}, err
	}
	switch n.Op {
	case OpNeg:
		return operandType, nil
	case OpNot:
		return dtype.Bool, nil
	case OpIsNone, OpIsNotNone:
		return dtype.Bool, nil
	default:
		return dtype.Type{}, flowerrors.TypeMismatch.New("<unary>", "known unary op", "unknown")
	}
}

func typeOfReducer(op ReducerOp, operandType dtype.Type) (dtype.Type, error) {
	switch op {
	case ReducerCount:
		return dtype.Int, nil
	case ReducerAny:
		return dtype.Bool, nil
	case ReducerArgMin, ReducerArgMax:
		return dtype.Pointer, nil
	default: // Sum, Min, Max, Unique preserve the operand's type
		return operandType, nil
	}
}
