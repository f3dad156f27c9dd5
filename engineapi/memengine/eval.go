package memengine

import (
	"fmt"
	"math"

	"github.com/mitchellh/hashstructure"
	"github.com/spf13/cast"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/engineapi"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
)

// Evaluator runs an expr.Expr row by row against columns already resolved
// to engine handles, the shape scope.State.GetOrCreateEvaluator caches
// per lowering context. It is the only place in the reference engine
// that interprets expression trees; everything upstream only ever
// builds and types them.
type Evaluator struct {
	engine   *Engine
	bindings map[ids.ColumnID]*columnHandle
}

// NewEvaluator builds an Evaluator closed over one binding of logical
// column ids to already-resolved engine column handles, typically one
// per table referenced by the expressions it will run.
func NewEvaluator(engine *Engine, bindings map[ids.ColumnID]engineapi.EngineColumnHandle) (*Evaluator, error) {
	bound := make(map[ids.ColumnID]*columnHandle, len(bindings))
	for col, h := range bindings {
		ch, ok := h.(*columnHandle)
		if !ok {
			return nil, fmt.Errorf("memengine: foreign column handle for column %d", col)
		}
		bound[col] = ch
	}
	return &Evaluator{engine: engine, bindings: bound}, nil
}

// Eval interprets e against row, the index into every bound column's
// value slice.
func (ev *Evaluator) Eval(e expr.Expr, row int) (interface{}, error) {
	switch n := e.(type) {
	case expr.ColumnRef:
		ch, ok := ev.bindings[n.Column]
		if !ok {
			return nil, flowerrors.UnknownColumn.New(fmt.Sprintf("column id %d", n.Column))
		}
		values, err := ev.engine.valuesFor(ch)
		if err != nil {
			return nil, flowerrors.EngineFailure.New(err.Error())
		}
		if row < 0 || row >= len(values) {
			return nil, flowerrors.EngineFailure.New(fmt.Sprintf("row %d out of range for column %q", row, n.Name))
		}
		return values[row], nil

	case expr.Const:
		return n.Value, nil

	case expr.PointerCtor:
		return ev.evalPointerCtor(n, row)

	case expr.Binary:
		return ev.evalBinary(n, row)

	case expr.Unary:
		return ev.evalUnary(n, row)

	case expr.Cast:
		operand, err := ev.Eval(n.Operand, row)
		if err != nil {
			return nil, err
		}
		return castTo(operand, n.Target)

	case expr.Declare:
		return ev.Eval(n.Operand, row)

	case expr.Reducer:
		return nil, flowerrors.EngineFailure.New("memengine: reducers evaluate over a group, not a single row")

	default:
		return nil, flowerrors.EngineFailure.New(fmt.Sprintf("memengine: unhandled expression kind %v", e.Kind()))
	}
}

func (ev *Evaluator) evalPointerCtor(n expr.PointerCtor, row int) (interface{}, error) {
	parts := make([]interface{}, 0, len(n.Args))
	for _, arg := range n.Args {
		v, err := ev.Eval(arg, row)
		if err != nil {
			return nil, err
		}
		if v == nil {
			if n.Optional {
				return nil, nil
			}
		}
		parts = append(parts, v)
	}
	h, err := hashstructure.Hash(parts, nil)
	if err != nil {
		return nil, flowerrors.EngineFailure.New("pointer_from: " + err.Error())
	}
	return h, nil
}

func (ev *Evaluator) evalBinary(n expr.Binary, row int) (interface{}, error) {
	l, err := ev.Eval(n.Left, row)
	if err != nil {
		return nil, err
	}
	r, err := ev.Eval(n.Right, row)
	if err != nil {
		return nil, err
	}
	if l == nil || r == nil {
		return nil, nil
	}

	switch n.Op {
	case expr.OpAnd:
		return cast.ToBool(l) && cast.ToBool(r), nil
	case expr.OpOr:
		return cast.ToBool(l) || cast.ToBool(r), nil
	case expr.OpEq:
		return l == r, nil
	case expr.OpNe:
		return l != r, nil
	}

	lf, rf := cast.ToFloat64(l), cast.ToFloat64(r)
	switch n.Op {
	case expr.OpAdd:
		return numericResult(l, r, lf+rf), nil
	case expr.OpSub:
		return numericResult(l, r, lf-rf), nil
	case expr.OpMul:
		return numericResult(l, r, lf*rf), nil
	case expr.OpDiv:
		return lf / rf, nil
	case expr.OpFloorDiv:
		return int64(math.Floor(lf / rf)), nil
	case expr.OpMod:
		li, ri := cast.ToInt64(l), cast.ToInt64(r)
		return li % ri, nil
	case expr.OpLt:
		return lf < rf, nil
	case expr.OpLe:
		return lf <= rf, nil
	case expr.OpGt:
		return lf > rf, nil
	case expr.OpGe:
		return lf >= rf, nil
	default:
		return nil, flowerrors.EngineFailure.New(fmt.Sprintf("memengine: unhandled binary op %v", n.Op))
	}
}

// numericResult preserves int arithmetic as int64 when both operands are
// integral, the way the type system's numeric tower keeps Add(int, int)
// at Int rather than promoting to Float.
func numericResult(l, r interface{}, f float64) interface{} {
	if isIntegral(l) && isIntegral(r) {
		return int64(f)
	}
	return f
}

func isIntegral(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return true
	default:
		return false
	}
}

func (ev *Evaluator) evalUnary(n expr.Unary, row int) (interface{}, error) {
	v, err := ev.Eval(n.Operand, row)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case expr.OpIsNone:
		return v == nil, nil
	case expr.OpIsNotNone:
		return v != nil, nil
	case expr.OpNot:
		if v == nil {
			return nil, nil
		}
		return !cast.ToBool(v), nil
	case expr.OpNeg:
		if v == nil {
			return nil, nil
		}
		if isIntegral(v) {
			return -cast.ToInt64(v), nil
		}
		return -cast.ToFloat64(v), nil
	default:
		return nil, flowerrors.EngineFailure.New(fmt.Sprintf("memengine: unhandled unary op %v", n.Op))
	}
}

// castTo coerces v to target at runtime, the engine-side half of
// table.CastToTypes/expr.Cast. Unlike Declare, a failed coercion is a
// real runtime error rather than an unchecked assertion.
func castTo(v interface{}, target dtype.Type) (interface{}, error) {
	if v == nil {
		if target.IsOptional() {
			return nil, nil
		}
		return nil, flowerrors.TypeMismatch.New("<cast>", target.String(), "none")
	}

	switch dtype.Unoptionalize(target).Kind() {
	case dtype.KindInt:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, flowerrors.TypeMismatch.New("<cast>", target.String(), fmt.Sprintf("%v", v))
		}
		return n, nil
	case dtype.KindFloat:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, flowerrors.TypeMismatch.New("<cast>", target.String(), fmt.Sprintf("%v", v))
		}
		return f, nil
	case dtype.KindBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, flowerrors.TypeMismatch.New("<cast>", target.String(), fmt.Sprintf("%v", v))
		}
		return b, nil
	case dtype.KindString:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, flowerrors.TypeMismatch.New("<cast>", target.String(), fmt.Sprintf("%v", v))
		}
		return s, nil
	case dtype.KindTimestamp:
		t, err := cast.ToTimeE(v)
		if err != nil {
			return nil, flowerrors.TypeMismatch.New("<cast>", target.String(), fmt.Sprintf("%v", v))
		}
		return t, nil
	default:
		return v, nil
	}
}
