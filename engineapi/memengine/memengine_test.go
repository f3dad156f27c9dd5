package memengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/engineapi"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/ids"
)

func TestCreateTableAndResolveColumn(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{"alice", "bob"})
	e.SeedColumn(2, []interface{}{int64(30), int64(40)})

	th, uh := e.CreateTable("people", map[engineapi.ColumnPath]ids.ColumnID{
		"name": 1,
		"age":  2,
	})

	gotU, err := e.TableUniverse(th)
	require.NoError(t, err)
	require.Equal(t, uh, gotU)

	ch, err := e.TableColumn(uh, th, "name")
	require.NoError(t, err)

	values, err := e.valuesFor(ch.(*columnHandle))
	require.NoError(t, err)
	require.Equal(t, []interface{}{"alice", "bob"}, values)
}

func TestTableColumnRejectsUnknownPath(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{"alice"})
	th, uh := e.CreateTable("people", map[engineapi.ColumnPath]ids.ColumnID{"name": 1})

	_, err := e.TableColumn(uh, th, "missing")
	require.Error(t, err)
}

func TestColumnsToTableGroupsSeededColumns(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{"alice", "bob"})
	e.SeedColumn(2, []interface{}{int64(30), int64(40)})

	th, err := e.ColumnsToTable(nil, []engineapi.ColumnWithPath{
		{Column: 1, Path: "name"},
		{Column: 2, Path: "age"},
	})
	require.NoError(t, err)

	uh, err := e.TableUniverse(th)
	require.NoError(t, err)

	ch, err := e.TableColumn(uh, th, "age")
	require.NoError(t, err)
	values, err := e.valuesFor(ch.(*columnHandle))
	require.NoError(t, err)
	require.Equal(t, []interface{}{int64(30), int64(40)}, values)
}

func TestColumnsToTableRejectsUnseededColumn(t *testing.T) {
	e := New()
	_, err := e.ColumnsToTable(nil, []engineapi.ColumnWithPath{{Column: 99, Path: "x"}})
	require.Error(t, err)
}

func newEvaluator(t *testing.T, e *Engine, th engineapi.EngineTableHandle, uh engineapi.EngineUniverseHandle, paths map[ids.ColumnID]engineapi.ColumnPath) *Evaluator {
	t.Helper()
	bindings := map[ids.ColumnID]engineapi.EngineColumnHandle{}
	for col, path := range paths {
		ch, err := e.TableColumn(uh, th, path)
		require.NoError(t, err)
		bindings[col] = ch
	}
	ev, err := NewEvaluator(e, bindings)
	require.NoError(t, err)
	return ev
}

func TestEvalColumnRefAndBinary(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{int64(10), int64(20)})
	e.SeedColumn(2, []interface{}{int64(1), int64(2)})
	th, uh := e.CreateTable("nums", map[engineapi.ColumnPath]ids.ColumnID{"a": 1, "b": 2})

	ev := newEvaluator(t, e, th, uh, map[ids.ColumnID]engineapi.ColumnPath{1: "a", 2: "b"})

	sum := expr.Binary{Op: expr.OpAdd,
		Left:  expr.ColumnRef{Column: 1, Name: "a"},
		Right: expr.ColumnRef{Column: 2, Name: "b"},
	}
	v, err := ev.Eval(sum, 0)
	require.NoError(t, err)
	require.Equal(t, int64(11), v)

	v, err = ev.Eval(sum, 1)
	require.NoError(t, err)
	require.Equal(t, int64(22), v)
}

func TestEvalCastCoercesAtRuntime(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{int64(42)})
	th, uh := e.CreateTable("nums", map[engineapi.ColumnPath]ids.ColumnID{"a": 1})
	ev := newEvaluator(t, e, th, uh, map[ids.ColumnID]engineapi.ColumnPath{1: "a"})

	v, err := ev.Eval(expr.Cast{Operand: expr.ColumnRef{Column: 1, Name: "a"}, Target: dtype.String}, 0)
	require.NoError(t, err)
	require.Equal(t, "42", v)
}

func TestEvalCastFailsOnBadCoercion(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{"not a number"})
	th, uh := e.CreateTable("strs", map[engineapi.ColumnPath]ids.ColumnID{"a": 1})
	ev := newEvaluator(t, e, th, uh, map[ids.ColumnID]engineapi.ColumnPath{1: "a"})

	_, err := ev.Eval(expr.Cast{Operand: expr.ColumnRef{Column: 1, Name: "a"}, Target: dtype.Int}, 0)
	require.Error(t, err)
}

func TestEvalPointerCtorIsDeterministic(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{"alice", "alice"})
	th, uh := e.CreateTable("people", map[engineapi.ColumnPath]ids.ColumnID{"name": 1})
	ev := newEvaluator(t, e, th, uh, map[ids.ColumnID]engineapi.ColumnPath{1: "name"})

	ptor := expr.PointerCtor{Args: []expr.Expr{expr.ColumnRef{Column: 1, Name: "name"}}}
	a, err := ev.Eval(ptor, 0)
	require.NoError(t, err)
	b, err := ev.Eval(ptor, 1)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEvalPointerCtorOptionalPropagatesNone(t *testing.T) {
	e := New()
	e.SeedColumn(1, []interface{}{nil})
	th, uh := e.CreateTable("people", map[engineapi.ColumnPath]ids.ColumnID{"name": 1})
	ev := newEvaluator(t, e, th, uh, map[ids.ColumnID]engineapi.ColumnPath{1: "name"})

	ptor := expr.PointerCtor{Args: []expr.Expr{expr.ColumnRef{Column: 1, Name: "name"}}, Optional: true}
	v, err := ev.Eval(ptor, 0)
	require.NoError(t, err)
	require.Nil(t, v)
}
