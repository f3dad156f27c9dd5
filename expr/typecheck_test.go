package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/ids"
)

type fakeEnv struct {
	types   map[ids.ColumnID]dtype.Type
	grouped bool
}

func (f fakeEnv) ColumnType(_ ids.TableID, c ids.ColumnID) (dtype.Type, error) {
	return f.types[c], nil
}

func (f fakeEnv) InGroupedContext() bool { return f.grouped }

func TestTypeOfArithmeticLCA(t *testing.T) {
	env := fakeEnv{types: map[ids.ColumnID]dtype.Type{1: dtype.Int, 2: dtype.Float}}
	e := Binary{Op: OpAdd, Left: ColumnRef{Column: 1}, Right: ColumnRef{Column: 2}}
	ty, err := TypeOf(e, env)
	require.NoError(t, err)
	require.True(t, dtype.Equal(dtype.Float, ty))
}

func TestTypeOfComparisonRejectsPointerMismatch(t *testing.T) {
	env := fakeEnv{types: map[ids.ColumnID]dtype.Type{1: dtype.Pointer, 2: dtype.Int}}
	e := Binary{Op: OpEq, Left: ColumnRef{Column: 1}, Right: ColumnRef{Column: 2}}
	_, err := TypeOf(e, env)
	require.Error(t, err)
}

func TestReducerRejectedOutsideGroupedContext(t *testing.T) {
	env := fakeEnv{types: map[ids.ColumnID]dtype.Type{1: dtype.Int}, grouped: false}
	e := Reducer{Op: ReducerSum, Operand: ColumnRef{Column: 1}}
	_, err := TypeOf(e, env)
	require.Error(t, err)
}

func TestReducerAllowedInGroupedContext(t *testing.T) {
	env := fakeEnv{types: map[ids.ColumnID]dtype.Type{1: dtype.Int}, grouped: true}
	e := Reducer{Op: ReducerSum, Operand: ColumnRef{Column: 1}}
	ty, err := TypeOf(e, env)
	require.NoError(t, err)
	require.True(t, dtype.Equal(dtype.Int, ty))
}

func TestGetColumnFilteredByIsNone(t *testing.T) {
	ref := ColumnRef{Column: 7, Name: "age"}
	e := Unary{Op: OpIsNotNone, Operand: ref}
	got, ok := GetColumnFilteredByIsNone(e)
	require.True(t, ok)
	require.Equal(t, ref, got)

	_, ok = GetColumnFilteredByIsNone(ref)
	require.False(t, ok)
}

func TestCollectTables(t *testing.T) {
	e := Binary{
		Op:   OpAdd,
		Left: ColumnRef{Table: 1, Column: 1},
		Right: Binary{
			Op:    OpMul,
			Left:  ColumnRef{Table: 2, Column: 2},
			Right: ColumnRef{Table: 1, Column: 3},
		},
	}
	tables := CollectTables(e)
	require.Equal(t, []ids.TableID{1, 2}, tables)
}

func TestContainsReducer(t *testing.T) {
	require.True(t, ContainsReducer(Reducer{Op: ReducerSum, Operand: ColumnRef{Column: 1}}))
	require.False(t, ContainsReducer(ColumnRef{Column: 1}))
}
