package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/engineapi"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

type fakeUniverseHandle struct{ name string }

func (fakeUniverseHandle) engineHandle() {}

type fakeTableHandle struct{ name string }

func (fakeTableHandle) engineHandle() {}

type fakeColumnHandle struct{ name string }

func (fakeColumnHandle) engineHandle() {}

type fakeEngine struct {
	universeCalls int
	columnCalls   int
}

func (f *fakeEngine) TableUniverse(t engineapi.EngineTableHandle) (engineapi.EngineUniverseHandle, error) {
	f.universeCalls++
	return fakeUniverseHandle{name: "u-for-" + t.(fakeTableHandle).name}, nil
}

func (f *fakeEngine) TableColumn(u engineapi.EngineUniverseHandle, t engineapi.EngineTableHandle, path engineapi.ColumnPath) (engineapi.EngineColumnHandle, error) {
	f.columnCalls++
	return fakeColumnHandle{name: string(path)}, nil
}

func (f *fakeEngine) ColumnsToTable(u engineapi.EngineUniverseHandle, cols []engineapi.ColumnWithPath) (engineapi.EngineTableHandle, error) {
	return fakeTableHandle{name: "built"}, nil
}

func TestResolveUniverseIsIdempotent(t *testing.T) {
	eng := &fakeEngine{}
	s := NewState(eng)
	solver := universe.NewSolver()
	u := solver.NewUniverse()

	require.NoError(t, s.RegisterStorage(u, Storage{Table: fakeTableHandle{name: "t1"}}))

	h1, err := s.ResolveUniverse(u)
	require.NoError(t, err)
	h2, err := s.ResolveUniverse(u)
	require.NoError(t, err)

	require.Equal(t, h1, h2)
	require.Equal(t, 1, eng.universeCalls, "second resolve must hit the cache, not the engine")
}

func TestResolveUniverseOutOfScope(t *testing.T) {
	eng := &fakeEngine{}
	s := NewState(eng)
	solver := universe.NewSolver()
	u := solver.NewUniverse()

	_, err := s.ResolveUniverse(u)
	require.Error(t, err)
	require.True(t, flowerrors.IsOutOfScope(err))
}

func TestResolveColumnOutOfScopeWhenNotInStorage(t *testing.T) {
	eng := &fakeEngine{}
	s := NewState(eng)
	solver := universe.NewSolver()
	u := solver.NewUniverse()
	require.NoError(t, s.RegisterStorage(u, Storage{
		Table:   fakeTableHandle{name: "t1"},
		Columns: map[ids.ColumnID]engineapi.ColumnPath{1: "colA"},
	}))

	_, err := s.ResolveColumn(u, 2)
	require.True(t, flowerrors.IsOutOfScope(err))
}

func TestResolveColumnCaches(t *testing.T) {
	eng := &fakeEngine{}
	s := NewState(eng)
	solver := universe.NewSolver()
	u := solver.NewUniverse()
	require.NoError(t, s.RegisterStorage(u, Storage{
		Table:   fakeTableHandle{name: "t1"},
		Columns: map[ids.ColumnID]engineapi.ColumnPath{1: "colA"},
	}))

	h1, err := s.ResolveColumn(u, 1)
	require.NoError(t, err)
	h2, err := s.ResolveColumn(u, 1)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Equal(t, 1, eng.columnCalls)
}

func TestGetOrCreateEvaluatorCallsFactoryOnce(t *testing.T) {
	eng := &fakeEngine{}
	s := NewState(eng)

	calls := 0
	factory := func() (ExpressionEvaluator, error) {
		calls++
		return "evaluator", nil
	}

	v1, err := s.GetOrCreateEvaluator(ids.NodeID(1), factory)
	require.NoError(t, err)
	v2, err := s.GetOrCreateEvaluator(ids.NodeID(1), factory)
	require.NoError(t, err)

	require.Equal(t, v1, v2)
	require.Equal(t, 1, calls)
}
