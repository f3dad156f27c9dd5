package column

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/universe"
)

func TestLineageSetOncePanicsOnSecondAssign(t *testing.T) {
	l := NewLineage()
	l.Assign("age", 1)

	name, node, ok := l.Get()
	require.True(t, ok)
	require.Equal(t, "age", name)
	require.Equal(t, int64(1), int64(node))

	require.Panics(t, func() {
		l.Assign("age_renamed", 2)
	})
}

func TestLineageUnassignedGetFalse(t *testing.T) {
	l := NewLineage()
	_, _, ok := l.Get()
	require.False(t, ok)
}

func TestMaterializedCarriesProperties(t *testing.T) {
	s := universe.NewSolver()
	u := s.NewUniverse()
	col := NewMaterialized(u, Properties{Type: dtype.Int, AppendOnly: true}, NewLineage())

	require.True(t, s.QueryAreEqual(u, col.Universe()))
	require.True(t, dtype.Equal(dtype.Int, col.Properties().Type))
	require.True(t, col.Properties().AppendOnly)
}

func TestIdColumnIsPointerTyped(t *testing.T) {
	s := universe.NewSolver()
	u := s.NewUniverse()
	id := NewIdColumn(u, NewLineage())
	require.True(t, dtype.Pointer.IsPointer())
	require.True(t, id.Properties().Type.IsPointer())
}
