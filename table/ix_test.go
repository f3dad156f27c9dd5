package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIxRebindsOntoKeyUniverseDirectly(t *testing.T) {
	tab := newPeopleTable(t)
	other := newPeopleTable(t)

	idRef := tab.IDColumnRef()
	out, err := tab.Ix(idRef.Column, other.Universe(), false)
	require.NoError(t, err)
	require.True(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), other.Universe()))
	require.Equal(t, tab.ColumnNames(), out.ColumnNames())
}

func TestIxOptionalWidensColumnTypes(t *testing.T) {
	tab := newPeopleTable(t)
	other := newPeopleTable(t)

	idRef := tab.IDColumnRef()
	out, err := tab.Ix(idRef.Column, other.Universe(), true)
	require.NoError(t, err)

	field, ok := out.Schema().Field("age")
	require.True(t, ok)
	require.True(t, field.Type.IsOptional())
}
