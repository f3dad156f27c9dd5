package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithUniverseOfNoOpWhenAlreadyEqual(t *testing.T) {
	tab := newPeopleTable(t)
	renamed, err := tab.Rename(map[string]string{"age": "years"})
	require.NoError(t, err)

	out, err := tab.WithUniverseOf(renamed)
	require.NoError(t, err)
	require.Equal(t, tab.TableID(), out.TableID())
}

func TestWithUniverseOfPromisesEquality(t *testing.T) {
	tab := newPeopleTable(t)
	other := newPeopleTableOn(t, tab.Builder())

	out, err := tab.WithUniverseOf(other)
	require.NoError(t, err)
	require.True(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), other.Universe()))
}

func TestWithUniverseOfRejectsKnownDisjoint(t *testing.T) {
	tab := newPeopleTable(t)
	other := newPeopleTableOn(t, tab.Builder())
	require.NoError(t, tab.Builder().Solver().PromiseArePairwiseDisjoint(tab.Universe(), other.Universe()))

	_, err := tab.WithUniverseOf(other)
	require.Error(t, err)
}
