package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/graph"
)

func newPeopleTable(t *testing.T) Table {
	t.Helper()
	return newPeopleTableOn(t, graph.NewBuilder())
}

// newPeopleTableOn builds a second, unrelated base table sharing b's
// builder (and therefore its universe solver) — the precondition every
// operator combining two tables (concat, difference, update_*, ...)
// requires.
func newPeopleTableOn(t *testing.T, b *graph.Builder) Table {
	t.Helper()
	tab, err := FromColumns(b, []string{"name", "age"}, []column.Properties{
		{Type: dtype.String},
		{Type: dtype.Int},
	})
	require.NoError(t, err)
	return tab
}
