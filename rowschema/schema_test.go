package rowschema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
)

func TestNewRejectsEmptyAndDuplicates(t *testing.T) {
	_, err := New()
	require.Error(t, err)

	_, err = New(Field{Name: "a", Type: dtype.Int}, Field{Name: "a", Type: dtype.String})
	require.Error(t, err)
}

func TestNewPreservesOrder(t *testing.T) {
	s, err := New(Field{Name: "b", Type: dtype.Int}, Field{Name: "a", Type: dtype.String})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, s.Names())
}

func TestFieldAndHas(t *testing.T) {
	s, err := New(Field{Name: "age", Type: dtype.Int, AppendOnly: true})
	require.NoError(t, err)

	require.True(t, s.Has("age"))
	require.False(t, s.Has("missing"))

	f, ok := s.Field("age")
	require.True(t, ok)
	require.True(t, f.AppendOnly)
	require.True(t, dtype.Equal(dtype.Int, f.Type))
}

func TestWithFieldReplacesInPlace(t *testing.T) {
	s, err := New(Field{Name: "age", Type: dtype.Int})
	require.NoError(t, err)

	s2, err := s.WithField("age", Field{Type: dtype.Float})
	require.NoError(t, err)

	f, ok := s2.Field("age")
	require.True(t, ok)
	require.True(t, dtype.Equal(dtype.Float, f.Type))
	require.Equal(t, []string{"age"}, s2.Names())
}

func TestWithFieldRejectsUnknownName(t *testing.T) {
	s, err := New(Field{Name: "age", Type: dtype.Int})
	require.NoError(t, err)

	_, err = s.WithField("nope", Field{Type: dtype.Int})
	require.Error(t, err)
}

func TestSameColumnSetIgnoresOrder(t *testing.T) {
	a, _ := New(Field{Name: "x", Type: dtype.Int}, Field{Name: "y", Type: dtype.String})
	b, _ := New(Field{Name: "y", Type: dtype.Bool}, Field{Name: "x", Type: dtype.Float})
	require.True(t, SameColumnSet(a, b))
}

func TestSymmetricDifference(t *testing.T) {
	a, _ := New(Field{Name: "x", Type: dtype.Int}, Field{Name: "y", Type: dtype.String})
	b, _ := New(Field{Name: "x", Type: dtype.Int}, Field{Name: "z", Type: dtype.String})
	require.ElementsMatch(t, []string{"y", "z"}, SymmetricDifference(a, b))
}
