package universe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromiseEqualThenDisjointContradiction(t *testing.T) {
	require := require.New(t)
	s := NewSolver()

	u1 := s.NewUniverse()
	u2 := s.NewUniverse()
	u3 := s.NewUniverse()

	// S6: promise_are_equal(U1,U2) then promise_are_pairwise_disjoint(U2,U3)
	// implies are_disjoint(U1,U3); a subsequent promise_are_equal(U1,U3) must
	// raise.
	require.NoError(s.PromiseAreEqual(u1, u2))
	require.NoError(s.PromiseArePairwiseDisjoint(u2, u3))

	require.True(s.QueryAreDisjoint(u1, u3))

	err := s.PromiseAreEqual(u1, u3)
	require.Error(err)
}

func TestPromiseDisjointThenEqualContradiction(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	u1 := s.NewUniverse()
	u2 := s.NewUniverse()

	require.NoError(s.PromiseArePairwiseDisjoint(u1, u2))
	require.Error(s.PromiseAreEqual(u1, u2))
}

func TestMonotonicity(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	u1 := s.NewUniverse()
	u2 := s.NewUniverse()
	u3 := s.NewUniverse()

	require.NoError(s.PromiseIsSubsetOf(u1, u2))
	require.True(s.QueryIsSubset(u1, u2))

	// Adding unrelated facts must never retract the prior true answer.
	require.NoError(s.PromiseArePairwiseDisjoint(u2, u3))
	require.True(s.QueryIsSubset(u1, u2))
}

func TestGetUnionOfEqualReturnsRepresentative(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	u1 := s.NewUniverse()
	u2 := s.NewUniverse()
	require.NoError(s.PromiseAreEqual(u1, u2))

	union, err := s.GetUnion(u1, u2)
	require.NoError(err)
	require.True(s.QueryAreEqual(union, u1))
}

func TestGetUnionOfDisjointIsFreshAndSuperset(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	u1 := s.NewUniverse()
	u2 := s.NewUniverse()
	require.NoError(s.PromiseArePairwiseDisjoint(u1, u2))

	union, err := s.GetUnion(u1, u2)
	require.NoError(err)
	require.True(s.QueryIsSubset(u1, union))
	require.True(s.QueryIsSubset(u2, union))
}

func TestGetIntersectionSubsetShortcut(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	small := s.NewUniverse()
	big := s.NewUniverse()
	require.NoError(s.PromiseIsSubsetOf(small, big))

	inter, err := s.GetIntersection(small, big)
	require.NoError(err)
	require.True(s.QueryAreEqual(inter, small))
}

func TestGetDifferenceIsSubsetAndDisjoint(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	u := s.NewUniverse()
	v := s.NewUniverse()

	diff, err := s.GetDifference(u, v)
	require.NoError(err)
	require.True(s.QueryIsSubset(diff, u))
	require.True(s.QueryAreDisjoint(diff, v))
}

func TestRegisterAsEmpty(t *testing.T) {
	require := require.New(t)
	s := NewSolver()
	empty := s.NewUniverse()
	other := s.NewUniverse()
	s.RegisterAsEmpty(empty)

	require.True(s.QueryIsSubset(empty, other))
	require.True(s.QueryAreDisjoint(empty, other))
}
