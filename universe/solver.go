package universe

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwaydb/flowcore/flowerrors"
)

// Solver is a union-find over universe ids augmented with a set of pairs
// known disjoint and a partial order for subset assertions. It is
// conservative: false negatives are allowed (callers fall back to
// Promise*), false positives are forbidden.
//
// A Solver is not safe for concurrent promise calls; concurrent read-only
// queries are fine. Lowering (package scope) must only ever query a
// Solver, never promise into it — promising during lowering is exactly the
// re-entrant mutation the design forbids.
type Solver struct {
	mu sync.Mutex

	parent map[uuid.UUID]uuid.UUID
	rank   map[uuid.UUID]int
	empty  map[uuid.UUID]bool
	// disjoint[r] is the set of representatives known disjoint from r.
	disjoint map[uuid.UUID]map[uuid.UUID]bool
	// subsetOf[r] is the set of representatives r is a direct subset of.
	// is_subset closes this transitively at query time.
	subsetOf map[uuid.UUID]map[uuid.UUID]bool

	log *logrus.Entry
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{
		parent:   map[uuid.UUID]uuid.UUID{},
		rank:     map[uuid.UUID]int{},
		empty:    map[uuid.UUID]bool{},
		disjoint: map[uuid.UUID]map[uuid.UUID]bool{},
		subsetOf: map[uuid.UUID]map[uuid.UUID]bool{},
		log:      logrus.WithField("component", "universe.Solver"),
	}
}

// NewUniverse allocates and registers a fresh universe with no known
// relationship to any other universe.
func (s *Solver) NewUniverse() Universe {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.parent[id] = id
	s.rank[id] = 0
	return Universe{id: id}
}

// find returns the representative of u's equivalence class, applying path
// compression. Caller must hold s.mu.
func (s *Solver) find(id uuid.UUID) uuid.UUID {
	root, ok := s.parent[id]
	if !ok {
		// Unregistered universes are their own representative; this keeps
		// queries total instead of panicking on foreign universes.
		s.parent[id] = id
		s.rank[id] = 0
		return id
	}
	if root == id {
		return id
	}
	root = s.find(root)
	s.parent[id] = root
	return root
}

// union merges the equivalence classes of a and b by rank, returning the
// surviving representative. Caller must hold s.mu.
func (s *Solver) union(a, b uuid.UUID) uuid.UUID {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return ra
	}
	if s.rank[ra] < s.rank[rb] {
		ra, rb = rb, ra
	}
	s.parent[rb] = ra
	if s.rank[ra] == s.rank[rb] {
		s.rank[ra]++
	}

	// Migrate rb's facts onto the surviving representative ra.
	if s.empty[rb] {
		s.empty[ra] = true
	}
	for other := range s.disjoint[rb] {
		s.markDisjointPair(ra, other)
	}
	delete(s.disjoint, rb)
	for other := range s.subsetOf[rb] {
		s.markSubset(ra, other)
	}
	delete(s.subsetOf, rb)
	return ra
}

func (s *Solver) markDisjointPair(a, b uuid.UUID) {
	if s.disjoint[a] == nil {
		s.disjoint[a] = map[uuid.UUID]bool{}
	}
	if s.disjoint[b] == nil {
		s.disjoint[b] = map[uuid.UUID]bool{}
	}
	s.disjoint[a][b] = true
	s.disjoint[b][a] = true
}

func (s *Solver) markSubset(sub, sup uuid.UUID) {
	if s.subsetOf[sub] == nil {
		s.subsetOf[sub] = map[uuid.UUID]bool{}
	}
	s.subsetOf[sub][sup] = true
}

// isSubsetRep answers is_subset purely in terms of representatives,
// transitively closing subsetOf edges and special-casing empty universes.
// Caller must hold s.mu.
func (s *Solver) isSubsetRep(sub, sup uuid.UUID) bool {
	if sub == sup {
		return true
	}
	if s.empty[sub] {
		return true
	}
	seen := map[uuid.UUID]bool{sub: true}
	queue := []uuid.UUID{sub}
	for len(queue) > 0 {
		// Edges may still name a universe that has since been merged into
		// another class; follow them through its current representative.
		cur := s.find(queue[0])
		queue = queue[1:]
		if cur == sup {
			return true
		}
		for next := range s.subsetOf[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// isDisjointRep answers are_disjoint for two representatives, special
// casing empty universes (empty is disjoint from everything, including
// itself). Caller must hold s.mu.
func (s *Solver) isDisjointRep(a, b uuid.UUID) bool {
	if s.empty[a] || s.empty[b] {
		return true
	}
	if a == b {
		return false
	}
	return s.disjoint[a][b]
}

// RegisterAsEmpty marks u as the empty universe: disjoint from every other
// universe and a subset of every universe, including ones created later.
func (s *Solver) RegisterAsEmpty(u Universe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.empty[s.find(u.id)] = true
}

// QueryAreEqual reports whether u and v are known to denote the same
// key-set.
func (s *Solver) QueryAreEqual(u, v Universe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(u.id) == s.find(v.id)
}

// QueryAreDisjoint reports whether every pair among us is known disjoint.
// A single universe, or zero universes, is trivially disjoint.
func (s *Solver) QueryAreDisjoint(us ...Universe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(us); i++ {
		for j := i + 1; j < len(us); j++ {
			ri, rj := s.find(us[i].id), s.find(us[j].id)
			if !s.isDisjointRep(ri, rj) {
				return false
			}
		}
	}
	return true
}

// QueryIsSubset reports whether u is known to be a subset of v.
func (s *Solver) QueryIsSubset(u, v Universe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSubsetRep(s.find(u.id), s.find(v.id))
}

// QueryIsSuperset reports whether u is known to be a superset of v.
func (s *Solver) QueryIsSuperset(u, v Universe) bool {
	return s.QueryIsSubset(v, u)
}

// PromiseAreEqual asserts that u and v denote the same key-set. It is
// monotone: it never retracts a prior fact. It returns UniverseContradiction
// if u and v were already proven disjoint.
func (s *Solver) PromiseAreEqual(u, v Universe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ru, rv := s.find(u.id), s.find(v.id)
	if ru == rv {
		return nil
	}
	if s.isDisjointRep(ru, rv) {
		return flowerrors.UniverseContradiction.New(
			fmt.Sprintf("%s and %s are already known disjoint", u, v))
	}
	s.log.WithFields(logrus.Fields{"u": u.String(), "v": v.String()}).Debug("promise_are_equal")
	s.union(ru, rv)
	return nil
}

// PromiseIsSubsetOf asserts that u is a subset of v. It returns
// UniverseContradiction if u and v were already proven disjoint and u is
// not the empty universe (a nonempty universe cannot be a subset of
// something it is disjoint from).
func (s *Solver) PromiseIsSubsetOf(u, v Universe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ru, rv := s.find(u.id), s.find(v.id)
	if !s.empty[ru] && s.isDisjointRep(ru, rv) {
		return flowerrors.UniverseContradiction.New(
			fmt.Sprintf("%s cannot be a subset of %s: already known disjoint", u, v))
	}
	s.markSubset(ru, rv)
	return nil
}

// PromiseArePairwiseDisjoint asserts that every pair among us is disjoint.
// It returns UniverseContradiction if any two of them were already proven
// equal (a universe cannot be disjoint from itself).
func (s *Solver) PromiseArePairwiseDisjoint(us ...Universe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reps := make([]uuid.UUID, len(us))
	for i, u := range us {
		reps[i] = s.find(u.id)
	}
	for i := 0; i < len(reps); i++ {
		for j := i + 1; j < len(reps); j++ {
			if reps[i] == reps[j] {
				return flowerrors.UniverseContradiction.New(
					fmt.Sprintf("%s and %s are already known equal", us[i], us[j]))
			}
		}
	}
	for i := 0; i < len(reps); i++ {
		for j := i + 1; j < len(reps); j++ {
			s.markDisjointPair(reps[i], reps[j])
		}
	}
	return nil
}

// GetUnion returns a canonical universe for the union of us. If all inputs
// are equal, that representative is returned. If all inputs are pairwise
// disjoint, a fresh universe is returned, tagged as their disjoint union
// (every input becomes a proven subset of it). Otherwise GetUnion still
// returns a fresh, unconstrained universe: the solver is conservative and
// this is the safe fallback when it cannot prove either shortcut.
func (s *Solver) GetUnion(us ...Universe) (Universe, error) {
	if len(us) == 0 {
		return Universe{}, flowerrors.EmptyInput.New("universe.GetUnion")
	}
	if s.QueryAreDisjoint(us...) && allPairwiseNotEqual(s, us) {
		fresh := s.NewUniverse()
		s.mu.Lock()
		rf := s.find(fresh.id)
		for _, u := range us {
			s.markSubset(s.find(u.id), rf)
		}
		s.mu.Unlock()
		return fresh, nil
	}
	if allEqual(s, us) {
		return us[0], nil
	}
	return s.NewUniverse(), nil
}

func allEqual(s *Solver, us []Universe) bool {
	for i := 1; i < len(us); i++ {
		if !s.QueryAreEqual(us[0], us[i]) {
			return false
		}
	}
	return true
}

func allPairwiseNotEqual(s *Solver, us []Universe) bool {
	for i := 0; i < len(us); i++ {
		for j := i + 1; j < len(us); j++ {
			if s.QueryAreEqual(us[i], us[j]) {
				return false
			}
		}
	}
	return true
}

// GetIntersection returns a canonical universe for the intersection of us.
// If one of the arguments is a proven subset of every other argument, that
// argument is returned directly (the Restrict shortcut). Otherwise a fresh
// universe is returned, proven a subset of every input.
func (s *Solver) GetIntersection(us ...Universe) (Universe, error) {
	if len(us) == 0 {
		return Universe{}, flowerrors.EmptyInput.New("universe.GetIntersection")
	}
	if len(us) == 1 {
		return us[0], nil
	}
	for i, candidate := range us {
		isSubsetOfRest := true
		for j, other := range us {
			if i == j {
				continue
			}
			if !s.QueryIsSubset(candidate, other) {
				isSubsetOfRest = false
				break
			}
		}
		if isSubsetOfRest {
			return candidate, nil
		}
	}
	fresh := s.NewUniverse()
	for _, u := range us {
		if err := s.PromiseIsSubsetOf(fresh, u); err != nil {
			return Universe{}, err
		}
	}
	return fresh, nil
}

// GetDifference returns a fresh universe representing u minus v: a subset
// of u, disjoint from v.
func (s *Solver) GetDifference(u, v Universe) (Universe, error) {
	fresh := s.NewUniverse()
	if err := s.PromiseIsSubsetOf(fresh, u); err != nil {
		return Universe{}, err
	}
	s.mu.Lock()
	s.markDisjointPair(s.find(fresh.id), s.find(v.id))
	s.mu.Unlock()
	return fresh, nil
}
