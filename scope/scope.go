// Package scope implements the scope lowering state: the stateful
// translator that turns the logical plan into engine calls, exactly once
// per logical entity, respecting dependency order and storage placement.
//
// This is the hardest subsystem per the design: every public Resolve* is a
// pure function of the current state and the underlying plan
// (idempotence), entries are only ever added, never replaced
// (monotonicity), and resolving a column resolves at most its universe and
// one physical table (locality) — transitive dependencies are resolved
// recursively by evaluator factories, not by State itself.
package scope

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pathwaydb/flowcore/engineapi"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// Storage is a per-universe layout declaring which columns are
// co-located, and at what path, within one physical table.
type Storage struct {
	Table   engineapi.EngineTableHandle
	Columns map[ids.ColumnID]engineapi.ColumnPath
}

// EvaluatorFactory builds an ExpressionEvaluator the first time a context
// is resolved; State caches the result and never calls the factory again
// for the same context.
type EvaluatorFactory func() (ExpressionEvaluator, error)

// ExpressionEvaluator is an opaque per-context evaluator handle; State
// does not interpret it, it only caches and returns it.
type ExpressionEvaluator interface{}

// ComputerID addresses a registered callback (UDF/reducer) by dense
// integer id; ids are never reused.
type ComputerID int64

// Computer is an opaque callback registered for later invocation by the
// engine (a UDF body, a reducer step function).
type Computer interface{}

// State is one lowering session, bound to a single engine scope. It is not
// safe for concurrent mutation; concurrent read-only Resolve* calls that
// hit the cache are fine, but the first resolution of any entity must come
// from one goroutine at a time (enforced by mu).
type State struct {
	mu sync.Mutex

	engine engineapi.Engine

	storages map[universe.Universe]Storage

	universes map[universe.Universe]engineapi.EngineUniverseHandle
	columns   map[ids.ColumnID]engineapi.EngineColumnHandle
	tables    map[universe.Universe]engineapi.EngineTableHandle

	evaluators map[interface{}]ExpressionEvaluator

	nextComputer ComputerID
	computers    map[ComputerID]Computer

	log *logrus.Entry
}

// NewState returns an empty lowering session bound to engine.
func NewState(engine engineapi.Engine) *State {
	return &State{
		engine:     engine,
		storages:   map[universe.Universe]Storage{},
		universes:  map[universe.Universe]engineapi.EngineUniverseHandle{},
		columns:    map[ids.ColumnID]engineapi.EngineColumnHandle{},
		tables:     map[universe.Universe]engineapi.EngineTableHandle{},
		evaluators: map[interface{}]ExpressionEvaluator{},
		computers:  map[ComputerID]Computer{},
		log:        logrus.WithField("component", "scope.State"),
	}
}

// RegisterStorage declares where u's columns physically live. It must be
// called before any Resolve* touching u; calling it twice for the same
// universe with a different Storage is an InvariantViolation (storage
// placement, like every other scope fact, is set once).
func (s *State) RegisterStorage(u universe.Universe, storage Storage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.storages[u]; ok {
		if !sameStorage(existing, storage) {
			return flowerrors.InvariantViolation.New(
				fmt.Sprintf("storage for universe %s already registered with a different layout", u))
		}
		return nil
	}
	s.storages[u] = storage
	return nil
}

func sameStorage(a, b Storage) bool {
	if a.Table != b.Table || len(a.Columns) != len(b.Columns) {
		return false
	}
	for col, path := range a.Columns {
		if other, ok := b.Columns[col]; !ok || other != path {
			return false
		}
	}
	return true
}

// HasStorage reports whether u has a registered Storage in this scope —
// the building block for has_table/has_column probes.
func (s *State) HasStorage(u universe.Universe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.storages[u]
	return ok
}

// ResolveUniverse resolves u's engine-side universe handle, materializing
// the backing physical table from Storage the first time it is asked for.
// It returns a flowerrors.OutOfScope error (recoverable) if u has no
// registered Storage in this scope.
func (s *State) ResolveUniverse(u universe.Universe) (engineapi.EngineUniverseHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveUniverseLocked(u)
}

func (s *State) resolveUniverseLocked(u universe.Universe) (engineapi.EngineUniverseHandle, error) {
	if h, ok := s.universes[u]; ok {
		return h, nil
	}
	storage, ok := s.storages[u]
	if !ok {
		return nil, flowerrors.OutOfScope.New(fmt.Sprintf("universe %s", u))
	}
	tableHandle, err := s.materializeTableLocked(u, storage)
	if err != nil {
		return nil, err
	}
	uh, err := s.engine.TableUniverse(tableHandle)
	if err != nil {
		return nil, flowerrors.EngineFailure.New(err.Error())
	}
	s.universes[u] = uh
	return uh, nil
}

// ResolveColumn resolves c's engine-side column handle. It returns
// flowerrors.OutOfScope if c's universe has no registered Storage, or that
// Storage does not contain c.
func (s *State) ResolveColumn(u universe.Universe, c ids.ColumnID) (engineapi.EngineColumnHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.columns[c]; ok {
		return h, nil
	}
	storage, ok := s.storages[u]
	if !ok {
		return nil, flowerrors.OutOfScope.New(fmt.Sprintf("column %d (universe %s)", c, u))
	}
	path, ok := storage.Columns[c]
	if !ok {
		return nil, flowerrors.OutOfScope.New(fmt.Sprintf("column %d not present in storage for universe %s", c, u))
	}

	universeHandle, err := s.resolveUniverseLocked(u)
	if err != nil {
		return nil, err
	}
	tableHandle, err := s.materializeTableLocked(u, storage)
	if err != nil {
		return nil, err
	}
	ch, err := s.engine.TableColumn(universeHandle, tableHandle, path)
	if err != nil {
		return nil, flowerrors.EngineFailure.New(err.Error())
	}
	s.columns[c] = ch
	return ch, nil
}

// materializeTableLocked builds (or returns the cached) physical table for
// u from storage: every column in storage, at its path. Caller must hold
// s.mu.
func (s *State) materializeTableLocked(u universe.Universe, storage Storage) (engineapi.EngineTableHandle, error) {
	if h, ok := s.tables[u]; ok {
		return h, nil
	}
	if storage.Table != nil {
		s.tables[u] = storage.Table
		return storage.Table, nil
	}

	cols := make([]engineapi.ColumnWithPath, 0, len(storage.Columns))
	for col, path := range storage.Columns {
		cols = append(cols, engineapi.ColumnWithPath{Column: col, Path: path})
	}

	// ColumnsToTable needs a universe handle too, but resolving it here
	// would recurse back into materializeTableLocked for the common case
	// where storage.Table is nil and the universe is being built for the
	// first time from loose columns; the engine contract allows a nil
	// placeholder universe handle for that path.
	uh := s.universes[u]
	handle, err := s.engine.ColumnsToTable(uh, cols)
	if err != nil {
		return nil, flowerrors.EngineFailure.New(err.Error())
	}
	s.tables[u] = handle
	return handle, nil
}

// GetOrCreateEvaluator returns the cached evaluator for key, calling
// factory to build one the first time key is seen. key must be
// comparable — callers key by the producing operator's ids.NodeID rather
// than a column.Context value directly, since several Context variants
// hold slices/maps and are not themselves comparable.
func (s *State) GetOrCreateEvaluator(key interface{}, factory EvaluatorFactory) (ExpressionEvaluator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev, ok := s.evaluators[key]; ok {
		return ev, nil
	}
	ev, err := factory()
	if err != nil {
		return nil, err
	}
	s.evaluators[key] = ev
	return ev, nil
}

// RegisterComputer addresses c by a dense, never-reused id.
func (s *State) RegisterComputer(c Computer) ComputerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextComputer++
	id := s.nextComputer
	s.computers[id] = c
	return id
}

// Computer looks up a previously registered callback by id.
func (s *State) Computer(id ComputerID) (Computer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.computers[id]
	return c, ok
}
