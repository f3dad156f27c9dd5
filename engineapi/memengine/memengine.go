// Package memengine is a reference, in-memory implementation of
// engineapi.Engine: columnar storage keyed by logical column id, good
// enough to drive scope.State end to end in tests without a real
// physical runtime behind it. Nothing here is meant for production use;
// it exists so the frontend can be exercised without a database.
package memengine

import (
	"fmt"
	"sync"

	"github.com/pathwaydb/flowcore/engineapi"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/ids"
)

type universeHandle struct{ id int64 }

func (*universeHandle) engineHandle() {}

type tableHandle struct {
	id   int64
	name string
}

func (*tableHandle) engineHandle() {}

type columnHandle struct {
	id    int64
	table *tableHandle
	path  engineapi.ColumnPath
}

func (*columnHandle) engineHandle() {}

// physicalTable is a column store: every entry is named by its
// engineapi.ColumnPath and all of a table's columns share one row count.
type physicalTable struct {
	name     string
	universe *universeHandle
	columns  map[engineapi.ColumnPath]ids.ColumnID
}

// Engine is a single in-memory scope: a registry of physical tables and
// the raw column data backing them. The zero value is not usable; build
// one with New.
type Engine struct {
	mu sync.Mutex

	nextID int64

	tables    map[*tableHandle]*physicalTable
	columnIDs map[*columnHandle]bool

	// columnData holds raw row values by logical column id, seeded ahead
	// of time by SeedColumn; ColumnsToTable only ever groups existing
	// column data under a new table, it never invents rows.
	columnData map[ids.ColumnID][]interface{}
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{
		tables:     map[*tableHandle]*physicalTable{},
		columnIDs:  map[*columnHandle]bool{},
		columnData: map[ids.ColumnID][]interface{}{},
	}
}

func (e *Engine) newID() int64 {
	e.nextID++
	return e.nextID
}

// SeedColumn registers the raw row values for a logical column, the way a
// connector would hand the frontend its source data. It must be called
// before any table is built that references col.
func (e *Engine) SeedColumn(col ids.ColumnID, values []interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.columnData[col] = values
}

// CreateTable registers a physical table up front, one column id per
// path, all already seeded via SeedColumn. This is the entry point tests
// use to stand up a connector's initial table; ColumnsToTable covers the
// engine-driven path where the frontend assembles a table from columns
// it already resolved elsewhere.
func (e *Engine) CreateTable(name string, columns map[engineapi.ColumnPath]ids.ColumnID) (engineapi.EngineTableHandle, engineapi.EngineUniverseHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	th := &tableHandle{id: e.newID(), name: name}
	uh := &universeHandle{id: e.newID()}
	cp := make(map[engineapi.ColumnPath]ids.ColumnID, len(columns))
	for path, col := range columns {
		cp[path] = col
	}
	e.tables[th] = &physicalTable{name: name, universe: uh, columns: cp}
	return th, uh
}

// TableUniverse implements engineapi.Engine.
func (e *Engine) TableUniverse(table engineapi.EngineTableHandle) (engineapi.EngineUniverseHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	th, ok := table.(*tableHandle)
	if !ok {
		return nil, fmt.Errorf("memengine: foreign table handle %v", table)
	}
	pt, ok := e.tables[th]
	if !ok {
		return nil, fmt.Errorf("memengine: unknown table %q", th.name)
	}
	return pt.universe, nil
}

// TableColumn implements engineapi.Engine.
func (e *Engine) TableColumn(u engineapi.EngineUniverseHandle, table engineapi.EngineTableHandle, path engineapi.ColumnPath) (engineapi.EngineColumnHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	th, ok := table.(*tableHandle)
	if !ok {
		return nil, fmt.Errorf("memengine: foreign table handle %v", table)
	}
	pt, ok := e.tables[th]
	if !ok {
		return nil, fmt.Errorf("memengine: unknown table %q", th.name)
	}
	if _, ok := pt.columns[path]; !ok {
		return nil, fmt.Errorf("memengine: table %q has no column at path %q", th.name, path)
	}
	ch := &columnHandle{id: e.newID(), table: th, path: path}
	e.columnIDs[ch] = true
	return ch, nil
}

// ColumnsToTable implements engineapi.Engine: it groups already-seeded
// columns into a fresh physical table sharing universe u. u may be nil
// when the table is being built for the first time from loose columns,
// matching scope.State.materializeTableLocked's contract; a fresh
// universe handle is minted in that case.
func (e *Engine) ColumnsToTable(u engineapi.EngineUniverseHandle, cols []engineapi.ColumnWithPath) (engineapi.EngineTableHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(cols) == 0 {
		return nil, flowerrors.EmptyInput.New("memengine.ColumnsToTable")
	}

	uh, ok := u.(*universeHandle)
	if !ok {
		uh = &universeHandle{id: e.newID()}
	}

	cp := make(map[engineapi.ColumnPath]ids.ColumnID, len(cols))
	for _, cw := range cols {
		if _, ok := e.columnData[cw.Column]; !ok {
			return nil, flowerrors.EngineFailure.New(
				fmt.Sprintf("memengine: column %d has no seeded data", cw.Column))
		}
		cp[cw.Path] = cw.Column
	}

	tid := e.newID()
	th := &tableHandle{id: tid, name: fmt.Sprintf("table-%d", tid)}
	e.tables[th] = &physicalTable{name: th.name, universe: uh, columns: cp}
	return th, nil
}

// RowCount returns the number of rows backing a resolved column handle,
// the way a replay loop learns how many times to call Evaluator.Eval
// without reaching past the engineapi.Engine boundary for row counts.
func (e *Engine) RowCount(h engineapi.EngineColumnHandle) (int, error) {
	ch, ok := h.(*columnHandle)
	if !ok {
		return 0, fmt.Errorf("memengine: foreign column handle %v", h)
	}
	values, err := e.valuesFor(ch)
	if err != nil {
		return 0, err
	}
	return len(values), nil
}

// valuesFor returns the raw row data a resolved column handle points at.
func (e *Engine) valuesFor(ch *columnHandle) ([]interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pt, ok := e.tables[ch.table]
	if !ok {
		return nil, fmt.Errorf("memengine: column handle points at an unregistered table")
	}
	col, ok := pt.columns[ch.path]
	if !ok {
		return nil, fmt.Errorf("memengine: column handle path %q no longer present", ch.path)
	}
	values, ok := e.columnData[col]
	if !ok {
		return nil, fmt.Errorf("memengine: column %d has no seeded data", col)
	}
	return values, nil
}
