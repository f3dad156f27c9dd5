// Package engineapi declares the external collaborators the frontend
// consumes (§6): the physical engine scope, connector property
// descriptors, and callback sinks. Every type here is an interface or a
// plain data descriptor — the physical runtime implementing Engine lives
// outside this module; engineapi/memengine provides a reference in-memory
// implementation used by tests.
package engineapi

import (
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// ColumnPath names where, within a physical table, one logical column's
// values live.
type ColumnPath string

// ColumnWithPath pairs a logical column id with its storage path, the
// shape ColumnsToTable consumes.
type ColumnWithPath struct {
	Column ids.ColumnID
	Path   ColumnPath
}

// Engine is the synchronous contract the physical runtime exposes to the
// frontend. table_universe / table_column / columns_to_table from §6.
type Engine interface {
	// TableUniverse resolves the engine-side universe handle backing a
	// physical table already known to the engine.
	TableUniverse(table EngineTableHandle) (EngineUniverseHandle, error)
	// TableColumn resolves one column of a physical table at path, given
	// its (already-resolved) engine universe handle.
	TableColumn(u EngineUniverseHandle, table EngineTableHandle, path ColumnPath) (EngineColumnHandle, error)
	// ColumnsToTable builds a physical table from a set of columns-with-
	// paths, all sharing universe u.
	ColumnsToTable(u EngineUniverseHandle, cols []ColumnWithPath) (EngineTableHandle, error)
}

// EngineUniverseHandle, EngineTableHandle and EngineColumnHandle are
// opaque engine-side handles. They are compared for equality by the
// engine's own rules (usually pointer or id equality) — scope.State never
// interprets their contents.
type EngineUniverseHandle interface{}
type EngineTableHandle interface{}
type EngineColumnHandle interface{}

// ColumnProperties mirrors the per-column slice of ConnectorProperties:
// the declared dtype and whether the connector promises append-only
// delivery for that column.
type ColumnProperties struct {
	Type       dtype.Type
	AppendOnly bool
}

// ConnectorProperties describes a data source/sink at the boundary of the
// frontend: opaque to the core beyond these fields.
type ConnectorProperties struct {
	CommitDurationMS int64 `yaml:"commit_duration_ms"`
	UnsafeTrustedIDs bool  `yaml:"unsafe_trusted_ids"`
	// BoundedMode is the static mode indicator distinguishing bounded
	// (finite, debug/batch) from unbounded (streaming) sources.
	BoundedMode bool                        `yaml:"bounded_mode"`
	Columns     map[string]ColumnProperties `yaml:"-"`
}

// CallbackSink is the subscription contract: on_change/on_end from §6.
type CallbackSink interface {
	OnChange(key universe.Universe, row []interface{}, time int64, diff int) error
	OnEnd() error
}

