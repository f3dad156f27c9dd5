// Package flowerrors collects the error taxonomy shared by every package in
// flowcore: a fixed set of go-errors.v1 Kinds, one per row of the error
// handling design, plus the helpers that let callers recover from the one
// kind that is meant to be recoverable (OutOfScope).
package flowerrors

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// TypeMismatch is raised when an expression's dtype is incompatible with
	// the operator it is used in. Args: column name, expected, got.
	TypeMismatch = errors.NewKind("type mismatch on column %q: expected %s, got %s")

	// UniverseMismatch is raised when two columns from unrelated universes
	// are combined without a bridge (with_universe_of, promise_*, restrict).
	UniverseMismatch = errors.NewKind("universe mismatch: %s; use with_universe_of or a promise_* to bridge universes")

	// UniverseContradiction is raised immediately at the promise site when a
	// promise contradicts a fact the solver already holds.
	UniverseContradiction = errors.NewKind("universe promise contradicts known facts: %s")

	// SchemaMismatch is raised by concat/update_rows when the column name
	// sets of their operands differ.
	SchemaMismatch = errors.NewKind("schema mismatch: columns differ by %v")

	// UnknownColumn is raised when an expression or operator references a
	// column name that does not exist on its table.
	UnknownColumn = errors.NewKind("unknown column %q")

	// OutOfScope is the single recoverable kind: a scope lowering lookup
	// asked for an entity that was never materialized in that scope.
	OutOfScope = errors.NewKind("entity not materialized in this scope: %s")

	// EngineFailure wraps an error surfaced unchanged from the downstream
	// engine collaborator.
	EngineFailure = errors.NewKind("engine failure: %s")

	// InvariantViolation marks a fatal breach of a monotonicity/idempotence
	// invariant (e.g. overwriting a cached universe with a different engine
	// handle, or re-assigning lineage). Callers should not attempt recovery.
	InvariantViolation = errors.NewKind("invariant violation: %s")

	// EmptyInput is raised by operators that reject zero-length inputs
	// (from_columns, flatten with an empty source universe is fine, but
	// construction from zero columns/rows is not).
	EmptyInput = errors.NewKind("empty input to %s")
)

// IsOutOfScope reports whether err (or anything it wraps) is an OutOfScope
// error. This is the only error kind callers are expected to recover from,
// e.g. to implement has_column/has_table probes.
func IsOutOfScope(err error) bool {
	return OutOfScope.Is(err)
}

// IsInvariantViolation reports whether err is a fatal invariant breach.
// Present mainly so callers can distinguish "should never happen, crash
// loudly" from ordinary plan-building errors in logs and panics.
func IsInvariantViolation(err error) bool {
	return InvariantViolation.Is(err)
}
