// Package universe implements the identity of key-sets ("universes") and
// the universe-solver: a conservative equivalence/partial-order reasoner
// over universes that proves equality, disjointness and subset/superset
// relationships, and that backs the legality checks in package table.
package universe

import (
	"github.com/google/uuid"
)

// Universe is an opaque identity token for a set of row keys. It carries no
// row data; it only names a key-set. Two Universe values are "equal" only
// when a Solver has been told so, either by construction (get_union of
// equal inputs, restrict) or by an explicit Promise.
type Universe struct {
	id uuid.UUID
}

// ID returns the raw identity of u. Only package scope and tests should
// need this; everything else compares universes through a Solver.
func (u Universe) ID() uuid.UUID { return u.id }

// String renders a short, human-legible form for logs and error messages.
func (u Universe) String() string {
	s := u.id.String()
	return s[:8]
}

// IsZero reports whether u is the zero value (never produced by a Solver,
// useful as a "no universe" sentinel in error paths).
func (u Universe) IsZero() bool { return u.id == uuid.Nil }
