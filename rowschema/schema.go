// Package rowschema implements the ordered, named column-type mapping
// every table carries: name -> (dtype, append-only), plus the type hints
// derived from it.
package rowschema

import (
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/flowerrors"
)

// Field describes one named column slot: its dtype and whether the engine
// guarantees the column is append-only (no retractions ever touch it).
type Field struct {
	Name       string
	Type       dtype.Type
	AppendOnly bool
}

// Schema is an ordered mapping name -> Field. Order matters: it is the
// column order a physical row tuple is laid out in, and table.Table keeps
// it in lockstep with its column mapping (schema.Names() == columns.Names()
// in order, per the core invariant).
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a Schema from fields in order. It is an error to pass zero
// fields or a duplicate name.
func New(fields ...Field) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, flowerrors.EmptyInput.New("rowschema.New")
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := idx[f.Name]; dup {
			return Schema{}, flowerrors.SchemaMismatch.New([]string{f.Name})
		}
		idx[f.Name] = i
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Schema{fields: cp, index: idx}, nil
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns the underlying fields in order. Callers must not mutate
// the returned slice.
func (s Schema) Fields() []Field { return s.fields }

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.fields) }

// Field looks up a column's Field by name.
func (s Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether name is a column of s.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// WithField returns a new Schema with name's Field replaced (type/flags
// only; the column's position is preserved). It is an error if name is not
// already present.
func (s Schema) WithField(name string, f Field) (Schema, error) {
	i, ok := s.index[name]
	if !ok {
		return Schema{}, flowerrors.UnknownColumn.New(name)
	}
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	f.Name = name
	cp[i] = f
	return Schema{fields: cp, index: s.index}, nil
}

// SameColumnSet reports whether a and b have exactly the same set of
// column names, ignoring order and types — the precondition concat and
// update_rows check before merging via dtype.LCA.
func SameColumnSet(a, b Schema) bool {
	if len(a.fields) != len(b.fields) {
		return false
	}
	for name := range a.index {
		if !b.Has(name) {
			return false
		}
	}
	return true
}

// SymmetricDifference returns the column names present in exactly one of a
// or b, for SchemaMismatch error messages.
func SymmetricDifference(a, b Schema) []string {
	var diff []string
	for name := range a.index {
		if !b.Has(name) {
			diff = append(diff, name)
		}
	}
	for name := range b.index {
		if !a.Has(name) {
			diff = append(diff, name)
		}
	}
	return diff
}
