// Package dtype implements the relational type lattice: integers, floats,
// booleans, strings, timestamps, pointers, optionals, arrays and tuples,
// plus the least-common-supertype operation that operator contracts use to
// merge schemas.
package dtype

import (
	"fmt"

	"github.com/pathwaydb/flowcore/flowerrors"
)

// Kind tags the coarse shape of a Type. Optional and Array/Tuple wrap an
// inner Type; the rest are leaves.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindTimestamp
	KindPointer
	KindOptional
	KindArray
	KindTuple
	KindAny // bottom-compatible wildcard produced by LCA of unrelated numerics is never Any; Any is only used internally for empty-tuple edge cases
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindPointer:
		return "pointer"
	case KindOptional:
		return "optional"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// Type is an immutable value describing a column's dtype. Two Types are
// equal iff Equal(a, b) returns true; Go struct equality is not sufficient
// because of the slice-valued Elems field on tuples.
type Type struct {
	kind  Kind
	inner *Type  // Optional, Array element type
	elems []Type // Tuple element types
}

var (
	Int       = Type{kind: KindInt}
	Float     = Type{kind: KindFloat}
	Bool      = Type{kind: KindBool}
	String    = Type{kind: KindString}
	Timestamp = Type{kind: KindTimestamp}
	Pointer   = Type{kind: KindPointer}
)

// Optional wraps t in one level of optionality. Optional(Optional(t)) is
// normalized to Optional(t) — the lattice has no double-optional distinct
// from single-optional.
func Optional(t Type) Type {
	if t.kind == KindOptional {
		return t
	}
	return Type{kind: KindOptional, inner: &t}
}

// Array returns the type of an iterable column whose elements have type t.
func Array(t Type) Type {
	return Type{kind: KindArray, inner: &t}
}

// Tuple returns the type of a fixed-arity row of heterogeneous element
// types.
func Tuple(elems ...Type) Type {
	cp := make([]Type, len(elems))
	copy(cp, elems)
	return Type{kind: KindTuple, elems: cp}
}

// Kind reports the coarse shape of t.
func (t Type) Kind() Kind { return t.kind }

// Inner returns the wrapped type for Optional/Array, or false if t is not
// one of those kinds.
func (t Type) Inner() (Type, bool) {
	if t.inner == nil {
		return Type{}, false
	}
	return *t.inner, true
}

// Elems returns the element types for Tuple, or nil if t is not a tuple.
func (t Type) Elems() []Type {
	if t.kind != KindTuple {
		return nil
	}
	return t.elems
}

// IsOptional reports whether t is Optional(_).
func (t Type) IsOptional() bool { return t.kind == KindOptional }

// IsPointer reports whether t is Pointer or Optional(Pointer).
func (t Type) IsPointer() bool {
	u := Unoptionalize(t)
	return u.kind == KindPointer
}

func (t Type) String() string {
	switch t.kind {
	case KindOptional:
		return fmt.Sprintf("Optional(%s)", t.inner.String())
	case KindArray:
		return fmt.Sprintf("Array(%s)", t.inner.String())
	case KindTuple:
		s := "Tuple("
		for i, e := range t.elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	default:
		return t.kind.String()
	}
}

// Equal reports whether a and b denote the same type, recursing through
// Optional/Array/Tuple structure.
func Equal(a, b Type) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindOptional, KindArray:
		ai, _ := a.Inner()
		bi, _ := b.Inner()
		return Equal(ai, bi)
	case KindTuple:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Unoptionalize strips exactly one level of optionality from t. If t is not
// Optional, it is returned unchanged.
func Unoptionalize(t Type) Type {
	if t.kind == KindOptional {
		return *t.inner
	}
	return t
}

// IsSubclass reports dtype_issubclass(a, b): true when a equals b, or b is
// Optional(x) and a is x or Optional(x).
func IsSubclass(a, b Type) bool {
	if Equal(a, b) {
		return true
	}
	if b.kind == KindOptional {
		inner, _ := b.Inner()
		if Equal(a, inner) {
			return true
		}
		if a.kind == KindOptional {
			ai, _ := a.Inner()
			return Equal(ai, inner)
		}
	}
	return false
}

// numericRank orders the numeric tower for LCA purposes: bool < int < float.
func numericRank(k Kind) (int, bool) {
	switch k {
	case KindBool:
		return 0, true
	case KindInt:
		return 1, true
	case KindFloat:
		return 2, true
	default:
		return 0, false
	}
}

// LCA returns the least common supertype of a and b. It is commutative,
// associative and idempotent (LCA(a, a) == a). It fails with a TypeMismatch
// error when no common supertype exists, e.g. string vs pointer.
func LCA(a, b Type) (Type, error) {
	if Equal(a, b) {
		return a, nil
	}

	// Optionality is absorbing: LCA(Optional(x), y) = Optional(LCA(x,y)).
	if a.kind == KindOptional || b.kind == KindOptional {
		au := Unoptionalize(a)
		bu := Unoptionalize(b)
		inner, err := LCA(au, bu)
		if err != nil {
			return Type{}, err
		}
		return Optional(inner), nil
	}

	if ar, aok := numericRank(a.kind); aok {
		if br, bok := numericRank(b.kind); bok {
			if ar >= br {
				return a, nil
			}
			return b, nil
		}
	}

	if a.kind == KindArray && b.kind == KindArray {
		ai, _ := a.Inner()
		bi, _ := b.Inner()
		inner, err := LCA(ai, bi)
		if err != nil {
			return Type{}, err
		}
		return Array(inner), nil
	}

	if a.kind == KindTuple && b.kind == KindTuple && len(a.elems) == len(b.elems) {
		elems := make([]Type, len(a.elems))
		for i := range a.elems {
			e, err := LCA(a.elems[i], b.elems[i])
			if err != nil {
				return Type{}, err
			}
			elems[i] = e
		}
		return Tuple(elems...), nil
	}

	return Type{}, flowerrors.TypeMismatch.New("<lca>", a.String(), b.String())
}

// LCAAll folds LCA over one or more types; it is an error to call it with
// zero types.
func LCAAll(ts ...Type) (Type, error) {
	if len(ts) == 0 {
		return Type{}, flowerrors.EmptyInput.New("dtype.LCAAll")
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		var err error
		acc, err = LCA(acc, t)
		if err != nil {
			return Type{}, err
		}
	}
	return acc, nil
}
