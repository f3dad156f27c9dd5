package expr

import "github.com/pathwaydb/flowcore/ids"

// Walk visits e and every descendant in pre-order, calling fn on each node.
// If fn returns false for a node, that node's children are not visited
// (but its siblings still are) — mirrors the teacher's transform.Walk /
// NodeFunc shape, specialized to expressions instead of sql.Node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, c := range e.children() {
		Walk(c, fn)
	}
}

// CollectTables returns the distinct table ids referenced by any
// ColumnRef leaf in e, in first-seen order.
func CollectTables(e Expr) []ids.TableID {
	seen := map[ids.TableID]bool{}
	var out []ids.TableID
	Walk(e, func(n Expr) bool {
		if ref, ok := n.(ColumnRef); ok {
			if !seen[ref.Table] {
				seen[ref.Table] = true
				out = append(out, ref.Table)
			}
		}
		return true
	})
	return out
}

// GetColumnFilteredByIsNone recognizes the syntactic pattern
// `col is not None` (Unary{Op: OpIsNotNone, Operand: ColumnRef}) used by
// filter to narrow the result column's type via dtype.Unoptionalize. It
// returns the referenced column and true when e matches that shape.
func GetColumnFilteredByIsNone(e Expr) (ColumnRef, bool) {
	u, ok := e.(Unary)
	if !ok || u.Op != OpIsNotNone {
		return ColumnRef{}, false
	}
	ref, ok := u.Operand.(ColumnRef)
	if !ok {
		return ColumnRef{}, false
	}
	return ref, true
}

// ContainsReducer reports whether e contains a Reducer node anywhere in
// its tree — used to enforce "reducers only admissible inside reduce".
func ContainsReducer(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if n.Kind() == KindReducer {
			found = true
			return false
		}
		return true
	})
	return found
}
