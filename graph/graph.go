// Package graph implements the parse graph: a DAG whose nodes are operator
// invocations and whose edges carry table handles. A Builder is the
// "global" handle that indexes universes, operators, and a reference to
// the universe solver — threaded explicitly through the plan-building API
// instead of living behind a package-level singleton.
package graph

import (
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/universe"
)

// FreshColumn names one column newly created by an operator, whose
// Lineage the Builder will assign when the node is recorded.
type FreshColumn struct {
	ID      ids.ColumnID
	Name    string
	Lineage column.Lineage
}

// Node is one operator invocation: its inputs are the dependency tables it
// was built from, its output is the table id it produced.
type Node struct {
	id      ids.NodeID
	kind    string
	inputs  []ids.TableID
	output  ids.TableID
	columns []ids.ColumnID
}

func (n *Node) ID() ids.NodeID        { return n.id }
func (n *Node) Kind() string          { return n.kind }
func (n *Node) Inputs() []ids.TableID { return n.inputs }
func (n *Node) Output() ids.TableID   { return n.output }

// Builder owns the node arena and the universe solver for one plan. Every
// table built through package table holds a reference to the Builder that
// created it; there is no hidden global state.
type Builder struct {
	mu sync.Mutex

	solver *universe.Solver
	nodes  []*Node

	nextColumn ids.ColumnID
	nextTable  ids.TableID

	tracer opentracing.Tracer
	log    *logrus.Entry
}

// NewBuilder returns a Builder backed by a fresh universe solver.
func NewBuilder() *Builder {
	return &Builder{
		solver: universe.NewSolver(),
		tracer: opentracing.GlobalTracer(),
		log:    logrus.WithField("component", "graph.Builder"),
	}
}

// Solver returns the universe solver this builder's tables reason with.
func (b *Builder) Solver() *universe.Solver { return b.solver }

// NewColumnID allocates a fresh, never-reused column id.
func (b *Builder) NewColumnID() ids.ColumnID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextColumn++
	return b.nextColumn
}

// NewTableID allocates a fresh, never-reused table id.
func (b *Builder) NewTableID() ids.TableID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextTable++
	return b.nextTable
}

// Add records a new operator node: kind names the operator (e.g.
// "select", "filter", used for logging/tracing only), inputs are the
// dependency tables, and fresh lists every column the operator created so
// its lineage can be assigned exactly once. Add is the Go realization of
// the teacher corpus's @trace_user_frame decorator: every call opens (and
// closes) a tracing span tagged with the operator kind and node id.
func (b *Builder) Add(kind string, inputs []ids.TableID, fresh []FreshColumn) *Node {
	span := b.tracer.StartSpan("graph.Builder.Add")
	defer span.Finish()
	span.SetTag("operator.kind", kind)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextTable++
	output := b.nextTable

	node := &Node{
		kind:   kind,
		inputs: append([]ids.TableID(nil), inputs...),
		output: output,
	}
	node.id = ids.NodeID(len(b.nodes) + 1)
	b.nodes = append(b.nodes, node)

	span.SetTag("operator.node_id", int64(node.id))

	for _, fc := range fresh {
		fc.Lineage.Assign(fc.Name, node.id)
		node.columns = append(node.columns, fc.ID)
	}

	b.log.WithFields(logrus.Fields{
		"kind":   kind,
		"node":   node.id,
		"output": node.output,
	}).Trace("operator added to parse graph")

	return node
}

// Nodes returns every node in dependency order. Because operator ids are
// assigned monotonically at construction time and a table can only
// reference operators that already exist, insertion order is already a
// valid topological order — matching "ids ... determine tie-breaks in the
// engine's topological sort" from the concurrency model.
func (b *Builder) Nodes() []*Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}
