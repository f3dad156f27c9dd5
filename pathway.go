// Package pathway is the top-level facade: the entry point an application
// actually imports. It ties together a graph.Builder, a scope.State bound
// to an engineapi.Engine, and the subscriptions registered against it,
// exposing the surface the rest of the packages are built to be driven
// through (NewGraph, promise_* passthroughs, Subscribe, Run/RunAll).
package pathway

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pathwaydb/flowcore/engineapi"
	"github.com/pathwaydb/flowcore/engineapi/memengine"
	"github.com/pathwaydb/flowcore/expr"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/graph"
	"github.com/pathwaydb/flowcore/ids"
	"github.com/pathwaydb/flowcore/scope"
	"github.com/pathwaydb/flowcore/table"
	"github.com/pathwaydb/flowcore/tabular"
	"github.com/pathwaydb/flowcore/universe"
)

var log = logrus.WithField("component", "pathway")

// MonitoringLevel controls how much of a run's progress gets logged;
// it has no effect on what is computed.
type MonitoringLevel int

const (
	MonitoringNone MonitoringLevel = iota
	MonitoringBasic
	MonitoringFull
)

// RunOptions configures a Run/RunAll call.
type RunOptions struct {
	Debug           bool
	MonitoringLevel MonitoringLevel
}

type subscription struct {
	table table.Table
	sink  engineapi.CallbackSink
}

// Graph is one plan-building session: a parse graph, the engine scope it
// lowers into, and the subscriptions waiting to be run. It is the object
// every table.Table in an application is ultimately built through.
type Graph struct {
	builder *graph.Builder
	engine  engineapi.Engine
	scope   *scope.State

	subs []subscription
}

// NewGraph starts a fresh plan-building session against engine. Most
// callers in tests pass a *memengine.Engine; a production deployment
// would hand in its own engineapi.Engine implementation instead.
func NewGraph(engine engineapi.Engine) *Graph {
	return &Graph{
		builder: graph.NewBuilder(),
		engine:  engine,
		scope:   scope.NewState(engine),
	}
}

// Builder returns the underlying parse-graph builder, for code that needs
// to call table.FromColumns or any other builder-taking constructor
// directly.
func (g *Graph) Builder() *graph.Builder { return g.builder }

// PromiseAreEqual forwards to the graph's universe solver; see
// universe.Solver.PromiseAreEqual.
func (g *Graph) PromiseAreEqual(u, v universe.Universe) error {
	return g.builder.Solver().PromiseAreEqual(u, v)
}

// PromiseIsSubsetOf forwards to the graph's universe solver; see
// universe.Solver.PromiseIsSubsetOf.
func (g *Graph) PromiseIsSubsetOf(u, v universe.Universe) error {
	return g.builder.Solver().PromiseIsSubsetOf(u, v)
}

// PromiseArePairwiseDisjoint forwards to the graph's universe solver; see
// universe.Solver.PromiseArePairwiseDisjoint.
func (g *Graph) PromiseArePairwiseDisjoint(us ...universe.Universe) error {
	return g.builder.Solver().PromiseArePairwiseDisjoint(us...)
}

// FromTabular lifts frame into a fresh table.Table and, when the graph's
// engine is the in-memory reference engine, seeds that engine with
// frame's rows and registers scope storage for the result — the "debug
// loader" path from §6. Against any other engineapi.Engine implementation
// the caller is expected to register storage for the returned table's
// universe itself, the way a real connector would.
func (g *Graph) FromTabular(frame tabular.Frame, idColumn string) (table.Table, error) {
	tbl, err := table.FromTabular(g.builder, frame, idColumn)
	if err != nil {
		return table.Table{}, err
	}

	me, ok := g.engine.(*memengine.Engine)
	if !ok {
		return tbl, nil
	}

	names := tbl.ColumnNames()
	enginePaths := map[engineapi.ColumnPath]ids.ColumnID{}
	scopePaths := map[ids.ColumnID]engineapi.ColumnPath{}
	for colIdx, name := range names {
		id, _ := tbl.ColumnID(name)
		values := make([]interface{}, frame.Len())
		for r := 0; r < frame.Len(); r++ {
			values[r] = frame.Row(r)[colIdx]
		}
		me.SeedColumn(id, values)
		path := engineapi.ColumnPath(name)
		enginePaths[path] = id
		scopePaths[id] = path
	}

	idID := tbl.IDColumnRef().Column
	idValues := make([]interface{}, frame.Len())
	for r := range idValues {
		idValues[r] = r
	}
	me.SeedColumn(idID, idValues)
	enginePaths["id"] = idID
	scopePaths[idID] = "id"

	th, _ := me.CreateTable(fmt.Sprintf("tabular-%d", tbl.TableID()), enginePaths)
	if err := g.scope.RegisterStorage(tbl.Universe(), scope.Storage{Table: th, Columns: scopePaths}); err != nil {
		return table.Table{}, err
	}
	return tbl, nil
}

// Subscribe registers sink to receive t's rows once Run/RunAll replays
// them. t's universe must have registered storage in this graph's scope
// by the time Run/RunAll is called — either because it came from
// FromTabular against the reference engine, or because the caller
// registered it directly.
func (g *Graph) Subscribe(t table.Table, sink engineapi.CallbackSink) error {
	g.subs = append(g.subs, subscription{table: t, sink: sink})
	return nil
}

// Run replays every subscription once. It is an alias for RunAll: this
// frontend has no notion of incremental re-runs of its own, that belongs
// to the physical runtime (out of scope here).
func (g *Graph) Run(opts RunOptions) error {
	return g.RunAll(opts)
}

// RunAll lowers every subscribed table through this graph's scope and
// replays its already-materialized rows through the subscription's sink,
// in schema column order, each as a +1 diff at time 0, followed by
// OnEnd. It only interprets raw column data; it does not evaluate
// operator expressions itself (that is the physical runtime's job, out of
// scope here) — a subscribed table must already have storage registered
// for its exact universe.
func (g *Graph) RunAll(opts RunOptions) error {
	me, ok := g.engine.(*memengine.Engine)
	if !ok {
		return flowerrors.EngineFailure.New("pathway.RunAll requires a *memengine.Engine (debug/bounded mode)")
	}

	for _, sub := range g.subs {
		if err := g.replay(me, sub, opts); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) replay(me *memengine.Engine, sub subscription, opts RunOptions) error {
	t := sub.table
	names := t.ColumnNames()

	bindings := make(map[ids.ColumnID]engineapi.EngineColumnHandle, len(names))
	colIDs := make([]ids.ColumnID, len(names))
	for i, name := range names {
		id, _ := t.ColumnID(name)
		ch, err := g.scope.ResolveColumn(t.Universe(), id)
		if err != nil {
			return err
		}
		bindings[id] = ch
		colIDs[i] = id
	}

	ev, err := memengine.NewEvaluator(me, bindings)
	if err != nil {
		return flowerrors.EngineFailure.New(err.Error())
	}

	rows := 0
	if len(colIDs) > 0 {
		rows, err = me.RowCount(bindings[colIDs[0]])
		if err != nil {
			return flowerrors.EngineFailure.New(err.Error())
		}
	}

	if opts.MonitoringLevel >= MonitoringBasic {
		log.WithFields(logrus.Fields{"universe": t.Universe().String(), "rows": rows}).Info("replaying subscription")
	}

	for r := 0; r < rows; r++ {
		row := make([]interface{}, len(colIDs))
		for i, id := range colIDs {
			v, err := ev.Eval(expr.ColumnRef{Table: t.TableID(), Column: id, Name: names[i]}, r)
			if err != nil {
				return err
			}
			row[i] = v
		}
		if err := sub.sink.OnChange(t.Universe(), row, 0, 1); err != nil {
			return err
		}
	}
	return sub.sink.OnEnd()
}
