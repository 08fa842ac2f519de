// Package composability holds the checks that must pass before a family of
// protocols is handed to the ProtoInfo builder: per-protocol confusion-
// freeness and pairwise interface-role/event-type compatibility. It depends
// only on engine/graph and engine/label so that engine/protoinfo can
// depend on it without a cycle.
package composability

import (
	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// ConfusionFree checks a single protocol graph for command/event-type
// uniqueness, single-event-per-edge, reachability from the initial node,
// and reachability to a terminal node from every node.
func ConfusionFree(g *graph.ProtocolGraph) *errs.Report {
	report := errs.NewReport()

	byEvent := make(map[label.EventType][]graph.EdgeID)
	byCmd := make(map[label.Command][]graph.EdgeID)
	for _, e := range g.Edges() {
		l := g.EdgeLabel(e)
		byEvent[l.EventType] = append(byEvent[l.EventType], e)
		byCmd[l.Cmd] = append(byCmd[l.Cmd], e)
		if len(l.LogType()) != 1 {
			report.Add(&errs.MoreThanOneEventTypeInCommand{Edge: errs.DescribeEdge(g, e)})
		}
	}

	for event, edges := range byEvent {
		if len(edges) > 1 {
			report.Add(&errs.EventEmittedMultipleTimes{Event: event, Edges: describeAll(g, edges)})
		}
	}
	for cmd, edges := range byCmd {
		if len(edges) > 1 {
			report.Add(&errs.CommandOnMultipleTransitions{Cmd: cmd, Edges: describeAll(g, edges)})
		}
	}

	if g.Initial() != graph.NoNode {
		reachable := graph.ReachableFrom[label.State, label.SwarmLabel](g, g.Initial())
		for _, n := range g.Nodes() {
			if _, ok := reachable[n]; !ok {
				report.Add(&errs.StateNotReachableFromInitial{State: g.NodeWeight(n)})
			}
		}
	}

	reachesTerminal := graph.ReachesAnyTerminal[label.State, label.SwarmLabel](g)
	for _, n := range g.Nodes() {
		if !reachesTerminal[n] {
			report.Add(&errs.StateCanNotReachTerminal{State: g.NodeWeight(n)})
		}
	}

	return report
}

func describeAll(g *graph.ProtocolGraph, edges []graph.EdgeID) []errs.EdgeDesc {
	out := make([]errs.EdgeDesc, len(edges))
	for i, e := range edges {
		out[i] = errs.DescribeEdge(g, e)
	}
	return out
}
