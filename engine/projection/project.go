// Package projection derives a single role's local state machine from a
// protocol graph and subscription: NFA construction, subset-construction
// determinization, Hopcroft-style minimization, multi-protocol
// project-combine, bisimulation-style equivalence, and adaptation of a
// hand-written machine into a derived projection.
package projection

import (
	"fmt"
	"sort"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Project builds the NFA projection of g onto role r under subscription
// sub (the set of event types r subscribes to): retained nodes are the
// initial node plus any node with an incoming subscribed edge; from each
// retained node, an "interesting" outgoing edge is found by skipping
// through nodes whose outgoing events are unsubscribed, stopping at a
// subscribed one.
func Project(g *graph.ProtocolGraph, r label.Role, sub label.EventTypeSet) *graph.MachineGraph {
	out := graph.NewMachineGraph()
	if g.Initial() == graph.NoNode {
		return out
	}

	retained := retainedNodes(g, sub)
	nodeIDs := make(map[graph.NodeID]graph.NodeID, len(retained))
	for n := range retained {
		nodeIDs[n] = out.AddNode(g.NodeWeight(n))
	}
	out.SetInitial(nodeIDs[g.Initial()])

	for n := range retained {
		from := nodeIDs[n]
		for _, edge := range interestingEdges(g, n, sub) {
			l := g.EdgeLabel(edge)
			_, target := g.EdgeEndpoints(edge)
			to, ok := nodeIDs[target]
			if !ok {
				// target should always be retained (it has an incoming
				// subscribed edge by construction), but guard defensively.
				to = out.AddNode(g.NodeWeight(target))
				nodeIDs[target] = to
				retained[target] = struct{}{}
			}
			if l.Role == r {
				out.AddEdge(from, from, label.NewExecute(l.Cmd, l.EventType))
			}
			out.AddEdge(from, to, label.NewInput(l.EventType))
		}
	}

	return out
}

// retainedNodes is the initial node plus every node with an incoming edge
// whose event type is subscribed.
func retainedNodes(g *graph.ProtocolGraph, sub label.EventTypeSet) map[graph.NodeID]struct{} {
	out := map[graph.NodeID]struct{}{g.Initial(): {}}
	for _, e := range g.Edges() {
		if sub.Contains(g.EdgeLabel(e).EventType) {
			_, to := g.EdgeEndpoints(e)
			out[to] = struct{}{}
		}
	}
	return out
}

// interestingEdges finds, from n, every subscribed-event edge reachable by
// following only unsubscribed edges; the search stops at each subscribed
// edge and continues along the unsubscribed edges of the same node.
func interestingEdges(g *graph.ProtocolGraph, n graph.NodeID, sub label.EventTypeSet) []graph.EdgeID {
	var out []graph.EdgeID
	visited := map[graph.NodeID]struct{}{n: {}}
	var visit func(graph.NodeID)
	visit = func(cur graph.NodeID) {
		for _, e := range g.OutEdges(cur) {
			l := g.EdgeLabel(e)
			if sub.Contains(l.EventType) {
				out = append(out, e)
				continue
			}
			_, target := g.EdgeEndpoints(e)
			if _, seen := visited[target]; seen {
				continue
			}
			visited[target] = struct{}{}
			visit(target)
		}
	}
	visit(n)
	return out
}

// subsetName renders a DFA state's underlying NFA-node set the way
// "{s1, s2, ...}" ordered output requires.
func subsetName(g *graph.MachineGraph, subset []graph.NodeID) label.State {
	names := make([]string, len(subset))
	for i, n := range subset {
		names[i] = string(g.NodeWeight(n))
	}
	sort.Strings(names)
	return label.State(fmt.Sprintf("{%s}", joinComma(names)))
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func sortedSubset(nodes map[graph.NodeID]struct{}) []graph.NodeID {
	out := make([]graph.NodeID, 0, len(nodes))
	for n := range nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func subsetKey(nodes []graph.NodeID) string {
	return fmt.Sprint(nodes)
}

// Determinize runs subset construction on an NFA machine graph, producing
// an equivalent DFA: each DFA state is a set of NFA states, transitions
// group outgoing NFA edges by label.
func Determinize(nfa *graph.MachineGraph) *graph.MachineGraph {
	out := graph.NewMachineGraph()
	if nfa.Initial() == graph.NoNode {
		return out
	}

	initialSubset := sortedSubset(map[graph.NodeID]struct{}{nfa.Initial(): {}})
	stateIDs := make(map[string]graph.NodeID)
	key := subsetKey(initialSubset)
	initID := out.AddNode(subsetName(nfa, initialSubset))
	stateIDs[key] = initID
	out.SetInitial(initID)

	worklist := [][]graph.NodeID{initialSubset}
	seen := map[string]struct{}{key: {}}

	for len(worklist) > 0 {
		subset := worklist[0]
		worklist = worklist[1:]
		fromID := stateIDs[subsetKey(subset)]

		byLabel := make(map[label.MachineLabel]map[graph.NodeID]struct{})
		var labelOrder []label.MachineLabel
		for _, n := range subset {
			for _, e := range nfa.OutEdges(n) {
				l := nfa.EdgeLabel(e)
				if _, ok := byLabel[l]; !ok {
					byLabel[l] = make(map[graph.NodeID]struct{})
					labelOrder = append(labelOrder, l)
				}
				_, target := nfa.EdgeEndpoints(e)
				byLabel[l][target] = struct{}{}
			}
		}
		sort.Slice(labelOrder, func(i, j int) bool { return labelOrder[i].Less(labelOrder[j]) })

		for _, l := range labelOrder {
			targetSubset := sortedSubset(byLabel[l])
			tKey := subsetKey(targetSubset)
			toID, ok := stateIDs[tKey]
			if !ok {
				toID = out.AddNode(subsetName(nfa, targetSubset))
				stateIDs[tKey] = toID
			}
			out.AddEdge(fromID, toID, l)
			if _, ok := seen[tKey]; !ok {
				seen[tKey] = struct{}{}
				worklist = append(worklist, targetSubset)
			}
		}
	}

	return out
}
