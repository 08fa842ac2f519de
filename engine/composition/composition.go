// Package composition builds the explicit interface-synchronized product of
// protocol graphs: a worklist-driven walk over reachable state pairs,
// synchronizing on the shared interface event set and interleaving
// everything else.
package composition

import (
	"fmt"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// stateName renders a composed node name "s1 || s2" so composed graphs
// read like a trace of their components.
func stateName(a, b label.State) label.State {
	return label.State(fmt.Sprintf("%s || %s", a, b))
}

// Compose builds the synchronized product of two protocol graphs over the
// given interface event-type set. Returns the composed graph and its
// initial node. If either input has no initial node, the result is empty.
func Compose(a *graph.ProtocolGraph, aInit graph.NodeID, b *graph.ProtocolGraph, bInit graph.NodeID, interface_ label.EventTypeSet) (*graph.ProtocolGraph, graph.NodeID) {
	out, initID, _ := ComposeWithOrigin(a, aInit, b, bInit, interface_)
	return out, initID
}

// ComposeWithOrigin composes exactly as Compose does, additionally
// returning, for every node of the composed graph, the a-side node it was
// produced from. Since a composed node is always keyed by an (a, b) pair,
// this origin is exact (never a set) and lets callers carry a-side state
// identity structurally through a chain of composition/minimization steps
// instead of recovering it by matching against rendered node names.
func ComposeWithOrigin(a *graph.ProtocolGraph, aInit graph.NodeID, b *graph.ProtocolGraph, bInit graph.NodeID, interface_ label.EventTypeSet) (*graph.ProtocolGraph, graph.NodeID, map[graph.NodeID]graph.NodeID) {
	out := graph.NewProtocolGraph()
	if aInit == graph.NoNode || bInit == graph.NoNode {
		return out, graph.NoNode, map[graph.NodeID]graph.NodeID{}
	}

	type pair struct{ a, b graph.NodeID }
	nodeIDs := make(map[pair]graph.NodeID)
	originOfA := make(map[graph.NodeID]graph.NodeID)

	ensureNode := func(p pair) graph.NodeID {
		if id, ok := nodeIDs[p]; ok {
			return id
		}
		id := out.AddNode(stateName(a.NodeWeight(p.a), b.NodeWeight(p.b)))
		nodeIDs[p] = id
		originOfA[id] = p.a
		return id
	}

	initPair := pair{aInit, bInit}
	initID := ensureNode(initPair)
	out.SetInitial(initID)

	worklist := []pair{initPair}
	visited := map[pair]struct{}{initPair: {}}

	for len(worklist) > 0 {
		p := worklist[0]
		worklist = worklist[1:]
		fromID := nodeIDs[p]

		for _, e := range a.OutEdges(p.a) {
			l := a.EdgeLabel(e)
			_, aTarget := a.EdgeEndpoints(e)

			if interface_.Contains(l.EventType) {
				if bEdge, ok := matchingEdge(b, p.b, l); ok {
					_, bTarget := b.EdgeEndpoints(bEdge)
					next := pair{aTarget, bTarget}
					toID := ensureNode(next)
					out.AddEdge(fromID, toID, l)
					if _, seen := visited[next]; !seen {
						visited[next] = struct{}{}
						worklist = append(worklist, next)
					}
				}
				continue
			}

			next := pair{aTarget, p.b}
			toID := ensureNode(next)
			out.AddEdge(fromID, toID, l)
			if _, seen := visited[next]; !seen {
				visited[next] = struct{}{}
				worklist = append(worklist, next)
			}
		}

		for _, e := range b.OutEdges(p.b) {
			l := b.EdgeLabel(e)
			if interface_.Contains(l.EventType) {
				// already handled from the a side when both sides have the edge.
				continue
			}
			_, bTarget := b.EdgeEndpoints(e)
			next := pair{p.a, bTarget}
			toID := ensureNode(next)
			out.AddEdge(fromID, toID, l)
			if _, seen := visited[next]; !seen {
				visited[next] = struct{}{}
				worklist = append(worklist, next)
			}
		}
	}

	return out, initID, originOfA
}

// matchingEdge returns the edge leaving n that synchronizes with an edge
// labelled l: one carrying exactly l if n has one, otherwise the first one
// carrying l's event type.
func matchingEdge(g *graph.ProtocolGraph, n graph.NodeID, l label.SwarmLabel) (graph.EdgeID, bool) {
	fallback, found := graph.EdgeID(0), false
	for _, e := range g.OutEdges(n) {
		el := g.EdgeLabel(e)
		if el == l {
			return e, true
		}
		if !found && el.EventType == l.EventType {
			fallback, found = e, true
		}
	}
	return fallback, found
}

// ComposeAll left-folds Compose across a family of protocol graphs,
// recomputing the shared-role interface event set at each step from the
// roles accumulated so far.
func ComposeAll(protocols []*graph.ProtocolGraph, roleEventMap map[label.Role]label.SwarmLabelSet) (*graph.ProtocolGraph, graph.NodeID) {
	if len(protocols) == 0 {
		return graph.NewProtocolGraph(), graph.NoNode
	}

	accG := protocols[0]
	accInit := accG.Initial()
	accRoles := rolesIn(accG)

	for _, next := range protocols[1:] {
		nextRoles := rolesIn(next)
		shared := accRoles.Clone()
		for r := range shared {
			if !nextRoles.Contains(r) {
				delete(shared, r)
			}
		}

		interface_ := make(label.EventTypeSet)
		for r := range shared {
			for l := range roleEventMap[r] {
				interface_.Add(l.EventType)
			}
		}

		composed, composedInit := Compose(accG, accInit, next, next.Initial(), interface_)
		accG, accInit = composed, composedInit
		accRoles.AddAll(nextRoles)
	}

	return accG, accInit
}

func rolesIn(g *graph.ProtocolGraph) label.RoleSet {
	out := make(label.RoleSet)
	for _, e := range g.Edges() {
		out.Add(g.EdgeLabel(e).Role)
	}
	return out
}
