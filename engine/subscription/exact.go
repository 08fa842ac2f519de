package subscription

import (
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/protoinfo"
)

// Exact computes the least subscription closed under the well-formedness
// rules applied literally to the explicit composition: self-subscribe,
// later-active-role-subscribe, and per-node branching/joining overapproxi-
// mation restricted to the edges actually present at that node (so
// concurrency-induced loss of a branch doesn't force a spurious
// subscription).
func Exact(pi *protoinfo.ProtoInfo, composed *graph.ProtocolGraph, base Subscriptions) Subscriptions {
	subs := base.Clone()
	if subs == nil {
		subs = make(Subscriptions)
	}
	if composed.Initial() == graph.NoNode {
		return subs
	}

	stable := false
	for !stable {
		stable = exactStep(pi, composed, subs)
	}
	return subs
}

func exactStep(pi *protoinfo.ProtoInfo, g *graph.ProtocolGraph, subs Subscriptions) bool {
	stable := true
	visited := make(map[graph.NodeID]struct{})
	graph.DFS[label.State, label.SwarmLabel](g, g.Initial(), func(node graph.NodeID) {
		visited[node] = struct{}{}
		for _, e := range g.OutEdges(node) {
			l := g.EdgeLabel(e)
			eventType := l.EventType
			_, target := g.EdgeEndpoints(e)

			if !addTo(subs, l.Role, label.NewEventTypeSet(eventType)) {
				stable = false
			}

			for _, e2 := range g.OutEdges(target) {
				other := g.EdgeLabel(e2)
				if pi.ConcurrentEvents.Contains(label.NewEventPair(eventType, other.EventType)) {
					continue
				}
				if !addTo(subs, other.Role, label.NewEventTypeSet(eventType)) {
					stable = false
				}
			}

			involved := protoinfo.RolesOnPath(pi, eventType, subs)

			if branch := branchContaining(pi, eventType); branch != nil {
				atNode := make(label.EventTypeSet)
				for _, e2 := range g.OutEdges(node) {
					t := g.EdgeLabel(e2).EventType
					if branch.Contains(t) {
						atNode.Add(t)
					}
				}
				toAdd := make(label.EventTypeSet)
				if len(atNode) > 1 {
					toAdd = atNode
				}
				for role := range involved {
					if !addTo(subs, role, toAdd) {
						stable = false
					}
				}
			}

			if prejoin, ok := pi.JoiningEvents[eventType]; ok {
				incomingConcurrent := concurrentIncomingPairs(pi, g, node, eventType)
				toAdd := make(label.EventTypeSet)
				for pair := range incomingConcurrent {
					toAdd.Add(pair.A)
					toAdd.Add(pair.B)
				}
				if !toAdd.Empty() {
					toAdd.Add(eventType)
				}
				_ = prejoin
				for role := range involved {
					if !addTo(subs, role, toAdd) {
						stable = false
					}
				}
			}
		}
	})
	return stable
}

func branchContaining(pi *protoinfo.ProtoInfo, eventType label.EventType) label.EventTypeSet {
	for _, branch := range pi.BranchingEvents {
		if branch.Contains(eventType) {
			return branch
		}
	}
	return nil
}

// concurrentIncomingPairs returns the pairs of edges incoming to node whose
// event types are mutually concurrent and each not concurrent with
// eventType, mirroring the joining-event precondition check inline (rather
// than trusting the pre-computed protoinfo.JoiningEvents pre-join set,
// which is global rather than per-node).
func concurrentIncomingPairs(pi *protoinfo.ProtoInfo, g *graph.ProtocolGraph, node graph.NodeID, eventType label.EventType) label.EventPairSet {
	incoming := g.InEdges(node)
	events := make([]label.EventType, len(incoming))
	for i, e := range incoming {
		events[i] = g.EdgeLabel(e).EventType
	}
	out := make(label.EventPairSet)
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			pair := label.NewEventPair(events[i], events[j])
			if !pi.ConcurrentEvents.Contains(pair) {
				continue
			}
			if pi.ConcurrentEvents.Contains(label.NewEventPair(events[i], eventType)) {
				continue
			}
			if pi.ConcurrentEvents.Contains(label.NewEventPair(events[j], eventType)) {
				continue
			}
			out.Add(pair)
		}
	}
	return out
}
