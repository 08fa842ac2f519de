package projection

import (
	"github.com/lucas874/machine-go/engine/composition"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Info is the result of adapting a hand-written machine into the derived
// projection for its protocol: the composed/minimized projection, the set
// of originating user states per node, and the special (branching ∪
// joining) event types that bound "reachable before the next special
// event" when walking paths.
type Info struct {
	Projection          *graph.MachineGraph
	Branches            []label.EventTypeSet
	SpecialEventTypes   label.EventTypeSet
	ProjToMachineStates map[graph.NodeID]label.StateSet
}

// Adapt composes a user-written machine for protocol k with the projection
// of protocol k onto role r (synchronized on their shared events), then
// combines the result with the projections of the other protocols, finally
// annotating each node of the combined projection with the set of
// originating user-machine states reachable at it.
//
// Provenance is carried structurally rather than recovered from rendered
// node names: every composition step is run via ComposeWithOrigin, which
// reports the user-machine-side node each produced node came from (exact,
// since a composed node is always keyed by a pair), and minimization is run
// via MinimizeWithOrigin, which reports which pre-minimization nodes each
// surviving block absorbed. Chaining those two origin maps gives, for every
// node of the final projection, the exact set of user-machine states it
// collapsed from.
func Adapt(userMachine *graph.MachineGraph, ownProtocol *graph.ProtocolGraph, otherProtocols []*graph.ProtocolGraph, r label.Role, sub label.EventTypeSet, branches []label.EventTypeSet, special label.EventTypeSet) *Info {
	ownProjectionNFA := Project(ownProtocol, r, sub)
	ownProjectionDFA := Determinize(ownProjectionNFA)

	userAsProtocol, userOrigin := machineToProtocolViewWithOrigin(userMachine)
	ownAsProtocol := machineToProtocolView(ownProjectionDFA)

	sharedEvents := eventTypesOf(ownAsProtocol).Intersect(eventTypesOf(userAsProtocol))
	composedOwn, composedOwnInit, pairOrigin := composition.ComposeWithOrigin(userAsProtocol, userAsProtocol.Initial(), ownAsProtocol, ownAsProtocol.Initial(), sharedEvents)
	composedOwn.SetInitial(composedOwnInit)

	provenance := make(map[graph.NodeID]graph.NodeID, len(pairOrigin))
	for node, aNode := range pairOrigin {
		provenance[node] = userOrigin[aNode]
	}

	acc := composedOwn
	for _, other := range otherProtocols {
		otherNFA := Project(other, r, sub)
		otherDFA := Determinize(otherNFA)
		otherAsProtocol := machineToProtocolView(otherDFA)
		iface := eventTypesOf(acc).Intersect(eventTypesOf(otherAsProtocol))
		composed, composedInit, stepOrigin := composition.ComposeWithOrigin(acc, acc.Initial(), otherAsProtocol, otherAsProtocol.Initial(), iface)
		composed.SetInitial(composedInit)

		next := make(map[graph.NodeID]graph.NodeID, len(stepOrigin))
		for node, accNode := range stepOrigin {
			next[node] = provenance[accNode]
		}
		provenance = next
		acc = composed
	}

	combined, combinedOrigin := protocolViewToMachineWithOrigin(acc)
	minimized, blocks := MinimizeWithOrigin(combined)

	return &Info{
		Projection:          minimized,
		Branches:            branches,
		SpecialEventTypes:   special,
		ProjToMachineStates: originatingStates(blocks, combinedOrigin, provenance, userMachine),
	}
}

func eventTypesOf(g *graph.ProtocolGraph) label.EventTypeSet {
	out := make(label.EventTypeSet)
	for _, e := range g.Edges() {
		out.Add(g.EdgeLabel(e).EventType)
	}
	return out
}

// originatingStates maps each node of the minimized projection to the
// names of the user-machine states its block collapsed, by walking, for
// every pre-minimization member of the block, combinedOrigin (member ->
// acc node) then provenance (acc node -> userMachine node).
func originatingStates(blocks map[graph.NodeID][]graph.NodeID, combinedOrigin, provenance map[graph.NodeID]graph.NodeID, userMachine *graph.MachineGraph) map[graph.NodeID]label.StateSet {
	out := make(map[graph.NodeID]label.StateSet, len(blocks))
	for minNode, members := range blocks {
		states := make(label.StateSet)
		for _, member := range members {
			accNode := combinedOrigin[member]
			userNode := provenance[accNode]
			states.Add(userMachine.NodeWeight(userNode))
		}
		out[minNode] = states
	}
	return out
}
