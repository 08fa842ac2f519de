package projection

import (
	"github.com/lucas874/machine-go/engine/composition"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// ProjectCombine projects every protocol onto role r under the one
// subscription sub, then repeatedly composes the projections pairwise using
// each pair's shared interfacing event set for synchronization, and
// minimizes the final result. Its correctness property is equivalence to
// projecting the explicit composition.
func ProjectCombine(protocols []*graph.ProtocolGraph, r label.Role, sub label.EventTypeSet, interfacingPerPair []label.EventTypeSet) *graph.MachineGraph {
	if len(protocols) == 0 {
		return graph.NewMachineGraph()
	}

	projections := make([]*graph.ProtocolGraph, len(protocols))
	for i, p := range protocols {
		nfa := Project(p, r, sub)
		dfa := Determinize(nfa)
		projections[i] = machineToProtocolView(dfa)
	}

	acc := projections[0]
	for i := 1; i < len(projections); i++ {
		var iface label.EventTypeSet
		if i-1 < len(interfacingPerPair) {
			iface = interfacingPerPair[i-1]
		} else {
			iface = make(label.EventTypeSet)
		}
		composed, composedInit := composition.Compose(acc, acc.Initial(), projections[i], projections[i].Initial(), iface)
		composed.SetInitial(composedInit)
		acc = composed
	}

	combined := protocolViewToMachine(acc)
	return Minimize(combined)
}

// machineToProtocolView/protocolViewToMachine let MachineGraph projections
// ride composition.Compose, which is defined over ProtocolGraph/SwarmLabel.
// A MachineLabel carries exactly the (cmd-or-none, event type) pair a
// SwarmLabel does modulo role, so the conversion is lossless for the
// synchronization composition performs: Compose pairs an interface edge
// with the other side's edge carrying the identical label where there is
// one, so an Execute edge meets an Execute edge and an Input edge an Input
// edge. Role is left empty for both Execute and Input labels.
func machineToProtocolView(m *graph.MachineGraph) *graph.ProtocolGraph {
	out, _ := machineToProtocolViewWithOrigin(m)
	return out
}

// machineToProtocolViewWithOrigin converts as machineToProtocolView does,
// additionally returning the map from each node of the resulting protocol
// view back to the originating MachineGraph node, so callers can trace a
// node's identity back to m after it has ridden through composition.
func machineToProtocolViewWithOrigin(m *graph.MachineGraph) (*graph.ProtocolGraph, map[graph.NodeID]graph.NodeID) {
	out := graph.NewProtocolGraph()
	idMap := make(map[graph.NodeID]graph.NodeID)
	origin := make(map[graph.NodeID]graph.NodeID)
	for _, n := range m.Nodes() {
		newID := out.AddNode(m.NodeWeight(n))
		idMap[n] = newID
		origin[newID] = n
	}
	out.SetInitial(idMap[m.Initial()])
	for _, e := range m.Edges() {
		from, to := m.EdgeEndpoints(e)
		l := m.EdgeLabel(e)
		var sl label.SwarmLabel
		if l.Tag == label.Execute {
			sl = label.SwarmLabel{Cmd: l.Cmd, EventType: l.EventType}
		} else {
			sl = label.SwarmLabel{EventType: l.EventType}
		}
		out.AddEdge(idMap[from], idMap[to], sl)
	}
	return out, origin
}

func protocolViewToMachine(p *graph.ProtocolGraph) *graph.MachineGraph {
	out, _ := protocolViewToMachineWithOrigin(p)
	return out
}

// protocolViewToMachineWithOrigin converts as protocolViewToMachine does,
// additionally returning the map from each node of the resulting
// MachineGraph back to the originating ProtocolGraph node.
func protocolViewToMachineWithOrigin(p *graph.ProtocolGraph) (*graph.MachineGraph, map[graph.NodeID]graph.NodeID) {
	out := graph.NewMachineGraph()
	idMap := make(map[graph.NodeID]graph.NodeID)
	origin := make(map[graph.NodeID]graph.NodeID)
	for _, n := range p.Nodes() {
		newID := out.AddNode(p.NodeWeight(n))
		idMap[n] = newID
		origin[newID] = n
	}
	out.SetInitial(idMap[p.Initial()])
	for _, e := range p.Edges() {
		from, to := p.EdgeEndpoints(e)
		l := p.EdgeLabel(e)
		var ml label.MachineLabel
		if l.Cmd != "" {
			ml = label.NewExecute(l.Cmd, l.EventType)
		} else {
			ml = label.NewInput(l.EventType)
		}
		out.AddEdge(idMap[from], idMap[to], ml)
	}
	return out, origin
}
