package graph

import "github.com/lucas874/machine-go/engine/label"

// ProtocolGraph is a protocol graph: State nodes, SwarmLabel edges.
type ProtocolGraph = Graph[label.State, label.SwarmLabel]

// MachineGraph is a machine graph: State nodes, MachineLabel edges.
type MachineGraph = Graph[label.State, label.MachineLabel]

// OptionGraph is a machine graph whose node weights may be unknown (nil).
// Equivalence and adaptation work on MachineGraph, not on this type.
type OptionGraph = Graph[*label.State, label.MachineLabel]

// NewProtocolGraph returns an empty protocol graph.
func NewProtocolGraph() *ProtocolGraph { return New[label.State, label.SwarmLabel]() }

// NewMachineGraph returns an empty machine graph.
func NewMachineGraph() *MachineGraph { return New[label.State, label.MachineLabel]() }

// NewOptionGraph returns an empty option graph.
func NewOptionGraph() *OptionGraph { return New[*label.State, label.MachineLabel]() }

// OutgoingEventTypes returns the sorted, deduplicated event types on edges
// leaving n in a protocol graph.
func OutgoingEventTypes(g *ProtocolGraph, n NodeID) []label.EventType {
	set := make(label.EventTypeSet)
	for _, e := range g.OutEdges(n) {
		set.Add(g.EdgeLabel(e).EventType)
	}
	return set.Sorted()
}

// IncomingEventTypes returns the sorted, deduplicated event types on edges
// entering n in a protocol graph.
func IncomingEventTypes(g *ProtocolGraph, n NodeID) []label.EventType {
	set := make(label.EventTypeSet)
	for _, e := range g.InEdges(n) {
		set.Add(g.EdgeLabel(e).EventType)
	}
	return set.Sorted()
}
