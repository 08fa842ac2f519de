// Package testutil provides shared test fixtures and mocks for exercising
// the engine without external dependencies: a small protocol-graph builder
// DSL, the literal warehouse/factory/QC protocols from the end-to-end test
// scenarios, and assertion/mock helpers in the style of the corresponding
// production test utilities.
package testutil

import (
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// ProtocolBuilder builds a *graph.ProtocolGraph state by state, letting
// tests name states once and add transitions between them by name rather
// than juggling graph.NodeID values directly.
type ProtocolBuilder struct {
	g       *graph.ProtocolGraph
	nodes   map[label.State]graph.NodeID
	initial label.State
}

// NewProtocolBuilder starts a builder whose initial state is initial.
func NewProtocolBuilder(initial label.State) *ProtocolBuilder {
	b := &ProtocolBuilder{
		g:       graph.NewProtocolGraph(),
		nodes:   make(map[label.State]graph.NodeID),
		initial: initial,
	}
	b.node(initial)
	return b
}

func (b *ProtocolBuilder) node(s label.State) graph.NodeID {
	if id, ok := b.nodes[s]; ok {
		return id
	}
	id := b.g.AddNode(s)
	b.nodes[s] = id
	return id
}

// T adds a transition from -> to, performing cmd@role and emitting eventType.
func (b *ProtocolBuilder) T(from label.State, cmd label.Command, role label.Role, eventType label.EventType, to label.State) *ProtocolBuilder {
	fromID := b.node(from)
	toID := b.node(to)
	b.g.AddEdge(fromID, toID, label.SwarmLabel{Cmd: cmd, Role: role, EventType: eventType})
	return b
}

// Build finalizes the graph, setting its initial node.
func (b *ProtocolBuilder) Build() *graph.ProtocolGraph {
	b.g.SetInitial(b.nodes[b.initial])
	return b.g
}

// NodeID returns the node id assigned to state s, for tests that need to
// pass an explicit initial/terminal node alongside the built graph.
func (b *ProtocolBuilder) NodeID(s label.State) graph.NodeID { return b.nodes[s] }

// MachineBuilder builds a *graph.MachineGraph state by state.
type MachineBuilder struct {
	g       *graph.MachineGraph
	nodes   map[label.State]graph.NodeID
	initial label.State
}

// NewMachineBuilder starts a builder whose initial state is initial.
func NewMachineBuilder(initial label.State) *MachineBuilder {
	b := &MachineBuilder{
		g:       graph.NewMachineGraph(),
		nodes:   make(map[label.State]graph.NodeID),
		initial: initial,
	}
	b.node(initial)
	return b
}

func (b *MachineBuilder) node(s label.State) graph.NodeID {
	if id, ok := b.nodes[s]; ok {
		return id
	}
	id := b.g.AddNode(s)
	b.nodes[s] = id
	return id
}

// Execute adds an internal from -> to transition executing cmd, emitting eventType.
func (b *MachineBuilder) Execute(from label.State, cmd label.Command, eventType label.EventType, to label.State) *MachineBuilder {
	fromID := b.node(from)
	toID := b.node(to)
	b.g.AddEdge(fromID, toID, label.NewExecute(cmd, eventType))
	return b
}

// Input adds an externally observed from -> to transition on eventType.
func (b *MachineBuilder) Input(from label.State, eventType label.EventType, to label.State) *MachineBuilder {
	fromID := b.node(from)
	toID := b.node(to)
	b.g.AddEdge(fromID, toID, label.NewInput(eventType))
	return b
}

// Build finalizes the graph, setting its initial node.
func (b *MachineBuilder) Build() *graph.MachineGraph {
	b.g.SetInitial(b.nodes[b.initial])
	return b.g
}

func (b *MachineBuilder) NodeID(s label.State) graph.NodeID { return b.nodes[s] }
