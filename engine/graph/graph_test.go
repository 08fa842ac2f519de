package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

func buildLinear() (*graph.ProtocolGraph, graph.NodeID, graph.NodeID, graph.NodeID) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	n2 := g.AddNode("2")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "a", Role: "R", EventType: "ea"})
	g.AddEdge(n1, n2, label.SwarmLabel{Cmd: "b", Role: "R", EventType: "eb"})
	g.SetInitial(n0)
	return g, n0, n1, n2
}

func TestGraphBasics(t *testing.T) {
	g, n0, n1, n2 := buildLinear()

	assert.Equal(t, n0, g.Initial())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.False(t, g.IsTerminal(n0))
	assert.True(t, g.IsTerminal(n2))
	assert.Equal(t, []graph.NodeID{n1}, g.Successors(n0))
	assert.Equal(t, 1, g.OutDegree(n0))
}

func TestReachableFrom(t *testing.T) {
	g, n0, n1, n2 := buildLinear()
	reach := graph.ReachableFrom[label.State, label.SwarmLabel](g, n0)
	assert.Contains(t, reach, n0)
	assert.Contains(t, reach, n1)
	assert.Contains(t, reach, n2)
}

func TestReachesAnyTerminal(t *testing.T) {
	g, n0, n1, n2 := buildLinear()
	reaches := graph.ReachesAnyTerminal[label.State, label.SwarmLabel](g)
	assert.True(t, reaches[n0])
	assert.True(t, reaches[n1])
	assert.True(t, reaches[n2])
}

func TestReachesAnyTerminalFalseForInfiniteLoop(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "a", Role: "R", EventType: "ea"})
	g.AddEdge(n1, n0, label.SwarmLabel{Cmd: "b", Role: "R", EventType: "eb"})
	g.SetInitial(n0)

	reaches := graph.ReachesAnyTerminal[label.State, label.SwarmLabel](g)
	assert.False(t, reaches[n0])
	assert.False(t, reaches[n1])
}

func TestOutgoingIncomingEventTypes(t *testing.T) {
	g, n0, n1, _ := buildLinear()
	assert.Equal(t, []label.EventType{"ea"}, graph.OutgoingEventTypes(g, n0))
	assert.Equal(t, []label.EventType{"ea"}, graph.IncomingEventTypes(g, n1))
}
