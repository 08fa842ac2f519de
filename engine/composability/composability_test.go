package composability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas874/machine-go/engine/composability"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/testutil"
)

func TestConfusionFreeOnProto1(t *testing.T) {
	report := composability.ConfusionFree(testutil.Proto1())
	assert.True(t, report.Empty(), "expected no confusion errors, got %v", report.Strings())
}

func TestConfusionFreeDetectsDuplicateCommand(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	n2 := g.AddNode("2")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "request", Role: "T", EventType: "partID"})
	g.AddEdge(n1, n2, label.SwarmLabel{Cmd: "request", Role: "T", EventType: "part"})
	g.SetInitial(n0)

	report := composability.ConfusionFree(g)
	assert.NoError(t, testutil.AssertReportHasKind(report, "CommandOnMultipleTransitions"))
}

func TestConfusionFreeDetectsUnreachableFromInitial(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	n2 := g.AddNode("2")
	n3 := g.AddNode("3")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "a", Role: "R", EventType: "ea"})
	g.AddEdge(n2, n3, label.SwarmLabel{Cmd: "b", Role: "R", EventType: "eb"})
	g.SetInitial(n0)

	report := composability.ConfusionFree(g)
	assert.NoError(t, testutil.AssertReportHasKind(report, "StateNotReachableFromInitial"))
}

func TestConfusionFreeToleratesInfiniteLoopButFlagsUnreachableTerminal(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "a", Role: "R", EventType: "ea"})
	g.AddEdge(n1, n0, label.SwarmLabel{Cmd: "b", Role: "R", EventType: "eb"})
	g.SetInitial(n0)

	report := composability.ConfusionFree(g)
	assert.NoError(t, testutil.AssertReportHasKind(report, "StateCanNotReachTerminal"))
}

func TestInterfaceCompatibleAcceptsSharedRole(t *testing.T) {
	report := composability.InterfaceCompatible([]*graph.ProtocolGraph{testutil.Proto1(), testutil.Proto2()})
	assert.True(t, report.Empty(), "expected no interface errors, got %v", report.Strings())
}

func TestInterfaceCompatibleRejectsConflictingEventMeaning(t *testing.T) {
	a := graph.NewProtocolGraph()
	na0 := a.AddNode("0")
	na1 := a.AddNode("1")
	a.AddEdge(na0, na1, label.SwarmLabel{Cmd: "i1", Role: "IR1", EventType: "i1"})
	a.SetInitial(na0)

	b := graph.NewProtocolGraph()
	nb0 := b.AddNode("0")
	nb1 := b.AddNode("1")
	b.AddEdge(nb0, nb1, label.SwarmLabel{Cmd: "c", Role: "R3", EventType: "i1"})
	b.SetInitial(nb0)

	report := composability.InterfaceCompatible([]*graph.ProtocolGraph{a, b})
	assert.NoError(t, testutil.AssertReportHasKind(report, "SwarmErrorString"))
}

func TestInterfaceRoles(t *testing.T) {
	roles := composability.InterfaceRoles([]*graph.ProtocolGraph{testutil.Proto1(), testutil.Proto2(), testutil.Proto3()})
	assert.True(t, roles.Contains("T"))
	assert.True(t, roles.Contains("F"))
}
