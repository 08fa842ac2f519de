package protoinfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/testutil"
)

func TestPrepareProto1NoErrors(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors(), "expected no errors, got %v", pi.ToErrorReport().Strings())

	assert.Contains(t, pi.RoleEventMap, label.Role("T"))
	assert.Contains(t, pi.RoleEventMap, label.Role("FL"))
	assert.Contains(t, pi.RoleEventMap, label.Role("D"))
}

func TestPrepareProto1HasNoInfiniteLoop(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	assert.True(t, pi.InfinitelyLoopingEvents.Empty())
}

func TestPrepareDetectsInfiniteLoop(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "a", Role: "R", EventType: "ea"})
	g.AddEdge(n1, n0, label.SwarmLabel{Cmd: "b", Role: "R", EventType: "eb"})
	g.SetInitial(n0)

	pi := protoinfo.Prepare(g)
	assert.True(t, pi.InfinitelyLoopingEvents.Contains("ea"))
	assert.True(t, pi.InfinitelyLoopingEvents.Contains("eb"))
}

func TestPrepareOnConfusedProtocolStopsEarly(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	n2 := g.AddNode("2")
	g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "request", Role: "T", EventType: "partID"})
	g.AddEdge(n1, n2, label.SwarmLabel{Cmd: "request", Role: "T", EventType: "part"})
	g.SetInitial(n0)

	pi := protoinfo.Prepare(g)
	assert.False(t, pi.NoErrors())
	assert.Empty(t, pi.RoleEventMap)
}

func TestSucceedingAndPreceding(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	// get@FL<pos> is always followed (not-concurrent) by deliver@T<part>.
	assert.True(t, pi.Succeeding("pos").Contains("part"))
	assert.True(t, pi.Preceding("part").Contains("pos"))
}

func TestCombineAggregatesRoleEventMaps(t *testing.T) {
	pi1 := protoinfo.Prepare(testutil.Proto1())
	pi2 := protoinfo.Prepare(testutil.Proto2())

	combined := protoinfo.Combine([]*protoinfo.ProtoInfo{pi1, pi2})
	require.True(t, combined.NoErrors(), "expected no errors, got %v", combined.ToErrorReport().Strings())

	assert.Contains(t, combined.RoleEventMap, label.Role("F"))
	assert.Contains(t, combined.RoleEventMap, label.Role("FL"))
}

func TestCombineDetectsInterfaceConflict(t *testing.T) {
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

	pi1 := protoinfo.Prepare(a)
	pi2 := protoinfo.Prepare(b)
	combined := protoinfo.Combine([]*protoinfo.ProtoInfo{pi1, pi2})

	assert.False(t, combined.InterfaceErrors.Empty())
}

func TestCombineDetectsJoiningEventAcrossNFoldFamily(t *testing.T) {
	const n = 4
	protocols := testutil.PatternFourFamily(n)

	infos := make([]*protoinfo.ProtoInfo, n)
	for i, p := range protocols {
		infos[i] = protoinfo.Prepare(p)
		require.True(t, infos[i].NoErrors())
	}

	combined := protoinfo.Combine(infos)
	require.True(t, combined.NoErrors(), "expected no errors, got %v", combined.ToErrorReport().Strings())

	prejoin, ok := combined.JoiningEvents["e_ir_1"]
	require.True(t, ok, "expected e_ir_1 to be a joining event")

	want := label.NewEventTypeSet("e_r0_0", "e_r1_0", "e_r2_0", "e_r3_0")
	assert.Equal(t, want, prejoin)
}

func TestTransitiveClosureCoversMultiHop(t *testing.T) {
	succ := map[label.EventType]label.EventTypeSet{
		"a": label.NewEventTypeSet("b"),
		"b": label.NewEventTypeSet("c"),
	}
	closure := protoinfo.TransitiveClosure(succ)
	assert.True(t, closure["a"].Contains("c"))
}
