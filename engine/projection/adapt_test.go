package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/projection"
	"github.com/lucas874/machine-go/testutil"
)

func TestAdaptProducesNonEmptyAnnotatedProjection(t *testing.T) {
	proto := testutil.Proto1()
	sub := testutil.Subs1()["FL"]
	user := testutil.FLMachine()

	info := projection.Adapt(user, proto, nil, "FL", sub, nil, label.NewEventTypeSet())
	require.NotNil(t, info)
	assert.Greater(t, info.Projection.NodeCount(), 0)
	assert.Equal(t, info.Projection.NodeCount(), len(info.ProjToMachineStates))
}

func TestAdaptAnnotatesEveryNodeWithAnOriginatingUserState(t *testing.T) {
	proto := testutil.Proto1()
	sub := testutil.Subs1()["FL"]
	user := testutil.FLMachine()

	info := projection.Adapt(user, proto, nil, "FL", sub, nil, label.NewEventTypeSet())
	for _, states := range info.ProjToMachineStates {
		assert.NotEmpty(t, states, "every combined node should map back to at least one user state")
	}
}

// TestAdaptTracksExactOriginatingStatesPerNode pins the originating-state
// annotation to a concrete expected map on a small hand-traceable fixture,
// rather than just asserting it is non-empty. The own protocol is a
// 3-state chain driven entirely by a role other than the one under test, so
// the role under test ("Obs") only ever observes; its projection is a
// straight-line DFA "{0}" -ea-> "{1}" -eb-> "{2}" with no subset merging.
// The user machine reuses the protocol's own digit state names ("0", "1")
// on a 2-state loop, the same naming collision the combined/minimized node
// names ("s1 || s2", "[...]", "{...}") can embed digits from: a node can
// only be resolved to the right originating state by the structural
// composition-origin/minimization-origin chain, not by searching its
// rendered name for a matching digit.
func TestAdaptTracksExactOriginatingStatesPerNode(t *testing.T) {
	proto := testutil.NewProtocolBuilder("0").
		T("0", "ca", "X", "ea", "1").
		T("1", "cb", "X", "eb", "2").
		Build()
	sub := label.NewEventTypeSet("ea", "eb")
	user := testutil.NewMachineBuilder("0").
		Input("0", "ea", "1").
		Input("1", "eb", "0").
		Build()

	info := projection.Adapt(user, proto, nil, "Obs", sub, nil, label.NewEventTypeSet())
	require.Equal(t, 3, info.Projection.NodeCount())

	expected := map[label.State]label.StateSet{
		"[0 || {0}]": label.NewStateSet("0"),
		"[1 || {1}]": label.NewStateSet("1"),
		"[0 || {2}]": label.NewStateSet("0"),
	}

	got := make(map[label.State]label.StateSet, len(expected))
	for _, n := range info.Projection.Nodes() {
		got[info.Projection.NodeWeight(n)] = info.ProjToMachineStates[n]
	}
	assert.Equal(t, expected, got)
}

func TestAdaptIncludesOtherProtocolsInProjection(t *testing.T) {
	p1 := testutil.Proto1()
	p2 := testutil.Proto2()
	sub := testutil.SubsComposition1()["T"]

	// T's own view of Proto1: request (execute), then observe pos/time,
	// then deliver (execute) or close.
	user := testutil.NewMachineBuilder("0").
		Execute("0", "request", "partID", "1").
		Input("1", "pos", "2").
		Execute("2", "deliver", "part", "0").
		Input("0", "time", "3").
		Build()

	info := projection.Adapt(user, p1, []*graph.ProtocolGraph{p2}, "T", sub, nil, label.NewEventTypeSet())
	require.NotNil(t, info)
	assert.Greater(t, info.Projection.NodeCount(), 0)
}
