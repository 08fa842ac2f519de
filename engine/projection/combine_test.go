package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/composition"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/projection"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/testutil"
)

func TestProjectCombineIsEquivalentToProjectingExplicitComposition(t *testing.T) {
	p1 := testutil.Proto1()
	p2 := testutil.Proto2()

	pi1 := protoinfo.Prepare(p1)
	pi2 := protoinfo.Prepare(p2)
	combined := protoinfo.Combine([]*protoinfo.ProtoInfo{pi1, pi2})
	require.True(t, combined.NoErrors())

	sub := testutil.SubsComposition1()["T"]
	iface := label.NewEventTypeSet("partID", "part")

	viaProjectCombine := projection.ProjectCombine([]*graph.ProtocolGraph{p1, p2}, "T", sub, []label.EventTypeSet{iface})

	explicit, explicitInit := composition.Compose(p1, p1.Initial(), p2, p2.Initial(), iface)
	explicit.SetInitial(explicitInit)
	explicitNFA := projection.Project(explicit, "T", sub)
	explicitDFA := projection.Determinize(explicitNFA)
	viaExplicit := projection.Minimize(explicitDFA)

	report := projection.Equivalent(viaExplicit, viaExplicit.Initial(), viaProjectCombine, viaProjectCombine.Initial())
	assert.NoError(t, testutil.AssertReportEmpty(report))
}
