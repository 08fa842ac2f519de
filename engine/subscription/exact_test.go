package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/composition"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/engine/subscription"
	"github.com/lucas874/machine-go/testutil"
)

func TestExactOnSingleProtocolCoversEveryRoleEvent(t *testing.T) {
	proto := testutil.Proto1()
	pi := protoinfo.Prepare(proto)
	require.True(t, pi.NoErrors())

	subs := subscription.Exact(pi, proto, nil)
	for role, events := range testutil.Subs1() {
		for e := range events {
			assert.NoError(t, testutil.AssertSubscriptionContains(subs, role, e))
			_ = e
		}
	}
	// every role that owns an event subscribes at least to its own events.
	for role, labels := range pi.RoleEventMap {
		for l := range labels {
			assert.NoError(t, testutil.AssertSubscriptionContains(subs, role, l.EventType))
		}
	}
}

func TestExactOnThreeProtocolCompositionCoversQCR(t *testing.T) {
	p1 := testutil.Proto1()
	p2 := testutil.Proto2()
	p3 := testutil.Proto3()

	pi1 := protoinfo.Prepare(p1)
	pi2 := protoinfo.Prepare(p2)
	pi3 := protoinfo.Prepare(p3)
	combined := protoinfo.Combine([]*protoinfo.ProtoInfo{pi1, pi2, pi3})
	require.True(t, combined.NoErrors(), "expected no errors, got %v", combined.ToErrorReport().Strings())

	composed, _ := composition.ComposeAll([]*graph.ProtocolGraph{p1, p2, p3}, combined.RoleEventMap)

	subs := subscription.Exact(combined, composed, nil)
	for e := range testutil.SubsComposition2QCR() {
		assert.NoError(t, testutil.AssertSubscriptionContains(subs, "QCR", e))
	}
}
