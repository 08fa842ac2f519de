package wellformed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/engine/subscription"
	"github.com/lucas874/machine-go/engine/wellformed"
	"github.com/lucas874/machine-go/testutil"
)

func TestCheckPassesWithFineInferredSubscription(t *testing.T) {
	proto := testutil.Proto1()
	pi := protoinfo.Prepare(proto)
	require.True(t, pi.NoErrors())

	subs := subscription.Infer(pi, nil, subscription.Fine)
	report := wellformed.Check(pi, proto, subs)
	assert.NoError(t, testutil.AssertReportEmpty(report))
}

func TestCheckPassesWithExactSubscription(t *testing.T) {
	proto := testutil.Proto1()
	pi := protoinfo.Prepare(proto)
	require.True(t, pi.NoErrors())

	subs := subscription.Exact(pi, proto, nil)
	report := wellformed.Check(pi, proto, subs)
	assert.NoError(t, testutil.AssertReportEmpty(report))
}

func TestCheckDetectsSelfSubscribeViolationOnEmptySubscription(t *testing.T) {
	proto := testutil.Proto1()
	pi := protoinfo.Prepare(proto)
	require.True(t, pi.NoErrors())

	report := wellformed.Check(pi, proto, subscription.Subscriptions{})
	assert.NoError(t, testutil.AssertReportHasKind(report, "ActiveRoleNotSubscribed"))
}

func TestCheckDetectsLaterActiveRoleNotSubscribed(t *testing.T) {
	proto := testutil.Proto1()
	pi := protoinfo.Prepare(proto)
	require.True(t, pi.NoErrors())

	// T and FL each subscribe to their own emitted event only, so neither
	// observes the other's event ahead of its own turn.
	subs := subscription.Subscriptions{
		"T":  label.NewEventTypeSet("partID", "part"),
		"FL": label.NewEventTypeSet("pos"),
		"D":  label.NewEventTypeSet("time"),
	}
	report := wellformed.Check(pi, proto, subs)
	assert.NoError(t, testutil.AssertReportHasKind(report, "LaterActiveRoleNotSubscribed"))
}
