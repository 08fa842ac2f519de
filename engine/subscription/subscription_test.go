package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/engine/subscription"
	"github.com/lucas874/machine-go/testutil"
)

func TestGranularityStringRoundTrip(t *testing.T) {
	cases := []subscription.Granularity{subscription.Fine, subscription.Medium, subscription.Coarse, subscription.TwoStep}
	for _, g := range cases {
		parsed, ok := subscription.ParseGranularity(g.String())
		require.True(t, ok)
		assert.Equal(t, g, parsed)
	}
}

func TestParseGranularityRejectsExactAndUnknown(t *testing.T) {
	_, ok := subscription.ParseGranularity("exact")
	assert.False(t, ok)
	_, ok = subscription.ParseGranularity("bogus")
	assert.False(t, ok)
}

// isSuperSubscription reports whether got is, for every role in want, a
// superset of want's event types — the relationship every overapproximating
// strategy must satisfy against the Exact baseline.
func isSuperSubscription(t *testing.T, got subscription.Subscriptions, want map[label.Role]label.EventTypeSet) {
	t.Helper()
	for role, events := range want {
		gotEvents, ok := got[role]
		require.True(t, ok, "missing role %s in inferred subscription", role)
		for e := range events {
			assert.True(t, gotEvents.Contains(e), "role %s missing event %s (got %v)", role, e, gotEvents.Sorted())
		}
	}
}

func TestFineInferenceCoversProto1ExactSubscription(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors())

	subs := subscription.Infer(pi, nil, subscription.Fine)
	isSuperSubscription(t, subs, testutil.Subs1())
}

func TestMediumInferenceCoversProto1ExactSubscription(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors())

	subs := subscription.Infer(pi, nil, subscription.Medium)
	isSuperSubscription(t, subs, testutil.Subs1())
}

func TestCoarseInferenceCoversProto1ExactSubscription(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors())

	subs := subscription.Infer(pi, nil, subscription.Coarse)
	isSuperSubscription(t, subs, testutil.Subs1())
}

func TestTwoStepInferenceCoversProto1ExactSubscription(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors())

	subs := subscription.Infer(pi, nil, subscription.TwoStep)
	isSuperSubscription(t, subs, testutil.Subs1())
}

func TestCoarseIsAtLeastAsBroadAsFine(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors())

	fine := subscription.Infer(pi, nil, subscription.Fine)
	coarseSubs := subscription.Infer(pi, nil, subscription.Coarse)

	for role, events := range fine {
		coarseEvents, ok := coarseSubs[role]
		require.True(t, ok)
		for e := range events {
			assert.True(t, coarseEvents.Contains(e), "coarse subscription for %s missing %s present under fine", role, e)
		}
	}
}

func TestInferExtendsSuppliedBase(t *testing.T) {
	pi := protoinfo.Prepare(testutil.Proto1())
	require.True(t, pi.NoErrors())

	base := subscription.Subscriptions{
		"D": label.NewEventTypeSet("time"),
	}
	subs := subscription.Infer(pi, base, subscription.Fine)
	assert.True(t, subs["D"].Contains("time"))
}
