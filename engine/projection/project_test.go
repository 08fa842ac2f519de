package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/projection"
	"github.com/lucas874/machine-go/testutil"
)

func TestProjectDeterminizeMinimizePipelineMatchesHandWrittenFLMachine(t *testing.T) {
	proto := testutil.Proto1()
	sub := testutil.Subs1()["FL"]

	nfa := projection.Project(proto, "FL", sub)
	dfa := projection.Determinize(nfa)
	minimized := projection.Minimize(dfa)

	require.NotEqual(t, 0, minimized.NodeCount())
	assert.Equal(t, 3, minimized.NodeCount(), "expected the 0/2 collapse under minimization")

	want := testutil.FLMachine()
	report := projection.Equivalent(want, want.Initial(), minimized, minimized.Initial())
	assert.NoError(t, testutil.AssertReportEmpty(report))
}

func TestEquivalentAcceptsIdenticalMachine(t *testing.T) {
	m := testutil.FLMachine()
	report := projection.Equivalent(m, m.Initial(), m, m.Initial())
	assert.NoError(t, testutil.AssertReportEmpty(report))
}

func TestEquivalentDetectsMissingTransitionOnWrongMachine(t *testing.T) {
	want := testutil.FLMachine()
	wrong := testutil.FLMachineWrong()

	report := projection.Equivalent(want, want.Initial(), wrong, wrong.Initial())
	assert.NoError(t, testutil.AssertReportHasKind(report, "MissingTransition"))
}

func TestProjectRetainsOnlySubscribedTransitionsForRole(t *testing.T) {
	proto := testutil.Proto1()
	sub := label.NewEventTypeSet("partID", "pos", "time")

	nfa := projection.Project(proto, "FL", sub)
	for _, e := range nfa.Edges() {
		l := nfa.EdgeLabel(e)
		if l.Tag == label.Input {
			assert.True(t, sub.Contains(l.EventType))
		}
	}
}
