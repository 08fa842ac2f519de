package errs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

func TestDescribeEdge(t *testing.T) {
	g := graph.NewProtocolGraph()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	e := g.AddEdge(n0, n1, label.SwarmLabel{Cmd: "request", Role: "T", EventType: "partID"})

	desc := errs.DescribeEdge(g, e)
	assert.Equal(t, label.State("0"), desc.Source)
	assert.Equal(t, label.State("1"), desc.Target)
	assert.Contains(t, desc.String(), "request@T<partID>")
}

func TestReportAddAppendEmpty(t *testing.T) {
	r := errs.NewReport()
	assert.True(t, r.Empty())

	r.Add(nil)
	assert.True(t, r.Empty())

	r.Add(&errs.InvalidArg{Message: "bad"})
	assert.False(t, r.Empty())
	assert.Equal(t, 1, len(r.Errors))

	other := errs.NewReport()
	other.Add(&errs.InvalidInterfaceRole{Role: "X"})
	r.Append(other)
	assert.Equal(t, 2, len(r.Errors))

	strs := r.Strings()
	assert.Len(t, strs, 2)
}

func TestReportFilterRemovesOnlyMatchingKind(t *testing.T) {
	r := errs.NewReport()
	r.Add(&errs.StateCanNotReachTerminal{State: "s"})
	r.Add(&errs.StateNotReachableFromInitial{State: "t"})

	filtered := r.Filter("StateCanNotReachTerminal")
	assert.Len(t, filtered.Errors, 1)
	assert.Equal(t, "StateNotReachableFromInitial", filtered.Errors[0].Kind())

	// r itself is untouched.
	assert.Len(t, r.Errors, 2)
}

func TestErrorKinds(t *testing.T) {
	cases := []errs.Error{
		&errs.InvalidArg{Message: "m"},
		&errs.InvalidInterfaceRole{Role: "X"},
		&errs.InterfaceEventNotInBothProtocols{Event: "e"},
		&errs.StateCanNotReachTerminal{State: "s"},
		&errs.StateNotReachableFromInitial{State: "s"},
	}
	for _, c := range cases {
		assert.NotEmpty(t, c.Kind())
		assert.NotEmpty(t, c.Error())
	}
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "left", errs.Left.String())
	assert.Equal(t, "right", errs.Right.String())
}
