package testutil

import (
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Proto1 is the warehouse protocol: request a part by id, fetch it from a
// shelf position, deliver it, or close out.
func Proto1() *graph.ProtocolGraph {
	return NewProtocolBuilder("0").
		T("0", "request", "T", "partID", "1").
		T("1", "get", "FL", "pos", "2").
		T("2", "deliver", "T", "part", "0").
		T("0", "close", "D", "time", "3").
		Build()
}

// Subs1 is Proto1's expected exact subscription: T sees every event on its
// own request/deliver loop plus the closing time, FL additionally needs
// partID and time to know when it may act and when the protocol has ended,
// and D needs partID and part alongside its own closing event.
func Subs1() map[label.Role]label.EventTypeSet {
	return map[label.Role]label.EventTypeSet{
		"T":  label.NewEventTypeSet("partID", "part", "pos", "time"),
		"FL": label.NewEventTypeSet("partID", "pos", "time"),
		"D":  label.NewEventTypeSet("partID", "part", "time"),
	}
}

// Proto2 is the factory protocol, sharing role T with Proto1 on
// request/deliver.
func Proto2() *graph.ProtocolGraph {
	return NewProtocolBuilder("0").
		T("0", "request", "T", "partID", "1").
		T("1", "deliver", "T", "part", "2").
		T("2", "build", "F", "car", "3").
		Build()
}

// SubsComposition1 is the expected exact subscription for Proto1 ∥ Proto2.
func SubsComposition1() map[label.Role]label.EventTypeSet {
	return map[label.Role]label.EventTypeSet{
		"T":  label.NewEventTypeSet("partID", "part", "pos", "time"),
		"FL": label.NewEventTypeSet("partID", "pos", "time"),
		"D":  label.NewEventTypeSet("partID", "part", "time"),
		"F":  label.NewEventTypeSet("partID", "part", "car", "time"),
	}
}

// Proto3 is the quality-control protocol: observe, build, test, then accept
// or reject, sharing role F with Proto2 on build.
func Proto3() *graph.ProtocolGraph {
	return NewProtocolBuilder("0").
		T("0", "observe", "TR", "report1", "1").
		T("1", "build", "F", "car", "2").
		T("2", "test", "TR", "report2", "3").
		T("3", "accept", "QCR", "ok", "4").
		T("3", "reject", "QCR", "notOk", "4").
		Build()
}

// SubsComposition2QCR is the expected exact subscription for role QCR in
// Proto1 ∥ Proto2 ∥ Proto3; it is the largest role subscription in that
// composition since QCR must track the whole warehouse-to-delivery history
// leading up to its own accept/reject decision.
func SubsComposition2QCR() label.EventTypeSet {
	return label.NewEventTypeSet("partID", "part", "report1", "report2", "car", "time", "ok", "notOk")
}

// FLMachine is the hand-specified projection of Proto1 onto role FL under
// Subs1, used as a positive equivalence fixture. Proto1's states "0" and
// "2" collapse under minimization (both wait for partID or time with
// identical continuations), so the minimal FL machine has exactly three
// states: "0" (waiting), "1" (holds partID, executing get), and "2"
// (closed, terminal).
func FLMachine() *graph.MachineGraph {
	return NewMachineBuilder("0").
		Input("0", "partID", "1").
		Input("0", "time", "2").
		Execute("1", "get", "pos", "1").
		Input("1", "pos", "0").
		Build()
}

// FLMachineWrong is FLMachine with the target of the "time" input changed
// from the terminal state to the mid-flow state, used as a negative
// equivalence fixture: comparing it against the correct projection must
// surface at least one MissingTransition, since the terminal state's
// absence of outgoing edges no longer matches state "1"'s.
func FLMachineWrong() *graph.MachineGraph {
	return NewMachineBuilder("0").
		Input("0", "partID", "1").
		Input("0", "time", "1").
		Execute("1", "get", "pos", "1").
		Input("1", "pos", "0").
		Build()
}

// PatternFourFamily builds the n-fold joining-event pattern: an interfacing
// role IR that, starting from each of n sibling protocols, receives a
// role-specific event e_r{i}_0 and always answers with the same shared
// event e_ir_1 next.
//
// Each returned protocol is interfaced with IR on e_ir_0/e_ir_1; composing
// all n of them makes e_ir_1 a joining event whose pre-join set is exactly
// {e_r0_0, ..., e_r{n-1}_0}.
func PatternFourFamily(n int) []*graph.ProtocolGraph {
	out := make([]*graph.ProtocolGraph, n)
	for i := 0; i < n; i++ {
		roleEvent := label.EventType(indexedName("e_r", i, "_0"))
		roleCmd := label.Command(indexedName("c_r", i, "_0"))
		role := label.Role(indexedName("R", i, ""))

		out[i] = NewProtocolBuilder("0").
			T("0", "c_ir_0", "IR", "e_ir_0", "1").
			T("1", roleCmd, role, roleEvent, "2").
			T("2", "c_ir_1", "IR", "e_ir_1", "3").
			Build()
	}
	return out
}

func indexedName(prefix string, i int, suffix string) string {
	digits := "0123456789"
	if i < 10 {
		return prefix + string(digits[i]) + suffix
	}
	// two-digit fallback, sufficient for any realistic test family size.
	return prefix + string(digits[i/10]) + string(digits[i%10]) + suffix
}
