// Package errs provides the structured, stringifiable diagnostics the engine
// accumulates instead of throwing. Every component appends to an []Error;
// an empty slice means success.
package errs

import (
	"fmt"
	"strings"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Error is any diagnostic the engine can raise. All variants implement the
// standard error interface so they compose with %w/errors.Is callers, and
// also expose Kind for programmatic dispatch (e.g. by the analysis facade
// when deciding whether a result is still usable).
type Error interface {
	error
	Kind() string
}

// EdgeDesc denormalizes a protocol-graph edge into what's needed to render
// the "(source)--[cmd@role<events>]-->(target)" diagnostic format without
// the error type needing to hold a graph reference.
type EdgeDesc struct {
	ID     graph.EdgeID
	Source label.State
	Target label.State
	Label  label.SwarmLabel
}

func (e EdgeDesc) String() string {
	return fmt.Sprintf("(%s)--[%s@%s<%s>]-->(%s)", e.Source, e.Label.Cmd, e.Label.Role, e.Label.EventType, e.Target)
}

// DescribeEdge builds an EdgeDesc from a protocol graph and edge id.
func DescribeEdge(g *graph.ProtocolGraph, id graph.EdgeID) EdgeDesc {
	from, to := g.EdgeEndpoints(id)
	return EdgeDesc{
		ID:     id,
		Source: g.NodeWeight(from),
		Target: g.NodeWeight(to),
		Label:  g.EdgeLabel(id),
	}
}

// InvalidArg signals malformed input to an engine entry point.
type InvalidArg struct{ Message string }

func (e *InvalidArg) Error() string { return "invalid argument: " + e.Message }
func (e *InvalidArg) Kind() string  { return "InvalidArg" }

// SwarmErrorString is a free-form diagnostic inherited from a lower-level
// check (mirrors the Rust `SwarmErrorString` catch-all).
type SwarmErrorString struct{ Message string }

func (e *SwarmErrorString) Error() string { return e.Message }
func (e *SwarmErrorString) Kind() string  { return "SwarmErrorString" }

// InvalidInterfaceRole signals a role named as an interface role that does
// not actually appear in the relevant protocol.
type InvalidInterfaceRole struct{ Role label.Role }

func (e *InvalidInterfaceRole) Error() string {
	return fmt.Sprintf("invalid interface role: %s", e.Role)
}
func (e *InvalidInterfaceRole) Kind() string { return "InvalidInterfaceRole" }

// InterfaceEventNotInBothProtocols signals an event type expected to be
// shared across two interfacing protocols that appears in only one.
type InterfaceEventNotInBothProtocols struct{ Event label.EventType }

func (e *InterfaceEventNotInBothProtocols) Error() string {
	return fmt.Sprintf("interface event type %s does not appear in both protocols", e.Event)
}
func (e *InterfaceEventNotInBothProtocols) Kind() string {
	return "InterfaceEventNotInBothProtocols"
}

// EventEmittedMultipleTimes signals a confusion-freeness violation: an
// event type appearing on more than one transition.
type EventEmittedMultipleTimes struct {
	Event label.EventType
	Edges []EdgeDesc
}

func (e *EventEmittedMultipleTimes) Error() string {
	return fmt.Sprintf("event type %s appears as %s", e.Event, joinEdges(e.Edges))
}
func (e *EventEmittedMultipleTimes) Kind() string { return "EventEmittedMultipleTimes" }

// CommandOnMultipleTransitions signals a confusion-freeness violation: a
// command appearing on more than one transition.
type CommandOnMultipleTransitions struct {
	Cmd   label.Command
	Edges []EdgeDesc
}

func (e *CommandOnMultipleTransitions) Error() string {
	return fmt.Sprintf("command %s appears as %s", e.Cmd, joinEdges(e.Edges))
}
func (e *CommandOnMultipleTransitions) Kind() string { return "CommandOnMultipleTransitions" }

// StateCanNotReachTerminal signals a state with no path to any terminal
// (outgoing-degree-0) node — a stricter check than bare confusion-freeness
// requires. analysis.Engine.Compose drops it from its report when
// config.AnalysisConfig.RejectUnreachableTerminal is false.
type StateCanNotReachTerminal struct{ State label.State }

func (e *StateCanNotReachTerminal) Error() string {
	return fmt.Sprintf("state %s cannot reach a terminal state", e.State)
}
func (e *StateCanNotReachTerminal) Kind() string { return "StateCanNotReachTerminal" }

// StateNotReachableFromInitial signals a state unreachable from the
// protocol's initial node.
type StateNotReachableFromInitial struct{ State label.State }

func (e *StateNotReachableFromInitial) Error() string {
	return fmt.Sprintf("state %s is not reachable from the initial state", e.State)
}
func (e *StateNotReachableFromInitial) Kind() string { return "StateNotReachableFromInitial" }

// MoreThanOneEventTypeInCommand signals an edge whose log_type did not
// validate to exactly one event type.
type MoreThanOneEventTypeInCommand struct{ Edge EdgeDesc }

func (e *MoreThanOneEventTypeInCommand) Error() string {
	return fmt.Sprintf("more than one event type in command at %s", e.Edge)
}
func (e *MoreThanOneEventTypeInCommand) Kind() string { return "MoreThanOneEventTypeInCommand" }

// ActiveRoleNotSubscribed signals an edge's emitting role not subscribed to
// its own event type (causal-consistency rule 1).
type ActiveRoleNotSubscribed struct{ Edge EdgeDesc }

func (e *ActiveRoleNotSubscribed) Error() string {
	return fmt.Sprintf("role %s not subscribed to its own event at %s", e.Edge.Label.Role, e.Edge)
}
func (e *ActiveRoleNotSubscribed) Kind() string { return "ActiveRoleNotSubscribed" }

// LaterActiveRoleNotSubscribed signals a role with an enabled non-concurrent
// command at the edge's target, not subscribed to the edge's event
// (causal-consistency rule 2).
type LaterActiveRoleNotSubscribed struct {
	Edge EdgeDesc
	Role label.Role
}

func (e *LaterActiveRoleNotSubscribed) Error() string {
	return fmt.Sprintf("role %s active later is not subscribed to %s", e.Role, e.Edge)
}
func (e *LaterActiveRoleNotSubscribed) Kind() string { return "LaterActiveRoleNotSubscribed" }

// RoleNotSubscribedToBranch signals a role on the event's path not
// subscribed to every event type in its branching set.
type RoleNotSubscribedToBranch struct {
	Events []label.EventType
	Edge   EdgeDesc
	Node   label.State
	Role   label.Role
}

func (e *RoleNotSubscribedToBranch) Error() string {
	return fmt.Sprintf("role %s not subscribed to branch %s at node %s, edge %s", e.Role, eventList(e.Events), e.Node, e.Edge)
}
func (e *RoleNotSubscribedToBranch) Kind() string { return "RoleNotSubscribedToBranch" }

// RoleNotSubscribedToJoin signals a role on the event's path not subscribed
// to the joining event's pre-join set plus itself.
type RoleNotSubscribedToJoin struct {
	Events []label.EventType
	Edge   EdgeDesc
	Role   label.Role
}

func (e *RoleNotSubscribedToJoin) Error() string {
	return fmt.Sprintf("role %s not subscribed to join %s at %s", e.Role, eventList(e.Events), e.Edge)
}
func (e *RoleNotSubscribedToJoin) Kind() string { return "RoleNotSubscribedToJoin" }

// LoopingError signals an infinitely-looping edge where no representative
// event type in the loop is subscribed to by every role on its path.
type LoopingError struct {
	Edge  EdgeDesc
	Roles []label.Role
}

func (e *LoopingError) Error() string {
	roles := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		roles[i] = string(r)
	}
	return fmt.Sprintf("no representative event type in the loop at %s is subscribed by all of %s", e.Edge, strings.Join(roles, ","))
}
func (e *LoopingError) Kind() string { return "LoopingError" }

// Side identifies which machine (in an equivalence check) an error refers
// to: error messages are designed assuming left is the reference and right
// the tested side.
type Side int

const (
	// Left is the reference machine (e.g. the derived projection).
	Left Side = iota
	// Right is the tested machine (e.g. a hand-written implementation).
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// MachineEdgeDesc denormalizes a machine-graph edge for equivalence errors.
type MachineEdgeDesc struct {
	ID     graph.EdgeID
	Source string
	Target string
	Label  label.MachineLabel
}

func (e MachineEdgeDesc) String() string {
	return fmt.Sprintf("(%s)--[%s]-->(%s)", e.Source, e.Label, e.Target)
}

// NonDeterministic signals two outgoing edges from the same machine state
// sharing a DeterministicLabel.
type NonDeterministic struct {
	Side Side
	Edge MachineEdgeDesc
}

func (e *NonDeterministic) Error() string {
	return fmt.Sprintf("non-deterministic machine on %s side at %s", e.Side, e.Edge)
}
func (e *NonDeterministic) Kind() string { return "NonDeterministic" }

// MissingTransition signals a DeterministicLabel present on one side of an
// equivalence check but absent on the other.
type MissingTransition struct {
	Side Side
	Node string
	Edge MachineEdgeDesc
}

func (e *MissingTransition) Error() string {
	return fmt.Sprintf("%s side missing transition %s from state %s", e.Side, e.Edge, e.Node)
}
func (e *MissingTransition) Kind() string { return "MissingTransition" }

func joinEdges(edges []EdgeDesc) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, " and ")
}

func eventList(events []label.EventType) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = string(e)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
