// Package protoinfo builds the aggregated ProtoInfo for a family of
// interfacing protocols: per-role emitted labels, branching/joining event
// sets, immediate-predecessor and succeeding-event maps, concurrency
// over-approximation, and infinitely-looping event detection.
package protoinfo

import (
	"fmt"
	"sort"

	"github.com/lucas874/machine-go/engine/composability"
	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// ProtoStruct pairs a single protocol graph with the confusion-freeness
// errors found on it and the roles it mentions.
type ProtoStruct struct {
	Graph   *graph.ProtocolGraph
	Initial graph.NodeID
	Errors  *errs.Report
	Roles   label.RoleSet
}

// RoleEventMap maps each role to the labels it emits across a family.
type RoleEventMap map[label.Role]label.SwarmLabelSet

// ProtoInfo is the aggregated static picture of one or more composed
// protocols, built incrementally by Prepare + Combine.
type ProtoInfo struct {
	Protocols              []ProtoStruct
	RoleEventMap           RoleEventMap
	ConcurrentEvents       label.EventPairSet
	BranchingEvents        []label.EventTypeSet
	JoiningEvents          map[label.EventType]label.EventTypeSet
	ImmediatelyPre         map[label.EventType]label.EventTypeSet
	SucceedingEvents       map[label.EventType]label.EventTypeSet
	InterfacingEvents      label.EventTypeSet
	InfinitelyLoopingEvents label.EventTypeSet
	InterfaceErrors        *errs.Report
}

func empty() *ProtoInfo {
	return &ProtoInfo{
		RoleEventMap:            make(RoleEventMap),
		ConcurrentEvents:        make(label.EventPairSet),
		JoiningEvents:           make(map[label.EventType]label.EventTypeSet),
		ImmediatelyPre:          make(map[label.EventType]label.EventTypeSet),
		SucceedingEvents:        make(map[label.EventType]label.EventTypeSet),
		InterfacingEvents:       make(label.EventTypeSet),
		InfinitelyLoopingEvents: make(label.EventTypeSet),
		InterfaceErrors:         errs.NewReport(),
	}
}

// NoErrors reports whether every component protocol and the interface
// checks are clean.
func (pi *ProtoInfo) NoErrors() bool {
	if !pi.InterfaceErrors.Empty() {
		return false
	}
	for _, p := range pi.Protocols {
		if !p.Errors.Empty() {
			return false
		}
	}
	return true
}

// ToErrorReport flattens every protocol's errors plus the interface errors
// into a single report.
func (pi *ProtoInfo) ToErrorReport() *errs.Report {
	out := errs.NewReport()
	for _, p := range pi.Protocols {
		out.Append(p.Errors)
	}
	out.Append(pi.InterfaceErrors)
	return out
}

// Succeeding returns the event types known to follow t (possibly empty).
func (pi *ProtoInfo) Succeeding(t label.EventType) label.EventTypeSet {
	if s, ok := pi.SucceedingEvents[t]; ok {
		return s.Clone()
	}
	return make(label.EventTypeSet)
}

// Preceding returns the event types immediately preceding t (possibly
// empty).
func (pi *ProtoInfo) Preceding(t label.EventType) label.EventTypeSet {
	if s, ok := pi.ImmediatelyPre[t]; ok {
		return s.Clone()
	}
	return make(label.EventTypeSet)
}

// EventTypeMap returns, for every event type known to the family, the
// (command, role) pair it resolves to. Ambiguous event types (composability
// violations) resolve to one arbitrary winner; callers should have already
// rejected a ProtoInfo with errors before relying on this.
func (pi *ProtoInfo) EventTypeMap() map[label.EventType]struct {
	Cmd  label.Command
	Role label.Role
} {
	out := make(map[label.EventType]struct {
		Cmd  label.Command
		Role label.Role
	})
	for _, labels := range pi.RoleEventMap {
		for l := range labels {
			out[l.EventType] = struct {
				Cmd  label.Command
				Role label.Role
			}{Cmd: l.Cmd, Role: l.Role}
		}
	}
	return out
}

// CommandMap returns, for every command known to the family, the
// (event type, role) pair it resolves to.
func (pi *ProtoInfo) CommandMap() map[label.Command]struct {
	EventType label.EventType
	Role      label.Role
} {
	out := make(map[label.Command]struct {
		EventType label.EventType
		Role      label.Role
	})
	for _, labels := range pi.RoleEventMap {
		for l := range labels {
			out[l.Cmd] = struct {
				EventType label.EventType
				Role      label.Role
			}{EventType: l.EventType, Role: l.Role}
		}
	}
	return out
}

// Prepare builds a ProtoInfo for a single protocol: confusion-freeness
// check, per-node role-event-map/branching/immediately-pre accumulation via
// DFS, then the succeeding-events fixed point and infinitely-looping
// detection. Any confusion error other than StateCanNotReachTerminal stops
// it after the check; a state that cannot reach a terminal does not, so the
// looping events of such a protocol are still identified.
func Prepare(g *graph.ProtocolGraph) *ProtoInfo {
	pi := empty()
	confusionErrs := composability.ConfusionFree(g)

	roles := composability.RolesOf(g)
	pi.Protocols = []ProtoStruct{{Graph: g, Initial: g.Initial(), Errors: confusionErrs, Roles: roles}}

	if g.Initial() == graph.NoNode || !confusionErrs.Filter("StateCanNotReachTerminal").Empty() {
		return pi
	}

	graph.DFS[label.State, label.SwarmLabel](g, g.Initial(), func(n graph.NodeID) {
		outEdges := g.OutEdges(n)
		incoming := make(label.EventTypeSet)
		for _, e := range g.InEdges(n) {
			incoming.Add(g.EdgeLabel(e).EventType)
		}

		if len(outEdges) > 1 && len(g.Successors(n)) > 1 {
			branch := make(label.EventTypeSet)
			for _, e := range outEdges {
				branch.Add(g.EdgeLabel(e).EventType)
			}
			pi.BranchingEvents = append(pi.BranchingEvents, branch)
		}

		for _, e := range outEdges {
			l := g.EdgeLabel(e)
			if _, ok := pi.RoleEventMap[l.Role]; !ok {
				pi.RoleEventMap[l.Role] = make(label.SwarmLabelSet)
			}
			pi.RoleEventMap[l.Role].Add(l)

			if _, ok := pi.ImmediatelyPre[l.EventType]; !ok {
				pi.ImmediatelyPre[l.EventType] = make(label.EventTypeSet)
			}
			pi.ImmediatelyPre[l.EventType].AddAll(incoming)
		}
	})

	pi.SucceedingEvents = succeedingEvents(g, g.Initial(), make(label.EventPairSet))
	pi.InfinitelyLoopingEvents = infinitelyLoopingEventTypes(g, pi.SucceedingEvents)

	return pi
}

// succeedingEvents computes the least fixed point: for every event type t,
// the set of event types that can be emitted strictly after t along some
// path, restricting "immediately after" to transitions not marked
// concurrent with t.
func succeedingEvents(g *graph.ProtocolGraph, initial graph.NodeID, concurrent label.EventPairSet) map[label.EventType]label.EventTypeSet {
	succ := make(map[label.EventType]label.EventTypeSet)
	if initial == graph.NoNode || g.NodeCount() == 0 {
		return succ
	}

	order := postOrder(g, initial)
	stable := false
	for !stable {
		stable = true
		for _, n := range order {
			for _, e := range g.OutEdges(n) {
				eventType := g.EdgeLabel(e).EventType
				_, target := g.EdgeEndpoints(e)

				activeInSuccessor := make(label.EventTypeSet)
				for _, e2 := range g.OutEdges(target) {
					other := g.EdgeLabel(e2).EventType
					if concurrent.Contains(label.NewEventPair(eventType, other)) {
						continue
					}
					activeInSuccessor.Add(other)
				}

				succEvents := make(label.EventTypeSet)
				for other := range activeInSuccessor {
					succEvents.Add(other)
					if s, ok := succ[other]; ok {
						succEvents.AddAll(s)
					}
				}

				existing, ok := succ[eventType]
				if !ok || !succEvents.IsSubsetOf(existing) {
					if !ok {
						succ[eventType] = succEvents
					} else {
						existing.AddAll(succEvents)
					}
					stable = false
				}
			}
		}
	}
	return succ
}

func postOrder(g *graph.ProtocolGraph, start graph.NodeID) []graph.NodeID {
	var order []graph.NodeID
	visited := make(map[graph.NodeID]struct{})
	var visit func(n graph.NodeID)
	visit = func(n graph.NodeID) {
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		for _, s := range g.Successors(n) {
			visit(s)
		}
		order = append(order, n)
	}
	visit(start)
	return order
}

// infinitelyLoopingEventTypes returns the event types whose emitting edge's
// source node has no path to a terminal node.
func infinitelyLoopingEventTypes(g *graph.ProtocolGraph, succ map[label.EventType]label.EventTypeSet) label.EventTypeSet {
	reaches := graph.ReachesAnyTerminal[label.State, label.SwarmLabel](g)
	out := make(label.EventTypeSet)
	for _, e := range g.Edges() {
		from, _ := g.EdgeEndpoints(e)
		if !reaches[from] {
			out.Add(g.EdgeLabel(e).EventType)
		}
	}
	return out
}

// TransitiveClosure computes the reflexive-free transitive closure of a
// succeeding-events map via reachability from each key rather than
// all-pairs shortest paths, since edge weights never matter here, only
// reachability.
func TransitiveClosure(succ map[label.EventType]label.EventTypeSet) map[label.EventType]label.EventTypeSet {
	out := make(map[label.EventType]label.EventTypeSet, len(succ))
	var closureOf func(t label.EventType, visiting map[label.EventType]struct{}) label.EventTypeSet
	closureOf = func(t label.EventType, visiting map[label.EventType]struct{}) label.EventTypeSet {
		if c, ok := out[t]; ok {
			return c
		}
		result := make(label.EventTypeSet)
		direct, ok := succ[t]
		if !ok {
			out[t] = result
			return result
		}
		if _, inProgress := visiting[t]; inProgress {
			return direct.Clone()
		}
		visiting[t] = struct{}{}
		for d := range direct {
			result.Add(d)
			result.AddAll(closureOf(d, visiting))
		}
		delete(visiting, t)
		out[t] = result
		return result
	}
	for t := range succ {
		closureOf(t, make(map[label.EventType]struct{}))
	}
	return out
}

// RolesOnPath returns every role subscribed to at least one of the event
// types succeeding (or equal to) eventType, per the given subscription
// map.
func RolesOnPath(pi *ProtoInfo, eventType label.EventType, subs map[label.Role]label.EventTypeSet) label.RoleSet {
	path := pi.Succeeding(eventType)
	path.Add(eventType)
	out := make(label.RoleSet)
	for role, events := range subs {
		if !events.Intersect(path).Empty() {
			out.Add(role)
		}
	}
	return out
}

// UpdatingEventTypes returns branching event types, joining event types,
// and the subscription's representative infinitely-looping event types —
// the set any subscription-inference strategy must treat as requiring
// broadcast.
func UpdatingEventTypes(pi *ProtoInfo, subs map[label.Role]label.EventTypeSet) label.EventTypeSet {
	out := make(label.EventTypeSet)
	for _, branch := range pi.BranchingEvents {
		out.AddAll(branch)
	}
	for join := range pi.JoiningEvents {
		out.Add(join)
	}
	out.AddAll(loopingEventTypesInSub(pi, subs))
	return out
}

// loopingEventTypesInSub picks, from each distinct infinite loop, the
// smallest event type (by string order) that every role on its path
// already subscribes to, if any such event type exists.
func loopingEventTypesInSub(pi *ProtoInfo, subs map[label.Role]label.EventTypeSet) label.EventTypeSet {
	seenLoops := make(map[string]label.EventTypeSet)
	for t := range pi.InfinitelyLoopingEvents {
		loop := pi.Succeeding(t)
		loop.Add(t)
		key := fmt.Sprint(loop.Sorted())
		seenLoops[key] = loop
	}

	out := make(label.EventTypeSet)
	for _, loop := range seenLoops {
		var candidates []label.EventType
		for t := range loop {
			covered := true
			for _, r := range RolesOnPath(pi, t, subs).Sorted() {
				if !subs[label.Role(r)].Contains(t) {
					covered = false
					break
				}
			}
			if covered {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
		out.Add(candidates[0])
	}
	return out
}
