package protoinfo

import (
	"github.com/lucas874/machine-go/engine/composability"
	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Combine folds a family of per-protocol ProtoInfos (as built by Prepare)
// into one, computing interfacing event types, a pessimistic concurrency
// over-approximation, and finally the joining-events map.
func Combine(infos []*ProtoInfo) *ProtoInfo {
	if len(infos) == 0 {
		return empty()
	}
	combined := infos[0]
	for _, next := range infos[1:] {
		combined = combineTwo(combined, next)
	}
	combined.JoiningEvents = joiningEventsMap(combined)
	return combined
}

func combineTwo(a, b *ProtoInfo) *ProtoInfo {
	out := empty()
	out.Protocols = append(append([]ProtoStruct{}, a.Protocols...), b.Protocols...)

	out.RoleEventMap = unionRoleEventMap(a.RoleEventMap, b.RoleEventMap)

	interfacingTypes := interfacingEventTypes(a, b)

	out.ConcurrentEvents = a.ConcurrentEvents.Union(b.ConcurrentEvents)
	out.ConcurrentEvents.AddAll(concurrentCrossProduct(a, b, interfacingTypes))

	out.BranchingEvents = append(append([]label.EventTypeSet{}, a.BranchingEvents...), b.BranchingEvents...)
	out.ImmediatelyPre = unionEventTypeSetMap(a.ImmediatelyPre, b.ImmediatelyPre)
	out.SucceedingEvents = unionEventTypeSetMap(a.SucceedingEvents, b.SucceedingEvents)

	out.InterfacingEvents = a.InterfacingEvents.Clone()
	out.InterfacingEvents.AddAll(b.InterfacingEvents)
	out.InterfacingEvents.AddAll(interfacingTypes)

	out.InfinitelyLoopingEvents = a.InfinitelyLoopingEvents.Clone()
	out.InfinitelyLoopingEvents.AddAll(b.InfinitelyLoopingEvents)

	out.InterfaceErrors = errs.NewReport()
	out.InterfaceErrors.Append(a.InterfaceErrors)
	out.InterfaceErrors.Append(b.InterfaceErrors)
	out.InterfaceErrors.Append(checkInterface(a, b))

	return out
}

// checkInterface re-derives composability.InterfaceCompatible over the two
// sides' protocol graphs, so interface clashes surface at the point two
// ProtoInfos are actually combined (not just within one family member).
func checkInterface(a, b *ProtoInfo) *errs.Report {
	var graphs []*graph.ProtocolGraph
	for _, p := range a.Protocols {
		graphs = append(graphs, p.Graph)
	}
	for _, p := range b.Protocols {
		graphs = append(graphs, p.Graph)
	}
	return interfaceCompatible(graphs)
}

func unionRoleEventMap(a, b RoleEventMap) RoleEventMap {
	out := make(RoleEventMap)
	for r, labels := range a {
		out[r] = labels.Clone()
	}
	for r, labels := range b {
		if _, ok := out[r]; !ok {
			out[r] = make(label.SwarmLabelSet)
		}
		out[r].AddAll(labels)
	}
	return out
}

func unionEventTypeSetMap(a, b map[label.EventType]label.EventTypeSet) map[label.EventType]label.EventTypeSet {
	out := make(map[label.EventType]label.EventTypeSet)
	for k, v := range a {
		out[k] = v.Clone()
	}
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = make(label.EventTypeSet)
		}
		out[k].AddAll(v)
	}
	return out
}

// interfacingRoles returns the roles shared between a's and b's protocols.
func interfacingRoles(a, b *ProtoInfo) label.RoleSet {
	aRoles := make(label.RoleSet)
	for _, p := range a.Protocols {
		aRoles.AddAll(p.Roles)
	}
	bRoles := make(label.RoleSet)
	for _, p := range b.Protocols {
		bRoles.AddAll(p.Roles)
	}
	out := make(label.RoleSet)
	for r := range aRoles {
		if bRoles.Contains(r) {
			out.Add(r)
		}
	}
	return out
}

// interfacingEventTypes returns the event types emitted, in either side,
// by a role shared between the two sides.
func interfacingEventTypes(a, b *ProtoInfo) label.EventTypeSet {
	out := make(label.EventTypeSet)
	for r := range interfacingRoles(a, b) {
		for l := range a.RoleEventMap[r] {
			out.Add(l.EventType)
		}
		for l := range b.RoleEventMap[r] {
			out.Add(l.EventType)
		}
	}
	return out
}

// concurrentCrossProduct pessimistically marks every non-interfacing event
// type on side a as concurrent with every non-interfacing event type on
// side b.
func concurrentCrossProduct(a, b *ProtoInfo, interfacing label.EventTypeSet) label.EventPairSet {
	out := make(label.EventPairSet)
	aEvents := eventTypesOf(a).Difference(interfacing)
	bEvents := eventTypesOf(b).Difference(interfacing)
	for e1 := range aEvents {
		for e2 := range bEvents {
			out.Add(label.NewEventPair(e1, e2))
		}
	}
	return out
}

func eventTypesOf(pi *ProtoInfo) label.EventTypeSet {
	out := make(label.EventTypeSet)
	for _, labels := range pi.RoleEventMap {
		out.AddAll(labels.EventTypes())
	}
	return out
}

// joiningEventsMap scans every interfacing event type e: if its immediate
// predecessors contain a concurrent pair (each side not itself concurrent
// with e), e is a joining event and its predecessors are its joining set.
func joiningEventsMap(pi *ProtoInfo) map[label.EventType]label.EventTypeSet {
	out := make(map[label.EventType]label.EventTypeSet)
	for e := range pi.InterfacingEvents {
		pre := pi.Preceding(e)
		preList := pre.Sorted()
		members := make(label.EventTypeSet)
		for i := 0; i < len(preList); i++ {
			for j := i + 1; j < len(preList); j++ {
				e1, e2 := preList[i], preList[j]
				if pi.ConcurrentEvents.Contains(label.NewEventPair(e1, e)) || pi.ConcurrentEvents.Contains(label.NewEventPair(e2, e)) {
					continue
				}
				if pi.ConcurrentEvents.Contains(label.NewEventPair(e1, e2)) {
					members.Add(e1)
					members.Add(e2)
				}
			}
		}
		if !members.Empty() {
			out[e] = members
		}
	}
	return out
}

// FlattenJoiningMap returns every event type mentioned by the joining-
// events map, joining events and their predecessors alike.
func FlattenJoiningMap(joining map[label.EventType]label.EventTypeSet) label.EventTypeSet {
	out := make(label.EventTypeSet)
	for join, pre := range joining {
		out.Add(join)
		out.AddAll(pre)
	}
	return out
}

func interfaceCompatible(graphs []*graph.ProtocolGraph) *errs.Report {
	return composability.InterfaceCompatible(graphs)
}
