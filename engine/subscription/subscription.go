// Package subscription infers role event-type subscriptions from a
// ProtoInfo under one of several strategies, trading precision for speed.
// Every strategy only ever adds events to its input subscription; equality
// between successive rounds is the fixed-point signal.
package subscription

import (
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/protoinfo"
)

// Subscriptions maps each role to the event types it subscribes to.
type Subscriptions map[label.Role]label.EventTypeSet

// Clone returns a deep copy.
func (s Subscriptions) Clone() Subscriptions {
	out := make(Subscriptions, len(s))
	for r, events := range s {
		out[r] = events.Clone()
	}
	return out
}

// addTo merges events into subs[role], returning true iff subs already
// contained every one of them (i.e. nothing changed).
func addTo(subs Subscriptions, role label.Role, events label.EventTypeSet) bool {
	existing, ok := subs[role]
	if ok && events.IsSubsetOf(existing) {
		return true
	}
	if !ok {
		subs[role] = events.Clone()
	} else {
		existing.AddAll(events)
	}
	return false
}

// Granularity selects a subscription-inference strategy.
type Granularity int

const (
	Fine Granularity = iota
	Medium
	Coarse
	TwoStep
)

func (g Granularity) String() string {
	switch g {
	case Fine:
		return "fine"
	case Medium:
		return "medium"
	case Coarse:
		return "coarse"
	case TwoStep:
		return "two_step"
	default:
		return "unknown"
	}
}

// ParseGranularity parses the wire/config representation of a Granularity,
// reporting false for anything unrecognized (including "exact", which
// selects a distinct strategy not represented by this enum).
func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "fine":
		return Fine, true
	case "medium":
		return Medium, true
	case "coarse":
		return Coarse, true
	case "two_step":
		return TwoStep, true
	default:
		return 0, false
	}
}

// Infer computes a well-formedness subscription extending base, using the
// requested strategy. The Exact strategy lives in exact.go since it
// operates over an explicit composition rather than a ProtoInfo alone.
func Infer(pi *protoinfo.ProtoInfo, base Subscriptions, g Granularity) Subscriptions {
	switch g {
	case Fine:
		return finer(pi, base, false)
	case Medium:
		return finer(pi, base, true)
	case Coarse:
		return coarse(pi, base)
	case TwoStep:
		return twoStep(pi, base)
	default:
		return finer(pi, base, false)
	}
}

func causalConsistency(pi *protoinfo.ProtoInfo, subs Subscriptions) {
	for role, labels := range pi.RoleEventMap {
		toAdd := make(label.EventTypeSet)
		for l := range labels {
			toAdd.Add(l.EventType)
			toAdd.AddAll(pi.Preceding(l.EventType))
		}
		addTo(subs, role, toAdd)
	}
}

func addBranchesAndJoinsFixedPoint(pi *protoinfo.ProtoInfo, subs Subscriptions, includeInterfacing bool) {
	stable := false
	for !stable {
		stable = true

		for joinEvent, prejoin := range pi.JoiningEvents {
			interested := protoinfo.RolesOnPath(pi, joinEvent, subs)
			joinAndPrejoin := prejoin.Clone()
			joinAndPrejoin.Add(joinEvent)
			for role := range interested {
				if !addTo(subs, role, joinAndPrejoin) {
					stable = false
				}
			}
		}

		for _, branch := range pi.BranchingEvents {
			interested := make(label.RoleSet)
			for e := range branch {
				interested.AddAll(protoinfo.RolesOnPath(pi, e, subs))
			}
			for role := range interested {
				if !addTo(subs, role, branch) {
					stable = false
				}
			}
		}

		if includeInterfacing {
			for e := range pi.InterfacingEvents {
				interested := protoinfo.RolesOnPath(pi, e, subs)
				single := label.NewEventTypeSet(e)
				for role := range interested {
					if !addTo(subs, role, single) {
						stable = false
					}
				}
			}
		}
	}
}

// finer implements Fine (includeInterfacing=false) and Medium
// (includeInterfacing=true).
func finer(pi *protoinfo.ProtoInfo, base Subscriptions, allInterfacing bool) Subscriptions {
	subs := base.Clone()
	if subs == nil {
		subs = make(Subscriptions)
	}

	closedSucc := protoinfo.TransitiveClosure(pi.SucceedingEvents)
	pi = withSucceeding(pi, closedSucc)

	causalConsistency(pi, subs)

	if allInterfacing {
		for role := range subs {
			subs[role].AddAll(pi.InterfacingEvents)
		}
	}

	addBranchesAndJoinsFixedPoint(pi, subs, false)
	addLoopingEventTypes(pi, subs)
	return subs
}

// coarse implements Coarse: every role subscribes to the flat union of all
// branching, joining (+ pre-join), and interfacing events, plus its own
// events and their immediate predecessors.
func coarse(pi *protoinfo.ProtoInfo, base Subscriptions) Subscriptions {
	subs := base.Clone()
	if subs == nil {
		subs = make(Subscriptions)
	}

	broadcast := make(label.EventTypeSet)
	for _, branch := range pi.BranchingEvents {
		broadcast.AddAll(branch)
	}
	for join, pre := range pi.JoiningEvents {
		broadcast.Add(join)
		broadcast.AddAll(pre)
	}
	broadcast.AddAll(pi.InterfacingEvents)

	for role, labels := range pi.RoleEventMap {
		toAdd := broadcast.Clone()
		for l := range labels {
			toAdd.Add(l.EventType)
			toAdd.AddAll(pi.Preceding(l.EventType))
		}
		addTo(subs, role, toAdd)
	}

	addLoopingEventTypes(pi, subs)
	return subs
}

// twoStep runs causal consistency, then a branches+joins fixed point, then
// adds every interfacing event to the roles on its path.
func twoStep(pi *protoinfo.ProtoInfo, base Subscriptions) Subscriptions {
	subs := base.Clone()
	if subs == nil {
		subs = make(Subscriptions)
	}
	causalConsistency(pi, subs)
	addBranchesAndJoinsFixedPoint(pi, subs, true)
	addLoopingEventTypes(pi, subs)
	return subs
}

// withSucceeding returns a shallow copy of pi with SucceedingEvents
// replaced, used to run RolesOnPath against a transitively-closed map
// without mutating the caller's ProtoInfo.
func withSucceeding(pi *protoinfo.ProtoInfo, succ map[label.EventType]label.EventTypeSet) *protoinfo.ProtoInfo {
	copied := *pi
	copied.SucceedingEvents = succ
	return &copied
}

// addLoopingEventTypes folds protoinfo.UpdatingEventTypes' looping
// component into subs for every role on each loop's path, so every
// strategy ends with the same looping-coverage guarantee.
func addLoopingEventTypes(pi *protoinfo.ProtoInfo, subs Subscriptions) {
	for t := range loopingOnly(pi, subs) {
		for role := range protoinfo.RolesOnPath(pi, t, subs) {
			addTo(subs, role, label.NewEventTypeSet(t))
		}
	}
}

// loopingOnly picks, per distinct loop, the representative event type
// protoinfo.UpdatingEventTypes already selected.
func loopingOnly(pi *protoinfo.ProtoInfo, subs Subscriptions) label.EventTypeSet {
	all := protoinfo.UpdatingEventTypes(pi, subs)
	out := make(label.EventTypeSet)
	for t := range all {
		if pi.InfinitelyLoopingEvents.Contains(t) {
			out.Add(t)
		}
	}
	return out
}
