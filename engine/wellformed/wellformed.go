// Package wellformed checks an explicit composition against a subscription
// for five well-formedness rules: self-subscribe, later-active-role-
// subscribe, branching, joining, and looping.
package wellformed

import (
	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/protoinfo"
	"github.com/lucas874/machine-go/engine/subscription"
)

// Check runs only once confusion-freeness and interface checks have
// already passed (callers are expected to have checked pi.NoErrors() via
// the protoinfo/composability stages first).
func Check(pi *protoinfo.ProtoInfo, composed *graph.ProtocolGraph, subs subscription.Subscriptions) *errs.Report {
	report := errs.NewReport()
	if composed.Initial() == graph.NoNode {
		return report
	}

	graph.DFS[label.State, label.SwarmLabel](composed, composed.Initial(), func(node graph.NodeID) {
		for _, e := range composed.OutEdges(node) {
			l := composed.EdgeLabel(e)
			edge := errs.DescribeEdge(composed, e)
			_, target := composed.EdgeEndpoints(e)

			checkSelfSubscribe(subs, l, edge, report)
			checkLaterActive(pi, composed, subs, l, target, edge, report)
			checkBranching(pi, composed, subs, node, l, edge, report)
			checkJoining(pi, subs, l, edge, report)
			checkLooping(pi, subs, l, edge, report)
		}
	})

	return report
}

func checkSelfSubscribe(subs subscription.Subscriptions, l label.SwarmLabel, edge errs.EdgeDesc, report *errs.Report) {
	if !subs[l.Role].Contains(l.EventType) {
		report.Add(&errs.ActiveRoleNotSubscribed{Edge: edge})
	}
}

func checkLaterActive(pi *protoinfo.ProtoInfo, g *graph.ProtocolGraph, subs subscription.Subscriptions, l label.SwarmLabel, target graph.NodeID, edge errs.EdgeDesc, report *errs.Report) {
	for _, e2 := range g.OutEdges(target) {
		other := g.EdgeLabel(e2)
		if pi.ConcurrentEvents.Contains(label.NewEventPair(l.EventType, other.EventType)) {
			continue
		}
		if !subs[other.Role].Contains(l.EventType) {
			report.Add(&errs.LaterActiveRoleNotSubscribed{Edge: edge, Role: other.Role})
		}
	}
}

func checkBranching(pi *protoinfo.ProtoInfo, g *graph.ProtocolGraph, subs subscription.Subscriptions, node graph.NodeID, l label.SwarmLabel, edge errs.EdgeDesc, report *errs.Report) {
	var branch label.EventTypeSet
	for _, b := range pi.BranchingEvents {
		if b.Contains(l.EventType) {
			branch = b
			break
		}
	}
	if branch == nil {
		return
	}

	atNode := make(label.EventTypeSet)
	for _, e2 := range g.OutEdges(node) {
		t := g.EdgeLabel(e2).EventType
		if branch.Contains(t) {
			atNode.Add(t)
		}
	}
	if len(atNode) <= 1 {
		return
	}

	involved := protoinfo.RolesOnPath(pi, l.EventType, subs)
	for role := range involved {
		if !atNode.IsSubsetOf(subs[role]) {
			report.Add(&errs.RoleNotSubscribedToBranch{Events: atNode.Sorted(), Edge: edge, Node: g.NodeWeight(node), Role: role})
		}
	}
}

func checkJoining(pi *protoinfo.ProtoInfo, subs subscription.Subscriptions, l label.SwarmLabel, edge errs.EdgeDesc, report *errs.Report) {
	prejoin, ok := pi.JoiningEvents[l.EventType]
	if !ok || prejoin.Empty() {
		return
	}
	required := prejoin.Clone()
	required.Add(l.EventType)

	involved := protoinfo.RolesOnPath(pi, l.EventType, subs)
	for role := range involved {
		if !required.IsSubsetOf(subs[role]) {
			report.Add(&errs.RoleNotSubscribedToJoin{Events: required.Sorted(), Edge: edge, Role: role})
		}
	}
}

func checkLooping(pi *protoinfo.ProtoInfo, subs subscription.Subscriptions, l label.SwarmLabel, edge errs.EdgeDesc, report *errs.Report) {
	if !pi.InfinitelyLoopingEvents.Contains(l.EventType) {
		return
	}
	loop := pi.Succeeding(l.EventType)
	loop.Add(l.EventType)

	involved := protoinfo.RolesOnPath(pi, l.EventType, subs)
	for t := range loop {
		covered := true
		for role := range involved {
			if !subs[role].Contains(t) {
				covered = false
				break
			}
		}
		if covered {
			return
		}
	}

	report.Add(&errs.LoopingError{Edge: edge, Roles: involved.Sorted()})
}
