package projection

import (
	"sort"

	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Equivalent compares two machine graphs via simultaneous DFS of
// (left-node, right-node) pairs, starting from (li, ri). At each pair,
// outgoing edges are grouped by DeterministicLabel; a duplicate key within
// one side is non-determinism, a key present on one side only is a missing
// transition. On any discrepancy at a pair, the subtree below it is not
// explored further. Left is treated as the reference, right as the tested
// side.
func Equivalent(left *graph.MachineGraph, li graph.NodeID, right *graph.MachineGraph, ri graph.NodeID) *errs.Report {
	report := errs.NewReport()
	if li == graph.NoNode || ri == graph.NoNode {
		return report
	}

	type pair struct{ l, r graph.NodeID }
	stack := []pair{{li, ri}}
	visited := make(map[pair]struct{})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[p]; ok {
			continue
		}
		visited[p] = struct{}{}

		lOut, lDup := groupByDeterministicLabel(left, p.l)
		rOut, rDup := groupByDeterministicLabel(right, p.r)

		for _, e := range lDup {
			report.Add(&errs.NonDeterministic{Side: errs.Left, Edge: describeMachineEdge(left, e)})
		}
		for _, e := range rDup {
			report.Add(&errs.NonDeterministic{Side: errs.Right, Edge: describeMachineEdge(right, e)})
		}

		keys := unionKeys(lOut, rOut)
		same := true
		var nextPairs []pair
		for _, k := range keys {
			lEdge, lok := lOut[k]
			rEdge, rok := rOut[k]
			switch {
			case lok && rok:
				_, lt := left.EdgeEndpoints(lEdge)
				_, rt := right.EdgeEndpoints(rEdge)
				nextPairs = append(nextPairs, pair{lt, rt})
			case lok && !rok:
				same = false
				report.Add(&errs.MissingTransition{Side: errs.Right, Node: string(right.NodeWeight(p.r)), Edge: describeMachineEdge(left, lEdge)})
			case !lok && rok:
				same = false
				report.Add(&errs.MissingTransition{Side: errs.Left, Node: string(left.NodeWeight(p.l)), Edge: describeMachineEdge(right, rEdge)})
			}
		}

		if same {
			for _, np := range nextPairs {
				if _, ok := visited[np]; !ok {
					stack = append(stack, np)
				}
			}
		}
	}

	return report
}

func groupByDeterministicLabel(g *graph.MachineGraph, n graph.NodeID) (map[label.DeterministicLabel]graph.EdgeID, []graph.EdgeID) {
	out := make(map[label.DeterministicLabel]graph.EdgeID)
	var dup []graph.EdgeID
	for _, e := range g.OutEdges(n) {
		key := label.Deterministic(g.EdgeLabel(e))
		if _, ok := out[key]; ok {
			dup = append(dup, e)
			continue
		}
		out[key] = e
	}
	return out, dup
}

func unionKeys(a, b map[label.DeterministicLabel]graph.EdgeID) []label.DeterministicLabel {
	seen := make(map[label.DeterministicLabel]struct{})
	var out []label.DeterministicLabel
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func describeMachineEdge(g *graph.MachineGraph, e graph.EdgeID) errs.MachineEdgeDesc {
	from, to := g.EdgeEndpoints(e)
	return errs.MachineEdgeDesc{
		ID:     e,
		Source: string(g.NodeWeight(from)),
		Target: string(g.NodeWeight(to)),
		Label:  g.EdgeLabel(e),
	}
}
