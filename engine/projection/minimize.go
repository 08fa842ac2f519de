package projection

import (
	"sort"

	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// Minimize collapses a deterministic machine graph via partition
// refinement: start from {terminal, non-terminal}; for every block and
// every label appearing on edges into that block, split blocks by "has an
// outgoing label-edge into this block." Iterate to a fixed point, then
// collapse each surviving block to a single state.
func Minimize(dfa *graph.MachineGraph) *graph.MachineGraph {
	out, _ := MinimizeWithOrigin(dfa)
	return out
}

// MinimizeWithOrigin minimizes exactly as Minimize does, additionally
// returning, for every node of the minimized graph, the set of pre-
// minimization dfa nodes its surviving block collapsed. Callers that need
// to carry provenance through minimization (e.g. which user-machine states
// a block originates from) union their per-member provenance over this
// set instead of re-deriving it from the collapsed node's rendered name.
func MinimizeWithOrigin(dfa *graph.MachineGraph) (*graph.MachineGraph, map[graph.NodeID][]graph.NodeID) {
	if dfa.Initial() == graph.NoNode {
		return graph.NewMachineGraph(), map[graph.NodeID][]graph.NodeID{}
	}

	blockOf := make(map[graph.NodeID]int)
	var blocks [][]graph.NodeID
	terminal, nonTerminal := []graph.NodeID{}, []graph.NodeID{}
	for _, n := range dfa.Nodes() {
		if dfa.IsTerminal(n) {
			terminal = append(terminal, n)
		} else {
			nonTerminal = append(nonTerminal, n)
		}
	}
	if len(terminal) > 0 {
		blocks = append(blocks, terminal)
	}
	if len(nonTerminal) > 0 {
		blocks = append(blocks, nonTerminal)
	}
	rebuildBlockOf(blocks, blockOf)

	changed := true
	for changed {
		changed = false
		var refined [][]graph.NodeID
		for _, block := range blocks {
			groups := splitBlock(dfa, block, blockOf)
			if len(groups) > 1 {
				changed = true
			}
			refined = append(refined, groups...)
		}
		blocks = refined
		rebuildBlockOf(blocks, blockOf)
	}

	return collapse(dfa, blocks, blockOf)
}

// splitBlock partitions block by each node's outgoing-label -> target-block
// signature.
func splitBlock(dfa *graph.MachineGraph, block []graph.NodeID, blockOf map[graph.NodeID]int) [][]graph.NodeID {
	type sigEntry struct {
		l label.MachineLabel
		b int
	}
	sigOf := func(n graph.NodeID) string {
		var entries []sigEntry
		for _, e := range dfa.OutEdges(n) {
			_, target := dfa.EdgeEndpoints(e)
			entries = append(entries, sigEntry{l: dfa.EdgeLabel(e), b: blockOf[target]})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].l != entries[j].l {
				return entries[i].l.Less(entries[j].l)
			}
			return entries[i].b < entries[j].b
		})
		s := ""
		for _, se := range entries {
			s += se.l.String() + "->" + itoa(se.b) + ";"
		}
		return s
	}

	groups := make(map[string][]graph.NodeID)
	var order []string
	for _, n := range block {
		sig := sigOf(n)
		if _, ok := groups[sig]; !ok {
			order = append(order, sig)
		}
		groups[sig] = append(groups[sig], n)
	}
	sort.Strings(order)

	out := make([][]graph.NodeID, 0, len(order))
	for _, sig := range order {
		out = append(out, groups[sig])
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func rebuildBlockOf(blocks [][]graph.NodeID, blockOf map[graph.NodeID]int) {
	for id, block := range blocks {
		for _, n := range block {
			blockOf[n] = id
		}
	}
}

// collapse builds a fresh graph with one node per surviving block, and the
// map from each new node back to the pre-minimization nodes its block
// contains.
func collapse(dfa *graph.MachineGraph, blocks [][]graph.NodeID, blockOf map[graph.NodeID]int) (*graph.MachineGraph, map[graph.NodeID][]graph.NodeID) {
	out := graph.NewMachineGraph()
	blockNodeID := make([]graph.NodeID, len(blocks))
	for i, block := range blocks {
		blockNodeID[i] = out.AddNode(representativeName(dfa, block))
	}
	out.SetInitial(blockNodeID[blockOf[dfa.Initial()]])

	seenEdge := make(map[string]struct{})
	for i, block := range blocks {
		rep := block[0]
		for _, e := range dfa.OutEdges(rep) {
			_, target := dfa.EdgeEndpoints(e)
			l := dfa.EdgeLabel(e)
			toBlock := blockOf[target]
			key := itoa(i) + "|" + l.String() + "|" + itoa(toBlock)
			if _, ok := seenEdge[key]; ok {
				continue
			}
			seenEdge[key] = struct{}{}
			out.AddEdge(blockNodeID[i], blockNodeID[toBlock], l)
		}
	}

	origin := make(map[graph.NodeID][]graph.NodeID, len(blocks))
	for i, block := range blocks {
		origin[blockNodeID[i]] = block
	}
	return out, origin
}

func representativeName(dfa *graph.MachineGraph, block []graph.NodeID) label.State {
	names := make([]string, len(block))
	for i, n := range block {
		names[i] = string(dfa.NodeWeight(n))
	}
	sort.Strings(names)
	return label.State("[" + joinComma(names) + "]")
}
