// Package graph provides the directed labeled multigraph used throughout the
// engine: an owned arena of nodes addressed by opaque NodeID, with adjacency
// lists for outgoing/incoming edge iteration. Nodes are never mutated after
// construction — a transform always builds a fresh Graph.
package graph

import "fmt"

// NodeID is an opaque index into a Graph's node arena. Stable only for the
// Graph that minted it.
type NodeID int

// NoNode is the "no initial node" sentinel (mirrors NodeId::end()).
const NoNode NodeID = -1

// EdgeID is an opaque index into a Graph's edge arena.
type EdgeID int

type edgeRec[L any] struct {
	id     EdgeID
	from   NodeID
	to     NodeID
	weight L
}

// Graph is a directed multigraph with node weight type W and edge label
// type L. The zero value is not usable; construct with New.
type Graph[W any, L any] struct {
	nodes   []W
	edges   []edgeRec[L]
	out     [][]EdgeID
	in      [][]EdgeID
	initial NodeID
}

// New returns an empty graph with no initial node.
func New[W any, L any]() *Graph[W, L] {
	return &Graph[W, L]{initial: NoNode}
}

// AddNode appends a node carrying weight w and returns its id.
func (g *Graph[W, L]) AddNode(w W) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, w)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// AddEdge appends an edge from -> to carrying weight l and returns its id.
func (g *Graph[W, L]) AddEdge(from, to NodeID, l L) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, edgeRec[L]{id: id, from: from, to: to, weight: l})
	g.out[from] = append(g.out[from], id)
	g.in[to] = append(g.in[to], id)
	return id
}

// SetInitial marks n as the graph's distinguished initial node.
func (g *Graph[W, L]) SetInitial(n NodeID) { g.initial = n }

// Initial returns the initial node, or NoNode if the graph is empty or none
// was set.
func (g *Graph[W, L]) Initial() NodeID { return g.initial }

// NodeCount returns the number of nodes.
func (g *Graph[W, L]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph[W, L]) EdgeCount() int { return len(g.edges) }

// NodeWeight returns the weight carried by node n.
func (g *Graph[W, L]) NodeWeight(n NodeID) W { return g.nodes[n] }

// SetNodeWeight overwrites the weight carried by node n. No transform in
// this module calls it; graphs are built once and never mutated in place.
func (g *Graph[W, L]) SetNodeWeight(n NodeID, w W) { g.nodes[n] = w }

// EdgeLabel returns the weight carried by edge e.
func (g *Graph[W, L]) EdgeLabel(e EdgeID) L { return g.edges[e].weight }

// EdgeEndpoints returns the (from, to) node ids of edge e.
func (g *Graph[W, L]) EdgeEndpoints(e EdgeID) (NodeID, NodeID) {
	return g.edges[e].from, g.edges[e].to
}

// Nodes returns every node id in insertion order.
func (g *Graph[W, L]) Nodes() []NodeID {
	out := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		out[i] = NodeID(i)
	}
	return out
}

// Edges returns every edge id in insertion order.
func (g *Graph[W, L]) Edges() []EdgeID {
	out := make([]EdgeID, len(g.edges))
	for i := range g.edges {
		out[i] = EdgeID(i)
	}
	return out
}

// OutEdges returns the ids of edges leaving n, in insertion order.
func (g *Graph[W, L]) OutEdges(n NodeID) []EdgeID { return g.out[n] }

// InEdges returns the ids of edges entering n, in insertion order.
func (g *Graph[W, L]) InEdges(n NodeID) []EdgeID { return g.in[n] }

// OutDegree returns the number of edges leaving n.
func (g *Graph[W, L]) OutDegree(n NodeID) int { return len(g.out[n]) }

// Successors returns the distinct set of nodes directly reachable from n in
// one step (duplicate targets collapsed).
func (g *Graph[W, L]) Successors(n NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, e := range g.out[n] {
		to := g.edges[e].to
		if _, ok := seen[to]; !ok {
			seen[to] = struct{}{}
			out = append(out, to)
		}
	}
	return out
}

// IsTerminal reports whether n has no outgoing edges.
func (g *Graph[W, L]) IsTerminal(n NodeID) bool { return len(g.out[n]) == 0 }

func (n NodeID) String() string {
	if n == NoNode {
		return "<none>"
	}
	return fmt.Sprintf("n%d", int(n))
}

func (e EdgeID) String() string { return fmt.Sprintf("e%d", int(e)) }
