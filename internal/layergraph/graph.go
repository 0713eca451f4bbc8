// Package layergraph implements the small directed multigraph used to
// represent layer transitions: nodes are dense layer indices, edges carry
// the set of scan codes that trigger that transition.
package layergraph

import "errors"

// ErrCycle is returned by TopologicalOrder when the graph is not a DAG.
var ErrCycle = errors.New("layergraph: cycle detected")

// NodeID is a dense node index. Layer counts are capped at 256 (spec:
// "at most 256 layers"), so a byte is always enough.
type NodeID uint8

// Graph is a directed multigraph with at most one edge per (from, to)
// pair; parallel modifier keys between the same two layers are coalesced
// into that edge's scan-code list by AddEdge.
type Graph struct {
	n   int
	out map[NodeID]map[NodeID][]uint16
}

// New creates a graph with n nodes (0..n-1) and no edges.
func New(n int) *Graph {
	return &Graph{n: n, out: make(map[NodeID]map[NodeID][]uint16, n)}
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return g.n
}

// Clone returns a deep copy. Used by the engine to reset the active graph
// before reversing edges on a lock (spec §4.4 step 1).
func (g *Graph) Clone() *Graph {
	clone := New(g.n)
	for from, edges := range g.out {
		m := make(map[NodeID][]uint16, len(edges))
		for to, codes := range edges {
			cp := make([]uint16, len(codes))
			copy(cp, codes)
			m[to] = cp
		}
		clone.out[from] = m
	}
	return clone
}

// AddEdge adds scanCode to the edge from -> to, creating the edge if it
// does not exist yet. Multiple scan codes between the same pair of nodes
// coalesce onto one edge, per spec §3.
func (g *Graph) AddEdge(from, to NodeID, scanCode uint16) {
	edges, ok := g.out[from]
	if !ok {
		edges = make(map[NodeID][]uint16)
		g.out[from] = edges
	}
	edges[to] = append(edges[to], scanCode)
}

// RemoveEdge deletes the edge from -> to entirely, returning the scan
// codes it carried (or nil if it did not exist).
func (g *Graph) RemoveEdge(from, to NodeID) []uint16 {
	edges, ok := g.out[from]
	if !ok {
		return nil
	}
	codes := edges[to]
	delete(edges, to)
	if len(edges) == 0 {
		delete(g.out, from)
	}
	return codes
}

// Edges returns the outgoing edges of node, keyed by target.
func (g *Graph) Edges(node NodeID) map[NodeID][]uint16 {
	return g.out[node]
}

// EdgeTarget returns the node reached by following the edge out of from
// that carries scanCode, if any (spec §4.3: "at most one edge can match
// each step").
func (g *Graph) EdgeTarget(from NodeID, scanCode uint16) (NodeID, bool) {
	for to, codes := range g.out[from] {
		for _, c := range codes {
			if c == scanCode {
				return to, true
			}
		}
	}
	return 0, false
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []NodeID {
	nodes := make([]NodeID, g.n)
	for i := range nodes {
		nodes[i] = NodeID(i)
	}
	return nodes
}

// OutDegree returns the number of distinct target nodes reachable from
// node via a single edge.
func (g *Graph) OutDegree(node NodeID) int {
	return len(g.out[node])
}
