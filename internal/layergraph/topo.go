package layergraph

// Visitation states for the DFS-based topological sort, mirroring the
// classic white/gray/black coloring.
const (
	white = 0
	gray  = 1
	black = 2
)

// topoSorter carries state for one TopologicalOrder call.
type topoSorter struct {
	graph *Graph
	state []int // indexed by NodeID
	order []NodeID
}

// TopologicalOrder computes a linear ordering of g's nodes such that for
// every edge u->v, u appears before v. Returns ErrCycle if g is not a DAG.
func TopologicalOrder(g *Graph) ([]NodeID, error) {
	sorter := &topoSorter{
		graph: g,
		state: make([]int, g.n),
		order: make([]NodeID, 0, g.n),
	}

	for _, n := range g.Nodes() {
		if sorter.state[n] == white {
			if err := sorter.visit(n); err != nil {
				return nil, err
			}
		}
	}

	// Post-order was recorded child-before-parent; reverse it.
	for i, j := 0, len(sorter.order)-1; i < j; i, j = i+1, j-1 {
		sorter.order[i], sorter.order[j] = sorter.order[j], sorter.order[i]
	}

	return sorter.order, nil
}

func (s *topoSorter) visit(id NodeID) error {
	switch s.state[id] {
	case gray:
		// Back edge: a node we are currently exploring is reachable from
		// itself.
		return ErrCycle
	case black:
		return nil
	}

	s.state[id] = gray
	for to := range s.graph.out[id] {
		if err := s.visit(to); err != nil {
			return err
		}
	}
	s.state[id] = black
	s.order = append(s.order, id)

	return nil
}

// Sources returns the nodes with no incoming edge, in ascending order.
// The layout builder uses this to find the unique base layer.
func Sources(g *Graph) []NodeID {
	hasIncoming := make([]bool, g.n)
	for _, edges := range g.out {
		for to := range edges {
			hasIncoming[to] = true
		}
	}

	var sources []NodeID
	for _, n := range g.Nodes() {
		if !hasIncoming[n] {
			sources = append(sources, n)
		}
	}

	return sources
}
