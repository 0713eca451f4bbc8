package layergraph

// AllSimplePaths enumerates every simple path (no repeated node) from s to
// t, as sequences of node ids including both endpoints. Bounded by node
// count, which is acceptable because layer counts are tiny (spec §4.7:
// "bounded by node count... layer counts are tiny, ≤ 256").
func AllSimplePaths(g *Graph, s, t NodeID) [][]NodeID {
	var paths [][]NodeID
	visited := make([]bool, g.n)
	path := make([]NodeID, 0, g.n)

	var walk func(node NodeID)
	walk = func(node NodeID) {
		visited[node] = true
		path = append(path, node)

		if node == t && len(path) > 1 {
			cp := make([]NodeID, len(path))
			copy(cp, path)
			paths = append(paths, cp)
		} else {
			for to := range g.out[node] {
				if !visited[to] {
					walk(to)
				}
			}
		}

		path = path[:len(path)-1]
		visited[node] = false
	}

	walk(s)

	return paths
}

// ReverseEdgesOnPaths reverses the direction of every edge that lies on
// any simple path from s to t, keeping each edge's scan-code set intact.
// This is the core of spec §4.4 layer locking: the path that used to lead
// from s to the locked layer t becomes the path from t back out to s.
func ReverseEdgesOnPaths(g *Graph, s, t NodeID) {
	paths := AllSimplePaths(g, s, t)

	type edgeKey struct{ from, to NodeID }
	seen := make(map[edgeKey]bool)

	var toReverse []edgeKey
	for _, path := range paths {
		for i := 0; i+1 < len(path); i++ {
			e := edgeKey{path[i], path[i+1]}
			if seen[e] {
				continue
			}
			seen[e] = true
			toReverse = append(toReverse, e)
		}
	}

	for _, e := range toReverse {
		codes := g.RemoveEdge(e.from, e.to)
		if codes == nil {
			continue
		}
		for _, c := range codes {
			g.AddEdge(e.to, e.from, c)
		}
	}
}
