package layergraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keylayer/keylayerd/internal/layergraph"
)

func TestAddEdgeCoalescesScanCodes(t *testing.T) {
	g := layergraph.New(3)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(0, 1, 0x02)

	to, ok := g.EdgeTarget(0, 0x01)
	require.True(t, ok)
	assert.EqualValues(t, 1, to)

	to, ok = g.EdgeTarget(0, 0x02)
	require.True(t, ok)
	assert.EqualValues(t, 1, to)

	assert.Equal(t, 1, g.OutDegree(0))
}

func TestEdgeTargetUnknownScanCode(t *testing.T) {
	g := layergraph.New(2)
	g.AddEdge(0, 1, 0x01)

	_, ok := g.EdgeTarget(0, 0x99)
	assert.False(t, ok)
}

func TestRemoveEdgeReturnsScanCodesAndCleansUpEmptyAdjacency(t *testing.T) {
	g := layergraph.New(2)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(0, 1, 0x02)

	codes := g.RemoveEdge(0, 1)
	assert.ElementsMatch(t, []uint16{0x01, 0x02}, codes)
	assert.Equal(t, 0, g.OutDegree(0))

	assert.Nil(t, g.RemoveEdge(0, 1))
}

func TestCloneIsDeepCopy(t *testing.T) {
	g := layergraph.New(2)
	g.AddEdge(0, 1, 0x01)

	clone := g.Clone()
	clone.AddEdge(0, 1, 0x02)

	_, ok := g.EdgeTarget(0, 0x02)
	assert.False(t, ok, "mutating the clone must not affect the original")

	_, ok = clone.EdgeTarget(0, 0x02)
	assert.True(t, ok)
}

func TestNodesAndNodeCount(t *testing.T) {
	g := layergraph.New(4)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, []layergraph.NodeID{0, 1, 2, 3}, g.Nodes())
}

func TestTopologicalOrderLinearChain(t *testing.T) {
	g := layergraph.New(3)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(1, 2, 0x02)

	order, err := layergraph.TopologicalOrder(g)
	require.NoError(t, err)
	assert.Equal(t, []layergraph.NodeID{0, 1, 2}, order)
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	g := layergraph.New(2)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(1, 0, 0x02)

	_, err := layergraph.TopologicalOrder(g)
	assert.ErrorIs(t, err, layergraph.ErrCycle)
}

func TestTopologicalOrderSelfLoopIsCycle(t *testing.T) {
	g := layergraph.New(1)
	g.AddEdge(0, 0, 0x01)

	_, err := layergraph.TopologicalOrder(g)
	assert.ErrorIs(t, err, layergraph.ErrCycle)
}

func TestSourcesFindsZeroIndegreeNodes(t *testing.T) {
	g := layergraph.New(3)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(0, 2, 0x02)

	assert.Equal(t, []layergraph.NodeID{0}, layergraph.Sources(g))
}

func TestSourcesWithDisconnectedNodes(t *testing.T) {
	g := layergraph.New(4)
	g.AddEdge(0, 1, 0x01)
	// nodes 2 and 3 have no edges at all.
	assert.ElementsMatch(t, []layergraph.NodeID{0, 2, 3}, layergraph.Sources(g))
}

func TestAllSimplePathsDiamond(t *testing.T) {
	g := layergraph.New(4)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(0, 2, 0x02)
	g.AddEdge(1, 3, 0x03)
	g.AddEdge(2, 3, 0x04)

	paths := layergraph.AllSimplePaths(g, 0, 3)
	require.Len(t, paths, 2)
	assert.Contains(t, paths, []layergraph.NodeID{0, 1, 3})
	assert.Contains(t, paths, []layergraph.NodeID{0, 2, 3})
}

func TestAllSimplePathsNoPath(t *testing.T) {
	g := layergraph.New(3)
	g.AddEdge(0, 1, 0x01)

	paths := layergraph.AllSimplePaths(g, 0, 2)
	assert.Empty(t, paths)
}

func TestReverseEdgesOnPathsSimpleChain(t *testing.T) {
	g := layergraph.New(3)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(1, 2, 0x02)

	layergraph.ReverseEdgesOnPaths(g, 0, 2)

	_, ok := g.EdgeTarget(0, 0x01)
	assert.False(t, ok, "forward edge must be gone")

	to, ok := g.EdgeTarget(2, 0x02)
	require.True(t, ok)
	assert.EqualValues(t, 1, to)

	to, ok = g.EdgeTarget(1, 0x01)
	require.True(t, ok)
	assert.EqualValues(t, 0, to)
}

func TestReverseEdgesOnPathsSharedPathDoesNotDoubleReverse(t *testing.T) {
	// Diamond: 0->1->3 and 0->2->3. Locking to 3 must reverse each edge
	// exactly once even though multiple paths traverse overlapping nodes.
	g := layergraph.New(4)
	g.AddEdge(0, 1, 0x01)
	g.AddEdge(0, 2, 0x02)
	g.AddEdge(1, 3, 0x03)
	g.AddEdge(2, 3, 0x04)

	require.NotPanics(t, func() {
		layergraph.ReverseEdgesOnPaths(g, 0, 3)
	})

	to, ok := g.EdgeTarget(3, 0x03)
	require.True(t, ok)
	assert.EqualValues(t, 1, to)

	to, ok = g.EdgeTarget(3, 0x04)
	require.True(t, ok)
	assert.EqualValues(t, 2, to)
}
