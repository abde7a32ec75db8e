package octree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

func newTestPoint(x, y, z float32) *data.Point {
	return data.NewPoint(geometry.Vec3{X: x, Y: y, Z: z}, 255, 128, 0)
}

func TestCapacityOverflowSubdivides(t *testing.T) {
	tree := NewOctTree(10, 2, 3)

	tree.AddPoint(newTestPoint(0, 0, 0))
	tree.AddPoint(newTestPoint(0, 0, 0.1))
	require.True(t, tree.RootNode().IsLeaf())

	// The third point overflows the root, which must subdivide and then
	// subdivide again because both buffered points share octant 7 of the
	// root with the new one.
	tree.AddPoint(newTestPoint(9, 9, 9))

	root := tree.RootNode()
	require.False(t, root.IsLeaf())
	require.EqualValues(t, 3, root.NumberOfPoints())
	require.EqualValues(t, 0, tree.DiscardedOutOfBounds())
	require.EqualValues(t, 0, tree.DiscardedMaxDepth())

	children := root.LabeledChildren()
	require.Len(t, children, 8)
	for _, labeled := range children {
		if labeled.Octant == 7 {
			require.False(t, labeled.Node.IsLeaf())
			require.EqualValues(t, 3, labeled.Node.NumberOfPoints())
		} else {
			require.True(t, labeled.Node.IsLeaf())
			require.True(t, labeled.Node.IsEmpty())
		}
	}

	var grandChildren [8]*OctNode
	for _, labeled := range children[7].Node.LabeledChildren() {
		grandChildren[labeled.Octant] = labeled.Node
	}
	require.Len(t, grandChildren[0].GetPoints(), 2, "origin points end up in the lower corner of octant 7")
	require.Len(t, grandChildren[7].GetPoints(), 1)
}

func TestMaxDepthZeroDropsOverflow(t *testing.T) {
	tree := NewOctTree(10, 1000, 0)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2500; i++ {
		x := rng.Float32()*20 - 10
		y := rng.Float32()*20 - 10
		z := rng.Float32()*20 - 10
		tree.AddPoint(newTestPoint(x, y, z))
	}

	require.True(t, tree.RootNode().IsLeaf(), "max depth 0 forbids subdivision")
	require.EqualValues(t, 1000, tree.NumberOfPoints())
	require.Len(t, tree.RootNode().GetPoints(), 1000)
	require.EqualValues(t, 1500, tree.DiscardedMaxDepth())
	require.EqualValues(t, 0, tree.DiscardedOutOfBounds())
}

func TestOutOfBoundsPointsAreCounted(t *testing.T) {
	tree := NewOctTree(1, 10, 2)

	tree.AddPoint(newTestPoint(0, 0, 0))
	tree.AddPoint(newTestPoint(1, 0, 0)) // on the max face, outside
	tree.AddPoint(newTestPoint(-1, -1, -1))
	tree.AddPoint(newTestPoint(5, 5, 5))

	require.EqualValues(t, 2, tree.NumberOfPoints())
	require.EqualValues(t, 2, tree.DiscardedOutOfBounds())
	require.EqualValues(t, 0, tree.DiscardedMaxDepth())
}

func TestSubtreeCountsAreConserved(t *testing.T) {
	tree := NewOctTree(10, 4, 6)

	rng := rand.New(rand.NewSource(7))
	const numPoints = 2000
	for i := 0; i < numPoints; i++ {
		x := rng.Float32()*20 - 10
		y := rng.Float32()*20 - 10
		z := rng.Float32()*20 - 10
		tree.AddPoint(newTestPoint(x, y, z))
	}

	accepted := tree.NumberOfPoints()
	dropped := int64(tree.DiscardedMaxDepth() + tree.DiscardedOutOfBounds())
	require.EqualValues(t, numPoints, accepted+dropped)

	require.EqualValues(t, accepted, countLeafPoints(tree.RootNode()),
		"subtree counters must match the points actually stored in leaves")
	checkInvariants(t, tree.RootNode())
}

// countLeafPoints sums the buffer lengths over all leaves.
func countLeafPoints(node *OctNode) int64 {
	if node.IsLeaf() {
		return int64(len(node.GetPoints()))
	}
	var total int64
	for _, labeled := range node.LabeledChildren() {
		total += countLeafPoints(labeled.Node)
	}
	return total
}

// checkInvariants verifies that every node is either a leaf with points or
// an internal node with eight children and no own buffer, that every stored
// point lies within its leaf bounds, and that counts aggregate.
func checkInvariants(t *testing.T, node *OctNode) {
	t.Helper()
	if node.IsLeaf() {
		for _, point := range node.GetPoints() {
			require.True(t, node.Bounds().Contains(point.Position))
		}
		require.EqualValues(t, len(node.GetPoints()), node.NumberOfPoints())
		return
	}

	require.Empty(t, node.GetPoints(), "internal nodes hold no points")
	var childSum int64
	for _, labeled := range node.LabeledChildren() {
		childSum += labeled.Node.NumberOfPoints()
		checkInvariants(t, labeled.Node)
	}
	require.Equal(t, node.NumberOfPoints(), childSum)
}

func TestAverageColorAggregates(t *testing.T) {
	tree := NewOctTree(10, 1, 4)

	red := data.NewPoint(geometry.Vec3{X: -5, Y: -5, Z: -5}, 200, 0, 0)
	blue := data.NewPoint(geometry.Vec3{X: 5, Y: 5, Z: 5}, 0, 0, 100)
	tree.AddPoint(red)
	tree.AddPoint(blue)

	average := tree.RootNode().AverageColor()
	require.InDelta(t, 100, float64(average.X), 1e-4)
	require.InDelta(t, 0, float64(average.Y), 1e-4)
	require.InDelta(t, 50, float64(average.Z), 1e-4)
}

func TestDeterministicInsertion(t *testing.T) {
	build := func() *OctTree {
		tree := NewOctTree(10, 3, 5)
		rng := rand.New(rand.NewSource(99))
		for i := 0; i < 500; i++ {
			x := rng.Float32()*20 - 10
			y := rng.Float32()*20 - 10
			z := rng.Float32()*20 - 10
			tree.AddPoint(newTestPoint(x, y, z))
		}
		return tree
	}

	first := build()
	second := build()
	requireSameShape(t, first.RootNode(), second.RootNode())
}

func requireSameShape(t *testing.T, a, b *OctNode) {
	t.Helper()
	require.Equal(t, a.IsLeaf(), b.IsLeaf())
	require.Equal(t, a.NumberOfPoints(), b.NumberOfPoints())
	if a.IsLeaf() {
		require.Equal(t, len(a.GetPoints()), len(b.GetPoints()))
		for i, point := range a.GetPoints() {
			require.Equal(t, point.Position, b.GetPoints()[i].Position)
		}
		return
	}
	childrenA := a.LabeledChildren()
	childrenB := b.LabeledChildren()
	for i := range childrenA {
		requireSameShape(t, childrenA[i].Node, childrenB[i].Node)
	}
}

func TestInvalidConfigurationPanics(t *testing.T) {
	require.Panics(t, func() { NewOctTree(10, 0, 3) })
	require.Panics(t, func() { NewOctTree(10, -5, 3) })
	require.Panics(t, func() { NewOctTree(10, 10, -1) })
}
