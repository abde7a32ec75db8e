package octree

import (
	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

// OctTree is the spatial index for one plotting run: a capacity and depth
// bounded octree rooted in a cube centered at the origin. Insertion assumes a
// single writer; the subtree counters are propagated through return values,
// not shared state, which is what makes that assumption sufficient.
type OctTree struct {
	root     *OctNode
	maxDepth int

	discardedOutOfBounds uint64
	discardedMaxDepth    uint64
}

// NewOctTree builds an empty tree covering a cube of side 2*radius centered
// at the origin. capacity must be positive; a zero capacity would make every
// insertion loop on subdivision, so it is rejected as a programmer error.
func NewOctTree(radius float32, capacity int, maxDepth int) *OctTree {
	if capacity <= 0 {
		panic("octree: node capacity must be positive")
	}
	if maxDepth < 0 {
		panic("octree: max depth must not be negative")
	}
	return &OctTree{
		root:     newOctNode(geometry.NewCubeBoundingBox(radius), capacity),
		maxDepth: maxDepth,
	}
}

func (t *OctTree) RootNode() *OctNode {
	return t.root
}

// AddPoint inserts a point from the top of the tree down. Points outside the
// root bounds are silently discarded; the check happens once here, not per
// node.
func (t *OctTree) AddPoint(point *data.Point) {
	if !t.root.Bounds().Contains(point.Position) {
		t.discardedOutOfBounds++
		return
	}
	if !t.root.insert(point, 0, t.maxDepth) {
		t.discardedMaxDepth++
	}
}

// NumberOfPoints is the number of points retained by the whole tree.
func (t *OctTree) NumberOfPoints() int64 {
	return t.root.NumberOfPoints()
}

// DiscardedOutOfBounds counts points dropped because they fell outside the
// root bounds.
func (t *OctTree) DiscardedOutOfBounds() uint64 {
	return t.discardedOutOfBounds
}

// DiscardedMaxDepth counts points dropped because a full leaf at the maximum
// depth could not subdivide further.
func (t *OctTree) DiscardedMaxDepth() uint64 {
	return t.discardedMaxDepth
}
