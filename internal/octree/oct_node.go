package octree

import (
	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

// OctNode models a node of the octree. A node is either a leaf owning a
// bounded point buffer, or an internal node owning exactly eight children,
// one per octant. Once a node subdivides it never reverts to a leaf.
type OctNode struct {
	bounds   geometry.BoundingBox
	children *[8]*OctNode
	points   []*data.Point
	capacity int
	// count and colorSum cover the whole subtree rooted at this node. They
	// are maintained by post-order propagation during insertion.
	count    int64
	colorSum geometry.Vec3
}

func newOctNode(bounds geometry.BoundingBox, capacity int) *OctNode {
	return &OctNode{
		bounds:   bounds,
		points:   make([]*data.Point, 0, capacity),
		capacity: capacity,
	}
}

func (n *OctNode) IsLeaf() bool {
	return n.children == nil
}

func (n *OctNode) IsEmpty() bool {
	return n.count == 0
}

func (n *OctNode) IsFull() bool {
	return len(n.points) >= n.capacity
}

func (n *OctNode) Bounds() geometry.BoundingBox {
	return n.bounds
}

// GetPoints returns the leaf buffer. Internal nodes hold no points of their
// own and return an empty slice.
func (n *OctNode) GetPoints() []*data.Point {
	return n.points
}

// NumberOfPoints is the number of points stored in this node's subtree.
func (n *OctNode) NumberOfPoints() int64 {
	return n.count
}

// AverageColor returns the mean color of all points below this node, for
// LOD-averaged display at ancestors. Only meaningful when the subtree is
// non-empty.
func (n *OctNode) AverageColor() geometry.Vec3 {
	if n.count == 0 {
		return geometry.Vec3{}
	}
	return n.colorSum.Scale(1 / float32(n.count))
}

func (n *OctNode) GeometricError() float32 {
	return n.bounds.GeometricError()
}

// LabeledChild identifies a child node by its octant index.
type LabeledChild struct {
	Octant int
	Node   *OctNode
}

// LabeledChildren returns the children paired with their octant index, in
// octant order. Leaves return nil.
func (n *OctNode) LabeledChildren() []LabeledChild {
	if n.children == nil {
		return nil
	}
	labeled := make([]LabeledChild, 0, 8)
	for i, child := range n.children {
		labeled = append(labeled, LabeledChild{Octant: i, Node: child})
	}
	return labeled
}

// insert adds a point to the subtree rooted at this node and reports whether
// the point was accepted. depth is the depth of this node; bounds containment
// has already been checked at the root.
func (n *OctNode) insert(point *data.Point, depth, maxDepth int) bool {
	for {
		if n.IsLeaf() {
			if len(n.points) < n.capacity {
				n.points = append(n.points, point)
				n.count++
				n.colorSum = n.colorSum.Add(point.ColorVec())
				return true
			}
			if depth >= maxDepth {
				// Resolution limit reached: deliberate lossy drop, not an
				// error. The tree-level counter records it.
				return false
			}
			n.subdivide()
			// Retry the same insertion at the same depth, now as an
			// internal node.
			continue
		}

		octant := n.bounds.FindOctant(point.Position)
		accepted := n.children[octant].insert(point, depth+1, maxDepth)
		if accepted {
			// Bubble the subtree totals back up through the return path.
			n.count++
			n.colorSum = n.colorSum.Add(point.ColorVec())
		}
		return accepted
	}
}

// subdivide turns this leaf into an internal node, reassigning every
// buffered point to the child selected by this node's own center.
func (n *OctNode) subdivide() {
	childBounds := n.bounds.Subdivide()
	var children [8]*OctNode
	for i := range children {
		children[i] = newOctNode(childBounds[i], n.capacity)
	}

	for _, point := range n.points {
		octant := n.bounds.FindOctant(point.Position)
		child := children[octant]
		child.points = append(child.points, point)
		child.count++
		child.colorSum = child.colorSum.Add(point.ColorVec())
	}

	n.points = nil
	n.children = &children
}
