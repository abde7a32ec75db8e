package data

import "github.com/chaosgame/gochaostiler/internal/geometry"

// Point is a single colored point of the fractal cloud together with the
// metadata used for styling. Points are created once by the generator and
// moved into exactly one octree leaf; they are never mutated afterwards.
type Point struct {
	// Position of the point in the local cartesian space of the plot.
	Position geometry.Vec3
	// R, G, B color components.
	R uint8
	G uint8
	B uint8
	// ClusterCoord holds the u, (maybe) v and (maybe) w coordinates of the
	// point within its cluster shape. Interpretation depends on the cluster
	// type.
	ClusterCoord geometry.Vec3
	// Iteration is the iteration number at which the point was plotted.
	Iteration uint64
	// ClusterCopy identifies which copy of the initial set produced the point.
	ClusterCopy uint16
	// ClusterID identifies the sub-cluster within a multi-cluster set.
	ClusterID uint16
	// PointID is the ID of the point within its cluster.
	PointID uint16
	// LastXform is the index of the last position transform applied.
	LastXform uint8
	// LastColorXform is the index of the last color transform applied.
	LastColorXform uint8
}

// NewPoint builds a point from position and color. The metadata fields are
// filled in by the generator.
func NewPoint(position geometry.Vec3, r, g, b uint8) *Point {
	return &Point{Position: position, R: r, G: g, B: b}
}

// ColorVec returns the color as a vector of components in [0, 255]. Used for
// the running color sums kept by octree nodes.
func (p *Point) ColorVec() geometry.Vec3 {
	return geometry.Vec3{X: float32(p.R), Y: float32(p.G), Z: float32(p.B)}
}
