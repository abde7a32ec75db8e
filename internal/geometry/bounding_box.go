package geometry

// Bit assigned to each axis in an octant index.
const (
	xBit = 0b001
	yBit = 0b010
	zBit = 0b100
)

// BoundingBox is an axis-aligned cuboid. Containment is evaluated on the
// half-open interval [Min, Max) so that a point on a shared face belongs to
// exactly one of two adjacent boxes.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// NewBoundingBox builds a box from its two corners. Min must be <= Max on
// every axis.
func NewBoundingBox(min, max Vec3) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// NewCubeBoundingBox builds a cube of side 2*radius centered at the origin,
// the shape used for the octree root.
func NewCubeBoundingBox(radius float32) BoundingBox {
	return BoundingBox{
		Min: Vec3{-radius, -radius, -radius},
		Max: Vec3{radius, radius, radius},
	}
}

func (b BoundingBox) Center() Vec3 {
	return Vec3{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// Contains reports whether the point lies within [Min, Max) on all three
// axes.
func (b BoundingBox) Contains(p Vec3) bool {
	return b.Min.X <= p.X && p.X < b.Max.X &&
		b.Min.Y <= p.Y && p.Y < b.Max.Y &&
		b.Min.Z <= p.Z && p.Z < b.Max.Z
}

// FindOctant returns the 3-bit octant index of the point relative to the box
// center. The ordering agrees with Subdivide: Subdivide()[b.FindOctant(p)]
// contains p for any p inside the box.
func (b BoundingBox) FindOctant(p Vec3) int {
	center := b.Center()
	octant := 0
	if p.X >= center.X {
		octant |= xBit
	}
	if p.Y >= center.Y {
		octant |= yBit
	}
	if p.Z >= center.Z {
		octant |= zBit
	}
	return octant
}

// Octant returns the child box for a single octant index.
func (b BoundingBox) Octant(octant int) BoundingBox {
	center := b.Center()
	child := BoundingBox{Min: b.Min, Max: center}
	if octant&xBit != 0 {
		child.Min.X = center.X
		child.Max.X = b.Max.X
	}
	if octant&yBit != 0 {
		child.Min.Y = center.Y
		child.Max.Y = b.Max.Y
	}
	if octant&zBit != 0 {
		child.Min.Z = center.Z
		child.Max.Z = b.Max.Z
	}
	return child
}

// Subdivide splits the box at its center into 8 equal child boxes, ordered
// by octant index.
func (b BoundingBox) Subdivide() [8]BoundingBox {
	var children [8]BoundingBox
	for i := 0; i < 8; i++ {
		children[i] = b.Octant(i)
	}
	return children
}

// GeometricError is the length of the box diagonal, the LOD metric exposed
// in the tileset manifest.
func (b BoundingBox) GeometricError() float32 {
	return b.Max.Sub(b.Min).Length()
}

// BoundingVolume returns the 12-element "box" array of the 3D Tiles spec:
// center followed by the three half-axis vectors.
func (b BoundingBox) BoundingVolume() [12]float32 {
	center := b.Center()
	half := b.Max.Sub(b.Min).Scale(0.5)
	return [12]float32{
		center.X, center.Y, center.Z,
		half.X, 0, 0,
		0, half.Y, 0,
		0, 0, half.Z,
	}
}
