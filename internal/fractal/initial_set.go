package fractal

import (
	"math/rand"

	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

// InitialSet arranges the points that seed one pass of the chaos game.
// Generate may be called once per cluster copy and must produce a fresh set
// each time.
type InitialSet interface {
	Generate(clusterCopy uint16) []*data.Point
	Len() int
}

// RandomBox generates N points uniformly distributed over a cuboid, all
// starting with the same solid color.
type RandomBox struct {
	center     geometry.Vec3
	dimensions geometry.Vec3
	color      geometry.Vec3 // components in [0, 1]
	numPoints  int
	rng        *rand.Rand
}

func NewRandomBox(rng *rand.Rand, center, dimensions, color geometry.Vec3, numPoints int) *RandomBox {
	return &RandomBox{
		center:     center,
		dimensions: dimensions,
		color:      color,
		numPoints:  numPoints,
		rng:        rng,
	}
}

func (b *RandomBox) Len() int {
	return b.numPoints
}

func (b *RandomBox) Generate(clusterCopy uint16) []*data.Point {
	halfDims := b.dimensions.Scale(0.5)
	min := b.center.Sub(halfDims)

	points := make([]*data.Point, 0, b.numPoints)
	for i := 0; i < b.numPoints; i++ {
		u := b.rng.Float32()
		v := b.rng.Float32()
		w := b.rng.Float32()
		position := geometry.Vec3{
			X: min.X + u*b.dimensions.X,
			Y: min.Y + v*b.dimensions.Y,
			Z: min.Z + w*b.dimensions.Z,
		}

		point := data.NewPoint(position, colorByte(b.color.X), colorByte(b.color.Y), colorByte(b.color.Z))
		point.ClusterCoord = geometry.Vec3{X: u, Y: v, Z: w}
		point.ClusterCopy = clusterCopy
		point.PointID = uint16(i)
		points = append(points, point)
	}
	return points
}

// RandomLine generates N points along a line segment. The cluster
// coordinate u records where along the segment each point falls.
type RandomLine struct {
	start     geometry.Vec3
	end       geometry.Vec3
	color     geometry.Vec3
	numPoints int
	rng       *rand.Rand
}

func NewRandomLine(rng *rand.Rand, start, end, color geometry.Vec3, numPoints int) *RandomLine {
	return &RandomLine{
		start:     start,
		end:       end,
		color:     color,
		numPoints: numPoints,
		rng:       rng,
	}
}

func (l *RandomLine) Len() int {
	return l.numPoints
}

func (l *RandomLine) Generate(clusterCopy uint16) []*data.Point {
	direction := l.end.Sub(l.start)

	points := make([]*data.Point, 0, l.numPoints)
	for i := 0; i < l.numPoints; i++ {
		u := l.rng.Float32()
		position := l.start.Add(direction.Scale(u))

		point := data.NewPoint(position, colorByte(l.color.X), colorByte(l.color.Y), colorByte(l.color.Z))
		point.ClusterCoord = geometry.Vec3{X: u}
		point.ClusterCopy = clusterCopy
		point.PointID = uint16(i)
		points = append(points, point)
	}
	return points
}

// colorByte converts a color component from [0, 1] to a byte, clamping out
// of range values rather than wrapping them.
func colorByte(component float32) uint8 {
	if component <= 0 {
		return 0
	}
	if component >= 1 {
		return 255
	}
	return uint8(component * 255)
}
