// Package analysis estimates the fractal dimension of a plotted point set
// with the box-counting method.
package analysis

import (
	"math"

	"github.com/chaosgame/gochaostiler/internal/geometry"
	"github.com/chaosgame/gochaostiler/internal/metadata"
)

type boxCoordinates struct {
	x, y, z uint64
}

// BoxCountingEstimator counts how many grid boxes contain at least one point
// at several grid resolutions. The grids match the octree levels: level d
// splits the plotting cube into 2^d boxes per side. The slope of
// log2(count) against log2(1/side) estimates the fractal dimension.
//
// See http://paulbourke.net/fractals/cubecount/ for the method.
type BoxCountingEstimator struct {
	radius float64
	levels int

	boxSideLengths []float64
	// One set of occupied box coordinates per level. Only the count matters,
	// so a set keeps memory proportional to the occupied boxes.
	boxes []map[boxCoordinates]struct{}
}

// NewBoxCountingEstimator creates an estimator covering the cube of the
// given radius. More levels give a better estimate but cost more memory.
func NewBoxCountingEstimator(radius float64, levels int) *BoxCountingEstimator {
	maxSideLength := 2 * radius
	boxSideLengths := make([]float64, levels)
	boxes := make([]map[boxCoordinates]struct{}, levels)
	for d := 0; d < levels; d++ {
		boxSideLengths[d] = maxSideLength / math.Exp2(float64(d))
		boxes[d] = make(map[boxCoordinates]struct{})
	}

	return &BoxCountingEstimator{
		radius:         radius,
		levels:         levels,
		boxSideLengths: boxSideLengths,
		boxes:          boxes,
	}
}

// AddPoint records which box the point falls in at every level. Coordinates
// are measured from the cube corner (-r, -r, -r) so they stay non-negative.
func (e *BoxCountingEstimator) AddPoint(position geometry.Vec3) {
	x := float64(position.X) + e.radius
	y := float64(position.Y) + e.radius
	z := float64(position.Z) + e.radius

	for d := 0; d < e.levels; d++ {
		sideLength := e.boxSideLengths[d]
		coords := boxCoordinates{
			x: uint64(math.Floor(x / sideLength)),
			y: uint64(math.Floor(y / sideLength)),
			z: uint64(math.Floor(z / sideLength)),
		}
		e.boxes[d][coords] = struct{}{}
	}
}

// EstimateFractalDimension fits a line through the per-level measurements
// and returns its slope.
//
// Fractal dimension is lim(eps -> 0) log(N(eps)) / log(1/eps), where eps is
// the box side length and N(eps) the occupied box count at that resolution.
// Each level contributes one sample of that ratio; a least squares fit of
// log2(N) against -log2(eps) estimates the limit.
func (e *BoxCountingEstimator) EstimateFractalDimension() float64 {
	if e.levels < 2 {
		return 0
	}

	n := float64(e.levels)
	var sumX, sumY, sumXY, sumXX float64
	for d := 0; d < e.levels; d++ {
		x := -math.Log2(e.boxSideLengths[d])
		y := math.Log2(float64(len(e.boxes[d])))
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// UpdateMetadata stores the estimate and its raw measurements on the run
// metadata.
func (e *BoxCountingEstimator) UpdateMetadata(meta *metadata.FractalMetadata) {
	meta.FractalDimension = e.EstimateFractalDimension()
	meta.FractalDimensionLevels = uint8(e.levels)
	meta.BoxSizes = append([]float64(nil), e.boxSideLengths...)

	boxCounts := make([]uint64, e.levels)
	for d := 0; d < e.levels; d++ {
		boxCounts[d] = uint64(len(e.boxes[d]))
	}
	meta.BoxCounts = boxCounts
}
