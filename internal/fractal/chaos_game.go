package fractal

import (
	"github.com/chaosgame/gochaostiler/internal/data"
	"github.com/chaosgame/gochaostiler/internal/geometry"
)

// The first iterations of a chaos game wander from the initial set towards
// the attractor, so they are not plotted.
const startupIterations = 10

// ChaosGame runs an iterated function system over copies of an initial
// point set and emits every plotted point to a caller supplied sink. The
// sink is typically OctTree.AddPoint.
type ChaosGame struct {
	positionIFS *IFS
	colorIFS    *IFS
	initialSet  InitialSet
	copies      uint16
	iterations  uint64
}

func NewChaosGame(positionIFS, colorIFS *IFS, initialSet InitialSet, copies uint16, iterations uint64) *ChaosGame {
	return &ChaosGame{
		positionIFS: positionIFS,
		colorIFS:    colorIFS,
		initialSet:  initialSet,
		copies:      copies,
		iterations:  iterations,
	}
}

// Complexity estimates how many points a full run emits.
func (g *ChaosGame) Complexity() uint64 {
	return uint64(g.copies) * uint64(g.initialSet.Len()) * g.iterations
}

// trackedPoint carries the per-point state that evolves between iterations.
// Colors are iterated in [0, 1] space and only quantized to bytes when a
// point is plotted.
type trackedPoint struct {
	position geometry.Vec3
	color    geometry.Vec3
	seed     *data.Point
}

// Run plays the chaos game. Every copy of the initial set is iterated
// through the position and color systems; after the startup iterations each
// step plots a snapshot of every tracked point.
func (g *ChaosGame) Run(plot func(*data.Point)) {
	var iteration uint64

	for copyID := uint16(0); copyID < g.copies; copyID++ {
		seeds := g.initialSet.Generate(copyID)
		tracked := make([]trackedPoint, len(seeds))
		for i, seed := range seeds {
			tracked[i] = trackedPoint{
				position: seed.Position,
				color: geometry.Vec3{
					X: float32(seed.R) / 255,
					Y: float32(seed.G) / 255,
					Z: float32(seed.B) / 255,
				},
				seed: seed,
			}
		}

		totalIterations := g.iterations + startupIterations
		for i := uint64(0); i < totalIterations; i++ {
			// The whole set moves through the same pair of transforms each
			// step so the cluster keeps its shape.
			xformIndex := g.positionIFS.chooser.Choose()
			colorXformIndex := g.colorIFS.chooser.Choose()

			for j := range tracked {
				tracked[j].position = g.positionIFS.xforms[xformIndex].Apply(tracked[j].position)
				tracked[j].color = g.colorIFS.xforms[colorXformIndex].Apply(tracked[j].color)
			}

			if i < startupIterations {
				continue
			}
			iteration++
			for j := range tracked {
				plot(g.snapshot(&tracked[j], iteration, uint8(xformIndex), uint8(colorXformIndex)))
			}
		}
	}
}

// snapshot freezes the current state of a tracked point into an immutable
// output point.
func (g *ChaosGame) snapshot(t *trackedPoint, iteration uint64, lastXform, lastColorXform uint8) *data.Point {
	point := data.NewPoint(t.position,
		colorByte(t.color.X), colorByte(t.color.Y), colorByte(t.color.Z))
	point.ClusterCoord = t.seed.ClusterCoord
	point.Iteration = iteration
	point.ClusterCopy = t.seed.ClusterCopy
	point.ClusterID = t.seed.ClusterID
	point.PointID = t.seed.PointID
	point.LastXform = lastXform
	point.LastColorXform = lastColorXform
	return point
}
