package fractal

import (
	"math/rand"

	"github.com/chaosgame/gochaostiler/internal/geometry"
)

// Chooser selects which transform of an IFS to apply next.
type Chooser interface {
	Choose() int
}

// UniformChooser picks transforms uniformly at random. The RNG is owned by
// the caller so that a whole run can be made deterministic from one seed.
type UniformChooser struct {
	rng       *rand.Rand
	numXforms int
}

func NewUniformChooser(rng *rand.Rand, numXforms int) *UniformChooser {
	return &UniformChooser{rng: rng, numXforms: numXforms}
}

func (c *UniformChooser) Choose() int {
	return c.rng.Intn(c.numXforms)
}

// IFS is an iterated function system: a set of transforms plus a strategy
// for choosing the next one.
type IFS struct {
	xforms  []AffineXform
	chooser Chooser
}

func NewIFS(xforms []AffineXform, chooser Chooser) *IFS {
	return &IFS{xforms: xforms, chooser: chooser}
}

// IdentityIFS returns an IFS with the single identity transform.
func IdentityIFS() *IFS {
	return &IFS{
		xforms:  []AffineXform{IdentityXform()},
		chooser: fixedChooser{},
	}
}

type fixedChooser struct{}

func (fixedChooser) Choose() int { return 0 }

// NumXforms returns how many transforms the system holds.
func (f *IFS) NumXforms() int {
	return len(f.xforms)
}

// Transform applies one randomly chosen transform and reports its index.
func (f *IFS) Transform(v geometry.Vec3) (geometry.Vec3, uint8) {
	index := f.chooser.Choose()
	return f.xforms[index].Apply(v), uint8(index)
}
