package fractal

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/pkg/errors"

	"github.com/chaosgame/gochaostiler/internal/geometry"
	"github.com/chaosgame/gochaostiler/internal/metadata"
)

// Params is the JSON document that configures one plotting run. A minimal
// example:
//
//	{
//	    "algorithm": "chaos_game",
//	    "iterations": 10000,
//	    "seed": 42,
//	    "ifs": {"xforms": [
//	        {"type": "scale", "scale": 0.5, "fixed": [1, 1, 1]},
//	        {"type": "scale", "scale": 0.5, "fixed": [-1, -1, -1]}
//	    ]},
//	    "initial_set": {
//	        "type": "box",
//	        "center": [0, 0, 0],
//	        "dims": [1, 1, 1],
//	        "color": [1, 0.5, 0],
//	        "num_points": 100,
//	        "copies": 4
//	    },
//	    "plotter": {"radius": 2, "node_capacity": 5000, "max_depth": 10}
//	}
//
// color_ifs is optional and defaults to the identity system, which keeps the
// initial colors untouched.
type Params struct {
	Algorithm  string           `json:"algorithm"`
	Iterations uint64           `json:"iterations"`
	Seed       int64            `json:"seed"`
	IFS        IfsParams        `json:"ifs"`
	ColorIFS   *IfsParams       `json:"color_ifs"`
	InitialSet InitialSetParams `json:"initial_set"`
	Plotter    PlotterParams    `json:"plotter"`
}

type IfsParams struct {
	Xforms []XformParams `json:"xforms"`
}

// XformParams describes one transform. type selects the variant:
// "affine" uses matrix (9 values, row-major) and translation, "scale" uses
// scale and fixed.
type XformParams struct {
	Type        string    `json:"type"`
	Matrix      []float32 `json:"matrix"`
	Translation []float32 `json:"translation"`
	Scale       float32   `json:"scale"`
	Fixed       []float32 `json:"fixed"`
}

type InitialSetParams struct {
	Type      string    `json:"type"`
	Center    []float32 `json:"center"`
	Dims      []float32 `json:"dims"`
	Start     []float32 `json:"start"`
	End       []float32 `json:"end"`
	Color     []float32 `json:"color"`
	NumPoints int       `json:"num_points"`
	Copies    uint16    `json:"copies"`
}

type PlotterParams struct {
	Radius       float32 `json:"radius"`
	NodeCapacity int     `json:"node_capacity"`
	MaxDepth     int     `json:"max_depth"`
}

const algorithmChaosGame = "chaos_game"

// LoadParams reads and validates a params document from disk.
func LoadParams(path string) (*Params, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read params file %s", path)
	}

	params := &Params{
		Algorithm: algorithmChaosGame,
		Plotter: PlotterParams{
			Radius:       defaultRadius,
			NodeCapacity: defaultNodeCapacity,
			MaxDepth:     defaultMaxDepth,
		},
	}
	if err := json.Unmarshal(content, params); err != nil {
		return nil, errors.Wrapf(err, "cannot parse params file %s", path)
	}
	if err := params.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid params file %s", path)
	}
	return params, nil
}

const (
	defaultRadius       = 2
	defaultNodeCapacity = 5000
	defaultMaxDepth     = 10
)

func (p *Params) validate() error {
	if p.Algorithm != algorithmChaosGame {
		return errors.Errorf("unknown algorithm %q", p.Algorithm)
	}
	if p.Iterations == 0 {
		return errors.New("iterations must be positive")
	}
	if len(p.IFS.Xforms) == 0 {
		return errors.New("ifs must declare at least one xform")
	}
	if len(p.IFS.Xforms) > 255 || (p.ColorIFS != nil && len(p.ColorIFS.Xforms) > 255) {
		return errors.New("an ifs holds at most 255 xforms")
	}
	if p.InitialSet.NumPoints <= 0 {
		return errors.New("initial_set.num_points must be positive")
	}
	if p.Plotter.Radius <= 0 {
		return errors.New("plotter.radius must be positive")
	}
	if p.Plotter.NodeCapacity <= 0 {
		return errors.New("plotter.node_capacity must be positive")
	}
	if p.Plotter.MaxDepth < 0 {
		return errors.New("plotter.max_depth cannot be negative")
	}
	return nil
}

// BuildGame assembles the chaos game this document describes. All random
// choices flow from a single seeded source so runs are reproducible.
func (p *Params) BuildGame() (*ChaosGame, error) {
	rng := rand.New(rand.NewSource(p.Seed))

	positionIFS, err := p.IFS.build(rng)
	if err != nil {
		return nil, errors.Wrap(err, "ifs")
	}

	colorIFS := IdentityIFS()
	if p.ColorIFS != nil {
		colorIFS, err = p.ColorIFS.build(rng)
		if err != nil {
			return nil, errors.Wrap(err, "color_ifs")
		}
	}

	initialSet, err := p.InitialSet.build(rng)
	if err != nil {
		return nil, errors.Wrap(err, "initial_set")
	}

	copies := p.InitialSet.Copies
	if copies == 0 {
		copies = 1
	}
	return NewChaosGame(positionIFS, colorIFS, initialSet, copies, p.Iterations), nil
}

// Metadata summarizes the run parameters for the tileset extension.
func (p *Params) Metadata() *metadata.FractalMetadata {
	colorXformCount := 1
	if p.ColorIFS != nil {
		colorXformCount = len(p.ColorIFS.Xforms)
	}
	copies := p.InitialSet.Copies
	if copies == 0 {
		copies = 1
	}
	return &metadata.FractalMetadata{
		Algorithm:            p.Algorithm,
		Iterations:           p.Iterations,
		InitialSetPointCount: uint16(p.InitialSet.NumPoints),
		InitialSetCopies:     copies,
		IfsXformCount:        uint8(len(p.IFS.Xforms)),
		ColorIfsXformCount:   uint8(colorXformCount),
		NodeCapacity:         uint16(p.Plotter.NodeCapacity),
	}
}

func (f *IfsParams) build(rng *rand.Rand) (*IFS, error) {
	xforms := make([]AffineXform, 0, len(f.Xforms))
	for i, xformParams := range f.Xforms {
		xform, err := xformParams.build()
		if err != nil {
			return nil, errors.Wrapf(err, "xform %d", i)
		}
		xforms = append(xforms, xform)
	}
	return NewIFS(xforms, NewUniformChooser(rng, len(xforms))), nil
}

func (x *XformParams) build() (AffineXform, error) {
	switch x.Type {
	case "affine":
		if len(x.Matrix) != 9 {
			return AffineXform{}, errors.Errorf("matrix must hold 9 values, got %d", len(x.Matrix))
		}
		xform := AffineXform{Translation: toVec3(x.Translation)}
		copy(xform.Matrix[:], x.Matrix)
		return xform, nil
	case "scale":
		if x.Scale == 0 {
			return AffineXform{}, errors.New("scale must be non-zero")
		}
		return ScaleXform(x.Scale, toVec3(x.Fixed)), nil
	default:
		return AffineXform{}, errors.Errorf("unknown xform type %q", x.Type)
	}
}

func (s *InitialSetParams) build(rng *rand.Rand) (InitialSet, error) {
	color := geometry.Vec3{X: 1, Y: 1, Z: 1}
	if len(s.Color) == 3 {
		color = toVec3(s.Color)
	}

	switch s.Type {
	case "box":
		dims := geometry.Vec3{X: 1, Y: 1, Z: 1}
		if len(s.Dims) == 3 {
			dims = toVec3(s.Dims)
		}
		return NewRandomBox(rng, toVec3(s.Center), dims, color, s.NumPoints), nil
	case "line":
		end := geometry.Vec3{X: 1}
		if len(s.End) == 3 {
			end = toVec3(s.End)
		}
		return NewRandomLine(rng, toVec3(s.Start), end, color, s.NumPoints), nil
	default:
		return nil, errors.Errorf("unknown initial set type %q", s.Type)
	}
}

// toVec3 reads up to three components, leaving missing ones at zero.
func toVec3(components []float32) geometry.Vec3 {
	var v geometry.Vec3
	if len(components) > 0 {
		v.X = components[0]
	}
	if len(components) > 1 {
		v.Y = components[1]
	}
	if len(components) > 2 {
		v.Z = components[2]
	}
	return v
}
