package fractal

import "github.com/chaosgame/gochaostiler/internal/geometry"

// AffineXform is one transformation of an iterated function system:
// v -> M*v + t with a 3x3 matrix M in row-major order.
type AffineXform struct {
	Matrix      [9]float32
	Translation geometry.Vec3
}

// IdentityXform returns the do-nothing transform, used as the default color
// IFS when none is configured.
func IdentityXform() AffineXform {
	return AffineXform{Matrix: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// ScaleXform returns a uniform scale towards a fixed point, the building
// block of Sierpinski-style attractors: v -> fixed + s*(v - fixed).
func ScaleXform(scale float32, fixed geometry.Vec3) AffineXform {
	return AffineXform{
		Matrix:      [9]float32{scale, 0, 0, 0, scale, 0, 0, 0, scale},
		Translation: fixed.Scale(1 - scale),
	}
}

// Apply transforms a single vector.
func (x AffineXform) Apply(v geometry.Vec3) geometry.Vec3 {
	m := x.Matrix
	return geometry.Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + x.Translation.X,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z + x.Translation.Y,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z + x.Translation.Z,
	}
}
