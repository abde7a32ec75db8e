package geometry

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Vec3 is a single-precision 3D vector. Positions and colors are stored in
// float32 because that is what both tile formats put on the wire.
type Vec3 struct {
	X float32
	Y float32
	Z float32
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) Scale(factor float32) Vec3 {
	return Vec3{v.X * factor, v.Y * factor, v.Z * factor}
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Min returns the componentwise minimum of the two vectors.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{
		math32.Min(v.X, other.X),
		math32.Min(v.Y, other.Y),
		math32.Min(v.Z, other.Z),
	}
}

// Max returns the componentwise maximum of the two vectors.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{
		math32.Max(v.X, other.X),
		math32.Max(v.Y, other.Y),
		math32.Max(v.Z, other.Z),
	}
}

// Pack serializes the vector as 3 little-endian float32 values, the layout
// used by both content encoders.
func (v Vec3) Pack() [12]byte {
	var out [12]byte
	binary.LittleEndian.PutUint32(out[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(out[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(out[8:12], math.Float32bits(v.Z))
	return out
}

// MaxVec3 has every component set to the largest float32. Useful as the
// starting value of a running minimum.
var MaxVec3 = Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}

// MinVec3 has every component set to the most negative float32.
var MinVec3 = Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
