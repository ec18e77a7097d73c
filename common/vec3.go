package common

import "math"

// Epsilon is the tolerance used by every approximate comparison and near-zero guard in the math types.
const Epsilon float32 = 1e-6

// Vec3 is a three component float32 vector (x, y, z).
type Vec3 [3]float32

// Vec3One returns the unit scale vector (1, 1, 1).
func Vec3One() Vec3 {
	return Vec3{1, 1, 1}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v multiplied by the scalar f.
func (v Vec3) Scale(f float32) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// LenSq returns the squared length of v.
func (v Vec3) LenSq() float32 {
	return v.Dot(v)
}

// Len returns the length of v, or 0 when the vector is shorter than Epsilon.
func (v Vec3) Len() float32 {
	sq := v.LenSq()
	if sq < Epsilon {
		return 0
	}
	return float32(math.Sqrt(float64(sq)))
}

// Normalized returns v scaled to unit length.
// Vectors shorter than Epsilon are returned unchanged.
//
// Returns:
//   - Vec3: the unit vector, or v itself when it is degenerate
func (v Vec3) Normalized() Vec3 {
	sq := v.LenSq()
	if sq < Epsilon {
		return v
	}
	inv := 1 / float32(math.Sqrt(float64(sq)))
	return v.Scale(inv)
}

// Lerp linearly interpolates between v and o by t.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		v[0] + (o[0]-v[0])*t,
		v[1] + (o[1]-v[1])*t,
		v[2] + (o[2]-v[2])*t,
	}
}

// Equal reports whether v and o are within Epsilon of each other (squared distance).
func (v Vec3) Equal(o Vec3) bool {
	return v.Sub(o).LenSq() < Epsilon
}
