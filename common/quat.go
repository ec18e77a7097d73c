package common

import "math"

// Quat is a rotation quaternion stored as (x, y, z, w), w being the scalar part.
//
// Multiplication composes rotations in application order: a.Mul(b) rotates by a first and then by b.
type Quat [4]float32

// QuatIdentity returns the identity rotation (0, 0, 0, 1).
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// AngleAxis builds a rotation of angle radians around axis.
//
// Parameters:
//   - angle: rotation angle in radians
//   - axis: rotation axis; normalized internally
//
// Returns:
//   - Quat: the unit quaternion for the rotation
func AngleAxis(angle float32, axis Vec3) Quat {
	n := axis.Normalized()
	s := float32(math.Sin(float64(angle * 0.5)))
	return Quat{n[0] * s, n[1] * s, n[2] * s, float32(math.Cos(float64(angle * 0.5)))}
}

// FromTo builds the shortest-arc rotation that turns the direction from onto the direction to.
// Equal directions yield the identity. Opposite directions yield a half turn around an axis
// orthogonal to from, picked from the basis axis matching from's smallest-magnitude component.
//
// Parameters:
//   - from: source direction
//   - to: target direction
//
// Returns:
//   - Quat: the rotation from -> to
func FromTo(from, to Vec3) Quat {
	f := from.Normalized()
	t := to.Normalized()

	if f.Equal(t) {
		return QuatIdentity()
	}
	if f.Equal(t.Scale(-1)) {
		ortho := Vec3{1, 0, 0}
		ax, ay, az := abs32(f[0]), abs32(f[1]), abs32(f[2])
		if ay < ax {
			ortho = Vec3{0, 1, 0}
		}
		if az < ay && az < ax {
			ortho = Vec3{0, 0, 1}
		}
		axis := f.Cross(ortho).Normalized()
		return Quat{axis[0], axis[1], axis[2], 0}
	}

	half := f.Add(t).Normalized()
	axis := f.Cross(half)
	return Quat{axis[0], axis[1], axis[2], f.Dot(half)}
}

// LookRotation builds the rotation that points +Z along direction with +Y as close to up as possible.
// The basis is re-orthonormalized before use.
//
// Parameters:
//   - direction: desired forward direction
//   - up: reference up direction
//
// Returns:
//   - Quat: the normalized orientation
func LookRotation(direction, up Vec3) Quat {
	f := direction.Normalized()
	u := up.Normalized()
	r := u.Cross(f).Normalized()
	u = f.Cross(r).Normalized()

	worldToObject := FromTo(Vec3{0, 0, 1}, f)
	objectUp := worldToObject.Rotate(Vec3{0, 1, 0})

	var upToUp Quat
	if objectUp.Equal(u.Scale(-1)) {
		// half turn around forward keeps the forward axis fixed
		upToUp = Quat{f[0], f[1], f[2], 0}
	} else {
		upToUp = FromTo(objectUp, u)
	}

	return worldToObject.Mul(upToUp).Normalized()
}

// Vector returns the imaginary (x, y, z) part of q.
func (q Quat) Vector() Vec3 {
	return Vec3{q[0], q[1], q[2]}
}

// Axis returns the normalized rotation axis of q.
func (q Quat) Axis() Vec3 {
	return q.Vector().Normalized()
}

// Angle returns the rotation angle of q in radians.
func (q Quat) Angle() float32 {
	return 2 * float32(math.Acos(float64(clamp32(q[3], -1, 1))))
}

// Add returns the component-wise sum q + o.
func (q Quat) Add(o Quat) Quat {
	return Quat{q[0] + o[0], q[1] + o[1], q[2] + o[2], q[3] + o[3]}
}

// Sub returns the component-wise difference q - o.
func (q Quat) Sub(o Quat) Quat {
	return Quat{q[0] - o[0], q[1] - o[1], q[2] - o[2], q[3] - o[3]}
}

// Scale returns every component of q multiplied by f.
func (q Quat) Scale(f float32) Quat {
	return Quat{q[0] * f, q[1] * f, q[2] * f, q[3] * f}
}

// Neg returns -q, which encodes the same rotation as q.
func (q Quat) Neg() Quat {
	return Quat{-q[0], -q[1], -q[2], -q[3]}
}

// Dot returns the four dimensional dot product of q and o.
func (q Quat) Dot(o Quat) float32 {
	return q[0]*o[0] + q[1]*o[1] + q[2]*o[2] + q[3]*o[3]
}

// LenSq returns the squared length of q.
func (q Quat) LenSq() float32 {
	return q.Dot(q)
}

// Len returns the length of q, or 0 when it is shorter than Epsilon.
func (q Quat) Len() float32 {
	sq := q.LenSq()
	if sq < Epsilon {
		return 0
	}
	return float32(math.Sqrt(float64(sq)))
}

// Normalized returns q scaled to unit length.
// A degenerate quaternion normalizes to the identity.
func (q Quat) Normalized() Quat {
	sq := q.LenSq()
	if sq < Epsilon {
		return QuatIdentity()
	}
	return q.Scale(1 / float32(math.Sqrt(float64(sq))))
}

// Conjugate returns q with its vector part negated.
func (q Quat) Conjugate() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// Inverse returns the multiplicative inverse of q.
// A degenerate quaternion inverts to the identity.
func (q Quat) Inverse() Quat {
	sq := q.LenSq()
	if sq < Epsilon {
		return QuatIdentity()
	}
	inv := 1 / sq
	return Quat{-q[0] * inv, -q[1] * inv, -q[2] * inv, q[3] * inv}
}

// Mul composes two rotations: the result rotates by q first and then by o.
//
// Parameters:
//   - o: the rotation applied after q
//
// Returns:
//   - Quat: the composed rotation
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		o[0]*q[3] + o[1]*q[2] - o[2]*q[1] + o[3]*q[0],
		-o[0]*q[2] + o[1]*q[3] + o[2]*q[0] + o[3]*q[1],
		o[0]*q[1] - o[1]*q[0] + o[2]*q[3] + o[3]*q[2],
		-o[0]*q[0] - o[1]*q[1] - o[2]*q[2] + o[3]*q[3],
	}
}

// Rotate applies the rotation q to the vector v.
func (q Quat) Rotate(v Vec3) Vec3 {
	qv := q.Vector()
	w := q[3]
	a := qv.Scale(2 * qv.Dot(v))
	b := v.Scale(w*w - qv.Dot(qv))
	c := qv.Cross(v).Scale(2 * w)
	return a.Add(b).Add(c)
}

// Pow raises a unit quaternion to the power f by scaling its rotation angle.
func (q Quat) Pow(f float32) Quat {
	angle := 2 * float32(math.Acos(float64(clamp32(q[3], -1, 1))))
	axis := q.Vector().Normalized()
	half := float64(f * angle * 0.5)
	s := float32(math.Sin(half))
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, float32(math.Cos(half))}
}

// Mix blends q and o component-wise: q*(1-t) + o*t. The result is not normalized.
func (q Quat) Mix(o Quat, t float32) Quat {
	return q.Scale(1 - t).Add(o.Scale(t))
}

// Nlerp linearly interpolates from q to o and normalizes the result.
func (q Quat) Nlerp(o Quat, t float32) Quat {
	return q.Add(o.Sub(q).Scale(t)).Normalized()
}

// Slerp spherically interpolates from q to o.
// Nearly parallel inputs fall back to Nlerp, since the spherical path divides by a vanishing sine.
//
// Parameters:
//   - o: target rotation
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - Quat: the normalized interpolated rotation
func (q Quat) Slerp(o Quat, t float32) Quat {
	if abs32(q.Dot(o)) > 1-Epsilon {
		return q.Nlerp(o, t)
	}
	delta := q.Inverse().Mul(o)
	return q.Mul(delta.Pow(t)).Normalized()
}

// Equal reports whether every component of q is within Epsilon of o.
func (q Quat) Equal(o Quat) bool {
	for i := range q {
		if abs32(q[i]-o[i]) > Epsilon {
			return false
		}
	}
	return true
}

// SameOrientation reports whether q and o encode the same rotation, either q or -q.
func (q Quat) SameOrientation(o Quat) bool {
	return q.Equal(o) || q.Equal(o.Neg())
}

// ToMat4 converts q into a column-major rotation matrix whose columns are the rotated basis axes.
func (q Quat) ToMat4() Mat4 {
	r := q.Rotate(Vec3{1, 0, 0})
	u := q.Rotate(Vec3{0, 1, 0})
	f := q.Rotate(Vec3{0, 0, 1})
	return Mat4{
		r[0], r[1], r[2], 0,
		u[0], u[1], u[2], 0,
		f[0], f[1], f[2], 0,
		0, 0, 0, 1,
	}
}

// Mat4ToQuat extracts the rotation of m from its up (column 1) and forward (column 2) axes.
// Scale on those columns is removed before the basis is rebuilt.
//
// Parameters:
//   - m: column-major matrix
//
// Returns:
//   - Quat: the rotation part of m
func Mat4ToQuat(m Mat4) Quat {
	up := m.Column(1).Normalized()
	forward := m.Column(2).Normalized()
	right := up.Cross(forward)
	up = forward.Cross(right)
	return LookRotation(forward, up)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
