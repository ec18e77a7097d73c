package common

// Transform is a local affine transform without shear: translate, rotate, then scale.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// NewTransform returns the identity transform (position 0, identity rotation, scale 1).
func NewTransform() Transform {
	return Transform{
		Rotation: QuatIdentity(),
		Scale:    Vec3One(),
	}
}

// Combine composes parent with child, producing the child's transform in the parent's space.
// Scale multiplies component-wise, the child rotation is applied before the parent rotation,
// and the child position is scaled, rotated and offset by the parent.
//
// Parameters:
//   - parent: the outer transform
//   - child: the inner transform, relative to parent
//
// Returns:
//   - Transform: the composed transform
func Combine(parent, child Transform) Transform {
	return Transform{
		Scale:    parent.Scale.Mul(child.Scale),
		Rotation: child.Rotation.Mul(parent.Rotation),
		Position: parent.Position.Add(parent.Rotation.Rotate(parent.Scale.Mul(child.Position))),
	}
}

// Inverse returns the transform that undoes t.
// Scale components with magnitude at or below Epsilon invert to 0 instead of infinity.
func (t Transform) Inverse() Transform {
	var inv Transform
	inv.Rotation = t.Rotation.Inverse()
	for i := range t.Scale {
		if abs32(t.Scale[i]) <= Epsilon {
			inv.Scale[i] = 0
		} else {
			inv.Scale[i] = 1 / t.Scale[i]
		}
	}
	inv.Position = inv.Rotation.Rotate(inv.Scale.Mul(t.Position.Scale(-1)))
	return inv
}

// Mix blends a towards b by t. The rotations are neighborhood corrected before nlerp,
// position and scale are lerped.
//
// Parameters:
//   - a: transform at t = 0
//   - b: transform at t = 1
//   - t: blend factor
//
// Returns:
//   - Transform: the blended transform
func Mix(a, b Transform, t float32) Transform {
	bRot := b.Rotation
	if a.Rotation.Dot(bRot) < 0 {
		bRot = bRot.Neg()
	}
	return Transform{
		Position: a.Position.Lerp(b.Position, t),
		Rotation: a.Rotation.Nlerp(bRot, t),
		Scale:    a.Scale.Lerp(b.Scale, t),
	}
}

// ToMat4 converts t into a column-major matrix.
func (t Transform) ToMat4() Mat4 {
	x := t.Rotation.Rotate(Vec3{1, 0, 0}).Scale(t.Scale[0])
	y := t.Rotation.Rotate(Vec3{0, 1, 0}).Scale(t.Scale[1])
	z := t.Rotation.Rotate(Vec3{0, 0, 1}).Scale(t.Scale[2])
	p := t.Position
	return Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		p[0], p[1], p[2], 1,
	}
}

// Mat4ToTransform decomposes a column-major matrix without skew into a Transform.
// The scale is recovered from the diagonal of inverse(rotation) * rotationScale.
//
// Parameters:
//   - m: matrix to decompose
//
// Returns:
//   - Transform: position, rotation and scale of m
func Mat4ToTransform(m Mat4) Transform {
	var out Transform
	out.Position = Vec3{m[12], m[13], m[14]}
	out.Rotation = Mat4ToQuat(m)

	rotScale := Mat4{
		m[0], m[1], m[2], 0,
		m[4], m[5], m[6], 0,
		m[8], m[9], m[10], 0,
		0, 0, 0, 1,
	}
	scaleSkew := out.Rotation.Inverse().ToMat4().Mul(rotScale)
	out.Scale = Vec3{scaleSkew[0], scaleSkew[5], scaleSkew[10]}
	return out
}

// TransformPoint applies t to a point: scale, rotate, then translate.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.Position.Add(t.Rotation.Rotate(t.Scale.Mul(p)))
}

// TransformVector applies t to a direction, ignoring translation.
func (t Transform) TransformVector(v Vec3) Vec3 {
	return t.Rotation.Rotate(t.Scale.Mul(v))
}

// Equal reports whether t and o match within Epsilon. Rotations compare component-wise, so q and -q differ.
func (t Transform) Equal(o Transform) bool {
	return t.Position.Equal(o.Position) && t.Rotation.Equal(o.Rotation) && t.Scale.Equal(o.Scale)
}
