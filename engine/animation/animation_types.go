// Package animation holds keyframe tracks and the clips built from them.
// Sampling never fails: degenerate input yields the zero value of the sampled type.
package animation

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Interpolation selects how a track blends between neighboring frames.
type Interpolation int

const (
	// InterpolationLinear lerps values (nlerp for rotations). It is the zero value, matching glTF's default.
	InterpolationLinear Interpolation = iota

	// InterpolationConstant holds the left frame's value until the next frame.
	InterpolationConstant

	// InterpolationCubic evaluates a Hermite spline using the frames' tangents.
	InterpolationCubic
)

// String returns the glTF sampler tag for the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "STEP"
	case InterpolationCubic:
		return "CUBICSPLINE"
	default:
		return "LINEAR"
	}
}

// ParseInterpolation maps a glTF sampler tag to an Interpolation.
// An empty tag means LINEAR.
//
// Parameters:
//   - tag: one of "LINEAR", "STEP", "CUBICSPLINE" or ""
//
// Returns:
//   - Interpolation: the matching mode
//   - error: non-nil when the tag is not recognized
func ParseInterpolation(tag string) (Interpolation, error) {
	switch tag {
	case "", "LINEAR":
		return InterpolationLinear, nil
	case "STEP":
		return InterpolationConstant, nil
	case "CUBICSPLINE":
		return InterpolationCubic, nil
	default:
		return InterpolationLinear, fmt.Errorf("unknown interpolation %q", tag)
	}
}

// Frame is one keyframe of a track.
type Frame[T any] struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the sampled value at Time.
	Value T

	// In is the incoming tangent, as a slope per second. Only cubic tracks read it.
	In T

	// Out is the outgoing tangent, as a slope per second. Only cubic tracks read it.
	Out T
}

// valueKind supplies the arithmetic a Track needs for one value type.
// Implementations are zero-size so Track[T, K] stays as small as the frames it holds.
type valueKind[T any] interface {
	// zero is what a failed sample returns.
	zero() T

	// scaled returns v * s.
	scaled(v T, s float32) T

	// addScaled returns a + b*s.
	addScaled(a, b T, s float32) T

	// neighborhood returns b adjusted to interpolate along the short path from a.
	neighborhood(a, b T) T

	// normalize fixes up an interpolated result.
	normalize(v T) T
}

type scalarKind struct{}

func (scalarKind) zero() float32 { return 0 }
func (scalarKind) scaled(v float32, s float32) float32 { return v * s }
func (scalarKind) addScaled(a, b float32, s float32) float32 { return a + b*s }
func (scalarKind) neighborhood(_, b float32) float32 { return b }
func (scalarKind) normalize(v float32) float32 { return v }

type vectorKind struct{}

func (vectorKind) zero() common.Vec3 { return common.Vec3{} }
func (vectorKind) scaled(v common.Vec3, s float32) common.Vec3 { return v.Scale(s) }
func (vectorKind) addScaled(a, b common.Vec3, s float32) common.Vec3 { return a.Add(b.Scale(s)) }
func (vectorKind) neighborhood(_, b common.Vec3) common.Vec3 { return b }
func (vectorKind) normalize(v common.Vec3) common.Vec3 { return v }

type quatKind struct{}

func (quatKind) zero() common.Quat { return common.QuatIdentity() }
func (quatKind) scaled(v common.Quat, s float32) common.Quat { return v.Scale(s) }
func (quatKind) addScaled(a, b common.Quat, s float32) common.Quat { return a.Add(b.Scale(s)) }
func (quatKind) normalize(v common.Quat) common.Quat { return v.Normalized() }

func (quatKind) neighborhood(a, b common.Quat) common.Quat {
	if a.Dot(b) < 0 {
		return b.Neg()
	}
	return b
}

// ScalarTrack animates a single float.
type ScalarTrack = Track[float32, scalarKind]

// VectorTrack animates a position or scale.
type VectorTrack = Track[common.Vec3, vectorKind]

// QuatTrack animates a rotation.
type QuatTrack = Track[common.Quat, quatKind]
