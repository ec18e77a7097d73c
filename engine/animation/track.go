package animation

import (
	"math"
)

// Track is a time-ordered list of frames for one animated property.
// Frames must be sorted by non-decreasing time; the sampler does not sort them.
// K supplies the value arithmetic; use the ScalarTrack, VectorTrack and QuatTrack aliases.
type Track[T any, K valueKind[T]] struct {
	// Frames holds the keyframes in time order.
	Frames []Frame[T]

	// Interpolation is the sampling mode for the whole track.
	Interpolation Interpolation
}

// Len returns the number of frames.
func (tr *Track[T, K]) Len() int {
	return len(tr.Frames)
}

// StartTime returns the time of the first frame, or 0 for an empty track.
func (tr *Track[T, K]) StartTime() float32 {
	if len(tr.Frames) == 0 {
		return 0
	}
	return tr.Frames[0].Time
}

// EndTime returns the time of the last frame, or 0 for an empty track.
func (tr *Track[T, K]) EndTime() float32 {
	if len(tr.Frames) == 0 {
		return 0
	}
	return tr.Frames[len(tr.Frames)-1].Time
}

// Sample evaluates the track at time using its interpolation mode.
//
// Parameters:
//   - time: query time in seconds
//   - looping: wrap time into the track's span instead of clamping
//
// Returns:
//   - T: the sampled value, or the zero value (identity for rotations) for degenerate tracks
func (tr *Track[T, K]) Sample(time float32, looping bool) T {
	switch tr.Interpolation {
	case InterpolationConstant:
		return tr.sampleConstant(time, looping)
	case InterpolationCubic:
		return tr.sampleCubic(time, looping)
	default:
		return tr.sampleLinear(time, looping)
	}
}

// FrameIndex locates the frame at or before time, searching from the last frame backward.
// Looping wraps time into [start, end). Otherwise times at or before the first frame map to 0
// and times at or after the second-to-last frame map to len-2, so a next frame always exists.
//
// Parameters:
//   - time: query time in seconds
//   - looping: wrap time instead of clamping
//
// Returns:
//   - int: the frame index, or -1 when the track has fewer than two frames
func (tr *Track[T, K]) FrameIndex(time float32, looping bool) int {
	size := len(tr.Frames)
	if size <= 1 {
		return -1
	}

	if looping {
		start := tr.Frames[0].Time
		duration := tr.Frames[size-1].Time - start
		if duration <= 0 {
			return -1
		}
		time = wrapTime(time, start, duration)
	} else {
		if time <= tr.Frames[0].Time {
			return 0
		}
		if time >= tr.Frames[size-2].Time {
			return size - 2
		}
	}

	for i := size - 1; i >= 0; i-- {
		if time >= tr.Frames[i].Time {
			return i
		}
	}
	return -1
}

// AdjustTimeToFitTrack maps time into the track's span: wrapped when looping, clamped otherwise.
//
// Parameters:
//   - time: query time in seconds
//   - looping: wrap time instead of clamping
//
// Returns:
//   - float32: the adjusted time, or 0 when the track has fewer than two frames or no duration
func (tr *Track[T, K]) AdjustTimeToFitTrack(time float32, looping bool) float32 {
	size := len(tr.Frames)
	if size <= 1 {
		return 0
	}

	start := tr.Frames[0].Time
	end := tr.Frames[size-1].Time
	duration := end - start
	if duration <= 0 {
		return 0
	}

	if looping {
		return wrapTime(time, start, duration)
	}
	if time <= start {
		return start
	}
	if time >= end {
		return end
	}
	return time
}

func (tr *Track[T, K]) sampleConstant(time float32, looping bool) T {
	var k K
	frame := tr.FrameIndex(time, looping)
	if frame < 0 || frame >= len(tr.Frames) {
		return k.zero()
	}
	return tr.Frames[frame].Value
}

func (tr *Track[T, K]) sampleLinear(time float32, looping bool) T {
	var k K
	frame, t, _, ok := tr.segment(time, looping)
	if !ok {
		return k.zero()
	}

	start := tr.Frames[frame].Value
	end := k.neighborhood(start, tr.Frames[frame+1].Value)
	return k.normalize(k.addScaled(start, k.addScaled(end, start, -1), t))
}

func (tr *Track[T, K]) sampleCubic(time float32, looping bool) T {
	var k K
	frame, t, frameDelta, ok := tr.segment(time, looping)
	if !ok {
		return k.zero()
	}

	p1 := k.normalize(tr.Frames[frame].Value)
	s1 := k.scaled(tr.Frames[frame].Out, frameDelta)
	p2 := k.normalize(tr.Frames[frame+1].Value)
	s2 := k.scaled(tr.Frames[frame+1].In, frameDelta)

	return hermite[T, K](t, p1, s1, p2, s2)
}

// segment resolves the frame pair around time and the normalized fraction between them.
func (tr *Track[T, K]) segment(time float32, looping bool) (frame int, t, frameDelta float32, ok bool) {
	frame = tr.FrameIndex(time, looping)
	if frame < 0 || frame >= len(tr.Frames)-1 {
		return 0, 0, 0, false
	}

	trackTime := tr.AdjustTimeToFitTrack(time, looping)
	thisTime := tr.Frames[frame].Time
	frameDelta = tr.Frames[frame+1].Time - thisTime
	if frameDelta <= 0 {
		return 0, 0, 0, false
	}

	return frame, (trackTime - thisTime) / frameDelta, frameDelta, true
}

// hermite evaluates the cubic Hermite basis on [0, 1]. Only p2 is neighborhood corrected;
// the tangents keep their authored sign.
func hermite[T any, K valueKind[T]](t float32, p1, s1, p2, s2 T) T {
	var k K
	p2 = k.neighborhood(p1, p2)

	tt := t * t
	ttt := tt * t
	h1 := 2*ttt - 3*tt + 1
	h2 := -2*ttt + 3*tt
	h3 := ttt - 2*tt + t
	h4 := ttt - tt

	result := k.scaled(p1, h1)
	result = k.addScaled(result, p2, h2)
	result = k.addScaled(result, s1, h3)
	result = k.addScaled(result, s2, h4)
	return k.normalize(result)
}

// wrapTime folds time into [start, start+duration) with a non-negative floored modulo.
func wrapTime(time, start, duration float32) float32 {
	t := float32(math.Mod(float64(time-start), float64(duration)))
	if t < 0 {
		t += duration
	}
	return t + start
}
