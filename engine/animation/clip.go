package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// Clip is a named, time-bounded set of joint tracks. Clips are built once through a ClipBuilder
// and are read-only afterwards, so one Clip can drive any number of poses.
type Clip struct {
	name      string
	tracks    []TransformTrack
	startTime float32
	endTime   float32
	looping   bool
}

// Name returns the clip identifier.
func (c *Clip) Name() string {
	return c.name
}

// StartTime returns the earliest start time across the valid tracks.
func (c *Clip) StartTime() float32 {
	return c.startTime
}

// EndTime returns the latest end time across the valid tracks.
func (c *Clip) EndTime() float32 {
	return c.endTime
}

// Duration returns EndTime - StartTime.
func (c *Clip) Duration() float32 {
	return c.endTime - c.startTime
}

// Looping reports whether sampling wraps around instead of clamping at the ends.
func (c *Clip) Looping() bool {
	return c.looping
}

// WithLooping returns a copy of the clip with the looping flag replaced. Tracks are shared.
//
// Parameters:
//   - looping: the new looping flag
//
// Returns:
//   - Clip: the modified copy
func (c *Clip) WithLooping(looping bool) Clip {
	out := *c
	out.looping = looping
	return out
}

// TrackCount returns the number of joint tracks.
func (c *Clip) TrackCount() int {
	return len(c.tracks)
}

// JointIDAt returns the joint targeted by the track at position i.
func (c *Clip) JointIDAt(i int) uint32 {
	return c.tracks[i].Joint
}

// Tracks returns a copy of the clip's track list.
func (c *Clip) Tracks() []TransformTrack {
	out := make([]TransformTrack, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Track looks up the track for joint.
//
// Parameters:
//   - joint: the pose index to look up
//
// Returns:
//   - TransformTrack: the track, or the zero value when missing
//   - bool: true if the clip animates joint
func (c *Clip) Track(joint uint32) (TransformTrack, bool) {
	for i := range c.tracks {
		if c.tracks[i].Joint == joint {
			return c.tracks[i], true
		}
	}
	return TransformTrack{}, false
}

// RecalculateDuration scans the valid tracks and sets the clip's start and end to their min and max.
// A clip without valid tracks gets start = end = 0.
func (c *Clip) RecalculateDuration() {
	c.startTime = 0
	c.endTime = 0
	startSet, endSet := false, false

	for i := range c.tracks {
		if !c.tracks[i].IsValid() {
			continue
		}
		start := c.tracks[i].StartTime()
		end := c.tracks[i].EndTime()
		if start < c.startTime || !startSet {
			c.startTime = start
			startSet = true
		}
		if end > c.endTime || !endSet {
			c.endTime = end
			endSet = true
		}
	}
}

// Sample writes every track of the clip at time into p.
// Each joint's current local transform is the reference, so channels a track does not animate are kept.
// A clip with zero duration leaves p untouched and returns 0.
//
// Parameters:
//   - p: the pose to write into; every track's joint must be a valid index of p
//   - time: playback time in seconds
//
// Returns:
//   - float32: the wrapped or clamped time actually sampled, to be carried forward as the playback cursor
func (c *Clip) Sample(p *pose.Pose, time float32) float32 {
	if c.Duration() == 0 {
		return 0
	}

	time = c.adjustTimeToFitRange(time)
	for i := range c.tracks {
		joint := int(c.tracks[i].Joint)
		local := c.tracks[i].Sample(p.LocalTransform(joint), time, c.looping)
		p.SetLocalTransform(joint, local)
	}
	return time
}

func (c *Clip) adjustTimeToFitRange(time float32) float32 {
	if c.looping {
		duration := c.endTime - c.startTime
		if duration <= 0 {
			return 0
		}
		return wrapTime(time, c.startTime, duration)
	}
	if time < c.startTime {
		return c.startTime
	}
	if time > c.endTime {
		return c.endTime
	}
	return time
}
