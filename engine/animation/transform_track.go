package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// TransformTrack animates the position, rotation and scale of one joint.
type TransformTrack struct {
	// Joint is the pose index this track writes to.
	Joint uint32

	// Position animates the joint's translation.
	Position VectorTrack

	// Rotation animates the joint's orientation.
	Rotation QuatTrack

	// Scale animates the joint's scale.
	Scale VectorTrack
}

// IsValid reports whether at least one channel has more than one frame.
func (tt *TransformTrack) IsValid() bool {
	return tt.Position.Len() > 1 || tt.Rotation.Len() > 1 || tt.Scale.Len() > 1
}

// StartTime returns the earliest start time across the valid channels, or 0 if none is valid.
func (tt *TransformTrack) StartTime() float32 {
	var result float32
	isSet := false
	for _, c := range tt.channelBounds() {
		if !c.valid {
			continue
		}
		if !isSet || c.start < result {
			result = c.start
			isSet = true
		}
	}
	return result
}

// EndTime returns the latest end time across the valid channels, or 0 if none is valid.
func (tt *TransformTrack) EndTime() float32 {
	var result float32
	isSet := false
	for _, c := range tt.channelBounds() {
		if !c.valid {
			continue
		}
		if !isSet || c.end > result {
			result = c.end
			isSet = true
		}
	}
	return result
}

// Sample evaluates the track on top of reference. Channels with fewer than two frames
// keep the reference value.
//
// Parameters:
//   - reference: the joint's current local transform
//   - time: query time in seconds
//   - looping: wrap time instead of clamping
//
// Returns:
//   - common.Transform: reference with every animated channel overwritten
func (tt *TransformTrack) Sample(reference common.Transform, time float32, looping bool) common.Transform {
	result := reference
	if tt.Position.Len() > 1 {
		result.Position = tt.Position.Sample(time, looping)
	}
	if tt.Rotation.Len() > 1 {
		result.Rotation = tt.Rotation.Sample(time, looping)
	}
	if tt.Scale.Len() > 1 {
		result.Scale = tt.Scale.Sample(time, looping)
	}
	return result
}

type channelBound struct {
	start, end float32
	valid      bool
}

func (tt *TransformTrack) channelBounds() [3]channelBound {
	return [3]channelBound{
		{tt.Position.StartTime(), tt.Position.EndTime(), tt.Position.Len() > 1},
		{tt.Rotation.StartTime(), tt.Rotation.EndTime(), tt.Rotation.Len() > 1},
		{tt.Scale.StartTime(), tt.Scale.EndTime(), tt.Scale.Len() > 1},
	}
}
