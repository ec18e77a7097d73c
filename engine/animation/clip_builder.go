package animation

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// ClipBuilderOption is a functional option for configuring a ClipBuilder via NewClipBuilder.
type ClipBuilderOption func(*ClipBuilder)

// WithLooping is an option builder that sets whether the built clip loops.
//
// Parameters:
//   - looping: true to wrap playback time
//
// Returns:
//   - ClipBuilderOption: a function that applies the looping option to a builder
func WithLooping(looping bool) ClipBuilderOption {
	return func(b *ClipBuilder) {
		b.looping = looping
	}
}

// ClipBuilder accumulates joint tracks while channels are imported and produces an immutable Clip.
// Tracks are created on first access, so channels can arrive in any order.
type ClipBuilder struct {
	name    string
	looping bool
	tracks  []*TransformTrack
	index   map[uint32]int
}

// NewClipBuilder creates a builder for a clip called name. Clips loop unless configured otherwise.
//
// Parameters:
//   - name: the clip identifier
//   - options: functional options applied in order
//
// Returns:
//   - *ClipBuilder: the new builder
func NewClipBuilder(name string, options ...ClipBuilderOption) *ClipBuilder {
	b := &ClipBuilder{
		name:    name,
		looping: true,
		index:   make(map[uint32]int),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Track returns the track for joint, creating an empty one if the joint has none yet.
// Creation is logged at debug level so misspelled or unexpected targets show up during import.
//
// Parameters:
//   - joint: the pose index the track animates
//
// Returns:
//   - *TransformTrack: the track, owned by the builder until Build
func (b *ClipBuilder) Track(joint uint32) *TransformTrack {
	if i, ok := b.index[joint]; ok {
		return b.tracks[i]
	}

	common.Log.WithFields(common.Fields{
		"clip":  b.name,
		"joint": joint,
	}).Debug("creating clip track")

	t := &TransformTrack{Joint: joint}
	b.index[joint] = len(b.tracks)
	b.tracks = append(b.tracks, t)
	return t
}

// TrackCount returns the number of tracks created so far.
func (b *ClipBuilder) TrackCount() int {
	return len(b.tracks)
}

// SetJointIDAt retargets the track at position i to joint.
func (b *ClipBuilder) SetJointIDAt(i int, joint uint32) {
	t := b.tracks[i]
	delete(b.index, t.Joint)
	t.Joint = joint
	b.index[joint] = i
}

// SetLooping sets whether the built clip loops.
func (b *ClipBuilder) SetLooping(looping bool) {
	b.looping = looping
}

// Build produces the clip with its duration recalculated from the valid tracks.
// The clip gets its own copy of every frame slice, so the builder may keep being used.
//
// Returns:
//   - Clip: the finished clip
func (b *ClipBuilder) Build() Clip {
	clip := Clip{
		name:    b.name,
		looping: b.looping,
		tracks:  make([]TransformTrack, len(b.tracks)),
	}
	for i, t := range b.tracks {
		clip.tracks[i] = TransformTrack{
			Joint:    t.Joint,
			Position: VectorTrack{Frames: slices.Clone(t.Position.Frames), Interpolation: t.Position.Interpolation},
			Rotation: QuatTrack{Frames: slices.Clone(t.Rotation.Frames), Interpolation: t.Rotation.Interpolation},
			Scale:    VectorTrack{Frames: slices.Clone(t.Scale.Frames), Interpolation: t.Scale.Interpolation},
		}
	}
	clip.RecalculateDuration()
	return clip
}
