package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// PaletteWrite is one staged upload of skinning matrices.
// Data holds column-major float32 matrices, jointCount per instance, for a contiguous run of instances.
type PaletteWrite struct {
	// Offset is the byte offset into the palette buffer.
	Offset uint64

	// FirstInstance is the index of the first instance covered by Data.
	FirstInstance uint32

	// InstanceCount is the number of instances covered by Data.
	InstanceCount uint32

	// Data is the raw matrix bytes. It is only valid until the next Flush.
	Data []byte
}

// instanceState holds the playback state for a single instance.
type instanceState struct {
	// clip is the model clip with the instance's looping flag applied; valid only when playing.
	clip      animation.Clip
	clipIndex int
	playing   bool

	time, speed float32
	loop        bool

	// pose starts as a copy of the rest pose and is overwritten by sampling each frame.
	pose *pose.Pose
}
