package model

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// --- Import Types ---

// ImportedModel represents an animated model loaded from an external format.
// This is the universal format that importers (glTF, etc.) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Skeleton is the joint hierarchy with rest and bind poses.
	Skeleton *Skeleton

	// Clips are all animation clips bundled with the model, targeting Skeleton's joints.
	Clips []animation.Clip
}
