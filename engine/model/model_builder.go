package model

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the joint hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithClips is an option builder that sets the animation clips of the Model.
//
// Parameters:
//   - clips: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips option to a model
func WithClips(clips []animation.Clip) ModelBuilderOption {
	return func(m *model) {
		m.clips = clips
	}
}
