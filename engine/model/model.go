package model

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	skeleton *Skeleton
	clips    []animation.Clip
}

// Model defines the interface for a loaded animated model.
// A Model pairs a skeleton with the clips that animate it.
// It is produced by the Loader after importing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skeleton retrieves the joint hierarchy for this model.
	//
	// Returns:
	//   - *Skeleton: the skeleton, or nil when the model has none
	Skeleton() *Skeleton

	// Clips retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []animation.Clip: the clips
	Clips() []animation.Clip

	// Clip returns the clip at index.
	//
	// Parameters:
	//   - index: the clip index
	//
	// Returns:
	//   - *animation.Clip: the clip, or nil if index is out of range
	Clip(index int) *animation.Clip

	// ClipCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the clip count
	ClipCount() int

	// ClipNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the clip names
	ClipNames() []string

	// GetClipIndex returns the index of a clip by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the clip name to search for
	//
	// Returns:
	//   - int: the clip index, or -1 if not found
	GetClipIndex(name string) int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// FromImported wraps an importer result in a Model.
//
// Parameters:
//   - imported: the importer output
//
// Returns:
//   - Model: the model
func FromImported(imported *ImportedModel) Model {
	return NewModel(
		WithName(imported.Name),
		WithSkeleton(imported.Skeleton),
		WithClips(imported.Clips),
	)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Clips() []animation.Clip {
	return m.clips
}

func (m *model) Clip(index int) *animation.Clip {
	if index < 0 || index >= len(m.clips) {
		return nil
	}
	return &m.clips[index]
}

func (m *model) ClipCount() int {
	return len(m.clips)
}

func (m *model) ClipNames() []string {
	names := make([]string, len(m.clips))
	for i := range m.clips {
		names[i] = m.clips[i].Name()
	}
	return names
}

func (m *model) GetClipIndex(name string) int {
	for i := range m.clips {
		if m.clips[i].Name() == name {
			return i
		}
	}
	return -1
}
