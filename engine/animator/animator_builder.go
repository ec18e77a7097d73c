package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithMaxInstances is an option builder that sets the initial instance capacity of the Animator.
//
// Parameters:
//   - maxInstances: the number of instances to allocate for up front
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the max instances option to an animator
func WithMaxInstances(maxInstances int) AnimatorBuilderOption {
	return func(a *animator) {
		a.maxInstances = uint32(max(maxInstances, 0))
	}
}

// WithModel is an option builder that assigns the Model the Animator plays.
//
// Parameters:
//   - m: the Model to associate with this animator
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the model option to an animator
func WithModel(m model.Model) AnimatorBuilderOption {
	return func(a *animator) {
		a.setModel(m)
	}
}

// WithComputeWorkers sets the number of pooled goroutines used to sample instances in parallel.
// Defaults to runtime.NumCPU()-1 (minimum 1). A single worker samples every instance inline.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithComputeWorkers(n int) AnimatorBuilderOption {
	return func(a *animator) {
		if n < 1 {
			n = 1
		}
		a.computeWorkers = n
	}
}

// WithProfiler is an option builder that ticks p once per PrepareFrame.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the profiler option to an animator
func WithProfiler(p *profiler.Profiler) AnimatorBuilderOption {
	return func(a *animator) {
		a.profiler = p
	}
}
