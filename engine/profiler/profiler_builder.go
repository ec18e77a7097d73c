package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval is an option builder that sets how often statistics are reported.
// Non-positive intervals report on every Tick.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = max(interval, 0)
	}
}

// WithName is an option builder that sets the source field attached to every report.
//
// Parameters:
//   - name: the report source
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the name option to a profiler
func WithName(name string) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.name = name
	}
}
