package loader

import (
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithReloadHandler is an option builder that sets the callback invoked after a watched file is re-imported.
//
// Parameters:
//   - handler: the callback, called from the watcher goroutine
//
// Returns:
//   - LoaderBuilderOption: a function that applies the handler option to a loader
func WithReloadHandler(handler ReloadHandler) LoaderBuilderOption {
	return func(l *loader) {
		l.reloadHandler = handler
	}
}

// WithPollInterval is an option builder that sets how often watched files are polled.
// Non-positive intervals are ignored.
//
// Parameters:
//   - interval: the polling interval
//
// Returns:
//   - LoaderBuilderOption: a function that applies the interval option to a loader
func WithPollInterval(interval time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if interval > 0 {
			l.pollInterval = interval
		}
	}
}
