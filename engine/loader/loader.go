package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/radovskyb/watcher"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

const defaultPollInterval = 500 * time.Millisecond

var (
	errAlreadyWatching   = errors.New("loader is already watching")
	errUnsupportedFormat = errors.New("unsupported model format")
)

// ReloadHandler is called after a watched model file changed on disk and was re-imported.
// On failure m is the model still in the cache and err describes the failed import.
type ReloadHandler func(key string, m model.Model, err error)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	// watchedPaths maps absolute file paths to their cache keys.
	watchedPaths map[string]string

	backend loaderBackend

	reloadHandler ReloadHandler
	pollInterval  time.Duration
	watch         *watcher.Watcher
}

// Loader defines the public-facing interface for loading and caching animated models.
// It abstracts the file format (glTF, GLB, etc.) behind a generic backend and
// manages a cache of previously loaded models, optionally reloading them when their files change.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	// Reader-loaded models are never hot reloaded.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// Evict removes a model from the cache and stops watching its file.
	//
	// Parameters:
	//   - name: the cache key to remove
	//
	// Returns:
	//   - bool: true if a model was removed
	Evict(name string) bool

	// Watch starts polling every file-loaded model for writes and re-imports changed files.
	// Files loaded after Watch are watched as well.
	//
	// Returns:
	//   - error: error if the loader is already watching or a file cannot be watched
	Watch() error

	// Close stops watching. It is safe to call when not watching.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:           sync.RWMutex{},
		modelCache:   make(map[string]model.Model),
		watchedPaths: make(map[string]string),
		pollInterval: defaultPollInterval,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		common.Log.WithFields(common.Fields{"path": path}).Debug("model cache hit")
		return cached, nil
	}
	l.mu.RUnlock()

	m, err := l.importFile(path)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.modelCache[path] = m
	l.watchedPaths[absPath] = path
	if l.watch != nil {
		if err := l.watch.Add(absPath); err != nil {
			common.Log.WithFields(common.Fields{"path": path}).WithError(err).Warn("failed to watch model file")
		}
	}

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		common.Log.WithFields(common.Fields{"name": name}).Debug("model cache hit")
		return cached, nil
	}
	l.mu.RUnlock()

	imported, err := l.backend.LoadReader(r, isGLB, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m := model.FromImported(imported)
	common.Log.WithFields(common.Fields{
		"name":   name,
		"joints": imported.Skeleton.JointCount(),
		"clips":  len(imported.Clips),
	}).Info("loaded model")

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Evict(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.modelCache[name]; !ok {
		return false
	}
	delete(l.modelCache, name)

	for absPath, key := range l.watchedPaths {
		if key != name {
			continue
		}
		delete(l.watchedPaths, absPath)
		if l.watch != nil {
			if err := l.watch.Remove(absPath); err != nil {
				common.Log.WithFields(common.Fields{"path": absPath}).WithError(err).Debug("failed to unwatch model file")
			}
		}
	}
	return true
}

func (l *loader) Watch() error {
	l.mu.Lock()
	if l.watch != nil {
		l.mu.Unlock()
		return errAlreadyWatching
	}

	w := watcher.New()
	w.FilterOps(watcher.Write)
	for absPath := range l.watchedPaths {
		if err := w.Add(absPath); err != nil {
			l.mu.Unlock()
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
	}
	l.watch = w
	interval := l.pollInterval
	l.mu.Unlock()

	go l.watchEvents(w)
	go func() {
		if err := w.Start(interval); err != nil {
			common.Log.WithError(err).Error("model watcher stopped")
		}
	}()
	w.Wait()

	common.Log.WithFields(common.Fields{
		"files":    len(w.WatchedFiles()),
		"interval": interval,
	}).Debug("watching model files")
	return nil
}

func (l *loader) Close() {
	l.mu.Lock()
	w := l.watch
	l.watch = nil
	l.mu.Unlock()

	if w != nil {
		w.Close()
	}
}

// watchEvents consumes watcher events until the watcher is closed.
func (l *loader) watchEvents(w *watcher.Watcher) {
	for {
		select {
		case event := <-w.Event:
			l.mu.RLock()
			key, ok := l.watchedPaths[event.Path]
			l.mu.RUnlock()
			if ok {
				l.reload(key, event.Path)
			}
		case err := <-w.Error:
			if err == watcher.ErrWatchedFileDeleted {
				// Editors often replace the file while saving; the next write is picked up again
				continue
			}
			common.Log.WithError(err).Warn("model watcher error")
		case <-w.Closed:
			return
		}
	}
}

// reload re-imports a changed file and swaps the cached model.
// The previous model stays cached when the import fails.
func (l *loader) reload(key, absPath string) {
	m, err := l.importFile(absPath)

	l.mu.Lock()
	if err == nil {
		if _, stillCached := l.modelCache[key]; stillCached {
			l.modelCache[key] = m
		}
	} else {
		m = l.modelCache[key]
	}
	handler := l.reloadHandler
	l.mu.Unlock()

	fields := common.Fields{"key": key}
	if err != nil {
		common.Log.WithFields(fields).WithError(err).Error("model reload failed")
	} else {
		common.Log.WithFields(fields).Info("model reloaded")
	}

	if handler != nil {
		handler(key, m, err)
	}
}

// importFile runs the backend for path and wraps the result in a Model.
func (l *loader) importFile(path string) (model.Model, error) {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	common.Log.WithFields(common.Fields{
		"path":     path,
		"model":    imported.Name,
		"joints":   imported.Skeleton.JointCount(),
		"clips":    len(imported.Clips),
		"duration": time.Since(start),
	}).Info("loaded model")

	return model.FromImported(imported), nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, ext)
	}
}
