package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func writeModel(t *testing.T, path, clipName string) {
	t.Helper()
	if err := os.WriteFile(path, riggedJSON(t, clipName), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoaderCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.gltf")
	writeModel(t, path, "walk")

	l := NewLoader(BackendTypeGLTF)
	first, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.ClipCount() != 1 || first.Skeleton().JointCount() != 2 {
		t.Fatalf("model has %d clips and %d joints", first.ClipCount(), first.Skeleton().JointCount())
	}

	second, err := l.Load(path)
	if err != nil || second != first {
		t.Errorf("second Load should hit the cache: %v", err)
	}
	if l.Get(path) != first || len(l.Models()) != 1 {
		t.Error("Get/Models disagree with Load")
	}

	if !l.Evict(path) || l.Evict(path) {
		t.Error("Evict should succeed exactly once")
	}
	if l.Get(path) != nil {
		t.Error("evicted model still cached")
	}
}

func TestLoaderLoadReader(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadReader("hero", bytes.NewReader(riggedJSON(t, "idle")), false)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if m.GetClipIndex("idle") != 0 || l.Get("hero") != m {
		t.Error("reader model not cached under its name")
	}

	// a cached name short-circuits the reader entirely
	again, err := l.LoadReader("hero", bytes.NewReader(nil), false)
	if err != nil || again != m {
		t.Errorf("cached LoadReader = %v, %v", again, err)
	}
}

func TestLoaderErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	if _, err := l.Load("model.fbx"); !errors.Is(err, errUnsupportedFormat) {
		t.Errorf("err = %v, want unsupported format", err)
	}
	if _, err := l.Load(filepath.Join(t.TempDir(), "missing.gltf")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoaderWithModel(t *testing.T) {
	m := model.NewModel(model.WithName("prebuilt"))
	l := NewLoader(BackendTypeGLTF, WithModel("prebuilt", m))
	if l.Get("prebuilt") != m {
		t.Error("WithModel did not seed the cache")
	}
}

func TestLoaderHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.gltf")
	writeModel(t, path, "walk")

	type reloadEvent struct {
		key string
		m   model.Model
		err error
	}
	events := make(chan reloadEvent, 4)

	l := NewLoader(BackendTypeGLTF,
		WithPollInterval(10*time.Millisecond),
		WithReloadHandler(func(key string, m model.Model, err error) {
			select {
			case events <- reloadEvent{key, m, err}:
			default:
			}
		}),
	)
	defer l.Close()

	if _, err := l.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := l.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := l.Watch(); !errors.Is(err, errAlreadyWatching) {
		t.Errorf("second Watch err = %v", err)
	}

	writeModel(t, path, "run")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			// a poll can land mid-write; only the import of the finished file counts
			if ev.err != nil || ev.m.GetClipIndex("run") != 0 {
				continue
			}
			if ev.key != path {
				t.Errorf("reload key = %q, want %q", ev.key, path)
			}
			if l.Get(path).GetClipIndex("run") != 0 {
				t.Error("cache not updated after reload")
			}
			return
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}
