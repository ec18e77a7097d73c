// Package animator drives many independently playing copies of one animated model.
// Each instance owns its pose; PrepareFrame advances and samples every instance and Flush
// stages the resulting skinning palettes for upload.
package animator

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

const (
	defaultMaxInstances = 64

	// instancesPerTask is the smallest batch handed to a pool worker; smaller frames run inline.
	instancesPerTask = 16
)

var (
	errNoSkeleton = errors.New("animator model has no skeleton")
	matrixSize    = uint64(len(common.Mat4{}) * 4)
)

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	model      model.Model
	jointCount int

	maxInstances, instanceCount uint32
	instances                   []instanceState

	// palettes holds jointCount matrices per instance slot, instance-major.
	palettes []common.Mat4

	dirty                bool
	dirtyStart, dirtyEnd uint32

	stagedWriteData []PaletteWrite
	stagingPalette  []byte

	computeWorkers int
	computePool    worker.DynamicWorkerPool
	taskID         int

	profiler *profiler.Profiler
}

// Animator defines the public interface for per-instance skeletal playback.
//
// The Animator owns one pose per instance, advances each instance's clip every frame, and
// stages the resulting model-space joint matrices as byte ranges for the caller to upload.
// Instances are addressed by dense indices; removal swaps the last instance into the hole.
type Animator interface {
	// Model returns the model this animator plays.
	//
	// Returns:
	//   - model.Model: the model, or nil if none is set
	Model() model.Model

	// SetModel replaces the model and removes every instance.
	//
	// Parameters:
	//   - m: the model to play; it must carry a skeleton before instances are added
	SetModel(m model.Model)

	// MaxInstances returns the current instance capacity.
	//
	// Returns:
	//   - uint32: the capacity
	MaxInstances() uint32

	// InstanceCount returns the current number of registered instances.
	//
	// Returns:
	//   - uint32: the number of active instances
	InstanceCount() uint32

	// AddInstance registers a new instance posed at the skeleton's rest pose.
	// If the current capacity is exceeded, the animator grows automatically.
	//
	// Returns:
	//   - uint32: the index of the newly registered instance
	//   - error: an error if the model has no skeleton
	AddInstance() (uint32, error)

	// Grow increases the instance capacity to newMax, preserving all existing instances.
	// No-op if newMax is less than or equal to the current capacity.
	//
	// Parameters:
	//   - newMax: the new capacity
	Grow(newMax uint32)

	// RemoveInstance removes the instance at the given index using a swap-remove strategy.
	// Returns the old last index that was swapped and whether a swap occurred.
	//
	// Parameters:
	//   - index: the instance index to remove
	//
	// Returns:
	//   - uint32: the old last index that was swapped into the removed slot (only meaningful when bool is true)
	//   - bool: true if the last instance was swapped into the removed slot
	RemoveInstance(index uint32) (uint32, bool)

	// PlayAnimation starts a clip from its beginning on an instance and resets the pose to rest.
	// Out-of-range instance or clip indices are ignored.
	//
	// Parameters:
	//   - instanceIndex: the index of the instance to animate
	//   - clipIndex: the index of the model clip to play
	//   - loop: whether playback wraps at the end of the clip
	PlayAnimation(instanceIndex, clipIndex uint32, loop bool)

	// StopAnimation stops playback and holds the instance's current pose.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	StopAnimation(instanceIndex uint32)

	// SetAnimationTime sets the playback position for an instance.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	//   - time: the playback time in seconds
	SetAnimationTime(instanceIndex uint32, time float32)

	// SetAnimationSpeed sets the playback rate for an instance. Negative speeds play backwards.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	//   - speed: the playback rate multiplier
	SetAnimationSpeed(instanceIndex uint32, speed float32)

	// AnimationTime returns the playback position of an instance, as adjusted by the last sample.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	//
	// Returns:
	//   - float32: the playback time, or 0 for an invalid index
	AnimationTime(instanceIndex uint32) float32

	// CurrentClip returns the clip index an instance is playing.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	//
	// Returns:
	//   - int: the clip index, or -1 when the instance is idle or invalid
	CurrentClip(instanceIndex uint32) int

	// Pose returns a copy of an instance's current local pose.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	//
	// Returns:
	//   - *pose.Pose: the pose copy, or nil for an invalid index
	Pose(instanceIndex uint32) *pose.Pose

	// Palette returns a copy of an instance's model-space joint matrices from the last PrepareFrame.
	//
	// Parameters:
	//   - instanceIndex: the instance index
	//
	// Returns:
	//   - []common.Mat4: one matrix per joint, or nil for an invalid index
	Palette(instanceIndex uint32) []common.Mat4

	// PrepareFrame advances every playing instance by deltaTime times its speed, samples its clip
	// into its pose, and rebuilds every instance's palette. Instances are processed in parallel
	// on the compute pool when there are enough of them.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// Flush stages the dirty palettes as a single contiguous PaletteWrite.
	//
	// Returns:
	//   - uint32: the number of instances that were flushed
	Flush() uint32

	// StagedWriteData returns and clears the pending palette writes.
	//
	// Returns:
	//   - []PaletteWrite: the pending writes
	StagedWriteData() []PaletteWrite

	// InverseBindPoseData returns the skeleton's inverse bind matrices as column-major bytes.
	//
	// Returns:
	//   - []byte: the matrix bytes, or nil without a skeleton
	InverseBindPoseData() []byte

	// Release drops every instance and staged write.
	Release()
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator with the specified options applied.
//
// Parameters:
//   - options: a variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: the new animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:             &sync.Mutex{},
		maxInstances:   defaultMaxInstances,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(a)
	}

	a.computePool = worker.NewDynamicWorkerPool(a.computeWorkers, 256, 1*time.Second)
	a.allocate(a.maxInstances)
	return a
}

// allocate resets instance storage to capacity n. Callers hold mu or own a exclusively.
func (a *animator) allocate(n uint32) {
	a.maxInstances = n
	a.instanceCount = 0
	a.instances = make([]instanceState, n)
	a.palettes = make([]common.Mat4, int(n)*a.jointCount)
	a.stagingPalette = make([]byte, len(a.palettes)*int(matrixSize))
	a.stagedWriteData = a.stagedWriteData[:0]
	a.dirty = false
	a.dirtyStart, a.dirtyEnd = 0, 0
}

func (a *animator) Model() model.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

func (a *animator) SetModel(m model.Model) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setModel(m)
	a.allocate(a.maxInstances)
}

// setModel stores m and caches its joint count.
func (a *animator) setModel(m model.Model) {
	a.model = m
	a.jointCount = 0
	if m != nil && m.Skeleton() != nil {
		a.jointCount = m.Skeleton().JointCount()
	}
}

func (a *animator) MaxInstances() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxInstances
}

func (a *animator) InstanceCount() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instanceCount
}

func (a *animator) AddInstance() (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.model == nil || a.model.Skeleton() == nil {
		return 0, errNoSkeleton
	}

	if a.instanceCount >= a.maxInstances {
		// Auto-grow: double capacity (minimum 8)
		a.grow(max(a.maxInstances*2, 8))
	}

	idx := a.instanceCount
	a.instanceCount++

	rest := a.model.Skeleton().RestPose()
	st := &a.instances[idx]
	*st = instanceState{clipIndex: -1, speed: 1}
	st.pose = rest.Clone()
	rest.MatrixPalette(a.paletteSlot(idx))
	a.markDirty(idx, idx+1)

	return idx, nil
}

func (a *animator) Grow(newMax uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.grow(newMax)
}

// grow reallocates instance storage to newMax, copying live instances. Callers hold mu.
func (a *animator) grow(newMax uint32) {
	if newMax <= a.maxInstances {
		return
	}

	common.Log.WithFields(common.Fields{
		"from": a.maxInstances,
		"to":   newMax,
	}).Debug("growing animator capacity")

	newInstances := make([]instanceState, newMax)
	copy(newInstances, a.instances[:a.instanceCount])
	a.instances = newInstances

	newPalettes := make([]common.Mat4, int(newMax)*a.jointCount)
	copy(newPalettes, a.palettes[:int(a.instanceCount)*a.jointCount])
	a.palettes = newPalettes

	a.stagingPalette = make([]byte, len(a.palettes)*int(matrixSize))
	a.maxInstances = newMax

	// Staged data points into the old staging buffer; re-stage everything on the next Flush
	a.stagedWriteData = a.stagedWriteData[:0]
	if a.instanceCount > 0 {
		a.markDirty(0, a.instanceCount)
	}
}

func (a *animator) RemoveInstance(index uint32) (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.instanceCount == 0 || index >= a.instanceCount {
		return 0, false
	}

	last := a.instanceCount - 1
	swapped := index != last

	if swapped {
		a.instances[index] = a.instances[last]
		copy(a.paletteSlot(index), a.paletteSlot(last))
		a.markDirty(index, index+1)
	}

	a.instances[last] = instanceState{}
	clear(a.paletteSlot(last))
	a.instanceCount--
	if a.dirtyEnd > a.instanceCount {
		a.dirtyEnd = a.instanceCount
		if a.dirtyStart >= a.dirtyEnd {
			a.dirty = false
			a.dirtyStart, a.dirtyEnd = 0, 0
		}
	}

	return last, swapped
}

func (a *animator) PlayAnimation(instanceIndex, clipIndex uint32, loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return
	}
	clip := a.model.Clip(int(clipIndex))
	if clip == nil {
		common.Log.WithFields(common.Fields{
			"model": a.model.Name(),
			"clip":  clipIndex,
		}).Warn("ignoring PlayAnimation for unknown clip")
		return
	}

	st := &a.instances[instanceIndex]
	st.clip = clip.WithLooping(loop)
	st.clipIndex = int(clipIndex)
	st.playing = true
	st.time = clip.StartTime()
	st.speed = 1.0
	st.loop = loop
	st.pose.CopyFrom(a.model.Skeleton().RestPose())
}

func (a *animator) StopAnimation(instanceIndex uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return
	}
	st := &a.instances[instanceIndex]
	st.playing = false
	st.clipIndex = -1
}

func (a *animator) SetAnimationTime(instanceIndex uint32, time float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return
	}
	a.instances[instanceIndex].time = time
}

func (a *animator) SetAnimationSpeed(instanceIndex uint32, speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return
	}
	a.instances[instanceIndex].speed = speed
}

func (a *animator) AnimationTime(instanceIndex uint32) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return 0
	}
	return a.instances[instanceIndex].time
}

func (a *animator) CurrentClip(instanceIndex uint32) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return -1
	}
	return a.instances[instanceIndex].clipIndex
}

func (a *animator) Pose(instanceIndex uint32) *pose.Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return nil
	}
	return a.instances[instanceIndex].pose.Clone()
}

func (a *animator) Palette(instanceIndex uint32) []common.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if instanceIndex >= a.instanceCount {
		return nil
	}
	out := make([]common.Mat4, a.jointCount)
	copy(out, a.paletteSlot(instanceIndex))
	return out
}

func (a *animator) PrepareFrame(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profiler != nil {
		a.profiler.Tick()
	}

	count := a.instanceCount
	if count == 0 {
		return
	}

	if count < 2*instancesPerTask || a.computeWorkers <= 1 {
		a.advance(0, count, deltaTime)
	} else {
		// Workers are reused across frames; the WaitGroup is the per-frame barrier
		var wg sync.WaitGroup
		batch := max((count+uint32(a.computeWorkers)-1)/uint32(a.computeWorkers), instancesPerTask)
		for start := uint32(0); start < count; start += batch {
			end := min(start+batch, count)
			wg.Add(1)
			a.taskID++
			a.computePool.SubmitTask(worker.Task{
				ID: a.taskID,
				Do: func() (any, error) {
					defer wg.Done()
					a.advance(start, end, deltaTime)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	a.markDirty(0, count)
}

// advance samples and rebuilds the palettes of instances [start, end).
// Each instance touches only its own state and palette slot, so disjoint ranges may run concurrently.
func (a *animator) advance(start, end uint32, deltaTime float32) {
	for i := start; i < end; i++ {
		st := &a.instances[i]
		if st.playing {
			st.time = st.clip.Sample(st.pose, st.time+deltaTime*st.speed)
		}
		st.pose.MatrixPalette(a.paletteSlot(i))
	}
}

func (a *animator) Flush() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.dirty || a.jointCount == 0 {
		return 0
	}

	count := a.dirtyEnd - a.dirtyStart
	first := int(a.dirtyStart) * a.jointCount
	last := int(a.dirtyEnd) * a.jointCount

	raw := common.SliceToBytes(a.palettes[first:last])
	byteOffset := first * int(matrixSize)
	buf := a.stagingPalette[byteOffset : byteOffset+len(raw)]
	copy(buf, raw)

	a.stagedWriteData = append(a.stagedWriteData, PaletteWrite{
		Offset:        uint64(byteOffset),
		FirstInstance: a.dirtyStart,
		InstanceCount: count,
		Data:          buf,
	})

	a.dirty = false
	a.dirtyStart, a.dirtyEnd = 0, 0
	return count
}

func (a *animator) StagedWriteData() []PaletteWrite {
	a.mu.Lock()
	defer a.mu.Unlock()
	w := a.stagedWriteData
	a.stagedWriteData = a.stagedWriteData[:0]
	return w
}

func (a *animator) InverseBindPoseData() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil || a.model.Skeleton() == nil {
		return nil
	}
	return a.model.Skeleton().InverseBindPoseBytes()
}

func (a *animator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.allocate(0)
	a.stagedWriteData = nil
}

// paletteSlot returns the palette matrices of instance i.
func (a *animator) paletteSlot(i uint32) []common.Mat4 {
	start := int(i) * a.jointCount
	end := start + a.jointCount
	return a.palettes[start:end:end]
}

// markDirty extends the dirty instance range to cover [start, end).
func (a *animator) markDirty(start, end uint32) {
	if !a.dirty {
		a.dirtyStart = start
		a.dirtyEnd = end
		a.dirty = true
		return
	}
	a.dirtyStart = min(a.dirtyStart, start)
	a.dirtyEnd = max(a.dirtyEnd, end)
}
