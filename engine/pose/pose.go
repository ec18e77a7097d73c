// Package pose holds the per-joint local transforms of a skeleton at one instant, plus the flat
// parent-index array that links them into a hierarchy.
package pose

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Pose is an ordered set of joint-local transforms and an index-aligned parent array.
// Root joints have parent -1. Poses are plain values: Clone produces an independent copy
// and the zero value is an empty pose.
//
// Indexing a joint outside [0, Len()) panics.
type Pose struct {
	joints  []common.Transform
	parents []int32
}

// NewPose creates a pose with n identity joints, all of them roots.
//
// Parameters:
//   - n: joint count
//
// Returns:
//   - *Pose: the new pose
func NewPose(n int) *Pose {
	p := &Pose{}
	p.Resize(n)
	return p
}

// Resize changes the joint count. Existing joints keep their transform and parent;
// new joints are identity transforms with parent -1.
//
// Parameters:
//   - n: the new joint count
func (p *Pose) Resize(n int) {
	old := len(p.joints)
	if n <= old {
		p.joints = p.joints[:n]
		p.parents = p.parents[:n]
		return
	}

	if cap(p.joints) >= n && cap(p.parents) >= n {
		p.joints = p.joints[:n]
		p.parents = p.parents[:n]
	} else {
		joints := make([]common.Transform, n)
		parents := make([]int32, n)
		copy(joints, p.joints)
		copy(parents, p.parents)
		p.joints = joints
		p.parents = parents
	}
	for i := old; i < n; i++ {
		p.joints[i] = common.NewTransform()
		p.parents[i] = -1
	}
}

// Len returns the joint count.
func (p *Pose) Len() int {
	return len(p.joints)
}

// LocalTransform returns the parent-relative transform of joint i.
func (p *Pose) LocalTransform(i int) common.Transform {
	return p.joints[i]
}

// SetLocalTransform replaces the parent-relative transform of joint i.
func (p *Pose) SetLocalTransform(i int, t common.Transform) {
	p.joints[i] = t
}

// Parent returns the parent index of joint i, or -1 for a root.
func (p *Pose) Parent(i int) int {
	return int(p.parents[i])
}

// SetParent links joint i under parent. Pass -1 to make i a root.
// The caller must not introduce a cycle.
func (p *Pose) SetParent(i, parent int) {
	p.parents[i] = int32(parent)
}

// GlobalTransform composes joint i with every ancestor up to its root.
// Each step wraps the accumulated result in the next ancestor: Combine(ancestor, acc).
// A parent chain longer than Len() means the hierarchy has a cycle, which panics.
//
// Parameters:
//   - i: joint index
//
// Returns:
//   - common.Transform: the model-space transform of joint i
func (p *Pose) GlobalTransform(i int) common.Transform {
	result := p.joints[i]
	steps := 0
	for parent := p.parents[i]; parent >= 0; parent = p.parents[parent] {
		steps++
		if steps > len(p.joints) {
			panic(fmt.Sprintf("pose: parent cycle detected at joint %d", i))
		}
		result = common.Combine(p.joints[parent], result)
	}
	return result
}

// MatrixPalette writes the model-space matrix of every joint into out and returns it.
// out is reused when it has enough capacity, otherwise a new slice is allocated.
//
// Parameters:
//   - out: optional destination buffer
//
// Returns:
//   - []common.Mat4: one column-major matrix per joint
func (p *Pose) MatrixPalette(out []common.Mat4) []common.Mat4 {
	n := len(p.joints)
	if cap(out) < n {
		out = make([]common.Mat4, n)
	}
	out = out[:n]
	for i := range n {
		out[i] = p.GlobalTransform(i).ToMat4()
	}
	return out
}

// Clone returns a deep copy of p.
func (p *Pose) Clone() *Pose {
	c := &Pose{}
	c.CopyFrom(p)
	return c
}

// CopyFrom overwrites p with the joints and parents of src, reusing p's buffers when possible.
func (p *Pose) CopyFrom(src *Pose) {
	if p == src {
		return
	}
	n := len(src.joints)
	if cap(p.joints) < n || cap(p.parents) < n {
		p.joints = make([]common.Transform, n)
		p.parents = make([]int32, n)
	}
	p.joints = p.joints[:n]
	p.parents = p.parents[:n]
	copy(p.joints, src.joints)
	copy(p.parents, src.parents)
}

// Equal reports whether both poses have the same joint count, identical parents and
// local transforms that match within tolerance.
func (p *Pose) Equal(o *Pose) bool {
	if len(p.joints) != len(o.joints) {
		return false
	}
	for i := range p.joints {
		if p.parents[i] != o.parents[i] || !p.joints[i].Equal(o.joints[i]) {
			return false
		}
	}
	return true
}
