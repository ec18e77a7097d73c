package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// Skeleton holds the rest pose, the bind pose and the inverse bind matrices derived from it.
// It is built once at load time and read-only afterwards.
type Skeleton struct {
	restPose         *pose.Pose
	bindPose         *pose.Pose
	invBindPose      []common.Mat4
	jointNames       []string
	jointNameToIndex map[string]int
}

// NewSkeleton creates a skeleton from rest and bind poses. names may be nil or shorter than the
// joint count; missing names are empty.
//
// Parameters:
//   - rest: the pose the skeleton is in without animation
//   - bind: the pose the mesh was skinned in
//   - names: optional joint names, index-aligned with the poses
//
// Returns:
//   - *Skeleton: the new skeleton
func NewSkeleton(rest, bind *pose.Pose, names []string) *Skeleton {
	s := &Skeleton{}
	s.SetPoses(rest, bind)
	s.SetJointNames(names)
	return s
}

// SetPoses stores copies of rest and bind and recomputes the inverse bind matrices:
// one per joint, the inverse of the bind pose's global matrix.
//
// Parameters:
//   - rest: the rest pose
//   - bind: the bind pose
func (s *Skeleton) SetPoses(rest, bind *pose.Pose) {
	s.restPose = rest.Clone()
	s.bindPose = bind.Clone()

	n := bind.Len()
	s.invBindPose = make([]common.Mat4, n)
	for i := range n {
		s.invBindPose[i] = bind.GlobalTransform(i).ToMat4().Inverse()
	}
}

// SetJointNames replaces the joint names and rebuilds the name lookup.
//
// Parameters:
//   - names: joint names, index-aligned with the poses
func (s *Skeleton) SetJointNames(names []string) {
	s.jointNames = make([]string, s.restPose.Len())
	copy(s.jointNames, names)
	s.jointNameToIndex = make(map[string]int, len(s.jointNames))
	for i, name := range s.jointNames {
		if name == "" {
			continue
		}
		if _, exists := s.jointNameToIndex[name]; !exists {
			s.jointNameToIndex[name] = i
		}
	}
}

// RestPose returns the rest pose. Callers must clone it before mutating.
func (s *Skeleton) RestPose() *pose.Pose {
	return s.restPose
}

// BindPose returns the bind pose. Callers must clone it before mutating.
func (s *Skeleton) BindPose() *pose.Pose {
	return s.bindPose
}

// InverseBindPose returns one inverse bind matrix per joint.
func (s *Skeleton) InverseBindPose() []common.Mat4 {
	return s.invBindPose
}

// InverseBindPoseBytes returns the inverse bind matrices as tightly packed column-major float32 bytes.
// The slice aliases the skeleton's storage and must not be modified.
func (s *Skeleton) InverseBindPoseBytes() []byte {
	return common.SliceToBytes(s.invBindPose)
}

// JointCount returns the number of joints.
func (s *Skeleton) JointCount() int {
	return s.restPose.Len()
}

// JointNames returns the joint names, index-aligned with the poses.
func (s *Skeleton) JointNames() []string {
	return s.jointNames
}

// JointIndex looks a joint up by name.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - int: the joint index, or -1 if no joint has that name
func (s *Skeleton) JointIndex(name string) int {
	if i, ok := s.jointNameToIndex[name]; ok {
		return i
	}
	return -1
}
