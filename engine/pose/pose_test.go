package pose

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

func nearly(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-4
}

func vecNearly(a, b common.Vec3) bool {
	return nearly(a[0], b[0]) && nearly(a[1], b[1]) && nearly(a[2], b[2])
}

// chain builds root -> mid -> leaf, each joint offset one unit along +x from its parent
// and rotated a quarter turn around +z.
func chain() *Pose {
	p := NewPose(3)
	quarter := common.AngleAxis(math.Pi/2, common.Vec3{0, 0, 1})
	p.SetLocalTransform(0, common.Transform{Position: common.Vec3{1, 0, 0}, Rotation: quarter, Scale: common.Vec3{2, 2, 2}})
	p.SetLocalTransform(1, common.Transform{Position: common.Vec3{1, 0, 0}, Rotation: quarter, Scale: common.Vec3One()})
	p.SetLocalTransform(2, common.Transform{Position: common.Vec3{1, 0, 0}, Rotation: common.QuatIdentity(), Scale: common.Vec3One()})
	p.SetParent(1, 0)
	p.SetParent(2, 1)
	return p
}

func TestNewPoseDefaults(t *testing.T) {
	p := NewPose(4)
	if p.Len() != 4 {
		t.Fatalf("len = %d, want 4", p.Len())
	}
	for i := range 4 {
		if p.Parent(i) != -1 {
			t.Errorf("parent(%d) = %d, want -1", i, p.Parent(i))
		}
		if p.LocalTransform(i) != common.NewTransform() {
			t.Errorf("joint %d = %+v, want identity", i, p.LocalTransform(i))
		}
	}
}

func TestResizeKeepsExistingJoints(t *testing.T) {
	p := chain()
	p.Resize(5)
	if p.Parent(2) != 1 || p.Parent(3) != -1 || p.Parent(4) != -1 {
		t.Errorf("parents = %d %d %d, want 1 -1 -1", p.Parent(2), p.Parent(3), p.Parent(4))
	}
	p.Resize(2)
	if p.Len() != 2 {
		t.Errorf("len = %d, want 2", p.Len())
	}
	p.Resize(3)
	if p.LocalTransform(2) != common.NewTransform() || p.Parent(2) != -1 {
		t.Errorf("regrown joint = %+v parent %d, want identity root", p.LocalTransform(2), p.Parent(2))
	}
}

func TestGlobalTransformHierarchy(t *testing.T) {
	p := chain()

	// root: at (1,0,0), facing +y, scale 2
	// mid:  root + rot90(2 * (1,0,0)) = (1,2,0), rotated 180 degrees
	// leaf: mid + rot180(2 * (1,0,0)) = (-1,2,0)
	want := []common.Vec3{{1, 0, 0}, {1, 2, 0}, {-1, 2, 0}}
	for i, w := range want {
		got := p.GlobalTransform(i)
		if !vecNearly(got.Position, w) {
			t.Errorf("global(%d).position = %v, want %v", i, got.Position, w)
		}
	}

	manual := common.Combine(common.Combine(p.LocalTransform(0), p.LocalTransform(1)), p.LocalTransform(2))
	got := p.GlobalTransform(2)
	if !vecNearly(got.Position, manual.Position) || !vecNearly(got.Scale, manual.Scale) ||
		!got.Rotation.SameOrientation(manual.Rotation) {
		t.Errorf("global(leaf) = %+v, want %+v", got, manual)
	}

	// leaf x axis points along -x after two quarter turns
	if dir := got.TransformVector(common.Vec3{1, 0, 0}); !vecNearly(dir, common.Vec3{-2, 0, 0}) {
		t.Errorf("leaf x axis = %v, want (-2,0,0)", dir)
	}

	// matrix chain agrees with the transform chain
	m := p.LocalTransform(0).ToMat4().Mul(p.LocalTransform(1).ToMat4()).Mul(p.LocalTransform(2).ToMat4())
	if !m.Equal(got.ToMat4(), 1e-4) {
		t.Errorf("matrix chain = %v, want %v", m, got.ToMat4())
	}
}

func TestReparentToRoot(t *testing.T) {
	p := chain()
	p.SetParent(2, -1)
	if got := p.GlobalTransform(2); got != p.LocalTransform(2) {
		t.Errorf("global = %+v, want local %+v", got, p.LocalTransform(2))
	}
}

func TestMatrixPalette(t *testing.T) {
	p := chain()
	palette := p.MatrixPalette(nil)
	if len(palette) != 3 {
		t.Fatalf("palette len = %d, want 3", len(palette))
	}
	for i := range palette {
		if !palette[i].Equal(p.GlobalTransform(i).ToMat4(), 1e-6) {
			t.Errorf("palette[%d] does not match the global transform", i)
		}
	}

	reused := p.MatrixPalette(palette)
	if &reused[0] != &palette[0] {
		t.Error("palette buffer with enough capacity was not reused")
	}
}

func TestCycleDetection(t *testing.T) {
	p := NewPose(2)
	p.SetParent(0, 1)
	p.SetParent(1, 0)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on a parent cycle")
		}
	}()
	p.GlobalTransform(0)
}

func TestOutOfRangePanics(t *testing.T) {
	p := NewPose(2)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on out of range joint")
		}
	}()
	p.LocalTransform(2)
}

func TestCloneIsIndependent(t *testing.T) {
	p := chain()
	c := p.Clone()
	if !c.Equal(p) {
		t.Fatal("clone differs from source")
	}
	c.SetLocalTransform(0, common.NewTransform())
	c.SetParent(2, -1)
	if c.Equal(p) {
		t.Error("mutating the clone changed equality unexpectedly")
	}
	if p.Parent(2) != 1 {
		t.Error("mutating the clone changed the source")
	}

	var dst Pose
	dst.CopyFrom(p)
	if !dst.Equal(p) {
		t.Error("CopyFrom result differs from source")
	}
}
