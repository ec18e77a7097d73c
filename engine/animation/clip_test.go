package animation

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

func vecKey(time float32, v common.Vec3) Frame[common.Vec3] {
	return Frame[common.Vec3]{Time: time, Value: v}
}

func TestTransformTrackSampleKeepsReference(t *testing.T) {
	tt := TransformTrack{Joint: 0}
	tt.Position.Frames = []Frame[common.Vec3]{vecKey(0, common.Vec3{0, 0, 0}), vecKey(1, common.Vec3{2, 0, 0})}
	tt.Scale.Frames = []Frame[common.Vec3]{vecKey(0, common.Vec3{5, 5, 5})}

	ref := common.Transform{
		Position: common.Vec3{9, 9, 9},
		Rotation: common.AngleAxis(0.5, common.Vec3{0, 0, 1}),
		Scale:    common.Vec3{3, 3, 3},
	}
	got := tt.Sample(ref, 0.5, false)
	if got.Position != (common.Vec3{1, 0, 0}) {
		t.Errorf("position = %v, want (1,0,0)", got.Position)
	}
	if got.Rotation != ref.Rotation {
		t.Errorf("rotation = %v, want reference %v", got.Rotation, ref.Rotation)
	}
	if got.Scale != ref.Scale {
		t.Errorf("single frame scale overwrote the reference: %v", got.Scale)
	}
}

func TestTransformTrackBounds(t *testing.T) {
	tt := TransformTrack{}
	if tt.IsValid() || tt.StartTime() != 0 || tt.EndTime() != 0 {
		t.Fatalf("empty track: valid=%v start=%v end=%v", tt.IsValid(), tt.StartTime(), tt.EndTime())
	}

	tt.Position.Frames = []Frame[common.Vec3]{vecKey(0.5, common.Vec3{}), vecKey(2, common.Vec3{})}
	tt.Rotation.Frames = []Frame[common.Quat]{{Time: -3, Value: common.QuatIdentity()}}
	tt.Scale.Frames = []Frame[common.Vec3]{vecKey(1, common.Vec3{}), vecKey(3, common.Vec3{})}

	if !tt.IsValid() {
		t.Fatal("track with two-frame channels should be valid")
	}
	if got := tt.StartTime(); got != 0.5 {
		t.Errorf("start = %v, want 0.5 (single frame rotation ignored)", got)
	}
	if got := tt.EndTime(); got != 3 {
		t.Errorf("end = %v, want 3", got)
	}
}

func buildWalk(looping bool) Clip {
	b := NewClipBuilder("walk", WithLooping(looping))
	root := b.Track(0)
	root.Position.Frames = []Frame[common.Vec3]{
		vecKey(0, common.Vec3{0, 0, 0}),
		vecKey(2, common.Vec3{4, 0, 0}),
	}
	leaf := b.Track(2)
	leaf.Rotation.Interpolation = InterpolationConstant
	leaf.Rotation.Frames = []Frame[common.Quat]{
		{Time: 1, Value: common.QuatIdentity()},
		{Time: 1.5, Value: common.AngleAxis(1, common.Vec3{0, 1, 0})},
		{Time: 3, Value: common.QuatIdentity()},
	}
	return b.Build()
}

func TestClipBuilder(t *testing.T) {
	b := NewClipBuilder("idle")
	first := b.Track(4)
	if again := b.Track(4); again != first {
		t.Error("Track should return the existing track for a known joint")
	}
	b.Track(7)
	if b.TrackCount() != 2 {
		t.Fatalf("track count = %d, want 2", b.TrackCount())
	}
	b.SetJointIDAt(1, 9)
	if b.Track(9).Joint != 9 || b.TrackCount() != 2 {
		t.Errorf("retargeted track not found under its new joint")
	}

	first.Position.Frames = []Frame[common.Vec3]{vecKey(0, common.Vec3{}), vecKey(1, common.Vec3{})}
	clip := b.Build()
	if !clip.Looping() || clip.Name() != "idle" {
		t.Errorf("clip = %q looping=%v, want idle looping", clip.Name(), clip.Looping())
	}

	first.Position.Frames[1].Time = 100
	if clip.EndTime() != 1 {
		t.Errorf("end = %v, want 1", clip.EndTime())
	}
	if tr, _ := clip.Track(4); tr.Position.Frames[1].Time != 1 {
		t.Error("mutating the builder after Build changed the clip")
	}
}

func TestClipDuration(t *testing.T) {
	clip := buildWalk(true)
	if clip.StartTime() != 0 || clip.EndTime() != 3 || clip.Duration() != 3 {
		t.Errorf("range = [%v, %v] duration %v, want [0, 3] duration 3", clip.StartTime(), clip.EndTime(), clip.Duration())
	}
	if clip.TrackCount() != 2 || clip.JointIDAt(1) != 2 {
		t.Errorf("tracks = %d, joint[1] = %d", clip.TrackCount(), clip.JointIDAt(1))
	}
	if _, ok := clip.Track(1); ok {
		t.Error("lookup of an unanimated joint should fail")
	}
	if _, ok := clip.Track(2); !ok {
		t.Error("lookup of an animated joint should succeed")
	}

	empty := NewClipBuilder("empty").Build()
	if empty.StartTime() != 0 || empty.EndTime() != 0 {
		t.Errorf("empty clip range = [%v, %v], want [0, 0]", empty.StartTime(), empty.EndTime())
	}
}

func TestClipSample(t *testing.T) {
	clip := buildWalk(true)
	p := pose.NewPose(3)
	p.SetLocalTransform(1, common.Transform{Position: common.Vec3{0, 7, 0}, Rotation: common.QuatIdentity(), Scale: common.Vec3One()})

	used := clip.Sample(p, 1)
	if used != 1 {
		t.Errorf("time used = %v, want 1", used)
	}
	if got := p.LocalTransform(0).Position; got != (common.Vec3{2, 0, 0}) {
		t.Errorf("root position = %v, want (2,0,0)", got)
	}
	if got := p.LocalTransform(1).Position; got != (common.Vec3{0, 7, 0}) {
		t.Errorf("unanimated joint changed: %v", got)
	}

	clip.Sample(p, 1.75)
	if got := p.LocalTransform(2).Rotation; got != common.AngleAxis(1, common.Vec3{0, 1, 0}) {
		t.Errorf("constant rotation = %v", got)
	}

	used = clip.Sample(p, 4)
	if !nearly(used, 1) {
		t.Errorf("looping time used = %v, want 1", used)
	}

	clamped := clip.WithLooping(false)
	if clip.Looping() == clamped.Looping() {
		t.Fatal("WithLooping did not produce a modified copy")
	}
	if used = clamped.Sample(p, 10); used != 3 {
		t.Errorf("clamped time used = %v, want 3", used)
	}
	if got := p.LocalTransform(0).Position; got != (common.Vec3{4, 0, 0}) {
		t.Errorf("clamped root position = %v, want (4,0,0)", got)
	}
	if used = clamped.Sample(p, -1); used != 0 {
		t.Errorf("clamped time used = %v, want 0", used)
	}
}

func TestZeroDurationClip(t *testing.T) {
	b := NewClipBuilder("pose")
	b.Track(0).Position.Frames = []Frame[common.Vec3]{vecKey(2, common.Vec3{1, 2, 3})}
	clip := b.Build()

	p := pose.NewPose(1)
	before := p.Clone()
	if got := clip.Sample(p, 5); got != 0 {
		t.Errorf("time used = %v, want 0", got)
	}
	if !p.Equal(before) {
		t.Error("zero duration clip modified the pose")
	}
}
