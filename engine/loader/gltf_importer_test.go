package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func importJSON(t *testing.T, data []byte) *model.ImportedModel {
	t.Helper()
	imported, err := newGLTFImporter().ImportReader(bytes.NewReader(data), false, "fixture")
	if err != nil {
		t.Fatalf("ImportReader: %v", err)
	}
	return imported
}

func TestImportRestPose(t *testing.T) {
	imported := importJSON(t, riggedJSON(t, "walk"))

	if imported.Name != "rig" {
		t.Errorf("name = %q, want scene name rig", imported.Name)
	}
	s := imported.Skeleton
	if s.JointCount() != 2 {
		t.Fatalf("joint count = %d, want 2", s.JointCount())
	}
	if s.JointIndex("spine") != 1 || s.JointIndex("hips") != 0 {
		t.Errorf("names = %v", s.JointNames())
	}

	rest := s.RestPose()
	if rest.Parent(0) != -1 || rest.Parent(1) != 0 {
		t.Errorf("parents = %d, %d, want -1, 0", rest.Parent(0), rest.Parent(1))
	}
	if got := rest.GlobalTransform(1).Position; !got.Equal(common.Vec3{0, 2, 0}) {
		t.Errorf("rest global spine = %v, want (0,2,0)", got)
	}
}

func TestImportBindPoseFromInverseBindMatrices(t *testing.T) {
	s := importJSON(t, riggedJSON(t, "walk")).Skeleton

	bind := s.BindPose()
	if got := bind.LocalTransform(1).Position; !got.Equal(common.Vec3{0, 2, 0}) {
		t.Errorf("bind local spine = %v, want (0,2,0)", got)
	}
	if got := bind.GlobalTransform(1).Position; !got.Equal(common.Vec3{0, 3, 0}) {
		t.Errorf("bind global spine = %v, want (0,3,0)", got)
	}
	if !s.InverseBindPose()[1].Equal(translation(0, -3, 0), 1e-5) {
		t.Errorf("inverse bind = %v", s.InverseBindPose()[1])
	}
}

func TestImportClips(t *testing.T) {
	clips := importJSON(t, riggedJSON(t, "walk")).Clips
	if len(clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(clips))
	}
	clip := clips[0]
	if clip.Name() != "walk" || clip.TrackCount() != 2 {
		t.Fatalf("clip %q has %d tracks, want walk with 2", clip.Name(), clip.TrackCount())
	}
	if clip.Duration() != 1 {
		t.Errorf("duration = %v, want 1", clip.Duration())
	}

	spine, ok := clip.Track(1)
	if !ok || spine.Position.Len() != 2 || spine.Rotation.Len() != 0 {
		t.Fatalf("spine track = %+v", spine)
	}
	hips, _ := clip.Track(0)
	if hips.Rotation.Interpolation.String() != "STEP" {
		t.Errorf("hips interpolation = %v, want STEP", hips.Rotation.Interpolation)
	}
}

func TestImportedClipDrivesRestPose(t *testing.T) {
	imported := importJSON(t, riggedJSON(t, "walk"))
	p := imported.Skeleton.RestPose().Clone()
	clip := imported.Clips[0].WithLooping(false)

	clip.Sample(p, 0.25)
	if got := p.LocalTransform(1).Position; !got.Equal(common.Vec3{0.5, 1, 0}) {
		t.Errorf("spine at 0.25 = %v, want (0.5,1,0)", got)
	}
	if got := p.LocalTransform(0).Rotation; !got.SameOrientation(common.QuatIdentity()) {
		t.Errorf("hips at 0.25 = %v, want identity (step)", got)
	}

	clip.Sample(p, 0.75)
	want := common.AngleAxis(math.Pi/2, common.Vec3{0, 1, 0})
	if got := p.LocalTransform(0).Rotation; !got.SameOrientation(want) {
		t.Errorf("hips at 0.75 = %v, want %v", got, want)
	}
}

func TestImportCubicSpline(t *testing.T) {
	f := &docFixture{}
	times := f.addFloats(gltfAccessorTypeScalar, 0, 2)
	// in, value, out per keyframe
	values := f.addFloats(gltfAccessorTypeVec3,
		0, 0, 0, 0, 0, 0, 1, 0, 0,
		1, 0, 0, 4, 0, 0, 0, 0, 0,
	)
	data := mustJSON(t, f.document(true, map[string]any{
		"nodes": []any{map[string]any{}},
		"animations": []any{map[string]any{
			"samplers": []any{map[string]any{"input": times, "output": values, "interpolation": "CUBICSPLINE"}},
			"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 0, "path": "scale"}}},
		}},
	}))

	imported := importJSON(t, data)
	if imported.Name != "fixture" {
		t.Errorf("name = %q, want fallback fixture", imported.Name)
	}
	clip := imported.Clips[0]
	if clip.Name() != "animation_0" {
		t.Errorf("clip name = %q, want animation_0", clip.Name())
	}
	track, _ := clip.Track(0)
	frames := track.Scale.Frames
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if frames[0].Out != (common.Vec3{1, 0, 0}) || frames[1].In != (common.Vec3{1, 0, 0}) || frames[1].Value != (common.Vec3{4, 0, 0}) {
		t.Errorf("frames = %+v", frames)
	}
}

func TestImportRejectsShortCubicOutput(t *testing.T) {
	f := &docFixture{}
	times := f.addFloats(gltfAccessorTypeScalar, 0, 1)
	values := f.addFloats(gltfAccessorTypeVec3, 0, 0, 0, 1, 1, 1)
	data := mustJSON(t, f.document(true, map[string]any{
		"nodes": []any{map[string]any{}},
		"animations": []any{map[string]any{
			"samplers": []any{map[string]any{"input": times, "output": values, "interpolation": "CUBICSPLINE"}},
			"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 0, "path": "translation"}}},
		}},
	}))

	if _, err := newGLTFImporter().ImportReader(bytes.NewReader(data), false, ""); err == nil {
		t.Fatal("expected an error for cubic output without tangents")
	}
}

func TestNodeMatrixWithTRSOverride(t *testing.T) {
	m := common.Transform{
		Position: common.Vec3{1, 2, 3},
		Rotation: common.AngleAxis(0.5, common.Vec3{0, 0, 1}),
		Scale:    common.Vec3{2, 2, 2},
	}.ToMat4()
	matrix := [16]float32(m)
	override := [3]float32{9, 9, 9}

	got := gltfNodeTransform(&gltfNode{Matrix: &matrix})
	if !got.Position.Equal(common.Vec3{1, 2, 3}) || !got.Scale.Equal(common.Vec3{2, 2, 2}) {
		t.Errorf("decomposed = %+v", got)
	}

	got = gltfNodeTransform(&gltfNode{Matrix: &matrix, Translation: &override})
	if got.Position != (common.Vec3{9, 9, 9}) || !got.Scale.Equal(common.Vec3{2, 2, 2}) {
		t.Errorf("override = %+v", got)
	}
}

func TestImportHierarchyErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []any
	}{
		{"cycle", []any{map[string]any{"children": []int{1}}, map[string]any{"children": []int{0}}}},
		{"self", []any{map[string]any{"children": []int{0}}}},
		{"two parents", []any{map[string]any{"children": []int{2}}, map[string]any{"children": []int{2}}, map[string]any{}}},
		{"child out of range", []any{map[string]any{"children": []int{4}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mustJSON(t, map[string]any{"asset": map[string]any{"version": "2.0"}, "nodes": tt.nodes})
			if _, err := newGLTFImporter().ImportReader(bytes.NewReader(data), false, ""); err == nil {
				t.Fatal("expected a hierarchy error")
			}
		})
	}
}

func TestParserProbe(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{"version 1", `{"asset":{"version":"1.0"}}`, errInvalidGLTFVersion},
		{"missing asset", `{}`, errInvalidGLTFVersion},
		{"required draco", `{"asset":{"version":"2.0"},"extensionsRequired":["KHR_draco_mesh_compression"]}`, nil},
		{"required unlit", `{"asset":{"version":"2.0"},"extensionsRequired":["KHR_materials_unlit"]}`, nil},
		{"required unknown", `{"asset":{"version":"2.0"},"extensionsRequired":["EXT_mesh_gpu_instancing"]}`, errUnsupportedExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newGLTFParser().ParseReader(strings.NewReader(tt.json), false, ".")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := newGLTFParser().ParseReader(strings.NewReader(`{"asset":`), false, "."); err == nil {
		t.Error("expected malformed JSON to fail")
	}
}

func TestParseGLB(t *testing.T) {
	f, fields := riggedFixture("idle")
	data := glbBytes(mustJSON(t, f.document(false, fields)), f.buf)

	imported, err := newGLTFImporter().ImportReader(bytes.NewReader(data), true, "")
	if err != nil {
		t.Fatalf("ImportReader: %v", err)
	}
	if imported.Skeleton.JointCount() != 2 || len(imported.Clips) != 1 || imported.Clips[0].Name() != "idle" {
		t.Errorf("imported = %d joints, %d clips", imported.Skeleton.JointCount(), len(imported.Clips))
	}

	data[0] = 'x'
	if _, err := newGLTFImporter().ImportReader(bytes.NewReader(data), true, ""); !errors.Is(err, errInvalidGLBMagic) {
		t.Errorf("err = %v, want bad magic", err)
	}
}

func TestReadNormalizedAccessor(t *testing.T) {
	f := &docFixture{}
	f.buf = binary.LittleEndian.AppendUint16(f.buf, 65535)
	f.buf = binary.LittleEndian.AppendUint16(f.buf, 0)
	f.buf = append(f.buf, 0x81, 0x7f, 0, 0) // int8 -127, 127 and padding
	short := f.addAccessor(gltfAccessorTypeScalar, 0, 4, gltfComponentTypeUnsignedShort, 2, true)
	signed := f.addAccessor(gltfAccessorTypeScalar, 4, 2, gltfComponentTypeByte, 2, true)
	raw := f.addAccessor(gltfAccessorTypeScalar, 0, 4, gltfComponentTypeUnsignedShort, 2, false)

	p := newGLTFParser()
	if err := p.ParseReader(bytes.NewReader(mustJSON(t, f.document(true, nil))), false, "."); err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	got, components, err := p.ReadFloatAccessor(short)
	if err != nil || components != 1 || got[0] != 1 || got[1] != 0 {
		t.Errorf("unsigned short = %v, %d, %v", got, components, err)
	}
	got, _, err = p.ReadFloatAccessor(signed)
	if err != nil || got[0] != -1 || got[1] != 1 {
		t.Errorf("byte = %v, %v", got, err)
	}
	if _, _, err := p.ReadFloatAccessor(raw); err == nil {
		t.Error("expected unnormalized integers to be rejected")
	}
}

func TestReadAccessorOutOfBounds(t *testing.T) {
	f := &docFixture{}
	f.addFloats(gltfAccessorTypeScalar, 1, 2)
	f.accessors[0]["count"] = 3

	p := newGLTFParser()
	if err := p.ParseReader(bytes.NewReader(mustJSON(t, f.document(true, nil))), false, "."); err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if _, err := p.ReadAccessorData(0); !errors.Is(err, errAccessorOutOfBounds) {
		t.Errorf("err = %v, want out of bounds", err)
	}
}
