package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// docFixture assembles small glTF documents with a single binary buffer.
type docFixture struct {
	buf       []byte
	views     []map[string]any
	accessors []map[string]any
}

func (f *docFixture) addFloats(accessorType string, values ...float32) int {
	offset := len(f.buf)
	for _, v := range values {
		f.buf = binary.LittleEndian.AppendUint32(f.buf, math.Float32bits(v))
	}
	return f.addAccessor(accessorType, offset, len(values)*4, gltfComponentTypeFloat, len(values)/gltfAccessorTypeComponentCount(accessorType), false)
}

func (f *docFixture) addMat4s(ms ...common.Mat4) int {
	var values []float32
	for _, m := range ms {
		values = append(values, m[:]...)
	}
	return f.addFloats(gltfAccessorTypeMat4, values...)
}

func (f *docFixture) addAccessor(accessorType string, offset, length, componentType, count int, normalized bool) int {
	f.views = append(f.views, map[string]any{"buffer": 0, "byteOffset": offset, "byteLength": length})
	f.accessors = append(f.accessors, map[string]any{
		"bufferView":    len(f.views) - 1,
		"componentType": componentType,
		"count":         count,
		"type":          accessorType,
		"normalized":    normalized,
	})
	return len(f.accessors) - 1
}

// document returns the JSON root. With embed the buffer is a base64 data URI, otherwise it is the GLB chunk.
func (f *docFixture) document(embed bool, fields map[string]any) map[string]any {
	buffer := map[string]any{"byteLength": len(f.buf)}
	if embed {
		buffer["uri"] = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(f.buf)
	}
	doc := map[string]any{
		"asset":       map[string]any{"version": "2.0"},
		"accessors":   f.accessors,
		"bufferViews": f.views,
		"buffers":     []any{buffer},
	}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

func translation(x, y, z float32) common.Mat4 {
	m := common.Mat4Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// riggedFixture is a two joint chain with one skin and one clip called clipName:
// joint 1 translates from (0,1,0) to (2,1,0) linearly, joint 0 steps to a quarter turn about +y at t=0.5.
func riggedFixture(clipName string) (*docFixture, map[string]any) {
	f := &docFixture{}
	times := f.addFloats(gltfAccessorTypeScalar, 0, 1)
	positions := f.addFloats(gltfAccessorTypeVec3, 0, 1, 0, 2, 1, 0)
	turn := common.AngleAxis(math.Pi/2, common.Vec3{0, 1, 0})
	stepTimes := f.addFloats(gltfAccessorTypeScalar, 0, 0.5, 1)
	rotations := f.addFloats(gltfAccessorTypeVec4, 0, 0, 0, 1, turn[0], turn[1], turn[2], turn[3], turn[0], turn[1], turn[2], turn[3])
	ibm := f.addMat4s(translation(0, -1, 0), translation(0, -3, 0))

	fields := map[string]any{
		"scene":  0,
		"scenes": []any{map[string]any{"name": "rig", "nodes": []int{0}}},
		"nodes": []any{
			map[string]any{"name": "hips", "children": []int{1}, "translation": []float32{0, 1, 0}},
			map[string]any{"name": "spine", "translation": []float32{0, 1, 0}},
		},
		"skins": []any{map[string]any{"joints": []int{0, 1}, "inverseBindMatrices": ibm}},
		"animations": []any{map[string]any{
			"name": clipName,
			"samplers": []any{
				map[string]any{"input": times, "output": positions},
				map[string]any{"input": stepTimes, "output": rotations, "interpolation": "STEP"},
			},
			"channels": []any{
				map[string]any{"sampler": 0, "target": map[string]any{"node": 1, "path": "translation"}},
				map[string]any{"sampler": 1, "target": map[string]any{"node": 0, "path": "rotation"}},
				map[string]any{"sampler": 0, "target": map[string]any{"node": 1, "path": "weights"}},
			},
		}},
	}
	return f, fields
}

func riggedJSON(t *testing.T, clipName string) []byte {
	t.Helper()
	f, fields := riggedFixture(clipName)
	return mustJSON(t, f.document(true, fields))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// glbBytes packs a JSON chunk and a BIN chunk into a GLB container.
func glbBytes(jsonData, bin []byte) []byte {
	pad := func(b []byte, c byte) []byte {
		out := append([]byte(nil), b...)
		for len(out)%4 != 0 {
			out = append(out, c)
		}
		return out
	}
	jsonData = pad(jsonData, ' ')
	bin = pad(bin, 0)

	total := 12 + 8 + len(jsonData) + 8 + len(bin)
	out := binary.LittleEndian.AppendUint32(nil, gltfGLBMagic)
	out = binary.LittleEndian.AppendUint32(out, gltfGLBVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(jsonData)))
	out = binary.LittleEndian.AppendUint32(out, gltfGLBChunkJSON)
	out = append(out, jsonData...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(bin)))
	out = binary.LittleEndian.AppendUint32(out, gltfGLBChunkBIN)
	return append(out, bin...)
}
