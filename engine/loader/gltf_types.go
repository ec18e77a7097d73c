// gltf_types.go contains the subset of the glTF 2.0 schema the animation importer reads:
// the node hierarchy, skins, animations and the buffer plumbing behind their accessors.
// Meshes, materials and textures are not decoded.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// --- glTF Root Structure ---

// gltfDocument is the root of a glTF JSON document.
type gltfDocument struct {
	// Asset carries the version metadata.
	Asset gltfAsset `json:"asset"`

	// Scene is the default scene index.
	Scene *int `json:"scene,omitempty"`

	// Scenes list root nodes per scene.
	Scenes []gltfScene `json:"scenes,omitempty"`

	// Nodes is the flat node array; every node becomes a joint.
	Nodes []gltfNode `json:"nodes,omitempty"`

	// Accessors describe typed views into buffer data.
	Accessors []gltfAccessor `json:"accessors,omitempty"`

	// BufferViews are byte ranges of buffers.
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`

	// Buffers hold the raw binary data.
	Buffers []gltfBuffer `json:"buffers,omitempty"`

	// Skins pair joint nodes with inverse bind matrices.
	Skins []gltfSkin `json:"skins,omitempty"`

	// Animations are the keyframe clips.
	Animations []gltfAnimation `json:"animations,omitempty"`

	// ExtensionsUsed names every extension the asset uses.
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`

	// ExtensionsRequired names the extensions a reader must support.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// gltfAsset is the asset metadata block.
type gltfAsset struct {
	// Version is the glTF version, "2.0" for every supported file.
	Version string `json:"version"`

	// MinVersion is the minimum glTF version required to load the asset.
	MinVersion string `json:"minVersion,omitempty"`

	// Generator names the exporting tool.
	Generator string `json:"generator,omitempty"`
}

// gltfScene is a set of root nodes.
type gltfScene struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Nodes are the root node indices.
	Nodes []int `json:"nodes,omitempty"`
}

// gltfNode is one node of the hierarchy. Either Matrix or the TRS fields describe its local transform;
// TRS fields override the matrix when both are present.
type gltfNode struct {
	// Name is an optional name, used as the joint name.
	Name string `json:"name,omitempty"`

	// Children are the child node indices.
	Children []int `json:"children,omitempty"`

	// Skin is the skin index for skinned mesh nodes.
	Skin *int `json:"skin,omitempty"`

	// Matrix is a column-major local transform.
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the local translation.
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the local rotation quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the local scale.
	Scale *[3]float32 `json:"scale,omitempty"`
}

// --- Accessors & Buffers ---

// gltfAccessor is a typed view into a buffer view.
type gltfAccessor struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// BufferView is the source buffer view index.
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset into the buffer view.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the GL component type constant.
	ComponentType int `json:"componentType"`

	// Normalized maps integer components to [0, 1] or [-1, 1].
	Normalized bool `json:"normalized,omitempty"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element shape: SCALAR, VEC3, VEC4, MAT4 and so on.
	Type string `json:"type"`

	// Sparse is present for sparse accessors, which are rejected.
	Sparse *gltfAccessorSparse `json:"sparse,omitempty"`
}

// Component type constants
const (
	gltfComponentTypeByte          = 5120
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeShort         = 5122
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

// Accessor type constants
const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
	gltfAccessorTypeMat2   = "MAT2"
	gltfAccessorTypeMat3   = "MAT3"
	gltfAccessorTypeMat4   = "MAT4"
)

// gltfAccessorSparse marks a sparse accessor.
type gltfAccessorSparse struct {
	// Count is the number of displaced elements.
	Count int `json:"count"`
}

// gltfBufferView is a byte range of a buffer.
type gltfBufferView struct {
	// Buffer is the buffer index.
	Buffer int `json:"buffer"`

	// ByteOffset is the start of the range.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteLength is the length of the range.
	ByteLength int `json:"byteLength"`

	// ByteStride is the distance between elements for interleaved data.
	ByteStride *int `json:"byteStride,omitempty"`
}

// gltfBuffer is a block of binary data.
type gltfBuffer struct {
	// URI is a data URI or a path relative to the document; empty for the GLB binary chunk.
	URI string `json:"uri,omitempty"`

	// ByteLength is the declared length.
	ByteLength int `json:"byteLength"`

	// Data is the loaded content, filled in by the parser.
	Data []byte `json:"-"`
}

// --- Skins & Animations ---

// gltfSkin binds a set of joint nodes to a mesh.
type gltfSkin struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// InverseBindMatrices is the MAT4 accessor index, one matrix per joint.
	InverseBindMatrices *int `json:"inverseBindMatrices,omitempty"`

	// Skeleton is the optional common root node.
	Skeleton *int `json:"skeleton,omitempty"`

	// Joints are the joint node indices.
	Joints []int `json:"joints"`
}

// gltfAnimation is one keyframe clip.
type gltfAnimation struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Channels connect samplers to node properties.
	Channels []gltfAnimChannel `json:"channels"`

	// Samplers hold the keyframe accessors.
	Samplers []gltfAnimSampler `json:"samplers"`
}

// gltfAnimChannel connects a sampler to a target property.
type gltfAnimChannel struct {
	// Sampler is the sampler index within the animation.
	Sampler int `json:"sampler"`

	// Target is the animated node property.
	Target gltfAnimTarget `json:"target"`
}

// gltfAnimTarget names the animated node and property.
type gltfAnimTarget struct {
	// Node is the target node index.
	Node *int `json:"node,omitempty"`

	// Path is "translation", "rotation", "scale" or "weights".
	Path string `json:"path"`
}

// gltfAnimSampler pairs keyframe times with keyframe values.
type gltfAnimSampler struct {
	// Input is the SCALAR accessor holding keyframe times.
	Input int `json:"input"`

	// Output is the accessor holding keyframe values (and tangents for CUBICSPLINE).
	Output int `json:"output"`

	// Interpolation is "LINEAR" (default), "STEP" or "CUBICSPLINE".
	Interpolation string `json:"interpolation,omitempty"`
}

// Animation path constants
const (
	gltfAnimPathTranslation = "translation"
	gltfAnimPathRotation    = "rotation"
	gltfAnimPathScale       = "scale"
	gltfAnimPathWeights     = "weights"
)

// --- GLB Binary Format ---

// gltfGLBHeader is the 12 byte header of a GLB file.
type gltfGLBHeader struct {
	Magic   uint32 // Must be 0x46546C67 ("glTF" in ASCII)
	Version uint32 // Must be 2
	Length  uint32 // Total file length
}

// gltfGLBChunkHeader is the 8 byte header of a GLB chunk.
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32 // 0x4E4F534A for JSON, 0x004E4942 for BIN
}

// GLB magic number and chunk type constants
const (
	gltfGLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII
)
