package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation clips from a parsed glTF document.
// Channels target node indices directly, which are also the joint indices of the extracted skeleton.
type gltfAnimationExtractor interface {
	// ExtractClip extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - animation.Clip: the clip, with its duration recalculated
	//   - error: error if extraction fails
	ExtractClip(animIndex int) (animation.Clip, error)

	// ExtractClips extracts every animation in document order.
	//
	// Returns:
	//   - []animation.Clip: the clips
	//   - error: error if any animation fails to extract
	ExtractClips() ([]animation.Clip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractClip(animIndex int) (animation.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return animation.Clip{}, errNoDocument
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return animation.Clip{}, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := common.Coalesce(anim.Name, fmt.Sprintf("animation_%d", animIndex))
	builder := animation.NewClipBuilder(name)

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		// Morph target weights and channels without a node have nothing to drive
		if ch.Target.Node == nil || ch.Target.Path == gltfAnimPathWeights {
			continue
		}
		if !gltfIsTransformPath(ch.Target.Path) {
			common.Log.WithFields(common.Fields{
				"animation": name,
				"path":      ch.Target.Path,
			}).Warn("skipping channel with unknown target path")
			continue
		}
		node := *ch.Target.Node
		if node < 0 || node >= len(doc.Nodes) {
			return animation.Clip{}, fmt.Errorf("animation %q channel %d: invalid node index %d", name, i, node)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return animation.Clip{}, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		interp, err := animation.ParseInterpolation(sampler.Interpolation)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}

		times, components, err := e.parser.ReadFloatAccessor(sampler.Input)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", name, i, err)
		}
		if components != 1 {
			return animation.Clip{}, fmt.Errorf("animation %q channel %d: timestamps must be SCALAR", name, i)
		}

		values, components, err := e.parser.ReadFloatAccessor(sampler.Output)
		if err != nil {
			return animation.Clip{}, fmt.Errorf("animation %q channel %d: failed to read values: %w", name, i, err)
		}

		track := builder.Track(uint32(node))

		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			frames, err := gltfFrames(times, values, components, 3, interp, func(v []float32) common.Vec3 {
				return common.Vec3{v[0], v[1], v[2]}
			})
			if err != nil {
				return animation.Clip{}, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}
			if ch.Target.Path == gltfAnimPathTranslation {
				track.Position = animation.VectorTrack{Frames: frames, Interpolation: interp}
			} else {
				track.Scale = animation.VectorTrack{Frames: frames, Interpolation: interp}
			}

		case gltfAnimPathRotation:
			frames, err := gltfFrames(times, values, components, 4, interp, func(v []float32) common.Quat {
				return common.Quat{v[0], v[1], v[2], v[3]}
			})
			if err != nil {
				return animation.Clip{}, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}
			track.Rotation = animation.QuatTrack{Frames: frames, Interpolation: interp}
		}
	}

	return builder.Build(), nil
}

func (e *gltfAnimationExtractorImpl) ExtractClips() ([]animation.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	clips := make([]animation.Clip, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractClip(i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips[i] = clip
	}

	return clips, nil
}

// --- Helper Functions ---

// gltfIsTransformPath reports whether a channel path animates a joint transform.
func gltfIsTransformPath(path string) bool {
	return path == gltfAnimPathTranslation || path == gltfAnimPathRotation || path == gltfAnimPathScale
}

// gltfFrames converts flat sampler output into frames.
// Cubic samplers store three elements per keyframe: in-tangent, value, out-tangent.
//
// Parameters:
//   - times: keyframe timestamps
//   - values: flat output values
//   - components: components per output element as read from the accessor
//   - want: components the target path requires
//   - interp: the sampler interpolation
//   - convert: builds one value from want floats
//
// Returns:
//   - []animation.Frame[T]: one frame per timestamp
//   - error: error if the output shape does not match
func gltfFrames[T any](times, values []float32, components, want int, interp animation.Interpolation, convert func([]float32) T) ([]animation.Frame[T], error) {
	if components != want {
		return nil, fmt.Errorf("output has %d components, want %d", components, want)
	}

	stride := 1
	if interp == animation.InterpolationCubic {
		stride = 3
	}
	if len(values) < len(times)*stride*want {
		return nil, fmt.Errorf("output has %d values, need %d for %d keyframes", len(values), len(times)*stride*want, len(times))
	}

	frames := make([]animation.Frame[T], len(times))
	for i, t := range times {
		base := i * stride * want
		frames[i].Time = t
		if stride == 1 {
			frames[i].Value = convert(values[base : base+want])
			continue
		}
		frames[i].In = convert(values[base : base+want])
		frames[i].Value = convert(values[base+want : base+2*want])
		frames[i].Out = convert(values[base+2*want : base+3*want])
	}

	return frames, nil
}
