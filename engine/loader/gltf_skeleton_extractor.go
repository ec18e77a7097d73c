package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

var errNoDocument = errors.New("no document loaded")

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor defines the interface for extracting joint hierarchies from a parsed glTF document.
// Every node of the document becomes one joint, so node indices and joint indices are the same.
type gltfSkeletonExtractor interface {
	// ExtractRestPose builds the pose described by the node transforms.
	//
	// Returns:
	//   - *pose.Pose: one joint per node, parents resolved from node children
	//   - error: error if the hierarchy is malformed
	ExtractRestPose() (*pose.Pose, error)

	// ExtractBindPose builds the pose the skins were bound in.
	// Joints referenced by a skin take their world transform from the inverse of their inverse bind matrix;
	// every other joint keeps its rest world transform.
	//
	// Parameters:
	//   - rest: the rest pose returned by ExtractRestPose
	//
	// Returns:
	//   - *pose.Pose: the bind pose in parent-relative space
	//   - error: error if a skin cannot be read
	ExtractBindPose(rest *pose.Pose) (*pose.Pose, error)

	// ExtractJointNames returns one name per node. Unnamed nodes are called joint_<index>.
	//
	// Returns:
	//   - []string: the joint names
	ExtractJointNames() []string

	// ExtractSkeleton combines the rest pose, bind pose and joint names.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	//   - error: error if extraction fails
	ExtractSkeleton() (*model.Skeleton, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) ExtractRestPose() (*pose.Pose, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	n := len(doc.Nodes)
	result := pose.NewPose(n)

	for i := range doc.Nodes {
		node := &doc.Nodes[i]
		result.SetLocalTransform(i, gltfNodeTransform(node))

		for _, child := range node.Children {
			if child < 0 || child >= n {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, child)
			}
			if child == i {
				return nil, fmt.Errorf("node %d lists itself as a child", i)
			}
			if result.Parent(child) != -1 {
				return nil, fmt.Errorf("node %d has more than one parent", child)
			}
			result.SetParent(child, i)
		}
	}

	if err := gltfCheckAcyclic(result); err != nil {
		return nil, err
	}

	return result, nil
}

func (e *gltfSkeletonExtractorImpl) ExtractBindPose(rest *pose.Pose) (*pose.Pose, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	n := rest.Len()
	world := make([]common.Transform, n)
	for i := range n {
		world[i] = rest.GlobalTransform(i)
	}

	for s := range doc.Skins {
		skin := &doc.Skins[s]
		if skin.InverseBindMatrices == nil {
			continue
		}

		inverseBindMatrices, err := e.parser.ReadMat4Accessor(*skin.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("skin %d: failed to read inverse bind matrices: %w", s, err)
		}

		for i, joint := range skin.Joints {
			if joint < 0 || joint >= n {
				return nil, fmt.Errorf("skin %d joint %d: invalid node index %d", s, i, joint)
			}
			if i >= len(inverseBindMatrices) {
				break
			}
			world[joint] = common.Mat4ToTransform(inverseBindMatrices[i].Inverse())
		}
	}

	bind := rest.Clone()
	for i := range n {
		local := world[i]
		if p := rest.Parent(i); p >= 0 {
			local = common.Combine(world[p].Inverse(), world[i])
		}
		bind.SetLocalTransform(i, local)
	}

	return bind, nil
}

func (e *gltfSkeletonExtractorImpl) ExtractJointNames() []string {
	doc := e.parser.Document()
	if doc == nil {
		return nil
	}

	names := make([]string, len(doc.Nodes))
	for i := range doc.Nodes {
		names[i] = common.Coalesce(doc.Nodes[i].Name, fmt.Sprintf("joint_%d", i))
	}
	return names
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton() (*model.Skeleton, error) {
	rest, err := e.ExtractRestPose()
	if err != nil {
		return nil, fmt.Errorf("rest pose: %w", err)
	}

	bind, err := e.ExtractBindPose(rest)
	if err != nil {
		return nil, fmt.Errorf("bind pose: %w", err)
	}

	return model.NewSkeleton(rest, bind, e.ExtractJointNames()), nil
}

// --- Helper Functions ---

// gltfNodeTransform extracts the local transform of a node.
// A matrix is decomposed first; any TRS field present overrides the matching component.
func gltfNodeTransform(node *gltfNode) common.Transform {
	transform := common.NewTransform()

	if node.Matrix != nil {
		transform = common.Mat4ToTransform(common.Mat4(*node.Matrix))
	}
	if node.Translation != nil {
		transform.Position = common.Vec3(*node.Translation)
	}
	if node.Rotation != nil {
		transform.Rotation = common.Quat(*node.Rotation).Normalized()
	}
	if node.Scale != nil {
		transform.Scale = common.Vec3(*node.Scale)
	}

	return transform
}

// gltfCheckAcyclic verifies that every parent chain ends at a root.
func gltfCheckAcyclic(p *pose.Pose) error {
	n := p.Len()
	for i := range n {
		steps := 0
		for parent := p.Parent(i); parent >= 0; parent = p.Parent(parent) {
			steps++
			if steps > n {
				return fmt.Errorf("node %d: hierarchy contains a cycle", i)
			}
		}
	}
	return nil
}
