package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and the extractors to produce an ImportedModel.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts the skeleton and every animation.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	Import(path string) (*model.ImportedModel, error)

	// ImportReader loads a glTF document from a reader.
	// External buffer URIs resolve against the working directory.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//   - name: fallback model name when the document has no scene name
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool, name string) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return imp.importFromParser(parser, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool, name string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB, "."); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}

	return imp.importFromParser(parser, name)
}

// importFromParser performs a full import from a parser that has already loaded a document.
//
// Parameters:
//   - parser: the glTF parser that has already loaded a document
//   - fallbackName: model name used when the document's default scene has none
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (*model.ImportedModel, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errors.New("no document after parsing")
	}

	skeleton, err := newGLTFSkeletonExtractor(parser).ExtractSkeleton()
	if err != nil {
		return nil, fmt.Errorf("skeleton extraction failed: %w", err)
	}

	clips, err := newGLTFAnimationExtractor(parser).ExtractClips()
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}

	name := gltfExtractModelName(doc, fallbackName)

	common.Log.WithFields(common.Fields{
		"model":  name,
		"joints": skeleton.JointCount(),
		"clips":  len(clips),
		"skins":  len(doc.Skins),
	}).Debug("imported glTF document")

	return &model.ImportedModel{
		Name:     name,
		Skeleton: skeleton,
		Clips:    clips,
	}, nil
}

// --- Helper Functions ---

// gltfExtractModelName derives a model name from the default scene or a fallback.
func gltfExtractModelName(doc *gltfDocument, fallback string) string {
	var sceneName string
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		sceneName = doc.Scenes[*doc.Scene].Name
	}
	return common.Coalesce(sceneName, fallback, "unnamed_model")
}
