package utils

import (
	"fmt"
	"os"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/voxscene/mesh"
	"github.com/voxelsplace/voxscene/ply"
	"github.com/voxelsplace/voxscene/scene"
)

// LoadModel reads a PLY instance model. An empty path selects the built-in
// unit cube.
func LoadModel(path string) (*ply.Model, error) {
	if path == "" {
		return mesh.CubeModel(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ply.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SceneDocument meshes s into a glTF document. With a nil model the greedy
// mesher is used, otherwise every voxel becomes a translated copy of model.
func SceneDocument(s *scene.Scene, model *ply.Model) (*gltf.Document, error) {
	var (
		m   *mesh.Mesh
		err error
	)
	if model == nil {
		m, err = mesh.Greedy(s)
	} else {
		m, err = mesh.Instanced(s, model)
	}
	if err != nil {
		return nil, err
	}
	return mesh.Document(m, s.Colors, fmt.Sprintf("scene-%016x", s.Fingerprint()))
}

func RunScene2GLB(inPath, outPath string, instanced bool, modelPath string, opts LoadOptions) error {
	s, f, err := LoadScene(inPath, opts)
	if err != nil {
		return err
	}
	var model *ply.Model
	if instanced || modelPath != "" {
		if model, err = LoadModel(modelPath); err != nil {
			return err
		}
	}
	doc, err := SceneDocument(s, model)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := gltf.SaveBinary(doc, outPath); err != nil {
		return err
	}
	if fi, err := os.Stat(outPath); err == nil {
		fmt.Printf(".glb saved from %s scene with %d voxels (%d bytes)\n", f, len(s.Voxels), fi.Size())
	} else {
		fmt.Println(".glb saved.")
	}
	return nil
}

// RunPLY2GLB converts a PLY model to GLB with a plain white material.
func RunPLY2GLB(inPath, outPath string) error {
	model, err := LoadModel(inPath)
	if err != nil {
		return err
	}
	m := &mesh.Mesh{Indices: model.Indices}
	m.Vertices = make([]mesh.Vertex, len(model.Vertices))
	for i, v := range model.Vertices {
		m.Vertices[i] = mesh.Vertex{Position: v.Position, Normal: v.Normal}
	}
	doc, err := mesh.Document(m, []scene.Color{{R: 255, G: 255, B: 255}}, "model")
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, outPath); err != nil {
		return err
	}
	if fi, err := os.Stat(outPath); err == nil {
		fmt.Printf(".glb saved (%d bytes)\n", fi.Size())
	} else {
		fmt.Println(".glb saved.")
	}
	return nil
}
