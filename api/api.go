// Package api exposes byte-in, byte-out helpers for callers without a
// filesystem, such as the wasm build.
package api

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/voxscene/mesh"
	"github.com/voxelsplace/voxscene/ply"
	"github.com/voxelsplace/voxscene/scene"
	"github.com/voxelsplace/voxscene/utils"
)

// DecodeScene decodes a possibly compressed scene. name is used only for its
// extension and may be empty.
func DecodeScene(data []byte, name string) (*scene.Scene, scene.Format, error) {
	return utils.DecodeBytes(data, name, utils.LoadOptions{})
}

// SceneToGLB converts scene bytes to a binary glTF. With instanced set every
// voxel becomes a copy of the built-in cube instead of greedy-merged faces.
func SceneToGLB(data []byte, name string, instanced bool) ([]byte, error) {
	s, _, err := DecodeScene(data, name)
	if err != nil {
		return nil, err
	}
	var model *ply.Model
	if instanced {
		model = mesh.CubeModel()
	}
	doc, err := utils.SceneDocument(s, model)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func Inspect(data []byte, name string) (utils.Summary, error) {
	s, f, err := DecodeScene(data, name)
	if err != nil {
		return utils.Summary{}, err
	}
	return utils.Summarize(s, f), nil
}
