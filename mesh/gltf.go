package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/voxscene/scene"
)

// Document builds a single-mesh glTF document. Vertex colors come from
// palette; the mesh's color indices must be valid for it.
func Document(m *Mesh, palette []scene.Color, name string) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxscene"
	if len(m.Vertices) == 0 {
		// empty accessors are invalid glTF; an empty scene is not
		return doc, nil
	}

	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	colors := make([][4]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		if int64(v.Color) >= int64(len(palette)) {
			return nil, fmt.Errorf("vertex %d: %w (index %d)", i, scene.ErrColorOutOfRange, v.Color)
		}
		positions[i] = v.Position
		normals[i] = v.Normal
		colors[i] = palette[v.Color].RGBA()
	}
	indices := make([]uint32, len(m.Indices))
	copy(indices, m.Indices)

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
			gltf.COLOR_0:  uint32(colorAccessor),
		},
		Indices: gltf.Index(uint32(indicesAccessor)),
	}

	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{1, 1, 1, 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	material := &gltf.Material{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}
	doc.Materials = []*gltf.Material{material}
	prim.Material = gltf.Index(0)

	doc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))
	return doc, nil
}
