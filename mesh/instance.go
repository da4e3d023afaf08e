package mesh

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"

	"github.com/voxelsplace/voxscene/ply"
	"github.com/voxelsplace/voxscene/scene"
)

//go:embed assets/cube.ply
var cubePLY []byte

// Instance is the per-voxel record a renderer uploads next to a shared model:
// the voxel origin and its normalized palette color.
type Instance struct {
	Position [3]float32
	Color    [3]float32
}

// Instances resolves every voxel against the palette. A color index outside
// the palette is an error.
func Instances(s *scene.Scene) ([]Instance, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := make([]Instance, len(s.Voxels))
	for i, v := range s.Voxels {
		out[i] = Instance{
			Position: [3]float32{float32(v.Pos[0]), float32(v.Pos[1]), float32(v.Pos[2])},
			Color:    s.Colors[v.Color].Float32(),
		}
	}
	return out, nil
}

// CubeModel returns the built-in unit cube spanning [0,1] on each axis.
func CubeModel() *ply.Model {
	m, err := ply.Parse(bytes.NewReader(cubePLY))
	if err != nil {
		panic(fmt.Sprintf("mesh: embedded cube model: %v", err))
	}
	return m
}

// Instanced expands the scene into one copy of model per voxel, each
// translated to the voxel position. Hidden faces are kept.
func Instanced(s *scene.Scene, model *ply.Model) (*Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	nv := uint64(len(s.Voxels)) * uint64(len(model.Vertices))
	if nv > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d vertices", ErrTooLarge, nv)
	}
	m := &Mesh{
		Vertices: make([]Vertex, 0, nv),
		Indices:  make([]uint32, 0, len(s.Voxels)*len(model.Indices)),
	}
	for _, v := range s.Voxels {
		base := uint32(len(m.Vertices))
		off := [3]float32{float32(v.Pos[0]), float32(v.Pos[1]), float32(v.Pos[2])}
		for _, mv := range model.Vertices {
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{mv.Position[0] + off[0], mv.Position[1] + off[1], mv.Position[2] + off[2]},
				Normal:   mv.Normal,
				Color:    v.Color,
			})
		}
		for _, idx := range model.Indices {
			m.Indices = append(m.Indices, base+idx)
		}
	}
	return m, nil
}
