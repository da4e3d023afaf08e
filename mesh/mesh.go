// Package mesh turns a decoded scene into triangle geometry for renderers
// and glTF export.
package mesh

import "errors"

// MaxDim bounds each axis of the meshed volume.
const MaxDim = 4096

var ErrTooLarge = errors.New("mesh: scene too large")

// Vertex carries a palette index instead of a resolved color so the same
// mesh can be colored with any palette.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    uint32
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}
