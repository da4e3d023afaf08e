package scene

import (
	"encoding/binary"
	"fmt"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
)

// Vec3 is an unsigned grid-relative coordinate or extent, stored X,Y,Z.
type Vec3 [3]uint32

// Voxel is a unit cube at Pos carrying an index into Scene.Colors.
type Voxel struct {
	Pos   Vec3
	Color uint32
}

// Scene is the decoded, format-independent description of a voxel model.
// Voxels keep file order. GridSize is the extent declared by the file and is
// not necessarily tight around the voxels (see Bounds).
type Scene struct {
	Voxels   []Voxel
	Colors   []Color
	GridSize Vec3
}

// Bounds returns the tight extent of the voxels (max coordinate + 1 per axis).
// An empty scene has zero bounds.
func (s *Scene) Bounds() Vec3 {
	var b Vec3
	if len(s.Voxels) == 0 {
		return b
	}
	for _, v := range s.Voxels {
		for i, c := range v.Pos {
			// saturate at MaxUint32 rather than wrap to zero
			if c == math.MaxUint32 {
				b[i] = c
			} else if c+1 > b[i] {
				b[i] = c + 1
			}
		}
	}
	return b
}

// Center returns the middle of the declared grid, used as the camera target.
func (s *Scene) Center() [3]float32 {
	return [3]float32{
		float32(s.GridSize[0]) / 2,
		float32(s.GridSize[1]) / 2,
		float32(s.GridSize[2]) / 2,
	}
}

// Validate checks that every voxel addresses an existing palette slot.
// Decoding does not perform this check; renderers call it before indexing Colors.
func (s *Scene) Validate() error {
	for i, v := range s.Voxels {
		if int64(v.Color) >= int64(len(s.Colors)) {
			return fmt.Errorf("voxel %d at %v: %w (index %d, palette has %d colors)",
				i, v.Pos, ErrColorOutOfRange, v.Color, len(s.Colors))
		}
	}
	return nil
}

// Fingerprint hashes grid size, voxels and palette. Two scenes with the same
// content in the same order have the same fingerprint regardless of source format.
func (s *Scene) Fingerprint() uint64 {
	d := xxhash.New()
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:], s.GridSize[0])
	binary.LittleEndian.PutUint32(b[4:], s.GridSize[1])
	binary.LittleEndian.PutUint32(b[8:], s.GridSize[2])
	binary.LittleEndian.PutUint32(b[12:], uint32(len(s.Voxels)))
	_, _ = d.Write(b[:])
	for _, v := range s.Voxels {
		binary.LittleEndian.PutUint32(b[0:], v.Pos[0])
		binary.LittleEndian.PutUint32(b[4:], v.Pos[1])
		binary.LittleEndian.PutUint32(b[8:], v.Pos[2])
		binary.LittleEndian.PutUint32(b[12:], v.Color)
		_, _ = d.Write(b[:])
	}
	for _, c := range s.Colors {
		_, _ = d.Write([]byte{c.R, c.G, c.B})
	}
	return d.Sum64()
}
