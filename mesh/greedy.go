package mesh

import (
	"fmt"
	"slices"

	"github.com/voxelsplace/voxscene/scene"
)

// faceDir is one of the six face orientations. axis is the axis the face
// normal points along; u and v span the face plane in ascending axis order.
type faceDir struct {
	normal     [3]float32
	axis, u, v int
}

func (d faceDir) positive() bool { return d.normal[d.axis] > 0 }

// faceDirs lists +X, -X, +Y, -Y, +Z, -Z.
var faceDirs = func() []faceDir {
	dirs := make([]faceDir, 0, 6)
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		if u > v {
			u, v = v, u
		}
		for _, sign := range [2]float32{1, -1} {
			d := faceDir{axis: axis, u: u, v: v}
			d.normal[axis] = sign
			dirs = append(dirs, d)
		}
	}
	return dirs
}()

// volume returns the meshed extent, the tight bounds of the voxels. The
// declared grid size plays no part in meshing.
func volume(s *scene.Scene) ([3]int, error) {
	b := s.Bounds()
	var dims [3]int
	for i := range dims {
		if b[i] > MaxDim {
			return dims, fmt.Errorf("%w: axis %d spans %d cells (max %d)", ErrTooLarge, i, b[i], MaxDim)
		}
		dims[i] = int(b[i])
	}
	return dims, nil
}

// rect is a half-open cell range on a layer's (u, v) plane.
type rect struct {
	u0, u1, v0, v1 int
}

// layers buckets voxel indices by their coordinate on axis and returns the
// occupied coordinates in ascending order.
func layers(s *scene.Scene, axis int) (map[int][]int, []int) {
	buckets := make(map[int][]int)
	for i, v := range s.Voxels {
		p := int(v.Pos[axis])
		buckets[p] = append(buckets[p], i)
	}
	keys := make([]int, 0, len(buckets))
	for p := range buckets {
		keys = append(keys, p)
	}
	slices.Sort(keys)
	return buckets, keys
}

// exposed marks in mask the faces of the given voxels that look into empty
// space along d. Entries hold color+1, laid out u-major. The returned rect
// bounds every marked cell.
func (o *occupancy) exposed(d faceDir, voxels []scene.Voxel, idx []int, mask []uint32) rect {
	step := -1
	if d.positive() {
		step = 1
	}
	nv := o.dims[d.v]
	r := rect{u0: o.dims[d.u], v0: nv}
	for _, i := range idx {
		var pos [3]int
		for k, c := range voxels[i].Pos {
			pos[k] = int(c)
		}
		c := o.get(pos[0], pos[1], pos[2])
		next := pos
		next[d.axis] += step
		if o.get(next[0], next[1], next[2]) != 0 {
			continue
		}
		u, v := pos[d.u], pos[d.v]
		mask[u*nv+v] = c
		r.u0, r.u1 = min(r.u0, u), max(r.u1, u+1)
		r.v0, r.v1 = min(r.v0, v), max(r.v1, v+1)
	}
	return r
}

// merge covers the marked cells of r with maximal same-color rectangles,
// widest along v first, and emits one quad per rectangle. Consumed cells are
// zeroed, so the mask is clean again on return.
func (m *Mesh) merge(d faceDir, p int, r rect, nv int, mask []uint32) {
	for u := r.u0; u < r.u1; u++ {
		row := mask[u*nv : (u+1)*nv]
		for v := r.v0; v < r.v1; {
			c := row[v]
			if c == 0 {
				v++
				continue
			}
			w := 1
			for v+w < r.v1 && row[v+w] == c {
				w++
			}
			h := 1
		grow:
			for u+h < r.u1 {
				for _, x := range mask[(u+h)*nv+v : (u+h)*nv+v+w] {
					if x != c {
						break grow
					}
				}
				h++
			}
			for k := u; k < u+h; k++ {
				clear(mask[k*nv+v : k*nv+v+w])
			}
			m.quad(d, p, u, v, h, w, c-1)
			v += w
		}
	}
}

// quad appends a rectangle on layer p covering h cells along u and w along v.
func (m *Mesh) quad(d faceDir, p, u, v, h, w int, color uint32) {
	var origin [3]float32
	origin[d.axis] = float32(p)
	if d.positive() {
		origin[d.axis]++
	}
	origin[d.u] = float32(u)
	origin[d.v] = float32(v)

	corner := func(du, dv int) Vertex {
		pos := origin
		pos[d.u] += float32(du)
		pos[d.v] += float32(dv)
		return Vertex{Position: pos, Normal: d.normal, Color: color}
	}
	quad := [4]Vertex{corner(0, 0), corner(h, 0), corner(h, w), corner(0, w)}
	// (u, v) is right-handed around +X and +Z but not +Y
	if !d.positive() != (d.axis == 1) {
		quad[1], quad[3] = quad[3], quad[1]
	}

	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, quad[:]...)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Greedy builds a surface mesh of the scene, merging coplanar faces of the
// same color into rectangles. Only faces not covered by a neighbor are
// emitted.
func Greedy(s *scene.Scene) (*Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	dims, err := volume(s)
	if err != nil {
		return nil, err
	}
	m := &Mesh{}
	if len(s.Voxels) == 0 {
		return m, nil
	}
	occ := newOccupancy(dims, len(s.Voxels))
	for _, v := range s.Voxels {
		occ.set(int(v.Pos[0]), int(v.Pos[1]), int(v.Pos[2]), v.Color)
	}

	mask := make([]uint32, max(dims[0]*dims[1], dims[1]*dims[2], dims[0]*dims[2]))
	for axis := 0; axis < 3; axis++ {
		buckets, keys := layers(s, axis)
		for _, d := range faceDirs {
			if d.axis != axis {
				continue
			}
			nv := dims[d.v]
			for _, p := range keys {
				r := occ.exposed(d, s.Voxels, buckets[p], mask)
				m.merge(d, p, r, nv, mask)
			}
		}
	}
	return m, nil
}
