package mesh

// Morton3D64 interleaves the low 21 bits of x, y and z.
func Morton3D64(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

func MortonDecode3D64(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}

// occupancy is a sparse voxel lookup keyed by Morton code. Values are the
// palette index + 1 so the zero value means empty.
type occupancy struct {
	dims  [3]int
	cells map[uint64]uint32
}

func newOccupancy(dims [3]int, n int) *occupancy {
	return &occupancy{dims: dims, cells: make(map[uint64]uint32, n)}
}

func (o *occupancy) set(x, y, z int, color uint32) {
	o.cells[Morton3D64(uint32(x), uint32(y), uint32(z))] = color + 1
}

func (o *occupancy) get(x, y, z int) uint32 {
	if x < 0 || x >= o.dims[0] || y < 0 || y >= o.dims[1] || z < 0 || z >= o.dims[2] {
		return 0
	}
	return o.cells[Morton3D64(uint32(x), uint32(y), uint32(z))]
}
