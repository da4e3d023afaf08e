package scene

import "unicode/utf8"

// vlyHeader holds the fixed fields at the top of a .vly file.
type vlyHeader struct {
	gridSize Vec3
	voxelNum uint32
}

// DecodeVLY parses the text grammar:
//
//	grid_size: X Z Y
//	voxel_num: N
//	X Z Y color     (N times)
//	index R G B     (until the input stops matching)
//
// Positions and grid size are stored with the second and third axes swapped.
// Color records are assumed to be in palette order; their index token is
// read and ignored.
func DecodeVLY(data []byte) (*Scene, error) {
	if !utf8.Valid(data) {
		return nil, &FormatError{Format: FormatVLY, Offset: 0, Kind: ErrUnexpectedToken, Detail: "input is not valid UTF-8"}
	}
	r := newTextReader(data)
	hdr, err := readVLYHeader(r)
	if err != nil {
		return nil, err
	}

	// Each voxel record needs at least 8 bytes ("0 0 0 0\n"), so a huge
	// voxel_num on a small input can't force a huge allocation.
	capHint := int(hdr.voxelNum)
	if limit := len(data) / 8; capHint > limit {
		capHint = limit
	}
	voxels := make([]Voxel, 0, capHint)
	for i := uint32(0); i < hdr.voxelNum; i++ {
		v, err := readVLYVoxel(r)
		if err != nil {
			return nil, err
		}
		voxels = append(voxels, v)
	}

	var colors []Color
	for !r.atEOF() {
		c, ok := readVLYColor(r)
		if !ok {
			break
		}
		colors = append(colors, c)
	}

	return assemble(voxels, colors, hdr.gridSize), nil
}

func readVLYHeader(r *textReader) (vlyHeader, error) {
	var h vlyHeader
	if err := r.keyword("grid_size:"); err != nil {
		return h, err
	}
	size, err := readVLYVec3(r)
	if err != nil {
		return h, err
	}
	if err := r.keyword("voxel_num:"); err != nil {
		return h, err
	}
	n, err := r.u32()
	if err != nil {
		return h, err
	}
	h.gridSize = size
	h.voxelNum = n
	return h, nil
}

// readVLYVec3 reads X Z Y and returns it as X Y Z.
func readVLYVec3(r *textReader) (Vec3, error) {
	var in [3]uint32
	for i := range in {
		v, err := r.u32()
		if err != nil {
			return Vec3{}, err
		}
		in[i] = v
	}
	return Vec3{in[0], in[2], in[1]}, nil
}

func readVLYVoxel(r *textReader) (Voxel, error) {
	pos, err := readVLYVec3(r)
	if err != nil {
		return Voxel{}, err
	}
	color, err := r.u32()
	if err != nil {
		return Voxel{}, err
	}
	return Voxel{Pos: pos, Color: color}, nil
}

// readVLYColor reads one "index R G B" record. A record that does not match
// (bad token, channel above 255, cut short) ends the color list; the cursor
// is restored so nothing of the partial record is consumed.
func readVLYColor(r *textReader) (Color, bool) {
	start := r.pos
	if _, err := r.u32(); err != nil {
		r.pos = start
		return Color{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := r.uint(8)
		if err != nil {
			r.pos = start
			return Color{}, false
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, true
}
