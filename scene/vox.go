package scene

import "fmt"

const (
	voxMagic   = "VOX "
	voxVersion = 150
)

// chunk is one framed record: 4-byte id, content length, children length,
// content bytes, then children bytes holding nested chunks.
type chunk struct {
	id       string
	offset   int
	content  *byteReader
	children *byteReader
}

// voxModel is one SIZE/XYZI pair.
type voxModel struct {
	size   Vec3
	voxels []Voxel
}

// readChunk reads the framing of the next chunk and slices its content and
// children regions out of r.
func readChunk(r *byteReader) (chunk, error) {
	c := chunk{offset: r.offset()}
	id, err := r.take(4)
	if err != nil {
		return c, err
	}
	c.id = string(id)
	contentLen, err := r.u32()
	if err != nil {
		return c, err
	}
	childrenLen, err := r.u32()
	if err != nil {
		return c, err
	}
	if c.content, err = r.sub(contentLen); err != nil {
		return c, err
	}
	if c.children, err = r.sub(childrenLen); err != nil {
		return c, err
	}
	return c, nil
}

// peekID returns the id of the next chunk without consuming it.
func peekID(r *byteReader) (string, bool) {
	if r.remaining() < 4 {
		return "", false
	}
	return string(r.data[r.pos : r.pos+4]), true
}

// expectChunk reads the next chunk and checks its id.
func expectChunk(r *byteReader, id string) (chunk, error) {
	at := r.offset()
	c, err := readChunk(r)
	if err != nil {
		return c, err
	}
	if c.id != id {
		return c, voxErr(at, ErrUnexpectedChunkTag, "want %s, got %q", id, c.id)
	}
	return c, nil
}

// expectLeaf reads a chunk that must not have children and whose content
// must be exactly size bytes (size < 0 skips the content length check).
func expectLeaf(r *byteReader, id string, size int) (chunk, error) {
	c, err := expectChunk(r, id)
	if err != nil {
		return c, err
	}
	if c.children.remaining() != 0 {
		return c, voxErr(c.offset, ErrNonEmptyLeafChunk, "%s declares %d bytes of children", id, c.children.remaining())
	}
	if size >= 0 && c.content.remaining() != size {
		return c, voxErr(c.offset, ErrMalformedChunk, "%s content is %d bytes, want %d", id, c.content.remaining(), size)
	}
	return c, nil
}

func readVec3(r *byteReader) (Vec3, error) {
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

func readHeader(r *byteReader) (uint32, error) {
	magic, err := r.take(4)
	if err != nil {
		return 0, err
	}
	if string(magic) != voxMagic {
		return 0, voxErr(0, ErrBadMagic, "got %q", magic)
	}
	at := r.offset()
	version, err := r.u32()
	if err != nil {
		return 0, err
	}
	if version != voxVersion {
		return 0, voxErr(at, ErrUnsupportedVersion, "version %d, want %d", version, voxVersion)
	}
	return version, nil
}

func readPack(r *byteReader) (uint32, error) {
	c, err := expectLeaf(r, "PACK", 4)
	if err != nil {
		return 0, err
	}
	n, _ := c.content.u32()
	if n == 0 {
		return 0, voxErr(c.offset, ErrEmptyPack, "PACK declares 0 models")
	}
	return n, nil
}

func readModel(r *byteReader) (voxModel, error) {
	var m voxModel
	sc, err := expectLeaf(r, "SIZE", 12)
	if err != nil {
		return m, err
	}
	if m.size, err = readVec3(sc.content); err != nil {
		return m, err
	}

	xc, err := expectLeaf(r, "XYZI", -1)
	if err != nil {
		return m, err
	}
	n, err := xc.content.u32()
	if err != nil {
		return m, err
	}
	if uint64(n)*4 != uint64(xc.content.remaining()) {
		kind := ErrMalformedChunk
		if uint64(n)*4 > uint64(xc.content.remaining()) {
			kind = ErrTruncatedInput
		}
		return m, voxErr(xc.offset, kind, "XYZI declares %d voxels in %d bytes", n, xc.content.remaining())
	}
	m.voxels = make([]Voxel, n)
	for i := range m.voxels {
		b, _ := xc.content.take(4)
		// on disk: x, z, y, color
		m.voxels[i] = Voxel{Pos: Vec3{uint32(b[0]), uint32(b[2]), uint32(b[1])}, Color: uint32(b[3])}
	}
	return m, nil
}

// readMain parses the children of MAIN: optional PACK, the model list, then
// any further chunks. RGBA is picked up wherever it appears after the models;
// other trailing chunks (scene graph, materials, layers) are skipped.
func readMain(r *byteReader) ([]voxModel, []Color, error) {
	mc, err := expectChunk(r, "MAIN")
	if err != nil {
		return nil, nil, err
	}
	if mc.content.remaining() != 0 {
		return nil, nil, voxErr(mc.offset, ErrMalformedChunk, "MAIN has %d content bytes", mc.content.remaining())
	}
	if r.remaining() != 0 {
		return nil, nil, voxErr(r.offset(), ErrMalformedChunk, "%d bytes after MAIN", r.remaining())
	}
	body := mc.children
	if body.remaining() == 0 {
		return nil, nil, voxErr(mc.offset, ErrEmptyPack, "MAIN has no children")
	}

	count := uint32(1)
	if id, _ := peekID(body); id == "PACK" {
		if count, err = readPack(body); err != nil {
			return nil, nil, err
		}
	}

	// Cap the preallocation by what the body can physically hold.
	capHint := int(count)
	if limit := body.remaining() / 40; capHint > limit {
		capHint = limit
	}
	models := make([]voxModel, 0, capHint)
	for i := uint32(0); i < count; i++ {
		m, err := readModel(body)
		if err != nil {
			return nil, nil, err
		}
		models = append(models, m)
	}

	var palette []Color
	for body.remaining() > 0 {
		c, err := readChunk(body)
		if err != nil {
			return nil, nil, err
		}
		if c.id != "RGBA" || palette != nil {
			continue
		}
		if c.children.remaining() != 0 {
			return nil, nil, voxErr(c.offset, ErrNonEmptyLeafChunk, "RGBA declares %d bytes of children", c.children.remaining())
		}
		p, err := PaletteFromRGBA(c.content.data)
		if err != nil {
			return nil, nil, voxErr(c.offset, ErrMalformedChunk, "RGBA content is %d bytes, want %d", c.content.remaining(), PaletteSize*4)
		}
		palette = p
	}
	if palette == nil {
		palette = DefaultPalette()
	}
	return models, palette, nil
}

func decodeVOX(data []byte) ([]voxModel, []Color, error) {
	r := newByteReader(data, 0)
	if _, err := readHeader(r); err != nil {
		return nil, nil, err
	}
	return readMain(r)
}

// DecodeVOX parses a MagicaVoxel .vox archive. When the archive holds several
// models only the first one is returned; the rest are parsed and dropped.
// Use DecodeVOXModels to get all of them.
func DecodeVOX(data []byte) (*Scene, error) {
	models, palette, err := decodeVOX(data)
	if err != nil {
		return nil, err
	}
	return assemble(models[0].voxels, palette, models[0].size), nil
}

// DecodeVOXModels parses a .vox archive and returns one scene per model, in
// file order. All scenes share the same resolved palette contents.
func DecodeVOXModels(data []byte) ([]*Scene, error) {
	models, palette, err := decodeVOX(data)
	if err != nil {
		return nil, err
	}
	out := make([]*Scene, len(models))
	for i, m := range models {
		p := make([]Color, len(palette))
		copy(p, palette)
		out[i] = assemble(m.voxels, p, m.size)
	}
	return out, nil
}

func voxErr(offset int, kind error, format string, args ...any) *FormatError {
	return &FormatError{Format: FormatVOX, Offset: offset, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
