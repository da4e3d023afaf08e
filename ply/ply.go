// Package ply reads the small PLY meshes used as per-voxel instance models.
//
// Only what a cube-like model needs is supported: a "vertex" element with
// position and optional normal properties and a "face" element with a vertex
// index list. Any other element or property is rejected with an error rather
// than ignored, so a model exported with extra attributes fails loudly.
package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrNotPLY            = errors.New("ply: missing magic")
	ErrUnsupportedFormat = errors.New("ply: unsupported format")
	ErrMalformedHeader   = errors.New("ply: malformed header")
	ErrMalformedBody     = errors.New("ply: malformed body")
)

// ElementError reports an element the reader does not know how to store.
type ElementError struct {
	Element string
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("ply: unexpected element %q", e.Element)
}

// PropertyError reports a property that does not match what its element
// expects, either by name or by kind (scalar vs list).
type PropertyError struct {
	Element  string
	Property string
	List     bool
}

func (e *PropertyError) Error() string {
	kind := "scalar"
	if e.List {
		kind = "list"
	}
	return fmt.Sprintf("ply: unexpected %s property %q on element %q", kind, e.Property, e.Element)
}

// Vertex is a model vertex. Normal is zero when the file has none.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Model is an indexed triangle mesh.
type Model struct {
	Vertices []Vertex
	Indices  []uint32
}

type encoding int

const (
	encASCII encoding = iota
	encBinaryLE
	encBinaryBE
)

type scalarType int

const (
	typeInt8 scalarType = iota
	typeUint8
	typeInt16
	typeUint16
	typeInt32
	typeUint32
	typeFloat32
	typeFloat64
)

var scalarTypes = map[string]scalarType{
	"char": typeInt8, "int8": typeInt8,
	"uchar": typeUint8, "uint8": typeUint8,
	"short": typeInt16, "int16": typeInt16,
	"ushort": typeUint16, "uint16": typeUint16,
	"int": typeInt32, "int32": typeInt32,
	"uint": typeUint32, "uint32": typeUint32,
	"float": typeFloat32, "float32": typeFloat32,
	"double": typeFloat64, "float64": typeFloat64,
}

func (t scalarType) size() int {
	switch t {
	case typeInt8, typeUint8:
		return 1
	case typeInt16, typeUint16:
		return 2
	case typeInt32, typeUint32, typeFloat32:
		return 4
	}
	return 8
}

func (t scalarType) integer() bool { return t < typeFloat32 }

type property struct {
	name      string
	typ       scalarType
	list      bool
	countType scalarType
}

type element struct {
	name  string
	count int
	props []property
}

type header struct {
	enc      encoding
	elements []element
}

// Parse reads a complete PLY file from r.
func Parse(r io.Reader) (*Model, error) {
	br := bufio.NewReader(r)
	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	var vr valueReader
	switch hdr.enc {
	case encASCII:
		vr = &asciiReader{r: br}
	case encBinaryLE:
		vr = &binaryReader{r: br, order: binary.LittleEndian}
	default:
		vr = &binaryReader{r: br, order: binary.BigEndian}
	}

	m := &Model{}
	for _, el := range hdr.elements {
		switch el.name {
		case "vertex":
			if err := readVertices(vr, el, m); err != nil {
				return nil, err
			}
		case "face":
			if err := readFaces(vr, el, m); err != nil {
				return nil, err
			}
		default:
			return nil, &ElementError{Element: el.name}
		}
	}
	for _, idx := range m.Indices {
		if int64(idx) >= int64(len(m.Vertices)) {
			return nil, fmt.Errorf("%w: face index %d with %d vertices", ErrMalformedBody, idx, len(m.Vertices))
		}
	}
	return m, nil
}

func readHeader(br *bufio.Reader) (header, error) {
	var h header
	line, err := readLine(br)
	if err != nil || line != "ply" {
		return h, ErrNotPLY
	}
	sawFormat := false
	for {
		line, err := readLine(br)
		if err != nil {
			return h, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "comment", "obj_info":
		case "format":
			if len(fields) != 3 || fields[2] != "1.0" {
				return h, fmt.Errorf("%w: %q", ErrUnsupportedFormat, line)
			}
			switch fields[1] {
			case "ascii":
				h.enc = encASCII
			case "binary_little_endian":
				h.enc = encBinaryLE
			case "binary_big_endian":
				h.enc = encBinaryBE
			default:
				return h, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fields[1])
			}
			sawFormat = true
		case "element":
			if len(fields) != 3 {
				return h, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
			}
			n, err := strconv.ParseUint(fields[2], 10, 31)
			if err != nil {
				return h, fmt.Errorf("%w: element count %q", ErrMalformedHeader, fields[2])
			}
			h.elements = append(h.elements, element{name: fields[1], count: int(n)})
		case "property":
			if len(h.elements) == 0 {
				return h, fmt.Errorf("%w: property before element", ErrMalformedHeader)
			}
			p, err := parseProperty(fields[1:])
			if err != nil {
				return h, fmt.Errorf("%w: %q", err, line)
			}
			el := &h.elements[len(h.elements)-1]
			el.props = append(el.props, p)
		case "end_header":
			if !sawFormat {
				return h, fmt.Errorf("%w: no format line", ErrMalformedHeader)
			}
			return h, nil
		default:
			return h, fmt.Errorf("%w: unknown keyword %q", ErrMalformedHeader, fields[0])
		}
	}
}

func parseProperty(f []string) (property, error) {
	if len(f) == 4 && f[0] == "list" {
		ct, ok1 := scalarTypes[f[1]]
		it, ok2 := scalarTypes[f[2]]
		if !ok1 || !ok2 || !ct.integer() || !it.integer() {
			return property{}, ErrMalformedHeader
		}
		return property{name: f[3], typ: it, list: true, countType: ct}, nil
	}
	if len(f) != 2 {
		return property{}, ErrMalformedHeader
	}
	t, ok := scalarTypes[f[0]]
	if !ok {
		return property{}, ErrMalformedHeader
	}
	return property{name: f[1], typ: t}, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// vertexSlot maps a vertex property name to its place in Vertex.
func vertexSlot(v *Vertex, name string) *float32 {
	switch name {
	case "x":
		return &v.Position[0]
	case "y":
		return &v.Position[1]
	case "z":
		return &v.Position[2]
	case "nx":
		return &v.Normal[0]
	case "ny":
		return &v.Normal[1]
	case "nz":
		return &v.Normal[2]
	}
	return nil
}

func readVertices(vr valueReader, el element, m *Model) error {
	var probe Vertex
	for _, p := range el.props {
		if p.list || vertexSlot(&probe, p.name) == nil {
			return &PropertyError{Element: el.name, Property: p.name, List: p.list}
		}
	}
	// the header count is untrusted; grow as vertices actually arrive
	m.Vertices = make([]Vertex, 0, min(el.count, 1<<16))
	for i := 0; i < el.count; i++ {
		var v Vertex
		for _, p := range el.props {
			f, err := vr.scalar(p.typ)
			if err != nil {
				return fmt.Errorf("%w: vertex %d: %v", ErrMalformedBody, i, err)
			}
			*vertexSlot(&v, p.name) = float32(f)
		}
		m.Vertices = append(m.Vertices, v)
	}
	return nil
}

func readFaces(vr valueReader, el element, m *Model) error {
	for _, p := range el.props {
		if !p.list || (p.name != "vertex_indices" && p.name != "vertex_index") {
			return &PropertyError{Element: el.name, Property: p.name, List: p.list}
		}
	}
	face := make([]uint32, 0, 4)
	for i := 0; i < el.count; i++ {
		for _, p := range el.props {
			n, err := vr.scalar(p.countType)
			if err != nil {
				return fmt.Errorf("%w: face %d: %v", ErrMalformedBody, i, err)
			}
			if n < 3 || n > math.MaxUint16 {
				return fmt.Errorf("%w: face %d has %v vertices", ErrMalformedBody, i, n)
			}
			face = face[:0]
			for j := 0; j < int(n); j++ {
				idx, err := vr.scalar(p.typ)
				if err != nil {
					return fmt.Errorf("%w: face %d: %v", ErrMalformedBody, i, err)
				}
				if idx < 0 || idx > math.MaxUint32 {
					return fmt.Errorf("%w: face %d index %v", ErrMalformedBody, i, idx)
				}
				face = append(face, uint32(idx))
			}
			// fan triangulation; triangles pass through unchanged
			for j := 1; j+1 < len(face); j++ {
				m.Indices = append(m.Indices, face[0], face[j], face[j+1])
			}
		}
	}
	return nil
}
