package ply

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

const triangleASCII = `ply
format ascii 1.0
comment single triangle
element vertex 3
property float x
property float y
property float z
property float nx
property float ny
property float nz
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0 0 1
1 0 0 0 0 1
0 1.5 0 0 0 1
3 0 1 2
`

func TestParse_ASCII(t *testing.T) {
	m, err := Parse(strings.NewReader(triangleASCII))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Vertices) != 3 {
		t.Fatalf("got %d vertices", len(m.Vertices))
	}
	if m.Vertices[2].Position != [3]float32{0, 1.5, 0} {
		t.Errorf("vertex 2 = %v", m.Vertices[2].Position)
	}
	if m.Vertices[0].Normal != [3]float32{0, 0, 1} {
		t.Errorf("normal = %v", m.Vertices[0].Normal)
	}
	if len(m.Indices) != 3 || m.Indices[0] != 0 || m.Indices[1] != 1 || m.Indices[2] != 2 {
		t.Errorf("indices = %v", m.Indices)
	}
}

func TestParse_QuadIsFanTriangulated(t *testing.T) {
	in := `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar uint vertex_index
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`
	m, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	if len(m.Indices) != len(want) {
		t.Fatalf("indices = %v", m.Indices)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}
}

func binaryTriangle(order binary.ByteOrder, format string) []byte {
	var buf bytes.Buffer
	buf.WriteString("ply\r\nformat " + format + " 1.0\r\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty double z\n")
	buf.WriteString("element face 1\nproperty list uchar ushort vertex_indices\nend_header\n")
	pts := [][3]float64{{0, 0, 0}, {2, 0, 0}, {0, 2, -1}}
	for _, p := range pts {
		_ = binary.Write(&buf, order, math.Float32bits(float32(p[0])))
		_ = binary.Write(&buf, order, math.Float32bits(float32(p[1])))
		_ = binary.Write(&buf, order, math.Float64bits(p[2]))
	}
	buf.WriteByte(3)
	for _, i := range []uint16{2, 1, 0} {
		_ = binary.Write(&buf, order, i)
	}
	return buf.Bytes()
}

func TestParse_Binary(t *testing.T) {
	cases := []struct {
		format string
		order  binary.ByteOrder
	}{
		{"binary_little_endian", binary.LittleEndian},
		{"binary_big_endian", binary.BigEndian},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			m, err := Parse(bytes.NewReader(binaryTriangle(tc.order, tc.format)))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if m.Vertices[2].Position != [3]float32{0, 2, -1} {
				t.Errorf("vertex 2 = %v", m.Vertices[2].Position)
			}
			if len(m.Indices) != 3 || m.Indices[0] != 2 || m.Indices[2] != 0 {
				t.Errorf("indices = %v", m.Indices)
			}
		})
	}
}

func TestParse_TruncatedBinary(t *testing.T) {
	data := binaryTriangle(binary.LittleEndian, "binary_little_endian")
	_, err := Parse(bytes.NewReader(data[:len(data)-3]))
	if !errors.Is(err, ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestParse_UnexpectedPropertyIsAnError(t *testing.T) {
	in := strings.Replace(triangleASCII, "property float nz\n", "property float nz\nproperty uchar red\n", 1)
	_, err := Parse(strings.NewReader(in))
	var pe *PropertyError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PropertyError, got %v", err)
	}
	if pe.Element != "vertex" || pe.Property != "red" {
		t.Errorf("got %+v", pe)
	}

	in = strings.Replace(triangleASCII, "vertex_indices", "vertex_ids", 1)
	if _, err := Parse(strings.NewReader(in)); !errors.As(err, &pe) || pe.Element != "face" || !pe.List {
		t.Errorf("face property: got %v", err)
	}
}

func TestParse_UnexpectedElementIsAnError(t *testing.T) {
	in := strings.Replace(triangleASCII, "end_header", "element edge 0\nproperty int vertex1\nend_header", 1)
	_, err := Parse(strings.NewReader(in))
	var ee *ElementError
	if !errors.As(err, &ee) || ee.Element != "edge" {
		t.Fatalf("expected ElementError for edge, got %v", err)
	}
}

func TestParse_HeaderErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"not ply", "obj\n", ErrNotPLY},
		{"empty", "", ErrNotPLY},
		{"format version", "ply\nformat ascii 2.0\nend_header\n", ErrUnsupportedFormat},
		{"format kind", "ply\nformat binary_middle_endian 1.0\nend_header\n", ErrUnsupportedFormat},
		{"no format", "ply\nelement vertex 0\nend_header\n", ErrMalformedHeader},
		{"no end", "ply\nformat ascii 1.0\nelement vertex 0\n", ErrMalformedHeader},
		{"bad type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty half x\nend_header\n", ErrMalformedHeader},
		{"float list count", "ply\nformat ascii 1.0\nelement face 1\nproperty list float int vertex_indices\nend_header\n", ErrMalformedHeader},
		{"orphan property", "ply\nformat ascii 1.0\nproperty float x\nend_header\n", ErrMalformedHeader},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.in)); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParse_BodyErrors(t *testing.T) {
	bad := strings.Replace(triangleASCII, "3 0 1 2", "3 0 1 7", 1)
	if _, err := Parse(strings.NewReader(bad)); !errors.Is(err, ErrMalformedBody) {
		t.Errorf("out of range index: got %v", err)
	}
	bad = strings.Replace(triangleASCII, "3 0 1 2", "2 0 1", 1)
	if _, err := Parse(strings.NewReader(bad)); !errors.Is(err, ErrMalformedBody) {
		t.Errorf("degenerate face: got %v", err)
	}
	bad = strings.Replace(triangleASCII, "0 1.5 0 0 0 1", "0 abc 0 0 0 1", 1)
	if _, err := Parse(strings.NewReader(bad)); !errors.Is(err, ErrMalformedBody) {
		t.Errorf("bad float: got %v", err)
	}
}
