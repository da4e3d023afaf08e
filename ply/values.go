package ply

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
)

// valueReader yields the next scalar of the body as a float64, which holds
// every PLY scalar type (up to 32-bit integers) exactly.
type valueReader interface {
	scalar(t scalarType) (float64, error)
}

type asciiReader struct {
	r   *bufio.Reader
	tok []byte
}

func (a *asciiReader) next() ([]byte, error) {
	a.tok = a.tok[:0]
	for {
		b, err := a.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(a.tok) > 0 {
				return a.tok, nil
			}
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			if len(a.tok) > 0 {
				return a.tok, nil
			}
		default:
			a.tok = append(a.tok, b)
		}
	}
}

func (a *asciiReader) scalar(t scalarType) (float64, error) {
	tok, err := a.next()
	if err != nil {
		return 0, err
	}
	if t.integer() {
		bits := t.size() * 8
		if t == typeInt8 || t == typeInt16 || t == typeInt32 {
			v, err := strconv.ParseInt(string(tok), 10, bits)
			return float64(v), err
		}
		v, err := strconv.ParseUint(string(tok), 10, bits)
		return float64(v), err
	}
	return strconv.ParseFloat(string(tok), t.size()*8)
}

type binaryReader struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryReader) scalar(t scalarType) (float64, error) {
	p := b.buf[:t.size()]
	if _, err := io.ReadFull(b.r, p); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	switch t {
	case typeInt8:
		return float64(int8(p[0])), nil
	case typeUint8:
		return float64(p[0]), nil
	case typeInt16:
		return float64(int16(b.order.Uint16(p))), nil
	case typeUint16:
		return float64(b.order.Uint16(p)), nil
	case typeInt32:
		return float64(int32(b.order.Uint32(p))), nil
	case typeUint32:
		return float64(b.order.Uint32(p)), nil
	case typeFloat32:
		return float64(math.Float32frombits(b.order.Uint32(p))), nil
	}
	return math.Float64frombits(b.order.Uint64(p)), nil
}
