package scene

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// byteReader is a cursor over a borrowed byte slice. base is the absolute
// offset of data[0] in the full input so nested readers report positions
// that make sense to the caller.
type byteReader struct {
	data []byte
	pos  int
	base int
}

func newByteReader(b []byte, base int) *byteReader { return &byteReader{data: b, base: base} }

func (r *byteReader) offset() int { return r.base + r.pos }

func (r *byteReader) remaining() int { return len(r.data) - r.pos }

func (r *byteReader) fail(kind error, format string, args ...any) *FormatError {
	return &FormatError{Format: FormatVOX, Offset: r.offset(), Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (r *byteReader) take(n uint32) ([]byte, error) {
	if uint64(n) > uint64(r.remaining()) {
		return nil, r.fail(ErrTruncatedInput, "need %d bytes, have %d", n, r.remaining())
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// sub returns a reader over the next n bytes and advances past them.
func (r *byteReader) sub(n uint32) (*byteReader, error) {
	start := r.offset()
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return newByteReader(b, start), nil
}

// textReader tokenizes the vly grammar. Tokens are runs of non-space bytes;
// any whitespace, including newlines, separates them.
type textReader struct {
	data []byte
	pos  int
}

func newTextReader(b []byte) *textReader { return &textReader{data: b} }

func (r *textReader) fail(kind error, format string, args ...any) *FormatError {
	return &FormatError{Format: FormatVLY, Offset: r.pos, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (r *textReader) skipSpace() {
	for r.pos < len(r.data) {
		switch r.data[r.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			r.pos++
		default:
			return
		}
	}
}

func (r *textReader) atEOF() bool {
	r.skipSpace()
	return r.pos >= len(r.data)
}

// keyword consumes kw. The keyword may be glued to the following number.
func (r *textReader) keyword(kw string) error {
	r.skipSpace()
	if r.pos >= len(r.data) {
		return r.fail(ErrTruncatedInput, "expected %q", kw)
	}
	end := r.pos + len(kw)
	if end > len(r.data) || string(r.data[r.pos:end]) != kw {
		return r.fail(ErrUnexpectedToken, "expected %q", kw)
	}
	r.pos = end
	return nil
}

// uint reads a decimal non-negative integer that fits in bitSize bits. On
// failure the cursor is left where it was.
func (r *textReader) uint(bitSize int) (uint64, error) {
	r.skipSpace()
	start := r.pos
	if start >= len(r.data) {
		return 0, r.fail(ErrTruncatedInput, "expected integer")
	}
	end := start
	for end < len(r.data) && r.data[end] >= '0' && r.data[end] <= '9' {
		end++
	}
	if end == start {
		return 0, r.fail(ErrUnexpectedToken, "expected integer, found %q", r.data[start])
	}
	v, err := strconv.ParseUint(string(r.data[start:end]), 10, bitSize)
	if err != nil {
		return 0, r.fail(ErrUnexpectedToken, "integer %s does not fit in %d bits", r.data[start:end], bitSize)
	}
	r.pos = end
	return v, nil
}

func (r *textReader) u32() (uint32, error) {
	v, err := r.uint(32)
	return uint32(v), err
}
