package scene

import (
	"errors"
	"fmt"
)

// Grammar-level errors. Every failure of DecodeVLY wraps ErrInvalidText and
// every failure of DecodeVOX wraps ErrInvalidBinary.
var (
	ErrInvalidText   = errors.New("invalid vly format")
	ErrInvalidBinary = errors.New("invalid vox format")
	ErrUnknownFormat = errors.New("cannot determine format")
)

// Failure kinds carried by FormatError.
var (
	ErrTruncatedInput     = errors.New("truncated input")
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrUnexpectedChunkTag = errors.New("unexpected chunk tag")
	ErrBadMagic           = errors.New("bad magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrNonEmptyLeafChunk  = errors.New("leaf chunk declares children")
	ErrMalformedChunk     = errors.New("malformed chunk content")
	ErrEmptyPack          = errors.New("no models declared")
)

// ErrColorOutOfRange is reported by Scene.Validate, never by the decoders.
var ErrColorOutOfRange = errors.New("color index out of range")

// FormatError describes the first failure a grammar hit. Offset is the byte
// position in the input where it was detected.
type FormatError struct {
	Format Format
	Offset int
	Kind   error
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v at offset %d", e.Format, e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s: %v at offset %d: %s", e.Format, e.Kind, e.Offset, e.Detail)
}

func (e *FormatError) Unwrap() []error {
	switch e.Format {
	case FormatVLY:
		return []error{ErrInvalidText, e.Kind}
	case FormatVOX:
		return []error{ErrInvalidBinary, e.Kind}
	}
	return []error{e.Kind}
}

// UnknownFormatError is returned when no grammar accepted the input. The
// individual attempt errors are kept for diagnostics only; the error unwraps
// to ErrUnknownFormat alone.
type UnknownFormatError struct {
	Text   error
	Binary error
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%v (vly: %v; vox: %v)", ErrUnknownFormat, e.Text, e.Binary)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
