package scene

import "strings"

// Format identifies one of the two supported encodings.
type Format int

const (
	FormatUnknown Format = iota
	FormatVLY            // line-oriented text
	FormatVOX            // MagicaVoxel chunk container
)

func (f Format) String() string {
	switch f {
	case FormatVLY:
		return "vly"
	case FormatVOX:
		return "vox"
	}
	return "unknown"
}

// FormatFromName maps the suffix after the last '.' of name to a format.
// Matching is exact and case-sensitive.
func FormatFromName(name string) Format {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return FormatUnknown
	}
	switch name[i+1:] {
	case "vly":
		return FormatVLY
	case "vox":
		return FormatVOX
	}
	return FormatUnknown
}

// Decode builds a Scene from data. name is only a hint: a .vly or .vox
// suffix selects that grammar and its error is returned as is. Without a
// recognized suffix the text grammar is tried first, then the binary one.
func Decode(data []byte, name string) (*Scene, error) {
	s, _, err := DecodeFormat(data, name)
	return s, err
}

// DecodeFormat is Decode that also reports which grammar accepted the input.
func DecodeFormat(data []byte, name string) (*Scene, Format, error) {
	switch f := FormatFromName(name); f {
	case FormatVLY:
		s, err := DecodeVLY(data)
		return s, f, err
	case FormatVOX:
		s, err := DecodeVOX(data)
		return s, f, err
	}

	s, textErr := DecodeVLY(data)
	if textErr == nil {
		return s, FormatVLY, nil
	}
	s, binErr := DecodeVOX(data)
	if binErr == nil {
		return s, FormatVOX, nil
	}
	return nil, FormatUnknown, &UnknownFormatError{Text: textErr, Binary: binErr}
}

// assemble combines geometry and palette. No cross-checking happens here;
// see Scene.Validate.
func assemble(voxels []Voxel, colors []Color, gridSize Vec3) *Scene {
	return &Scene{Voxels: voxels, Colors: colors, GridSize: gridSize}
}
