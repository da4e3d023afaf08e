package scene

import (
	"errors"
	"testing"
)

func TestDecodeVLY_AxisSwapAndPalette(t *testing.T) {
	in := "grid_size: 2 3 4 voxel_num: 2\n0 1 2 0\n1 2 0 1\n0 10 20 30\n1 40 50 60\n"
	s, err := DecodeVLY([]byte(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.GridSize != (Vec3{2, 4, 3}) {
		t.Fatalf("grid size = %v, want [2 4 3]", s.GridSize)
	}
	want := []Voxel{
		{Pos: Vec3{0, 2, 1}, Color: 0},
		{Pos: Vec3{1, 0, 2}, Color: 1},
	}
	if len(s.Voxels) != len(want) {
		t.Fatalf("got %d voxels, want %d", len(s.Voxels), len(want))
	}
	for i := range want {
		if s.Voxels[i] != want[i] {
			t.Errorf("voxel %d = %+v, want %+v", i, s.Voxels[i], want[i])
		}
	}
	wantColors := []Color{{10, 20, 30}, {40, 50, 60}}
	if len(s.Colors) != len(wantColors) {
		t.Fatalf("got %d colors, want %d", len(s.Colors), len(wantColors))
	}
	for i := range wantColors {
		if s.Colors[i] != wantColors[i] {
			t.Errorf("color %d = %+v, want %+v", i, s.Colors[i], wantColors[i])
		}
	}
}

func TestDecodeVLY_SingleVoxel(t *testing.T) {
	s, err := DecodeVLY([]byte("grid_size: 2 1 1 voxel_num: 1\n0 0 0 0\n0 10 20 30\n"))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(s.Voxels) != 1 || s.Voxels[0] != (Voxel{}) {
		t.Fatalf("voxels = %+v", s.Voxels)
	}
	if len(s.Colors) != 1 || s.Colors[0] != (Color{10, 20, 30}) {
		t.Fatalf("colors = %+v", s.Colors)
	}
	if s.GridSize != (Vec3{2, 1, 1}) {
		t.Fatalf("grid size = %v", s.GridSize)
	}
}

func TestDecodeVLY_WhitespaceInsensitive(t *testing.T) {
	in := "\n\n  grid_size:4\n5\t6\r\nvoxel_num:\n1 3\n2\n1 7    0 1 2 3"
	s, err := DecodeVLY([]byte(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.GridSize != (Vec3{4, 6, 5}) {
		t.Errorf("grid size = %v", s.GridSize)
	}
	if s.Voxels[0] != (Voxel{Pos: Vec3{3, 1, 2}, Color: 7}) {
		t.Errorf("voxel = %+v", s.Voxels[0])
	}
	if len(s.Colors) != 1 || s.Colors[0] != (Color{1, 2, 3}) {
		t.Errorf("colors = %+v", s.Colors)
	}
}

func TestDecodeVLY_VoxelCountIsExact(t *testing.T) {
	in := "grid_size: 2 2 2 voxel_num: 3\n0 0 0 0\n1 1 1 0\n"
	_, err := DecodeVLY([]byte(in))
	if !errors.Is(err, ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestDecodeVLY_ColorRecordsFillVoxelShortfall(t *testing.T) {
	// Two voxels declared, one voxel plus one color record present: the color
	// record is consumed as the second voxel, leaving an empty palette.
	s, err := DecodeVLY([]byte("grid_size: 2 2 2 voxel_num: 2\n0 0 0 0\n0 1 2 3\n"))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(s.Voxels) != 2 || len(s.Colors) != 0 {
		t.Fatalf("got %d voxels and %d colors", len(s.Voxels), len(s.Colors))
	}
}

func TestDecodeVLY_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind error
	}{
		{"empty", "", ErrTruncatedInput},
		{"missing grid_size", "voxel_num: 1\n0 0 0 0", ErrUnexpectedToken},
		{"missing voxel_num", "grid_size: 1 1 1\n0 0 0 0\n", ErrUnexpectedToken},
		{"misspelled keyword", "grid_size: 1 1 1 voxels: 0", ErrUnexpectedToken},
		{"negative", "grid_size: 1 -1 1 voxel_num: 0", ErrUnexpectedToken},
		{"short grid", "grid_size: 1 1", ErrTruncatedInput},
		{"bad voxel token", "grid_size: 1 1 1 voxel_num: 1\n0 x 0 0", ErrUnexpectedToken},
		{"overflow", "grid_size: 1 1 99999999999 voxel_num: 0", ErrUnexpectedToken},
		{"binary", "VOX \x96\x00\x00\x00", ErrUnexpectedToken},
		{"not utf8", "grid_size: \xff", ErrUnexpectedToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := DecodeVLY([]byte(tc.in))
			if err == nil {
				t.Fatalf("expected error, got scene %+v", s)
			}
			if !errors.Is(err, ErrInvalidText) {
				t.Errorf("error %v does not wrap ErrInvalidText", err)
			}
			if !errors.Is(err, tc.kind) {
				t.Errorf("error %v does not wrap %v", err, tc.kind)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Format != FormatVLY {
				t.Errorf("expected vly FormatError, got %T", err)
			}
		})
	}
}

func TestDecodeVLY_MissingVoxelNumFailsBeforeVoxels(t *testing.T) {
	in := "grid_size: 1 1 1\n0 0 0 0\n"
	_, err := DecodeVLY([]byte(in))
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	// the failure is at the first voxel token, where the keyword was expected
	if want := len("grid_size: 1 1 1\n"); fe.Offset != want {
		t.Errorf("offset = %d, want %d", fe.Offset, want)
	}
}

func TestDecodeVLY_ColorListStopsAtFirstMismatch(t *testing.T) {
	in := "grid_size: 1 1 1 voxel_num: 0\n0 1 2 3\n1 4 5 6\n2 7 8 300\n3 9 9 9\n"
	s, err := DecodeVLY([]byte(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(s.Colors) != 2 {
		t.Fatalf("got %d colors, want 2 (channel 300 ends the list)", len(s.Colors))
	}
}

func TestDecodeVLY_ColorIndexTokenIgnored(t *testing.T) {
	// Records listed out of order still fill the palette in file order.
	in := "grid_size: 1 1 1 voxel_num: 1\n0 0 0 1\n1 200 0 0\n0 0 200 0\n"
	s, err := DecodeVLY([]byte(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Colors[0] != (Color{200, 0, 0}) || s.Colors[1] != (Color{0, 200, 0}) {
		t.Fatalf("colors = %+v", s.Colors)
	}
	if got := s.Colors[s.Voxels[0].Color]; got != (Color{0, 200, 0}) {
		t.Fatalf("voxel resolves to %+v", got)
	}
}

func TestDecodeVLY_PartialTrailingColorIgnored(t *testing.T) {
	s, err := DecodeVLY([]byte("grid_size: 1 1 1 voxel_num: 0\n0 1 2 3\n1 4 5"))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(s.Colors) != 1 {
		t.Fatalf("got %d colors, want 1", len(s.Colors))
	}
}
