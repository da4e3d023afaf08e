package utils

import (
	"fmt"
	"io"

	"github.com/voxelsplace/voxscene/scene"
)

// Summary describes a decoded scene.
type Summary struct {
	Format      string     `json:"format"`
	GridSize    [3]uint32  `json:"gridSize"`
	Bounds      [3]uint32  `json:"bounds"`
	Center      [3]float32 `json:"center"`
	Voxels      int        `json:"voxels"`
	Colors      int        `json:"colors"`
	Fingerprint string     `json:"fingerprint"`
	// Valid is false when a voxel references a color outside the palette.
	Valid bool `json:"valid"`
}

func Summarize(s *scene.Scene, f scene.Format) Summary {
	return Summary{
		Format:      f.String(),
		GridSize:    s.GridSize,
		Bounds:      s.Bounds(),
		Center:      s.Center(),
		Voxels:      len(s.Voxels),
		Colors:      len(s.Colors),
		Fingerprint: fmt.Sprintf("%016x", s.Fingerprint()),
		Valid:       s.Validate() == nil,
	}
}

func WriteSummary(w io.Writer, sum Summary) error {
	_, err := fmt.Fprintf(w,
		"format:      %s\ngrid size:   %d x %d x %d\nbounds:      %d x %d x %d\ncenter:      %g %g %g\nvoxels:      %d\ncolors:      %d\nfingerprint: %s\nvalid:       %t\n",
		sum.Format,
		sum.GridSize[0], sum.GridSize[1], sum.GridSize[2],
		sum.Bounds[0], sum.Bounds[1], sum.Bounds[2],
		sum.Center[0], sum.Center[1], sum.Center[2],
		sum.Voxels, sum.Colors, sum.Fingerprint, sum.Valid,
	)
	return err
}

func RunInspect(path string, w io.Writer, opts LoadOptions) error {
	s, f, err := LoadScene(path, opts)
	if err != nil {
		return err
	}
	return WriteSummary(w, Summarize(s, f))
}
