package scene

import "fmt"

// Color is an 8-bit RGB palette entry. Alpha from source files is dropped.
type Color struct {
	R, G, B uint8
}

// Float32 returns the color normalized to [0,1], the layout renderers upload
// as per-instance data.
func (c Color) Float32() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// RGBA returns the normalized color with an opaque alpha channel.
func (c Color) RGBA() [4]float32 {
	f := c.Float32()
	return [4]float32{f[0], f[1], f[2], 1}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
