package render

import (
	"image/color"
	"math"

	"github.com/taigrr/orb/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// Quantize gamma-corrects a linear color (gamma 2, i.e. square root) and
// converts it to 8-bit channels, clamping out-of-range values.
func Quantize(c math3d.Vec3) Color {
	return RGB(channel(c.X), channel(c.Y), channel(c.Z))
}

// channel maps one linear component to [0, 255].
func channel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	out := math.Round(255 * math.Sqrt(v))
	if out > 255 {
		return 255
	}
	return uint8(out)
}
