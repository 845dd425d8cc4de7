// Package colormap maps grid scalars onto the blue-to-red display gradient.
package colormap

import (
	"fmt"
	"image/color"
	"math"
)

// Gradient endpoints: low values render cool blue, high values hot red. The
// fixed partial opacity keeps the base map legible under the grid.
var (
	low  = color.NRGBA{R: 0, G: 60, B: 255}
	high = color.NRGBA{R: 255, G: 60, B: 0}
)

const cellAlpha = 165

// ColorFor maps a scalar onto the gradient for the [vmin, vmax] display
// range. Missing values (NaN/Inf) come back fully transparent so absent
// cells disappear instead of rendering as a misleading color. The function
// is total: a degenerate range (vmax == vmin) is handled, never an error.
func ColorFor(val, vmin, vmax float64) color.NRGBA {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return color.NRGBA{}
	}

	span := vmax - vmin
	if span == 0 {
		span = 1
	}
	x := clamp01((val - vmin) / span)

	return color.NRGBA{
		R: lerp(low.R, high.R, x),
		G: lerp(low.G, high.G, x),
		B: lerp(low.B, high.B, x),
		A: cellAlpha,
	}
}

// CSS renders a color as an rgba() expression for the map page.
func CSS(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, float64(c.A)/255)
}

// Tooltip formats a cell value for display, e.g. "5.00 TECU". Missing values
// render as an em dash placeholder; an empty unit is simply omitted.
func Tooltip(val float64, unit string) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return "—"
	}
	if unit == "" {
		return fmt.Sprintf("%.2f", val)
	}
	return fmt.Sprintf("%.2f %s", val, unit)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func lerp(a, b uint8, x float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*x))
}
