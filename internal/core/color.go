package core

// RGBA is a non-premultiplied 8-bit color, the unit of a pixel buffer.
type RGBA struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Gray returns an opaque gray level.
func Gray(v uint8) RGBA {
	return RGBA{R: v, G: v, B: v, A: 0xFF}
}

// Lerp blends two colors, t in [0, 1].
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	t = ClampF(t, 0, 1)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return RGBA{
		R: mix(c.R, other.R),
		G: mix(c.G, other.G),
		B: mix(c.B, other.B),
		A: mix(c.A, other.A),
	}
}

// Predefined colors for sketches.
var (
	Black       = RGB(0x00, 0x00, 0x00)
	White       = RGB(0xFF, 0xFF, 0xFF)
	Red         = RGB(0xE6, 0x39, 0x46)
	Green       = RGB(0x2A, 0x9D, 0x8F)
	Blue        = RGB(0x1D, 0x35, 0x57)
	Yellow      = RGB(0xF4, 0xA2, 0x61)
	Transparent = RGBA{}
)
