package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// upperHalf shows the top pixel as foreground and the bottom one as
// background, so one cell carries two pixel rows.
const upperHalf = "▀"

// asciiRamp is used when the terminal has no colors, darkest first.
const asciiRamp = " .:-=+*#%@"

// Fit returns the size in dots of the largest image with the aspect ratio
// of a w x h buffer that fits cols x rows cells. A cell is one dot wide and
// two dots tall, so the returned height is always even.
func Fit(w, h, cols, rows int) (int, int) {
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	scale := min(float64(cols)/float64(w), float64(2*rows)/float64(h))
	outW := max(int(float64(w)*scale+0.5), 1)
	outH := max(int(float64(h)*scale+0.5), 2)
	outW = min(outW, cols)
	outH = min(outH-outH%2, 2*rows)
	return outW, outH
}

// Renderer turns RGBA frames into styled half-block text.
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer creates a renderer for the given color profile.
func NewRenderer(profile termenv.Profile) *Renderer {
	return &Renderer{profile: profile}
}

// Render scales a w x h RGBA buffer to outW x outH dots with
// nearest-neighbour sampling and returns outH/2 lines of text.
// Adjacent cells with identical colors share one escape sequence.
func (r *Renderer) Render(pix []byte, w, h, outW, outH int) string {
	if outW <= 0 || outH <= 0 || len(pix) < w*h*core.BytesPerPixel {
		return ""
	}

	var sb strings.Builder
	sb.Grow(outW * outH)

	sample := func(x, y int) core.RGBA {
		sx := x * w / outW
		sy := y * h / outH
		i := (sy*w + sx) * core.BytesPerPixel
		return flatten(core.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]})
	}

	for cy := 0; cy < outH/2; cy++ {
		if cy > 0 {
			sb.WriteByte('\n')
		}
		if r.profile == termenv.Ascii {
			for x := range outW {
				sb.WriteByte(asciiCell(sample(x, 2*cy), sample(x, 2*cy+1)))
			}
			continue
		}

		x := 0
		for x < outW {
			top, bottom := sample(x, 2*cy), sample(x, 2*cy+1)
			n := 1
			for x+n < outW && sample(x+n, 2*cy) == top && sample(x+n, 2*cy+1) == bottom {
				n++
			}
			sb.WriteString(r.profile.String(strings.Repeat(upperHalf, n)).
				Foreground(r.profile.Color(hex(top))).
				Background(r.profile.Color(hex(bottom))).
				String())
			x += n
		}
	}
	return sb.String()
}

// flatten composites a pixel over black.
func flatten(c core.RGBA) core.RGBA {
	if c.A == 0xFF {
		return c
	}
	return core.Black.Lerp(core.RGB(c.R, c.G, c.B), float64(c.A)/255)
}

func hex(c core.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func asciiCell(top, bottom core.RGBA) byte {
	luma := func(c core.RGBA) float64 {
		return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
	}
	l := (luma(top) + luma(bottom)) / 2 / 255
	return asciiRamp[int(l*float64(len(asciiRamp)-1)+0.5)]
}
