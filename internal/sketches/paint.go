// Package sketches holds the built-in sketches. Each file registers one
// sketch with the registry from its init function.
package sketches

import (
	"image"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
)

// pixels flattens a gg context into a frame buffer. Every sketch clears with
// an opaque background, so premultiplied and straight alpha agree.
func pixels(dc *gg.Context) ([]byte, error) {
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	if img, ok := dc.Image().(*image.RGBA); ok {
		return img.Pix, nil
	}
	return dc.ResizeTarget().Data(), nil
}

// frame hands pix to the runtime. On a drawing error it logs and returns no
// pixels, so the runtime's buffer check ends the run instead of showing a
// blank frame.
func frame(sketch string, index uint32, pix []byte, err error) []byte {
	if err != nil {
		log.Error("draw failed", "sketch", sketch, "frame", index, "error", err)
		return nil
	}
	return pix
}

// Palette is a multi-stop color ramp.
type Palette []colorful.Color

// At returns the palette color at t in [0, 1], blending neighbouring stops
// in CIE-L*C*h° space.
func (g Palette) At(t float64) colorful.Color {
	switch len(g) {
	case 0:
		return colorful.Color{}
	case 1:
		return g[0]
	}
	t = core.ClampF(t, 0, 1) * float64(len(g)-1)
	i := int(t)
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	return g[i].BlendHcl(g[i+1], t-float64(i)).Clamped()
}

// RGBA returns the palette color at t as a buffer pixel.
func (g Palette) RGBA(t float64) core.RGBA {
	r, gr, b := g.At(t).RGB255()
	return core.RGB(r, gr, b)
}

// loadPalette parses the preset palette, falling back to the given hex colors.
func loadPalette(p config.Preset, fallback ...string) (Palette, error) {
	def := make([]colorful.Color, 0, len(fallback))
	for _, hex := range fallback {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, err
		}
		def = append(def, c)
	}
	colors, err := p.Colors(def...)
	if err != nil {
		return nil, err
	}
	return Palette(colors), nil
}

// newRand seeds from the preset, or from the clock when no seed is set.
func newRand(p config.Preset) *rand.Rand {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
