package sketches

import (
	"github.com/chewxy/math32"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

func init() {
	registry.Register("waves", func() registry.Sketch { return waves{} })
}

const defaultWavePeriod = 50

// waves layers sine bands whose phase depends only on the frame number, so
// frame period is identical to frame 0 and saved frames loop seamlessly.
type waves struct{}

func (waves) ID() string    { return "waves" }
func (waves) Title() string { return "Waves" }

func (waves) Description() string {
	return "Seamless looping sine bands, saves one full period"
}

func (waves) Config() core.Config {
	return core.NewConfig(480, 270).WithTitle("waves").WithSaveQuota(defaultWavePeriod)
}

func (waves) Build(cfg core.Config, p config.Preset, opts ...app.Option) (app.Program, error) {
	grad, err := loadPalette(p, "#0b1d51", "#725cff", "#9bf6ff")
	if err != nil {
		return nil, err
	}
	bands := max(int(p.Param("bands", 6)), 1)
	// Whole cycles per period keep the loop seamless.
	cycles := max(math32.Round(float32(p.Param("speed", 1))), 1)
	period := cfg.SaveQuota
	if period == 0 {
		period = defaultWavePeriod
	}

	canvas := core.NewCanvasFor(cfg)
	colors := make([]core.RGBA, bands)
	for b := range colors {
		colors[b] = grad.RGBA(float64(b) / float64(max(bands-1, 1)))
	}

	return app.Sketch(cfg, func(s *app.State[app.Unit]) []byte {
		drawWaves(canvas, colors, wavePhase(s.Frame, period, cycles))
		return canvas.Bytes()
	}, opts...)
}

// wavePhase maps a frame onto [0, 2π·cycles), repeating every period frames.
func wavePhase(frame, period uint32, cycles float32) float32 {
	return 2 * math32.Pi * cycles * float32(frame%period) / float32(period)
}

func drawWaves(c *core.Canvas, colors []core.RGBA, phase float32) {
	w, h := c.Width(), c.Height()
	c.Fill(core.Black)
	n := len(colors)
	step := float32(h) / float32(n+1)
	for b, col := range colors {
		base := step * float32(b+1)
		amp := step * 0.6
		freq := float32(b+1) * 2 * math32.Pi / float32(w)
		dir := float32(1)
		if b%2 == 1 {
			dir = -1
		}
		for x := range w {
			y := int(base + amp*math32.Sin(freq*float32(x)+dir*phase))
			c.VLine(x, y, h-y, col)
		}
	}
}
