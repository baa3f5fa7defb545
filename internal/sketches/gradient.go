package sketches

import (
	"math"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

func init() {
	registry.Register("gradient", func() registry.Sketch { return gradient{} })
}

// gradient scrolls the palette horizontally and fades it towards the
// bottom edge. It has no model and no input.
type gradient struct{}

func (gradient) ID() string    { return "gradient" }
func (gradient) Title() string { return "Gradient" }

func (gradient) Description() string {
	return "Scrolling palette gradient (sketch mode, no input)"
}

func (gradient) Config() core.Config {
	return core.NewConfig(320, 180).WithTitle("gradient")
}

func (gradient) Build(cfg core.Config, p config.Preset, opts ...app.Option) (app.Program, error) {
	grad, err := loadPalette(p, "#1d3557", "#e63946", "#f1faee")
	if err != nil {
		return nil, err
	}
	speed := p.Param("speed", 0.1)
	canvas := core.NewCanvasFor(cfg)
	row := make([]core.RGBA, cfg.Width)

	return app.Sketch(cfg, func(s *app.State[app.Unit]) []byte {
		w, h := s.Size()
		for x := range row {
			t := float64(x)/float64(w) + s.Time*speed
			// Ping-pong so the scroll has no seam.
			t = 1 - math.Abs(1-2*(t-math.Floor(t)))
			row[x] = grad.RGBA(t)
		}
		for y := range h {
			fade := float64(y) / float64(h) * 0.6
			for x, c := range row {
				canvas.Set(x, y, c.Lerp(core.Black, fade))
			}
		}
		return canvas.Bytes()
	}, opts...)
}
