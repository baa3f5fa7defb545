package sketches

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gg"

	"github.com/vovakirdan/pixelloop/internal/app"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

func init() {
	registry.Register("orbits", func() registry.Sketch { return orbits{} })
}

const (
	panStep    = 4
	maxBodies  = 64
	orbitSpeed = 0.8
)

type body struct {
	Angle  float32
	Radius float32
	Speed  float32 // radians per frame
}

type orbitsModel struct {
	Center core.Point
	Bodies []body
	Paused bool
}

type orbits struct{}

func (orbits) ID() string    { return "orbits" }
func (orbits) Title() string { return "Orbits" }

func (orbits) Description() string {
	return "Bodies circling a pannable sun (arrows: pan, click: add, right click: clear, space: pause)"
}

func (orbits) Config() core.Config {
	return core.NewConfig(400, 400).WithTitle("orbits")
}

func (orbits) Build(cfg core.Config, p config.Preset, opts ...app.Option) (app.Program, error) {
	grad, err := loadPalette(p, "#ffd166", "#06d6a0", "#118ab2")
	if err != nil {
		return nil, err
	}
	w, h := cfg.SizeF()
	model := orbitsModel{Center: core.Point{X: w / 2, Y: h / 2}}
	rng := newRand(p)
	for range int(p.Param("bodies", 3)) {
		r := 20 + rng.Float32()*min(w, h)/2.5
		model.Bodies = append(model.Bodies, newBody(rng.Float32()*2*math32.Pi, r))
	}

	a, err := app.Stateful(model, cfg, stepOrbits,
		func(s *app.State[orbitsModel], m *orbitsModel) []byte {
			pix, err := drawOrbits(cfg.Width, cfg.Height, m, grad)
			return frame("orbits", s.Frame, pix, err)
		},
		opts...)
	if err != nil {
		return nil, err
	}

	pan := func(dx, dy float32) func(*app.State[orbitsModel]) {
		return func(s *app.State[orbitsModel]) {
			s.Model.Center.X = math32.Max(0, math32.Min(w, s.Model.Center.X+dx))
			s.Model.Center.Y = math32.Max(0, math32.Min(h, s.Model.Center.Y+dy))
		}
	}
	a.OnKeyHeld(core.KeyLeft, pan(-panStep, 0))
	a.OnKeyHeld(core.KeyRight, pan(panStep, 0))
	a.OnKeyHeld(core.KeyUp, pan(0, -panStep))
	a.OnKeyHeld(core.KeyDown, pan(0, panStep))
	a.OnKeyPress(core.KeySpace, func(s *app.State[orbitsModel]) {
		s.Model.Paused = !s.Model.Paused
	})
	a.OnMousePress(core.MouseLeft, func(s *app.State[orbitsModel]) {
		addBody(&s.Model, s.Mouse)
	})
	a.OnMousePress(core.MouseRight, func(s *app.State[orbitsModel]) {
		s.Model.Bodies = nil
	})
	return a, nil
}

// newBody places a body on a circular orbit. Outer bodies move slower.
func newBody(angle, radius float32) body {
	radius = math32.Max(radius, 1)
	return body{Angle: angle, Radius: radius, Speed: orbitSpeed / math32.Sqrt(radius)}
}

// addBody puts a new body where the mouse is, dropping the oldest once the
// limit is reached.
func addBody(m *orbitsModel, at core.Point) {
	dx, dy := at.X-m.Center.X, at.Y-m.Center.Y
	b := newBody(math32.Atan2(dy, dx), m.Center.Dist(at))
	bodies := append(m.Bodies, b)
	if len(bodies) > maxBodies {
		bodies = bodies[len(bodies)-maxBodies:]
	}
	m.Bodies = bodies
}

func stepOrbits(_ *app.State[orbitsModel], m orbitsModel) orbitsModel {
	if m.Paused {
		return m
	}
	next := make([]body, len(m.Bodies))
	for i, b := range m.Bodies {
		b.Angle = math32.Mod(b.Angle+b.Speed, 2*math32.Pi)
		next[i] = b
	}
	m.Bodies = next
	return m
}

func (b body) position(center core.Point) (float64, float64) {
	sin, cos := math32.Sincos(b.Angle)
	return float64(center.X + b.Radius*cos), float64(center.Y + b.Radius*sin)
}

func drawOrbits(w, h int, m *orbitsModel, grad Palette) ([]byte, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0.02, 0.02, 0.05))

	cx, cy := float64(m.Center.X), float64(m.Center.Y)
	dc.SetLineWidth(1)
	dc.SetRGBA(1, 1, 1, 0.12)
	for _, b := range m.Bodies {
		dc.DrawCircle(cx, cy, float64(b.Radius))
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}

	dc.SetColor(grad.At(0))
	dc.DrawCircle(cx, cy, 10)
	if err := dc.Fill(); err != nil {
		return nil, err
	}

	for i, b := range m.Bodies {
		x, y := b.position(m.Center)
		dc.SetColor(grad.At(float64(i%8) / 7))
		dc.DrawCircle(x, y, 4)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}
	return pixels(dc)
}
