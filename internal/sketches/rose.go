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
	registry.Register("rose", func() registry.Sketch { return rose{} })
}

const (
	roseSteps    = 720
	roseChunks   = 24
	roseSpinStep = math32.Pi / 12
	maxPetals    = 24
)

// roseModel is the curve being shown. Only key presses change it.
type roseModel struct {
	Petals    int
	Thickness float64
	Spin      float32
}

type rose struct{}

func (rose) ID() string    { return "rose" }
func (rose) Title() string { return "Rose" }

func (rose) Description() string {
	return "Rose curve drawn once (up/down: petals, left/right: spin)"
}

func (rose) Config() core.Config {
	return core.NewConfig(600, 600).WithTitle("rose").WithLoopOnce(true)
}

func (rose) Build(cfg core.Config, p config.Preset, opts ...app.Option) (app.Program, error) {
	grad, err := loadPalette(p, "#ff6f91", "#ffc75f")
	if err != nil {
		return nil, err
	}
	model := roseModel{
		Petals:    clampPetals(int(p.Param("petals", 5))),
		Thickness: p.Param("thickness", 2.5),
	}

	a, err := app.Stateful(model, cfg,
		func(_ *app.State[roseModel], m roseModel) roseModel { return m },
		func(s *app.State[roseModel], m *roseModel) []byte {
			w, h := s.Size()
			pix, err := drawRose(w, h, *m, grad)
			return frame("rose", s.Frame, pix, err)
		},
		opts...)
	if err != nil {
		return nil, err
	}

	petals := func(delta int) func(*app.State[roseModel]) {
		return func(s *app.State[roseModel]) {
			s.Model.Petals = clampPetals(s.Model.Petals + delta)
			s.RequestRedraw()
		}
	}
	spin := func(delta float32) func(*app.State[roseModel]) {
		return func(s *app.State[roseModel]) {
			s.Model.Spin = math32.Mod(s.Model.Spin+delta, 2*math32.Pi)
			s.RequestRedraw()
		}
	}
	a.OnKeyPress(core.KeyUp, petals(1))
	a.OnKeyPress("=", petals(1))
	a.OnKeyPress(core.KeyDown, petals(-1))
	a.OnKeyPress("-", petals(-1))
	a.OnKeyPress(core.KeyLeft, spin(-roseSpinStep))
	a.OnKeyPress(core.KeyRight, spin(roseSpinStep))
	return a, nil
}

func clampPetals(n int) int {
	return core.Clamp(n, 1, maxPetals)
}

// roseK returns the angular frequency giving exactly petals petals over a
// full turn: cos(kθ) has k petals for odd k and 2k for even k.
func roseK(petals int) float32 {
	if petals%2 == 1 {
		return float32(petals)
	}
	return float32(petals) / 2
}

// rosePoint returns the curve point at step i of roseSteps.
func rosePoint(i int, k, radius, spin, cx, cy float32) (float64, float64) {
	theta := 2 * math32.Pi * float32(i) / roseSteps
	r := radius * math32.Cos(k*theta)
	sin, cos := math32.Sincos(theta + spin)
	return float64(cx + r*cos), float64(cy + r*sin)
}

func drawRose(w, h int, m roseModel, grad Palette) ([]byte, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0.05, 0.05, 0.08))

	cx, cy := float32(w)/2, float32(h)/2
	radius := min(cx, cy) * 0.9
	k := roseK(m.Petals)

	dc.SetLineWidth(m.Thickness)
	dc.SetLineCap(gg.LineCapRound)
	per := roseSteps / roseChunks
	for c := range roseChunks {
		dc.SetColor(grad.At(float64(c) / float64(roseChunks-1)))
		dc.MoveTo(rosePoint(c*per, k, radius, m.Spin, cx, cy))
		for i := c*per + 1; i <= (c+1)*per; i++ {
			dc.LineTo(rosePoint(i, k, radius, m.Spin, cx, cy))
		}
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}
	return pixels(dc)
}
