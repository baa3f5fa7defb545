package app

import "github.com/vovakirdan/pixelloop/internal/core"

// SketchDrawFunc produces a frame from the runtime state alone.
type SketchDrawFunc func(s *State[Unit]) []byte

// UpdateFunc returns the model for the next frame.
type UpdateFunc[M any] func(s *State[M], m M) M

// DrawFunc produces a frame from the runtime state and the current model.
type DrawFunc[M any] func(s *State[M], m *M) []byte

// Sketch builds an app with no model and no update step.
func Sketch(cfg core.Config, draw SketchDrawFunc, opts ...Option) (*App[Unit], error) {
	a, err := newApp(Unit{}, cfg, opts)
	if err != nil {
		return nil, err
	}
	s := a.state
	a.render = func() []byte { return draw(s) }
	a.advance = func() {}
	return a, nil
}

// Stateful builds an app whose model is replaced by update after every
// frame. draw always sees the model from before that frame's update.
func Stateful[M any](model M, cfg core.Config, update UpdateFunc[M], draw DrawFunc[M], opts ...Option) (*App[M], error) {
	a, err := newApp(model, cfg, opts)
	if err != nil {
		return nil, err
	}
	s := a.state
	a.render = func() []byte { return draw(s, &s.Model) }
	a.advance = func() { s.Model = update(s, s.Model) }
	return a, nil
}
