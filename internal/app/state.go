package app

import (
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/input"
)

// Unit is the model type of sketch-mode apps.
type Unit struct{}

// State is everything a draw, update or input callback can see.
// It is owned by the event goroutine.
type State[M any] struct {
	Model     M
	Config    core.Config
	Frame     uint32
	Time      float64
	Mouse     core.Point
	Modifiers core.Modifiers

	keys   *input.KeySet
	redraw bool
}

func newState[M any](model M, cfg core.Config) *State[M] {
	return &State[M]{
		Model:  model,
		Config: cfg,
		keys:   input.NewKeySet(),
	}
}

// RequestRedraw asks for one more frame once the current callback returns,
// regardless of the loop policy.
func (s *State[M]) RequestRedraw() {
	s.redraw = true
}

// KeyHeld reports whether key is currently down.
func (s *State[M]) KeyHeld(key core.Key) bool {
	return s.keys.Has(key)
}

// HeldKeys returns the held keys in sorted order.
func (s *State[M]) HeldKeys() []core.Key {
	return s.keys.Keys()
}

func (s *State[M]) MouseX() float32 { return s.Mouse.X }
func (s *State[M]) MouseY() float32 { return s.Mouse.Y }

// Size returns the configured buffer dimensions.
func (s *State[M]) Size() (int, int) {
	return s.Config.Size()
}

// SizeF returns the configured buffer dimensions as float32.
func (s *State[M]) SizeF() (float32, float32) {
	return s.Config.SizeF()
}

// takeRedraw reports and clears a pending callback redraw request.
func (s *State[M]) takeRedraw() bool {
	r := s.redraw
	s.redraw = false
	return r
}
