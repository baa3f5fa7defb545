// Package input stores user callbacks keyed by key or mouse button and
// tracks which keys are currently held.
package input

import (
	"github.com/vovakirdan/pixelloop/internal/core"
)

// Callback receives the mutable runtime state.
type Callback[S any] func(S)

// Registry maps keys and mouse buttons to callbacks.
// Registering a second callback for the same key replaces the first, and
// registering nil removes it.
// A Registry is not safe for concurrent use; the runtime only touches it from
// the event goroutine.
type Registry[S any] struct {
	press   map[core.Key]Callback[S]
	release map[core.Key]Callback[S]
	held    map[core.Key]Callback[S]
	mouse   map[core.MouseButton]Callback[S]
}

// NewRegistry returns an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		press:   make(map[core.Key]Callback[S]),
		release: make(map[core.Key]Callback[S]),
		held:    make(map[core.Key]Callback[S]),
		mouse:   make(map[core.MouseButton]Callback[S]),
	}
}

// OnPress registers fn for the up-to-down transition of key.
func (r *Registry[S]) OnPress(key core.Key, fn Callback[S]) {
	set(r.press, key, fn)
}

// OnRelease registers fn for the down-to-up transition of key.
func (r *Registry[S]) OnRelease(key core.Key, fn Callback[S]) {
	set(r.release, key, fn)
}

// OnHeld registers fn to run once per frame while key is down.
func (r *Registry[S]) OnHeld(key core.Key, fn Callback[S]) {
	set(r.held, key, fn)
}

// OnMousePress registers fn for a press of button.
func (r *Registry[S]) OnMousePress(button core.MouseButton, fn Callback[S]) {
	set(r.mouse, button, fn)
}

func set[K comparable, S any](m map[K]Callback[S], k K, fn Callback[S]) {
	if fn == nil {
		delete(m, k)
		return
	}
	m[k] = fn
}

// Press returns the press callback for key, if any.
func (r *Registry[S]) Press(key core.Key) (Callback[S], bool) {
	fn, ok := r.press[key]
	return fn, ok
}

// Release returns the release callback for key, if any.
func (r *Registry[S]) Release(key core.Key) (Callback[S], bool) {
	fn, ok := r.release[key]
	return fn, ok
}

// Held returns the held callback for key, if any.
func (r *Registry[S]) Held(key core.Key) (Callback[S], bool) {
	fn, ok := r.held[key]
	return fn, ok
}

// MousePress returns the callback for button, if any.
func (r *Registry[S]) MousePress(button core.MouseButton) (Callback[S], bool) {
	fn, ok := r.mouse[button]
	return fn, ok
}

// Len returns the total number of registered callbacks.
func (r *Registry[S]) Len() int {
	return len(r.press) + len(r.release) + len(r.held) + len(r.mouse)
}
