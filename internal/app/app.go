// Package app is the frame loop: it creates the window when the host is
// ready, renders one frame per redraw request, hands the leading frames to a
// save worker, and routes input to registered callbacks.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/input"
	"github.com/vovakirdan/pixelloop/internal/persist"
)

// ErrAlreadyStarted is returned by Run when the app has already been driven.
var ErrAlreadyStarted = errors.New("app: already started")

// Program is an app with its model type erased.
type Program interface {
	host.Handler
	Run(h host.Host) error
	Config() core.Config
	Phase() Phase
	Stats() Stats
	Err() error
}

// App drives a single window. M is the model type; sketch-mode apps use Unit.
type App[M any] struct {
	cfg      core.Config
	opts     options
	state    *State[M]
	handlers *input.Registry[*State[M]]

	// Bound once by the constructor.
	render  func() []byte
	advance func()

	phase   Phase
	start   time.Time
	window  host.Window
	surface host.Surface
	sink    FrameSink
	runTag  string
	shots   int
	dropped int
	stats   Stats
	err     error
}

func newApp[M any](model M, cfg core.Config, opts []Option) (*App[M], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	tag := o.runTag
	if tag == "" {
		tag = uuid.NewString()[:8]
	}
	return &App[M]{
		cfg:      cfg,
		opts:     o,
		state:    newState(model, cfg),
		handlers: input.NewRegistry[*State[M]](),
		phase:    Created,
		runTag:   tag,
	}, nil
}

// Config returns the configuration the app was built with.
func (a *App[M]) Config() core.Config { return a.cfg }

// Phase returns the current lifecycle phase.
func (a *App[M]) Phase() Phase { return a.phase }

// State exposes the runtime state. Only touch it from the event goroutine.
func (a *App[M]) State() *State[M] { return a.state }

// Err returns the fatal error that ended the run, if any.
func (a *App[M]) Err() error { return a.err }

// RunTag returns the run component of the app's saved file names.
func (a *App[M]) RunTag() string { return a.runTag }

// OnKeyPress registers fn for the down transition of key.
func (a *App[M]) OnKeyPress(key core.Key, fn func(*State[M])) {
	a.handlers.OnPress(key, fn)
}

// OnKeyRelease registers fn for the up transition of key.
func (a *App[M]) OnKeyRelease(key core.Key, fn func(*State[M])) {
	a.handlers.OnRelease(key, fn)
}

// OnKeyHeld registers fn to run once per frame while key is down.
func (a *App[M]) OnKeyHeld(key core.Key, fn func(*State[M])) {
	a.handlers.OnHeld(key, fn)
}

// OnMousePress registers fn for a press of button.
func (a *App[M]) OnMousePress(button core.MouseButton, fn func(*State[M])) {
	a.handlers.OnMousePress(button, fn)
}

// Run hands control to h and blocks until the event loop exits.
// It returns the fatal error that stopped the app, or the host's own error.
func (a *App[M]) Run(h host.Host) error {
	if a.phase != Created {
		return ErrAlreadyStarted
	}
	a.begin()

	err := h.Run(a)
	a.closeSink()
	if a.err != nil {
		return a.err
	}
	if err != nil {
		return fmt.Errorf("app: host: %w", err)
	}
	return nil
}

func (a *App[M]) begin() {
	a.phase = WindowPending
	a.start = a.opts.clock()
}

// HandleEvent applies one host event. Events that arrive before the window
// exists, other than CloseRequested, are ignored, as is everything after
// termination has started.
func (a *App[M]) HandleEvent(loop host.Loop, ev host.Event) {
	if a.phase == Created {
		a.begin()
	}
	if a.phase >= Terminating {
		return
	}
	a.state.Time = a.opts.clock().Sub(a.start).Seconds()

	switch ev.(type) {
	case host.Resumed:
		if a.phase == WindowPending {
			a.resume(loop)
		}
		return
	case host.CloseRequested:
		a.terminate(loop)
		return
	}

	if a.phase != Active {
		return
	}

	switch e := ev.(type) {
	case host.RedrawRequested:
		a.redraw(loop)
	case host.KeyInput:
		a.key(e)
	case host.MouseInput:
		if !e.Pressed {
			return
		}
		if fn, ok := a.handlers.MousePress(e.Button); ok {
			fn(a.state)
		}
	case host.CursorMoved:
		a.state.Mouse = core.Point{X: e.X, Y: e.Y}
	case host.CursorEntered:
		if a.cfg.CursorVisible {
			a.window.SetCursorIcon(core.CursorCrosshair)
		} else {
			a.window.SetCursorVisible(false)
		}
	case host.CursorLeft:
		a.window.SetCursorIcon(core.CursorDefault)
		a.window.SetCursorVisible(true)
	case host.ModifiersChanged:
		a.state.Modifiers = e.Mods
	}

	if a.phase == Active && a.state.takeRedraw() {
		a.window.RequestRedraw()
	}
}

func (a *App[M]) resume(loop host.Loop) {
	w, h := a.cfg.Size()
	window, err := loop.CreateWindow(host.WindowOptions{Title: a.cfg.Title, Width: w, Height: h})
	if err != nil {
		a.fail(loop, fmt.Errorf("%w: create window: %w", core.ErrPresentation, err))
		return
	}
	surface, err := window.NewSurface(w, h)
	if err != nil {
		a.fail(loop, fmt.Errorf("%w: create surface: %w", core.ErrPresentation, err))
		return
	}
	if n := len(surface.Frame()); n != a.cfg.BufferLen() {
		a.fail(loop, fmt.Errorf("%w: surface frame is %d bytes, expected %d", core.ErrPresentation, n, a.cfg.BufferLen()))
		return
	}
	a.window = window
	a.surface = surface

	if a.cfg.SaveQuota > 0 {
		a.sink = a.opts.sink
		if a.sink == nil {
			capacity := a.opts.capacity
			if capacity <= 0 {
				capacity = int(min(a.cfg.SaveQuota, persist.DefaultCapacity))
			}
			a.sink = persist.Start(persist.Options{
				Logger:   a.opts.logger,
				Capacity: capacity,
				Format:   a.opts.format,
				Recorder: a.opts.recorder,
			})
		}
	}

	a.phase = Active
	a.opts.logger.Debug("window ready", "config", a.cfg)
	if a.cfg.ShouldRender(0) {
		window.RequestRedraw()
	}
}

func (a *App[M]) redraw(loop host.Loop) {
	frame := a.state.Frame

	pixels := a.render()
	if err := core.CheckBuffer(a.cfg, frame, pixels); err != nil {
		a.fail(loop, err)
		return
	}

	copy(a.surface.Frame(), pixels)
	if err := a.surface.Present(); err != nil {
		a.fail(loop, fmt.Errorf("%w: present frame %d: %w", core.ErrPresentation, frame, err))
		return
	}

	if frame < a.cfg.SaveQuota && a.sink != nil {
		req := persist.Request{
			Pixels: bytes.Clone(a.surface.Frame()),
			Path:   persist.FramePath(a.opts.outDir, a.runTag, a.opts.clock().Unix(), frame, a.opts.format),
			Width:  a.cfg.Width,
			Height: a.cfg.Height,
			Frame:  frame,
		}
		if err := a.sink.TrySend(req); err != nil {
			a.dropped++
			a.opts.logger.Warn("frame not saved", "frame", frame, "error", err)
		}
	}

	for _, key := range a.state.keys.Keys() {
		if fn, ok := a.handlers.Held(key); ok {
			fn(a.state)
		}
	}
	a.advance()

	a.state.Frame++

	// takeRedraw must run even when the policy already schedules a frame.
	requested := a.state.takeRedraw()
	if a.cfg.ShouldRender(a.state.Frame) || requested {
		a.window.RequestRedraw()
	}
}

func (a *App[M]) key(e host.KeyInput) {
	if !e.Pressed {
		if a.state.keys.Release(e.Key) {
			if fn, ok := a.handlers.Release(e.Key); ok {
				fn(a.state)
			}
		}
		return
	}

	if e.Repeat || !a.state.keys.Press(e.Key) {
		return
	}
	if e.Key == "s" && (a.state.Modifiers.Has(core.ModSuper) || a.state.Modifiers.Has(core.ModCtrl)) {
		a.screenshot()
	}
	if fn, ok := a.handlers.Press(e.Key); ok {
		fn(a.state)
	}
}

// screenshot saves the current draw output synchronously. It does not
// present or advance the frame.
func (a *App[M]) screenshot() {
	pixels := a.render()
	if err := core.CheckBuffer(a.cfg, a.state.Frame, pixels); err != nil {
		a.opts.logger.Error("screenshot skipped", "error", err)
		return
	}
	seq := a.shots
	a.shots++
	req := persist.Request{
		Pixels: pixels,
		Path:   persist.ShotPath(a.opts.shotDir, a.runTag, a.opts.clock().Unix(), seq, a.opts.format),
		Width:  a.cfg.Width,
		Height: a.cfg.Height,
		Frame:  a.state.Frame,
	}
	if _, err := persist.Save(req, a.opts.format); err != nil {
		a.opts.logger.Error("screenshot failed", "error", err)
		return
	}
	a.opts.logger.Info("screenshot saved", "path", req.Path)
}

func (a *App[M]) terminate(loop host.Loop) {
	a.phase = Terminating
	a.closeSink()

	a.stats = a.collect()
	fmt.Fprintln(a.opts.stdout, a.stats)
	if a.opts.onExit != nil {
		a.opts.onExit(a.stats)
	}

	a.phase = Terminated
	loop.Exit()
}

func (a *App[M]) fail(loop host.Loop, err error) {
	a.phase = Terminating
	a.err = err
	a.opts.logger.Error("fatal", "frame", a.state.Frame, "error", err)
	a.closeSink()
	a.stats = a.collect()
	a.phase = Terminated
	loop.Exit()
}

func (a *App[M]) closeSink() {
	if a.sink != nil {
		a.sink.Close()
		a.sink = nil
	}
}

func (a *App[M]) collect() Stats {
	return Stats{
		Frames:  a.state.Frame,
		Elapsed: a.opts.clock().Sub(a.start),
		Dropped: a.dropped,
	}
}
