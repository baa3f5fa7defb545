// Package headless runs an app without a display. Frames are presented into
// memory, which makes it suitable for batch rendering and tests.
package headless

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/persist"
)

// DefaultMaxFrames caps free-running apps.
const DefaultMaxFrames = 600

// ErrNoFrame is returned by Snapshot before anything was presented.
var ErrNoFrame = errors.New("headless: no frame presented")

// Input is an event injected just before the redraw with index Frame.
type Input struct {
	Frame int
	Event host.Event
}

// Options configures a Host.
type Options struct {
	Logger *log.Logger
	// MaxFrames bounds the number of redraws delivered. Zero means
	// DefaultMaxFrames.
	MaxFrames int
	Inputs    []Input
}

// Host delivers Resumed, then one RedrawRequested per pending redraw, then
// CloseRequested once nothing is pending or MaxFrames is reached.
type Host struct {
	opts   Options
	logger *log.Logger

	window    *window
	redraws   int
	exited    bool
	presented int
	last      []byte
	width     int
	height    int
	title     string
}

// New creates a headless host.
func New(opts Options) *Host {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = DefaultMaxFrames
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	opts.Inputs = slices.Clone(opts.Inputs)
	slices.SortStableFunc(opts.Inputs, func(a, b Input) int { return a.Frame - b.Frame })
	return &Host{opts: opts, logger: logger}
}

// Run implements host.Host.
func (h *Host) Run(handler host.Handler) error {
	if h.exited || h.redraws > 0 {
		return errors.New("headless: host already ran")
	}
	loop := &loop{host: h}

	handler.HandleEvent(loop, host.Resumed{})

	next := 0
	for !h.exited && h.redraws < h.opts.MaxFrames {
		for next < len(h.opts.Inputs) && h.opts.Inputs[next].Frame <= h.redraws && !h.exited {
			handler.HandleEvent(loop, h.opts.Inputs[next].Event)
			next++
		}
		if h.exited || h.window == nil || !h.window.pending {
			break
		}
		h.window.pending = false
		h.redraws++
		handler.HandleEvent(loop, host.RedrawRequested{})
	}

	if !h.exited {
		if h.redraws >= h.opts.MaxFrames {
			h.logger.Debug("frame cap reached", "frames", h.redraws)
		}
		handler.HandleEvent(loop, host.CloseRequested{})
	}
	if !h.exited {
		return errors.New("headless: handler ignored close request")
	}
	return nil
}

// Redraws returns how many redraw events were delivered.
func (h *Host) Redraws() int { return h.redraws }

// Presented returns how many frames reached the surface.
func (h *Host) Presented() int { return h.presented }

// Title returns the title of the created window.
func (h *Host) Title() string { return h.title }

// LastFrame returns a copy of the most recently presented frame.
func (h *Host) LastFrame() []byte {
	return bytes.Clone(h.last)
}

// Snapshot returns the last presented frame as an image.
func (h *Host) Snapshot() (*image.NRGBA, error) {
	if h.presented == 0 {
		return nil, ErrNoFrame
	}
	return persist.Image(h.LastFrame(), h.width, h.height)
}

type loop struct {
	host *Host
}

func (l *loop) CreateWindow(opts host.WindowOptions) (host.Window, error) {
	if l.host.window != nil {
		return nil, errors.New("headless: window already created")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("headless: bad window size %dx%d", opts.Width, opts.Height)
	}
	l.host.window = &window{host: l.host}
	l.host.title = opts.Title
	l.host.logger.Debug("window created", "title", opts.Title, "width", opts.Width, "height", opts.Height)
	return l.host.window, nil
}

func (l *loop) Exit() {
	l.host.exited = true
}

type window struct {
	host    *Host
	pending bool
}

func (w *window) RequestRedraw() {
	w.pending = true
}

func (w *window) NewSurface(width, height int) (host.Surface, error) {
	w.host.width = width
	w.host.height = height
	return &surface{host: w.host, frame: make([]byte, width*height*core.BytesPerPixel)}, nil
}

func (w *window) SetCursorVisible(bool)         {}
func (w *window) SetCursorIcon(core.CursorIcon) {}

type surface struct {
	host  *Host
	frame []byte
}

func (s *surface) Frame() []byte { return s.frame }

func (s *surface) Present() error {
	s.host.last = append(s.host.last[:0], s.frame...)
	s.host.presented++
	return nil
}
