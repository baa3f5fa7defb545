package app

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/persist"
)

type fakeSurface struct {
	frame      []byte
	presents   int
	presentErr error
	last       []byte
}

func (s *fakeSurface) Frame() []byte { return s.frame }

func (s *fakeSurface) Present() error {
	if s.presentErr != nil {
		return s.presentErr
	}
	s.presents++
	s.last = append(s.last[:0], s.frame...)
	return nil
}

type fakeWindow struct {
	pending   bool
	requests  int
	surfaces  int
	surface   *fakeSurface
	surfErr   error
	visible   []bool
	icons     []core.CursorIcon
	badLength bool
}

func (w *fakeWindow) RequestRedraw() {
	w.pending = true
	w.requests++
}

func (w *fakeWindow) NewSurface(width, height int) (host.Surface, error) {
	if w.surfErr != nil {
		return nil, w.surfErr
	}
	w.surfaces++
	n := width * height * 4
	if w.badLength {
		n--
	}
	w.surface = &fakeSurface{frame: make([]byte, n)}
	return w.surface, nil
}

func (w *fakeWindow) SetCursorVisible(v bool)            { w.visible = append(w.visible, v) }
func (w *fakeWindow) SetCursorIcon(icon core.CursorIcon) { w.icons = append(w.icons, icon) }

type fakeLoop struct {
	window    *fakeWindow
	created   int
	createErr error
	opts      host.WindowOptions
	exited    bool
}

func newFakeLoop() *fakeLoop {
	return &fakeLoop{window: &fakeWindow{}}
}

func (l *fakeLoop) CreateWindow(opts host.WindowOptions) (host.Window, error) {
	if l.createErr != nil {
		return nil, l.createErr
	}
	l.created++
	l.opts = opts
	return l.window, nil
}

func (l *fakeLoop) Exit() { l.exited = true }

// fakeHost delivers Resumed, then one RedrawRequested per pending request
// (up to maxRedraws), then CloseRequested.
type fakeHost struct {
	loop       *fakeLoop
	before     []host.Event
	maxRedraws int
	redraws    int
}

func newFakeHost() *fakeHost {
	return &fakeHost{loop: newFakeLoop(), maxRedraws: 1000}
}

func (h *fakeHost) Run(handler host.Handler) error {
	handler.HandleEvent(h.loop, host.Resumed{})
	for _, ev := range h.before {
		if h.loop.exited {
			return nil
		}
		handler.HandleEvent(h.loop, ev)
	}
	for !h.loop.exited && h.loop.window.pending && h.redraws < h.maxRedraws {
		h.loop.window.pending = false
		h.redraws++
		handler.HandleEvent(h.loop, host.RedrawRequested{})
	}
	if !h.loop.exited {
		handler.HandleEvent(h.loop, host.CloseRequested{})
	}
	return nil
}

type fakeSink struct {
	reqs   []persist.Request
	err    error
	closed int
}

func (s *fakeSink) TrySend(req persist.Request) error {
	if s.err != nil {
		return s.err
	}
	s.reqs = append(s.reqs, req)
	return nil
}

func (s *fakeSink) Close() { s.closed++ }

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

func solidBuffer(cfg core.Config, r, g, b, a byte) []byte {
	pix := make([]byte, cfg.BufferLen())
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return pix
}

var errBoom = errors.New("boom")
