package tui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

const (
	DefaultFPS            = 60
	DefaultReleaseTimeout = 600 * time.Millisecond
)

// Options configures a terminal host.
type Options struct {
	Logger *log.Logger
	// FPS is the redraw rate while the app keeps requesting frames.
	FPS int
	// ReleaseTimeout is how long a key counts as held after its last
	// press or repeat. Terminals do not report releases.
	ReleaseTimeout time.Duration
	// Profile selects the color output. The zero value is true color.
	Profile termenv.Profile
	Input   io.Reader
	Output  io.Writer
}

// Host runs an app inside a Bubble Tea program on the alternate screen.
type Host struct {
	opts  Options
	model *model
}

// New creates a terminal host.
func New(opts Options) *Host {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.ReleaseTimeout <= 0 {
		opts.ReleaseTimeout = DefaultReleaseTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Host{opts: opts}
}

// Run implements host.Host. It blocks until the app exits or the program
// is killed.
func (h *Host) Run(handler host.Handler) error {
	if h.model != nil {
		return errors.New("tui: host already ran")
	}
	h.model = newModel(handler, h.opts)

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if h.opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(h.opts.Input))
	}
	if h.opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(h.opts.Output))
	}

	if _, err := tea.NewProgram(h.model, progOpts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if !h.model.exited {
		return errors.New("tui: program ended before the app exited")
	}
	return nil
}

// Presented returns how many frames reached the terminal surface.
func (h *Host) Presented() int {
	if h.model == nil {
		return 0
	}
	return h.model.presented
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// model is the Bubble Tea side of the host. Every host event is delivered
// from Update, so the app only ever runs on the program's goroutine.
type model struct {
	handler  host.Handler
	opts     Options
	renderer *Renderer

	window      *window
	tickPending bool
	exited      bool

	// Terminal size in cells; one row is reserved for the status line.
	cols, rows int

	held   map[core.Key]uint64
	gen    uint64
	mods   core.Modifiers
	inside bool
	button core.MouseButton
	mouse  core.Point

	last      []byte
	presented int
}

func newModel(handler host.Handler, opts Options) *model {
	return &model{
		handler:  handler,
		opts:     opts,
		renderer: NewRenderer(opts.Profile),
		held:     make(map[core.Key]uint64),
		cols:     80,
		rows:     23,
	}
}

func (m *model) Init() tea.Cmd {
	return resumeCmd
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case resumeMsg:
		m.deliver(host.Resumed{})
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-1, 1)
	case redrawMsg:
		m.tickPending = false
		if m.window != nil && m.window.pending {
			m.window.pending = false
			m.deliver(host.RedrawRequested{})
		}
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case releaseMsg:
		m.handleRelease(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, m.next(cmd)
}

// next quits once the app has exited and schedules a tick while a redraw
// is pending.
func (m *model) next(cmd tea.Cmd) tea.Cmd {
	if m.exited {
		return tea.Quit
	}
	if m.window != nil && m.window.pending && !m.tickPending {
		m.tickPending = true
		cmd = tea.Batch(cmd, tickCmd(m.opts.FPS))
	}
	return cmd
}

func (m *model) deliver(ev host.Event) {
	if m.exited {
		return
	}
	m.handler.HandleEvent(m, ev)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if IsQuit(msg) {
		m.deliver(host.CloseRequested{})
		return nil
	}

	key, mods := TranslateKey(msg)
	if mods != m.mods {
		m.mods = mods
		m.deliver(host.ModifiersChanged{Mods: mods})
	}

	_, down := m.held[key]
	m.gen++
	m.held[key] = m.gen
	m.deliver(host.KeyInput{Key: key, Pressed: true, Repeat: down})
	return releaseCmd(key, m.gen, m.opts.ReleaseTimeout)
}

func (m *model) handleRelease(msg releaseMsg) {
	if gen, ok := m.held[msg.key]; !ok || gen != msg.gen {
		return
	}
	delete(m.held, msg.key)
	m.deliver(host.KeyInput{Key: msg.key})
	if len(m.held) == 0 && m.mods != 0 {
		m.mods = 0
		m.deliver(host.ModifiersChanged{})
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	p, inside := m.toPixel(msg.X, msg.Y)
	switch {
	case inside && !m.inside:
		m.inside = true
		m.deliver(host.CursorEntered{})
	case !inside && m.inside:
		m.inside = false
		m.deliver(host.CursorLeft{})
	}
	if inside && p != m.mouse {
		m.mouse = p
		m.deliver(host.CursorMoved{X: p.X, Y: p.Y})
	}

	switch msg.Action {
	case tea.MouseActionPress:
		b, ok := mouseButton(msg.Button)
		if !ok || !inside {
			return
		}
		m.button = b
		m.deliver(host.MouseInput{Button: b, Pressed: true})
	case tea.MouseActionRelease:
		// Release reports carry no button in most terminals.
		b, ok := mouseButton(msg.Button)
		if !ok {
			b = m.button
		}
		m.deliver(host.MouseInput{Button: b})
	}
}

func mouseButton(b tea.MouseButton) (core.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return core.MouseLeft, true
	case tea.MouseButtonRight:
		return core.MouseRight, true
	case tea.MouseButtonMiddle:
		return core.MouseMiddle, true
	case tea.MouseButtonBackward:
		return core.MouseBack, true
	case tea.MouseButtonForward:
		return core.MouseForward, true
	}
	return 0, false
}

// layout returns the scaled image size in dots and its left offset in cells.
func (m *model) layout() (outW, outH, offX int) {
	if m.window == nil {
		return 0, 0, 0
	}
	outW, outH = Fit(m.window.width, m.window.height, m.cols, m.rows)
	return outW, outH, (m.cols - outW) / 2
}

// toPixel maps a cell to the buffer pixel under its center.
func (m *model) toPixel(x, y int) (core.Point, bool) {
	outW, outH, offX := m.layout()
	dx, dy := x-offX, 2*y
	if outW == 0 || dx < 0 || dx >= outW || dy < 0 || dy >= outH {
		return core.Point{}, false
	}
	return core.Point{
		X: (float32(dx) + 0.5) * float32(m.window.width) / float32(outW),
		Y: float32(dy+1) * float32(m.window.height) / float32(outH),
	}, true
}

func (m *model) View() string {
	if m.exited {
		return ""
	}
	if m.window == nil || m.presented == 0 {
		return statusStyle.Render("starting...")
	}

	outW, outH, offX := m.layout()
	img := m.renderer.Render(m.last, m.window.width, m.window.height, outW, outH)
	pad := strings.Repeat(" ", offX)

	var b strings.Builder
	for i, line := range strings.Split(img, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(m.status()))
	return b.String()
}

func (m *model) status() string {
	s := fmt.Sprintf(" %s  %dx%d  frame %d  q: quit", m.window.title, m.window.width, m.window.height, m.presented)
	if m.inside && m.window.cursorVisible && m.window.icon == core.CursorCrosshair {
		s += fmt.Sprintf("  + %.0f,%.0f", m.mouse.X, m.mouse.Y)
	}
	return s
}

// CreateWindow implements host.Loop.
func (m *model) CreateWindow(opts host.WindowOptions) (host.Window, error) {
	if m.window != nil {
		return nil, errors.New("tui: window already created")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("tui: invalid window size %dx%d", opts.Width, opts.Height)
	}
	m.window = &window{model: m, title: opts.Title, width: opts.Width, height: opts.Height, cursorVisible: true}
	m.opts.Logger.Debug("window created", "title", opts.Title, "width", opts.Width, "height", opts.Height)
	return m.window, nil
}

// Exit implements host.Loop.
func (m *model) Exit() {
	m.exited = true
}

type window struct {
	model         *model
	title         string
	width, height int
	pending       bool
	cursorVisible bool
	icon          core.CursorIcon
}

func (w *window) RequestRedraw()                     { w.pending = true }
func (w *window) SetCursorVisible(visible bool)      { w.cursorVisible = visible }
func (w *window) SetCursorIcon(icon core.CursorIcon) { w.icon = icon }

func (w *window) NewSurface(width, height int) (host.Surface, error) {
	if width != w.width || height != w.height {
		return nil, fmt.Errorf("tui: surface %dx%d does not match window %dx%d", width, height, w.width, w.height)
	}
	return &surface{model: w.model, frame: make([]byte, width*height*core.BytesPerPixel)}, nil
}

type surface struct {
	model *model
	frame []byte
}

func (s *surface) Frame() []byte { return s.frame }

func (s *surface) Present() error {
	s.model.last = bytes.Clone(s.frame)
	s.model.presented++
	return nil
}
