package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/pixelloop/internal/registry"
	"github.com/vovakirdan/pixelloop/internal/storage"
)

// Browser layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the sketch sidebar
	sidebarWidth       = 20  // Width of the sketch sidebar
	maxRuns            = 100 // Max runs to load
)

// BrowserKeyMap defines the key bindings for the run browser.
type BrowserKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Back       key.Binding
	Quit       key.Binding
	NextSketch key.Binding
	PrevSketch key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.NextSketch, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.NextSketch, k.PrevSketch},
		{k.Back, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "frames"),
		),
		NextSketch: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next sketch"),
		),
		PrevSketch: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev sketch"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserModel lists recorded runs per sketch and the frames of one run.
type BrowserModel struct {
	sketches     []registry.SketchInfo
	sketchCursor int
	store        *storage.Store
	runs         []storage.RunEntry
	frames       []storage.FrameEntry
	openRun      *storage.RunEntry // frames view when set
	err          error
	table        table.Model
	help         help.Model
	keys         BrowserKeyMap
	width        int
	height       int
	quitting     bool
	goingBack    bool
	showSidebar  bool
}

// NewBrowserModel creates a run browser.
func NewBrowserModel(store *storage.Store, width, height int) BrowserModel {
	h := help.New()
	h.ShowAll = false

	m := BrowserModel{
		sketches:    registry.List(),
		store:       store,
		keys:        DefaultBrowserKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

func (m *BrowserModel) createTable() table.Model {
	var columns []table.Column
	if m.openRun != nil {
		columns = []table.Column{
			{Title: "Frame", Width: 7},
			{Title: "File", Width: 28},
			{Title: "Size", Width: 9},
			{Title: "Saved", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Run", Width: 10},
			{Title: "Size", Width: 9},
			{Title: "Frames", Width: 7},
			{Title: "FPS", Width: 7},
			{Title: "Started", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *BrowserModel) currentSketch() string {
	if len(m.sketches) == 0 {
		return ""
	}
	return m.sketches[m.sketchCursor].ID
}

// loadRuns loads the recent runs of the current sketch.
func (m *BrowserModel) loadRuns() {
	m.runs, m.err = nil, nil
	if m.store != nil && len(m.sketches) > 0 {
		m.runs, m.err = m.store.RecentRuns(m.currentSketch(), maxRuns)
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		fps := "-"
		if r.Finished {
			fps = fmt.Sprintf("%.1f", r.FPS)
		}
		rows[i] = table.Row{
			shortID(r.ID),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			fmt.Sprintf("%d", r.Frames),
			fps,
			humanize.Time(r.StartedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// loadFrames loads the saved frames of the open run.
func (m *BrowserModel) loadFrames() {
	m.frames, m.err = m.store.RunFrames(m.openRun.ID)

	rows := make([]table.Row, len(m.frames))
	for i, f := range m.frames {
		rows[i] = table.Row{
			fmt.Sprintf("%d", f.Frame),
			filepath.Base(f.Path),
			humanize.Bytes(uint64(max(f.Bytes, 0))),
			humanize.Time(f.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the browser model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.openRun != nil {
				m.openRun = nil
				m.table = m.createTable()
				m.loadRuns()
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Open):
			if m.openRun == nil && len(m.runs) > 0 {
				run := m.runs[m.table.Cursor()]
				m.openRun = &run
				m.table = m.createTable()
				m.loadFrames()
			}
			return m, nil

		case key.Matches(msg, m.keys.NextSketch), key.Matches(msg, m.keys.PrevSketch):
			if m.openRun == nil && len(m.sketches) > 0 {
				step := 1
				if key.Matches(msg, m.keys.PrevSketch) {
					step = len(m.sketches) - 1
				}
				m.sketchCursor = (m.sketchCursor + step) % len(m.sketches)
				m.loadRuns()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		if m.openRun != nil {
			m.loadFrames()
		} else {
			m.loadRuns()
		}
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to the table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "RUNS"
	switch {
	case m.openRun != nil:
		title = fmt.Sprintf("FRAMES - run %s", shortID(m.openRun.ID))
	case len(m.sketches) > 0:
		title = fmt.Sprintf("RUNS - %s", m.sketches[m.sketchCursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderWideLayout renders the sketch sidebar next to the table.
func (m BrowserModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Sketches\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")
	for i, s := range m.sketches {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.sketchCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + s.Title))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(sidebar.String()), "  ", m.renderTable())
}

// renderTable renders the table, an error or an empty message.
func (m BrowserModel) renderTable() string {
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return tableStyle.Render(emptyStyle.Render("Failed to load: " + m.err.Error()))
	case m.openRun != nil && len(m.frames) == 0:
		return tableStyle.Render(emptyStyle.Render("This run saved no frames."))
	case m.openRun == nil && len(m.runs) == 0:
		return tableStyle.Render(emptyStyle.Render("No runs recorded yet.\nRun a sketch to fill the catalog!"))
	}
	return tableStyle.Render(m.table.View())
}

// RunBrowser runs the browser screen.
// Returns true if the user wants to go back to the menu, false if quitting.
func RunBrowser(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewBrowserModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(BrowserModel)
	if !ok {
		return false, nil
	}
	return m.goingBack, nil
}
