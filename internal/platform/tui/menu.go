package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelloop/internal/registry"
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCurStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	menuDescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the sketch picker.
type MenuModel struct {
	items       []registry.SketchInfo
	cursor      int
	width       int
	height      int
	quitting    bool
	selected    *registry.SketchInfo
	openBrowser bool
}

// NewMenuModel creates a picker over every registered sketch.
func NewMenuModel(width, height int) MenuModel {
	return MenuModel{
		items:  registry.List(),
		width:  width,
		height: height,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "tab" {
		m.openBrowser = true
		return m, tea.Quit
	}

	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("p i x e l l o o p"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a sketch", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("  %-10s", item.Title)
		if i == m.cursor {
			line = menuCurStyle.Render(fmt.Sprintf("> %-10s", item.Title))
		}
		b.WriteString(line)
		b.WriteString(" ")
		b.WriteString(menuDescStyle.Render(item.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(menuDescStyle.Render("Up/Down: Navigate  |  Enter: Run  |  Tab: Runs  |  Q: Quit"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen sketch, or nil.
func (m MenuModel) Selected() *registry.SketchInfo {
	return m.selected
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	SketchID    string
	OpenBrowser bool
	Quit        bool
}

// RunMenu runs the picker and returns the selection.
func RunMenu(width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := final.(MenuModel)
	switch {
	case !ok || m.quitting:
		return MenuResult{Quit: true}, nil
	case m.openBrowser:
		return MenuResult{OpenBrowser: true}, nil
	case m.selected != nil:
		return MenuResult{SketchID: m.selected.ID}, nil
	}
	return MenuResult{Quit: true}, nil
}
