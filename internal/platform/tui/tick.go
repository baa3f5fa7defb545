// Package tui presents apps in a terminal through Bubble Tea. Frames are
// drawn with half-block characters; keys and the mouse become host events.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// resumeMsg starts the app once the program is running.
type resumeMsg struct{}

// redrawMsg delivers one pending redraw.
type redrawMsg time.Time

// releaseMsg ends a key press if no repeat arrived since gen.
type releaseMsg struct {
	key core.Key
	gen uint64
}

func resumeCmd() tea.Msg {
	return resumeMsg{}
}

// tickCmd returns a command that sends a redraw message after one frame at
// the given rate.
func tickCmd(fps int) tea.Cmd {
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return redrawMsg(t)
	})
}

func releaseCmd(key core.Key, gen uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return releaseMsg{key: key, gen: gen}
	})
}
