package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// modifierPrefixes are the prefixes Bubble Tea puts in key strings.
var modifierPrefixes = []struct {
	prefix string
	mod    core.Modifiers
}{
	{"ctrl+", core.ModCtrl},
	{"alt+", core.ModAlt},
	{"shift+", core.ModShift},
}

// IsQuit reports whether the key closes the window.
func IsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return true
	}
	return false
}

// TranslateKey splits a key message into the logical key and the modifiers
// held with it. Uppercase letters become the lowercase key plus shift.
func TranslateKey(msg tea.KeyMsg) (core.Key, core.Modifiers) {
	s := msg.String()
	var mods core.Modifiers
	for stripped := true; stripped; {
		stripped = false
		for _, p := range modifierPrefixes {
			if rest, ok := strings.CutPrefix(s, p.prefix); ok && rest != "" {
				s = rest
				mods |= p.mod
				stripped = true
			}
		}
	}

	if r, size := utf8.DecodeRuneInString(s); size == len(s) && unicode.IsUpper(r) {
		s = string(unicode.ToLower(r))
		mods |= core.ModShift
	}
	return core.NormalizeKey(s), mods
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
