package core

import "strings"

// Key identifies a logical key. Printable keys use their character ("x", "="),
// named keys use lowercase names ("space", "enter", "up", "left", "esc").
type Key string

// Named keys delivered by hosts.
const (
	KeySpace     Key = "space"
	KeyEnter     Key = "enter"
	KeyEscape    Key = "esc"
	KeyTab       Key = "tab"
	KeyBackspace Key = "backspace"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
)

// NormalizeKey maps host spellings to the canonical Key form.
func NormalizeKey(s string) Key {
	switch s {
	case " ":
		return KeySpace
	case "escape":
		return KeyEscape
	case "return":
		return KeyEnter
	}
	if len([]rune(s)) == 1 {
		return Key(s)
	}
	return Key(strings.ToLower(s))
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
)

// String returns a human-readable name for the button.
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	case MouseBack:
		return "Back"
	case MouseForward:
		return "Forward"
	default:
		return "Unknown"
	}
}

// Modifiers is the set of modifier keys currently down.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all of m's bits are set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod == mod
}

// String lists the active modifiers joined with "+".
func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModSuper) {
		parts = append(parts, "super")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// CursorIcon is the pointer shape requested from the host.
type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorCrosshair
)

func (c CursorIcon) String() string {
	if c == CursorCrosshair {
		return "Crosshair"
	}
	return "Default"
}
