package host

import (
	"fmt"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// Event is a lifecycle or input event delivered by a host.
type Event interface {
	isEvent()
}

// Resumed signals that the application may create its window.
type Resumed struct{}

// RedrawRequested asks the application to render one frame.
type RedrawRequested struct{}

// CloseRequested signals that the user asked to close the window.
type CloseRequested struct{}

// KeyInput reports a key transition or an auto-repeat.
type KeyInput struct {
	Key     core.Key
	Pressed bool
	Repeat  bool
}

// CursorMoved reports the pointer position in window pixels.
type CursorMoved struct {
	X, Y float32
}

// CursorEntered reports that the pointer entered the window.
type CursorEntered struct{}

// CursorLeft reports that the pointer left the window.
type CursorLeft struct{}

// MouseInput reports a mouse button transition.
type MouseInput struct {
	Button  core.MouseButton
	Pressed bool
}

// ModifiersChanged reports the new modifier state.
type ModifiersChanged struct {
	Mods core.Modifiers
}

func (Resumed) isEvent()          {}
func (RedrawRequested) isEvent()  {}
func (CloseRequested) isEvent()   {}
func (KeyInput) isEvent()         {}
func (CursorMoved) isEvent()      {}
func (CursorEntered) isEvent()    {}
func (CursorLeft) isEvent()       {}
func (MouseInput) isEvent()       {}
func (ModifiersChanged) isEvent() {}

// Name returns a short event name for logs.
func Name(ev Event) string {
	switch e := ev.(type) {
	case Resumed:
		return "resumed"
	case RedrawRequested:
		return "redraw"
	case CloseRequested:
		return "close"
	case KeyInput:
		state := "up"
		if e.Pressed {
			state = "down"
		}
		return fmt.Sprintf("key %s %s", e.Key, state)
	case CursorMoved:
		return "cursor moved"
	case CursorEntered:
		return "cursor entered"
	case CursorLeft:
		return "cursor left"
	case MouseInput:
		state := "up"
		if e.Pressed {
			state = "down"
		}
		return fmt.Sprintf("mouse %s %s", e.Button, state)
	case ModifiersChanged:
		return "modifiers " + e.Mods.String()
	default:
		return fmt.Sprintf("%T", ev)
	}
}
