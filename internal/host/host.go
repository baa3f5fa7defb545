// Package host defines the boundary between the runtime and a windowing
// system. A Host owns the event loop and delivers one Event at a time to a
// Handler; the runtime talks back only through Loop, Window and Surface.
package host

import "github.com/vovakirdan/pixelloop/internal/core"

// Handler consumes host events. HandleEvent is always called from the host's
// event goroutine, never concurrently.
type Handler interface {
	HandleEvent(loop Loop, ev Event)
}

// Host runs an event loop until the handler calls Loop.Exit.
type Host interface {
	Run(h Handler) error
}

// Loop is the active event loop as seen from inside HandleEvent.
type Loop interface {
	// CreateWindow opens the single window of the process.
	CreateWindow(opts WindowOptions) (Window, error)
	// Exit stops the loop after the current event returns.
	Exit()
}

// WindowOptions describes the window to create.
type WindowOptions struct {
	Title  string
	Width  int
	Height int
}

// Window is a host window.
type Window interface {
	// RequestRedraw asks for a RedrawRequested event to be delivered later.
	// Multiple requests before delivery coalesce into one.
	RequestRedraw()
	// NewSurface creates the presentation surface for width x height pixels.
	NewSurface(width, height int) (Surface, error)
	SetCursorVisible(visible bool)
	SetCursorIcon(icon core.CursorIcon)
}

// Surface accepts full RGBA frames and displays them.
type Surface interface {
	// Frame returns the writable back buffer, width*height*4 bytes.
	Frame() []byte
	// Present submits the back buffer for display.
	Present() error
}
