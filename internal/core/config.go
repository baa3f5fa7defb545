package core

import (
	"fmt"
	"math"
)

const (
	DefaultWidth  = 1080
	DefaultHeight = 700
	DefaultTitle  = "pixelloop"
)

// Config describes the window and the render loop policy.
// Setters return a modified copy; a Config is never mutated once the runtime
// has been constructed from it.
type Config struct {
	Width         int    // Window width in pixels
	Height        int    // Window height in pixels
	LoopOnce      bool   // Render a single frame, then wait for input
	CursorVisible bool   // Show the crosshair cursor inside the window
	SaveQuota     uint32 // Number of leading frames written to disk
	Title         string // Window title

	frameLimit    uint32
	hasFrameLimit bool
}

// NewConfig returns a config with the given dimensions and default policy:
// free running, cursor visible, nothing saved.
func NewConfig(width, height int) Config {
	return Config{
		Width:         width,
		Height:        height,
		CursorVisible: true,
		Title:         DefaultTitle,
	}
}

// DefaultConfig returns a 1080x700 config.
func DefaultConfig() Config {
	return NewConfig(DefaultWidth, DefaultHeight)
}

func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

func (c Config) WithSaveQuota(frames uint32) Config {
	c.SaveQuota = frames
	return c
}

func (c Config) WithCursorVisible(visible bool) Config {
	c.CursorVisible = visible
	return c
}

func (c Config) WithLoopOnce(once bool) Config {
	c.LoopOnce = once
	return c
}

// WithFrameLimit caps the number of frames rendered by the loop policy.
func (c Config) WithFrameLimit(frames uint32) Config {
	c.frameLimit = frames
	c.hasFrameLimit = true
	return c
}

// WithoutFrameLimit removes a previously set frame limit.
func (c Config) WithoutFrameLimit() Config {
	c.frameLimit = 0
	c.hasFrameLimit = false
	return c
}

// FrameLimit returns the frame ceiling and whether one is set.
func (c Config) FrameLimit() (uint32, bool) {
	return c.frameLimit, c.hasFrameLimit
}

// Size returns the dimensions as integers.
func (c Config) Size() (int, int) {
	return c.Width, c.Height
}

// SizeF returns the dimensions as float32, handy for drawing math.
func (c Config) SizeF() (float32, float32) {
	return float32(c.Width), float32(c.Height)
}

// BufferLen is the exact byte length of a frame: width * height * 4.
func (c Config) BufferLen() int {
	return c.Width * c.Height * BytesPerPixel
}

// ShouldRender reports whether the loop policy allows rendering the frame
// with the given index without an explicit request from input handlers.
func (c Config) ShouldRender(frame uint32) bool {
	if c.LoopOnce {
		return frame == 0
	}
	if c.hasFrameLimit {
		return frame < c.frameLimit
	}
	return true
}

// Validate checks the dimension invariant: both dimensions positive, each
// within uint32, and the frame length representable as an int.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0,
		uint64(c.Width) > math.MaxUint32 || uint64(c.Height) > math.MaxUint32,
		c.Width > math.MaxInt/BytesPerPixel/c.Height:
		return fmt.Errorf("%w: %w: %dx%d", ErrInvalidConfig, ErrInvalidDimensions, c.Width, c.Height)
	}
	return nil
}

// String renders the config for logs.
func (c Config) String() string {
	limit := "none"
	if c.hasFrameLimit {
		limit = fmt.Sprintf("%d", c.frameLimit)
	}
	return fmt.Sprintf("%dx%d title=%q once=%t limit=%s save=%d cursor=%t",
		c.Width, c.Height, c.Title, c.LoopOnce, limit, c.SaveQuota, c.CursorVisible)
}
