package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by runtime constructors for unusable configs.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidDimensions marks a config with a zero, negative or oversized
	// dimension.
	ErrInvalidDimensions = errors.New("width and height must be positive and fit a frame buffer")

	// ErrPresentation marks window, surface or present failures. Always fatal.
	ErrPresentation = errors.New("presentation failed")

	// ErrPixelBufferLength marks a draw result of the wrong size.
	ErrPixelBufferLength = errors.New("pixel buffer has wrong length")
)

// ContractError reports a draw function that broke the pixel buffer contract.
type ContractError struct {
	Frame    uint32
	Got      int
	Expected int
	Width    int
	Height   int
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("frame %d: draw returned %d bytes, expected %d (%dx%dx%d)",
		e.Frame, e.Got, e.Expected, e.Width, e.Height, BytesPerPixel)
}

// Unwrap lets errors.Is match ErrPixelBufferLength.
func (e *ContractError) Unwrap() error {
	return ErrPixelBufferLength
}

// CheckBuffer validates a pixel buffer against the config dimensions.
func CheckBuffer(cfg Config, frame uint32, pixels []byte) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(pixels) != cfg.BufferLen() {
		return &ContractError{
			Frame:    frame,
			Got:      len(pixels),
			Expected: cfg.BufferLen(),
			Width:    cfg.Width,
			Height:   cfg.Height,
		}
	}
	return nil
}
