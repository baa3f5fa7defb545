// Package persist encodes pixel buffers to image files. A Worker does this on
// its own goroutine so the render loop never waits on disk.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// Failure kinds reported inside a SaveError.
var (
	ErrDirectoryCreate = errors.New("persist: cannot create directory")
	ErrEncode          = errors.New("persist: cannot encode image")
	ErrWrite           = errors.New("persist: cannot write file")
)

// SaveError describes a failed save. Op is one of "mkdir", "encode", "write".
type SaveError struct {
	Op   string
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("persist: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SaveError) Unwrap() []error {
	var kind error
	switch e.Op {
	case "mkdir":
		kind = ErrDirectoryCreate
	case "encode":
		kind = ErrEncode
	default:
		kind = ErrWrite
	}
	return []error{kind, e.Err}
}

// Request is one frame to write. The worker owns Pixels once it is sent.
type Request struct {
	Pixels []byte
	Path   string
	Width  int
	Height int
	Frame  uint32
}

// Format selects the image encoding.
type Format int

const (
	PNG Format = iota
	BMP
	TIFF
)

// ParseFormat accepts "png", "bmp", "tif" or "tiff", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return PNG, fmt.Errorf("persist: unknown format %q", s)
	}
}

func (f Format) String() string {
	switch f {
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "png"
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == TIFF {
		return "tif"
	}
	return f.String()
}

func (f Format) encode(w io.Writer, img image.Image) error {
	switch f {
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Uncompressed})
	default:
		return png.Encode(w, img)
	}
}

// Image wraps an RGBA buffer as a non-premultiplied image without copying.
func Image(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidDimensions, width, height)
	}
	if want := width * height * core.BytesPerPixel; len(pixels) != want {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", core.ErrPixelBufferLength, len(pixels), want)
	}
	return &image.NRGBA{
		Pix:    pixels,
		Stride: width * core.BytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// Save encodes req and writes it to req.Path. Missing parent directories are
// created. An existing file at req.Path is never replaced.
// It returns the number of bytes written.
func Save(req Request, format Format) (int64, error) {
	img, err := Image(req.Pixels, req.Width, req.Height)
	if err != nil {
		return 0, &SaveError{Op: "encode", Path: req.Path, Err: err}
	}

	var buf bytes.Buffer
	if err := format.encode(&buf, img); err != nil {
		return 0, &SaveError{Op: "encode", Path: req.Path, Err: err}
	}

	if dir := filepath.Dir(req.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, &SaveError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	f, err := os.OpenFile(req.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, &SaveError{Op: "write", Path: req.Path, Err: err}
	}
	n, err := buf.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, &SaveError{Op: "write", Path: req.Path, Err: err}
	}
	return n, nil
}

// FramePath returns dir/frame_<unix>_<run>_<frame>.<ext>, frame zero-padded
// to four digits. run tells apart concurrent runs writing to the same dir and
// is left out when empty.
func FramePath(dir, run string, unix int64, frame uint32, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%d%s_%04d.%s", unix, runPart(run), frame, format.Ext()))
}

// ShotPath returns dir/shot_<unix>_<run>_<seq>.<ext>, seq counting the
// screenshots of one run.
func ShotPath(dir, run string, unix int64, seq int, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("shot_%d%s_%d.%s", unix, runPart(run), seq, format.Ext()))
}

func runPart(run string) string {
	if run == "" {
		return ""
	}
	return "_" + run
}
