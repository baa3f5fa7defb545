package core

// BytesPerPixel is the size of one RGBA pixel in a buffer.
const BytesPerPixel = 4

// Canvas is a CPU pixel buffer in the runtime's wire format: rows top to
// bottom, 4 bytes per pixel in R, G, B, A order. Sketches draw into a Canvas
// and return Bytes() from their draw function.
type Canvas struct {
	width  int
	height int
	pix    []byte
}

// NewCanvas creates a transparent canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// NewCanvasFor creates a canvas sized for the config.
func NewCanvasFor(cfg Config) *Canvas {
	return NewCanvas(cfg.Width, cfg.Height)
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() Rect {
	return NewRect(0, 0, c.width, c.height)
}

// Bytes returns the underlying buffer. It is not copied.
func (c *Canvas) Bytes() []byte {
	return c.pix
}

// Fill paints every pixel with the given color.
func (c *Canvas) Fill(col RGBA) {
	for i := 0; i < len(c.pix); i += BytesPerPixel {
		c.pix[i] = col.R
		c.pix[i+1] = col.G
		c.pix[i+2] = col.B
		c.pix[i+3] = col.A
	}
}

// Set paints the pixel at (x, y).
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, col RGBA) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := (y*c.width + x) * BytesPerPixel
	c.pix[i] = col.R
	c.pix[i+1] = col.G
	c.pix[i+2] = col.B
	c.pix[i+3] = col.A
}

// At returns the pixel at (x, y), transparent when out of bounds.
func (c *Canvas) At(x, y int) RGBA {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Transparent
	}
	i := (y*c.width + x) * BytesPerPixel
	return RGBA{R: c.pix[i], G: c.pix[i+1], B: c.pix[i+2], A: c.pix[i+3]}
}

// FillRect paints a rectangle, clipped to the canvas.
func (c *Canvas) FillRect(r Rect, col RGBA) {
	r = r.Intersect(c.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.Set(x, y, col)
		}
	}
}

// HLine paints a horizontal line starting at (x, y).
func (c *Canvas) HLine(x, y, length int, col RGBA) {
	c.FillRect(NewRect(x, y, length, 1), col)
}

// VLine paints a vertical line starting at (x, y).
func (c *Canvas) VLine(x, y, length int, col RGBA) {
	c.FillRect(NewRect(x, y, 1, length), col)
}

// Blend composites col over the pixel at (x, y) using col's alpha.
func (c *Canvas) Blend(x, y int, col RGBA) {
	if col.A == 0xFF {
		c.Set(x, y, col)
		return
	}
	dst := c.At(x, y)
	out := dst.Lerp(col, float64(col.A)/255)
	out.A = max(dst.A, col.A)
	c.Set(x, y, out)
}
