// Package render draws daily content into a pixel canvas: greedy word
// wrapping under pixel-width budgets, a dual-path glyph renderer (vector
// faces and packed bitmap glyph tables), and the title/content view layout.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"tinygo.org/x/drivers"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/hal"
)

// Canvas is the drawing surface capability injected into the renderer. It
// satisfies drivers.Displayer so bitmap glyphs can be plotted pixel by
// pixel, and draw.Image so vector faces can be drawn with x/image. Plots
// outside the pixel extents are silently dropped.
type Canvas interface {
	draw.Image
	drivers.Displayer
	Clear()
}

// NewCanvas wraps a HAL framebuffer as a Canvas. Only RGB565 framebuffers
// are supported; pixels on anything else are dropped.
func NewCanvas(fb hal.Framebuffer) Canvas {
	return &fbCanvas{fb: fb}
}

type fbCanvas struct {
	fb hal.Framebuffer
}

func (c *fbCanvas) Size() (x, y int16) {
	return int16(c.fb.Width()), int16(c.fb.Height())
}

func (c *fbCanvas) SetPixel(x, y int16, col color.RGBA) {
	if c.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := c.fb.Buffer()
	if buf == nil {
		return
	}

	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= c.fb.Width() || iy < 0 || iy >= c.fb.Height() {
		return
	}

	pixel := hal.RGB565(col.R, col.G, col.B)
	off := iy*c.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (c *fbCanvas) Display() error { return c.fb.Present() }

func (c *fbCanvas) Clear() { c.fb.ClearRGB(0, 0, 0) }

func (c *fbCanvas) ColorModel() color.Model { return color.RGBAModel }

func (c *fbCanvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.fb.Width(), c.fb.Height())
}

func (c *fbCanvas) At(x, y int) color.Color {
	if x < 0 || x >= c.fb.Width() || y < 0 || y >= c.fb.Height() {
		return color.RGBA{}
	}
	buf := c.fb.Buffer()
	off := y*c.fb.StrideBytes() + x*2
	if buf == nil || off < 0 || off+1 >= len(buf) {
		return color.RGBA{}
	}
	r, g, b := hal.RGB888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func (c *fbCanvas) Set(x, y int, col color.Color) {
	r, g, b, a := col.RGBA()
	if a == 0 {
		return
	}
	c.SetPixel(int16(x), int16(y), color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	})
}

// ImageCanvas is a Canvas backed by an in-memory RGBA image. It backs the
// headless tests and any consumer that wants to inspect rendered frames.
type ImageCanvas struct {
	*image.RGBA
	presented int
}

// NewImage returns an ImageCanvas of the given size.
func NewImage(width, height int) *ImageCanvas {
	return &ImageCanvas{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (c *ImageCanvas) Size() (x, y int16) {
	b := c.RGBA.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (c *ImageCanvas) SetPixel(x, y int16, col color.RGBA) {
	if !image.Pt(int(x), int(y)).In(c.RGBA.Bounds()) {
		return
	}
	c.RGBA.SetRGBA(int(x), int(y), col)
}

func (c *ImageCanvas) Display() error {
	c.presented++
	return nil
}

// Presented returns how many frames have been pushed out.
func (c *ImageCanvas) Presented() int { return c.presented }

func (c *ImageCanvas) Clear() {
	draw.Draw(c.RGBA, c.RGBA.Bounds(), image.NewUniform(color.RGBA{A: 0xFF}), image.Point{}, draw.Src)
}
