package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawText renders one line of text with its top-left corner at (x, y).
// Vector faces go through the x/image drawing primitive; bitmap fonts are
// rasterized pixel by pixel against the baseline. Rendering never panics
// out of this function: any failure redraws with the default face, so the
// worst case is wrong text, not a dead frame.
func DrawText(c Canvas, f *Font, s string, x, y int, col color.RGBA) {
	defer func() {
		if r := recover(); r != nil {
			drawDefault(c, s, x, y, col)
		}
	}()

	if f == nil {
		drawDefault(c, s, x, y, col)
		return
	}

	switch f.kind {
	case KindBitmap:
		drawBitmap(c, f.bmp, s, x, y, col)
	default:
		drawVector(c, f.face, s, x, y, col)
	}
}

func drawVector(c Canvas, face font.Face, s string, x, y int, col color.RGBA) {
	d := font.Drawer{
		Dst:  c,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// drawBitmap plots each glyph's set bits relative to the text baseline.
// Malformed bitmap indices and out-of-bounds pixels are skipped, never
// fatal.
func drawBitmap(c Canvas, bf *BitmapFont, s string, x, y int, col color.RGBA) {
	w, h := c.Size()
	baseline := y + bf.Ascender

	penX := x
	for _, r := range s {
		g, ok := bf.Glyph(r)
		if !ok {
			continue
		}
		for row := 0; row < g.Height; row++ {
			for cx := 0; cx < g.Width; cx++ {
				idx := row*g.Pitch + cx/8
				if idx < 0 || idx >= len(g.Bitmap) {
					continue
				}
				if g.Bitmap[idx]&(1<<uint(7-cx%8)) == 0 {
					continue
				}
				px := penX + g.Left + cx
				py := baseline - g.Top + row
				if px < 0 || px >= int(w) || py < 0 || py >= int(h) {
					continue
				}
				c.SetPixel(int16(px), int16(py), col)
			}
		}
		penX += g.Advance
	}
}

func drawDefault(c Canvas, s string, x, y int, col color.RGBA) {
	defer func() {
		// A failing fallback leaves the frame partially drawn; that is
		// still better than taking the host loop down.
		_ = recover()
	}()
	drawVector(c, basicfont.Face7x13, s, x, y, col)
}
