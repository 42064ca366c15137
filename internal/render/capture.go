package render

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// captureOrigin keeps negative bearings well inside the capture plane.
const captureOrigin = 128

// NewBitmapFromFonter rasterizes the printable ASCII range of a tinyfont
// face once and packs each glyph into the byte-packed row format the manual
// renderer consumes. Glyph bearings are recovered from where the face plots
// pixels relative to the pen; advances come from the face metrics.
func NewBitmapFromFonter(f tinyfont.Fonter) *BitmapFont {
	bf := &BitmapFont{
		Glyphs:     make(map[rune]BitmapGlyph, 95),
		LineHeight: int(f.GetYAdvance()),
	}

	rec := &glyphCapture{}
	for r := rune(0x20); r <= 0x7e; r++ {
		g := f.GetGlyph(r)
		info := g.Info()

		rec.reset()
		g.Draw(rec, captureOrigin, captureOrigin, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

		glyph := BitmapGlyph{Advance: int(info.XAdvance)}
		if !rec.empty() {
			w := int(rec.maxX-rec.minX) + 1
			h := int(rec.maxY-rec.minY) + 1
			pitch := (w + 7) / 8
			bits := make([]byte, pitch*h)
			for _, p := range rec.pts {
				row := int(p[1] - rec.minY)
				col := int(p[0] - rec.minX)
				bits[row*pitch+col/8] |= 1 << uint(7-col%8)
			}
			glyph.Bitmap = bits
			glyph.Pitch = pitch
			glyph.Width = w
			glyph.Height = h
			glyph.Left = int(rec.minX) - captureOrigin
			glyph.Top = captureOrigin - int(rec.minY)
		}
		bf.Glyphs[r] = glyph

		if glyph.Top > bf.Ascender {
			bf.Ascender = glyph.Top
		}
	}

	if bf.LineHeight <= 0 {
		bf.LineHeight = bf.Ascender + 1
	}
	return bf
}

// glyphCapture records which pixels a tinyfont glyph plots. It implements
// just enough of drivers.Displayer for Glypher.Draw.
type glyphCapture struct {
	pts                    [][2]int16
	minX, minY, maxX, maxY int16
}

func (c *glyphCapture) reset() {
	c.pts = c.pts[:0]
}

func (c *glyphCapture) empty() bool { return len(c.pts) == 0 }

func (c *glyphCapture) Size() (x, y int16) { return 2 * captureOrigin, 2 * captureOrigin }

func (c *glyphCapture) SetPixel(x, y int16, _ color.RGBA) {
	if c.empty() {
		c.minX, c.maxX = x, x
		c.minY, c.maxY = y, y
	} else {
		if x < c.minX {
			c.minX = x
		}
		if x > c.maxX {
			c.maxX = x
		}
		if y < c.minY {
			c.minY = y
		}
		if y > c.maxY {
			c.maxY = y
		}
	}
	c.pts = append(c.pts, [2]int16{x, y})
}

func (c *glyphCapture) Display() error { return nil }
