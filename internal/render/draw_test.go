package render

import (
	"image/color"
	"testing"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// testBitmapFont builds a tiny two-glyph font for raster tests:
// 'A' is a 3x3 solid block sitting on the baseline, '.' a single pixel.
func testBitmapFont() *BitmapFont {
	return &BitmapFont{
		Ascender:   3,
		LineHeight: 4,
		Glyphs: map[rune]BitmapGlyph{
			'A': {
				Bitmap:  []byte{0b11100000, 0b11100000, 0b11100000},
				Pitch:   1,
				Width:   3,
				Height:  3,
				Left:    0,
				Top:     3,
				Advance: 4,
			},
			'.': {
				Bitmap:  []byte{0b10000000},
				Pitch:   1,
				Width:   1,
				Height:  1,
				Left:    0,
				Top:     1,
				Advance: 2,
			},
			'?': {
				Bitmap:  []byte{0b10000000},
				Pitch:   1,
				Width:   1,
				Height:  1,
				Left:    0,
				Top:     3,
				Advance: 4,
			},
		},
	}
}

func countLit(c *ImageCanvas) int {
	n := 0
	b := c.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := c.At(x, y).RGBA()
			if r != 0 || g != 0 || bb != 0 {
				n++
			}
		}
	}
	return n
}

func TestDrawText_BitmapBaselineAlignment(t *testing.T) {
	c := NewImage(16, 8)
	f := NewBitmap(testBitmapFont())

	// Top-left (2, 1): baseline = 1 + ascender(3) = 4, so 'A' fills rows
	// 1..3 in columns 2..4.
	DrawText(c, f, "A", 2, 1, white)

	for y := 1; y <= 3; y++ {
		for x := 2; x <= 4; x++ {
			if r, _, _, _ := c.At(x, y).RGBA(); r == 0 {
				t.Errorf("pixel (%d,%d) not set", x, y)
			}
		}
	}
	if got := countLit(c); got != 9 {
		t.Fatalf("lit %d pixels; want 9", got)
	}
}

func TestDrawText_BitmapAdvances(t *testing.T) {
	c := NewImage(16, 8)
	f := NewBitmap(testBitmapFont())

	// 'A' advances 4, so '.' lands with its single pixel at x=4, one row
	// above the baseline (top bearing 1).
	DrawText(c, f, "A.", 0, 0, white)

	if r, _, _, _ := c.At(4, 2).RGBA(); r == 0 {
		t.Fatalf("expected dot pixel at (4,2)")
	}
	if got := countLit(c); got != 10 {
		t.Fatalf("lit %d pixels; want 10", got)
	}
}

func TestDrawText_BitmapClipsOutOfBounds(t *testing.T) {
	c := NewImage(4, 4)
	f := NewBitmap(testBitmapFont())

	// Partially and fully off-canvas draws must clip, never fault.
	DrawText(c, f, "AAAA", -2, -2, white)
	DrawText(c, f, "A", 100, 100, white)

	b := c.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c.At(x, y)
		}
	}
}

func TestDrawText_UnknownRuneFallsBackToQuestionMark(t *testing.T) {
	c := NewImage(8, 8)
	f := NewBitmap(testBitmapFont())

	DrawText(c, f, "é", 0, 0, white)
	if got := countLit(c); got != 1 {
		t.Fatalf("lit %d pixels; want the '?' pixel", got)
	}
}

func TestDrawText_MalformedBitmapSkipsPixels(t *testing.T) {
	c := NewImage(8, 8)
	f := NewBitmap(&BitmapFont{
		Ascender:   2,
		LineHeight: 3,
		Glyphs: map[rune]BitmapGlyph{
			// Claims 4 rows but carries one byte of data.
			'X': {Bitmap: []byte{0xFF}, Pitch: 1, Width: 8, Height: 4, Top: 2, Advance: 8},
		},
	})

	DrawText(c, f, "X", 0, 0, white)
	if got := countLit(c); got != 8 {
		t.Fatalf("lit %d pixels; want the 8 from the one valid row", got)
	}
}

func TestDrawText_NilFontUsesDefaultFace(t *testing.T) {
	c := NewImage(32, 16)
	DrawText(c, nil, "ok", 0, 0, white)
	if countLit(c) == 0 {
		t.Fatal("default face drew nothing")
	}
}

func TestDrawText_VectorFaceDraws(t *testing.T) {
	c := NewImage(64, 16)
	DrawText(c, DefaultFont(), "abc", 1, 1, white)
	if countLit(c) == 0 {
		t.Fatal("vector face drew nothing")
	}
}

func TestFontMeasure(t *testing.T) {
	f := NewBitmap(testBitmapFont())
	if got := f.Measure("A.A"); got != 10 {
		t.Fatalf("Measure = %d; want 10", got)
	}
	if got := f.Height(); got != 4 {
		t.Fatalf("Height = %d; want 4", got)
	}
	if got := f.Ascent(); got != 3 {
		t.Fatalf("Ascent = %d; want 3", got)
	}
}
