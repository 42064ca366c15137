package render

import (
	"golang.org/x/image/font"
)

// Kind tags the two supported font representations.
type Kind uint8

const (
	// KindVector fonts render through the host's x/image drawing primitive.
	KindVector Kind = iota
	// KindBitmap fonts are rasterized manually from packed glyph tables.
	KindBitmap
)

// Font is a tagged variant over the two font representations. The glyph
// renderer dispatches on the kind; measurement works for both.
type Font struct {
	kind Kind
	face font.Face
	bmp  *BitmapFont
}

// NewVector wraps an x/image face.
func NewVector(face font.Face) *Font {
	return &Font{kind: KindVector, face: face}
}

// NewBitmap wraps a packed bitmap glyph table.
func NewBitmap(b *BitmapFont) *Font {
	return &Font{kind: KindBitmap, bmp: b}
}

// Kind returns the representation tag.
func (f *Font) Kind() Kind { return f.kind }

// Measure returns the advance width of s in pixels.
func (f *Font) Measure(s string) int {
	if f.kind == KindVector {
		return font.MeasureString(f.face, s).Ceil()
	}
	w := 0
	for _, r := range s {
		if g, ok := f.bmp.Glyph(r); ok {
			w += g.Advance
		}
	}
	return w
}

// Height returns the line height in pixels.
func (f *Font) Height() int {
	if f.kind == KindVector {
		return f.face.Metrics().Height.Ceil()
	}
	return f.bmp.LineHeight
}

// Ascent returns the distance from the top of a line to the baseline.
func (f *Font) Ascent() int {
	if f.kind == KindVector {
		return f.face.Metrics().Ascent.Ceil()
	}
	return f.bmp.Ascender
}

// BitmapGlyph is one glyph's bitmap: 1-bit-per-pixel rows, byte-packed
// MSB-first with Pitch bytes per row. Left and Top are bearings relative to
// the pen position and the baseline.
type BitmapGlyph struct {
	Bitmap  []byte
	Pitch   int
	Width   int
	Height  int
	Left    int
	Top     int
	Advance int
}

// BitmapFont is a fixed-grid glyph table plus the metrics the renderer
// needs for baseline alignment.
type BitmapFont struct {
	Glyphs     map[rune]BitmapGlyph
	Ascender   int
	LineHeight int
}

// Glyph looks a rune up, substituting '?' for anything outside the table.
func (b *BitmapFont) Glyph(r rune) (BitmapGlyph, bool) {
	if g, ok := b.Glyphs[r]; ok {
		return g, true
	}
	g, ok := b.Glyphs['?']
	return g, ok
}
