package render

import (
	"image/color"
	"strings"
)

// Fixed layout constants shared by both views.
const (
	marginTop    = 8
	marginBottom = 1
	underlineGap = 1

	subtitleMaxLines = 3
	bodyMaxLines     = 10

	// sideInset is subtracted from the panel width to form the wrap budget.
	sideInset = 4
)

// Slack distribution in the content view. The 30/70 split and the tight
// 4/1 fallback are kept verbatim from the original panel layout; tune with
// care, small panels make every pixel visible.
const (
	leadSlackFrac = 0.3
	lineSlackFrac = 0.7
	tightLeadGap  = 4
	tightLineGap  = 1
)

// Palette holds the frame colors.
type Palette struct {
	Title    color.RGBA
	Subtitle color.RGBA
	Content  color.RGBA
	Error    color.RGBA
}

// DefaultPalette mirrors the original panel colors.
func DefaultPalette() Palette {
	return Palette{
		Title:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Subtitle: color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Content:  color.RGBA{R: 180, G: 180, B: 180, A: 255},
		Error:    color.RGBA{R: 255, A: 255},
	}
}

// Renderer lays frames out on a canvas: centered title with underline,
// wrapped subtitle or body block with dynamic vertical spacing.
type Renderer struct {
	c     Canvas
	title *Font
	body  *Font
	pal   Palette
}

// NewRenderer creates a renderer drawing with the given fonts.
func NewRenderer(c Canvas, title, body *Font, pal Palette) *Renderer {
	return &Renderer{c: c, title: title, body: body, pal: pal}
}

// TitleView renders the title frame: centered title, underline, and an
// optional subtitle block vertically centered in the remaining space.
func (r *Renderer) TitleView(title, subtitle string) {
	r.c.Clear()
	w, h := r.extent()
	underlineY := r.titleBlock(title, w)

	if subtitle == "" {
		return
	}
	lines := dropBlank(Wrap(subtitle, w-sideInset, r.body.Measure, subtitleMaxLines))
	if len(lines) == 0 {
		return
	}

	bodyH := r.body.Height()
	total := len(lines) * bodyH
	avail := h - underlineY - marginBottom
	gap := (avail - total) / 2
	if gap < 2 {
		gap = 2
	}

	y := underlineY + gap + underlineGap
	for _, line := range lines {
		r.centered(r.body, line, y, w, r.pal.Subtitle)
		y += bodyH + 1
	}
}

// ContentView renders the content frame: the same title block for visual
// consistency, then the wrapped body with slack split between the lead gap
// and the line gaps.
func (r *Renderer) ContentView(title, body string) {
	r.c.Clear()
	w, h := r.extent()
	underlineY := r.titleBlock(title, w)

	lines := dropBlank(Wrap(body, w-sideInset, r.body.Measure, bodyMaxLines))
	if len(lines) == 0 {
		return
	}

	n := len(lines)
	bodyH := r.body.Height()
	contentH := n * bodyH
	avail := h - underlineY - marginBottom

	var lead, between int
	if contentH < avail {
		extra := avail - contentH
		lead = int(leadSlackFrac * float64(extra))
		if lead < 2 {
			lead = 2
		}
		if n > 1 {
			between = int(lineSlackFrac * float64(extra) / float64(n-1))
			if between < 1 {
				between = 1
			}
		}
	} else {
		lead = tightLeadGap
		between = tightLineGap
	}

	y := underlineY + lead + underlineGap + 1
	for i, line := range lines {
		r.centered(r.body, line, y, w, r.pal.Subtitle)
		if i < n-1 {
			y += bodyH + between
		}
	}
}

// Placeholder renders a bare status frame ("No Data", "Error").
func (r *Renderer) Placeholder(msg string, col color.RGBA) {
	r.c.Clear()
	DrawText(r.c, r.body, msg, 5, 12, col)
}

// NoData renders the placeholder shown when nothing resolves today.
func (r *Renderer) NoData() { r.Placeholder("No Data", r.pal.Subtitle) }

// ErrorFrame renders the failure placeholder.
func (r *Renderer) ErrorFrame() { r.Placeholder("Error", r.pal.Error) }

// titleBlock draws the centered title and its underline, returning the
// underline's y coordinate.
func (r *Renderer) titleBlock(title string, w int) int {
	titleW := r.title.Measure(title)
	titleX := (w - titleW) / 2

	DrawText(r.c, r.title, title, titleX, marginTop, r.pal.Title)

	underlineY := marginTop + r.title.Height() + 1
	r.hline(titleX, titleX+titleW, underlineY, r.pal.Title)
	return underlineY
}

func (r *Renderer) centered(f *Font, line string, y, w int, col color.RGBA) {
	lw := f.Measure(line)
	DrawText(r.c, f, line, (w-lw)/2, y, col)
}

func (r *Renderer) hline(x0, x1, y int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		r.c.SetPixel(int16(x), int16(y), col)
	}
}

func (r *Renderer) extent() (w, h int) {
	sx, sy := r.c.Size()
	return int(sx), int(sy)
}

func dropBlank(lines []string) []string {
	kept := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return kept
}
