package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/tigview/tigview/internal/ui/view"
)

// Pane paints one view into a fixed window. It keeps the rows painted in
// the previous frame and redraws only the rows whose line is dirty or
// changed.
type Pane struct {
	view    *view.View
	width   int
	height  int
	offset  int
	focused bool
	rows    []string
	shown   []*view.Line
	valid   bool

	// Repainted counts the rows drawn by the last Paint.
	Repainted int
}

// Invalidate forces the next Paint to redraw every row.
func (p *Pane) Invalidate() {
	p.valid = false
}

// Clear marks every visible line of v dirty.
func Clear(v *view.View) {
	for i := v.Offset; i < v.Offset+v.Height && i < v.Lines.Len(); i++ {
		v.Lines.MarkDirty(i)
	}
}

func (p *Pane) Paint(v *view.View, width, height int, focused bool) string {
	if !p.valid || p.view != v || p.width != width || p.height != height || p.offset != v.Offset || p.focused != focused {
		p.view, p.width, p.height, p.offset, p.focused = v, width, height, v.Offset, focused
		p.rows = make([]string, height)
		p.shown = make([]*view.Line, height)
		Clear(v)
		for row := range p.rows {
			p.rows[row] = blank(width)
		}
		p.valid = true
	}

	p.Repainted = 0
	for row := 0; row < height; row++ {
		lineno := v.Offset + row
		line := v.Lines.At(lineno)
		if line == p.shown[row] && (line == nil || !line.Dirty) {
			continue
		}
		p.shown[row] = line
		p.Repainted++
		if line == nil {
			p.rows[row] = blank(width)
			continue
		}
		p.rows[row] = p.drawLine(v, line, lineno, width, focused && lineno == v.Cursor)
		line.Dirty = false
	}
	return strings.Join(p.rows, "\n")
}

func (p *Pane) drawLine(v *view.View, line *view.Line, lineno, width int, cursor bool) string {
	text := v.Ops.Draw(v, line, lineno+1, width)
	if cursor {
		plain := ansi.Strip(text)
		return Style("cursor").Render(fit(plain, width))
	}
	return fit(text, width)
}

func fit(text string, width int) string {
	w := ansi.StringWidth(text)
	if w > width {
		return ansi.Truncate(text, width, "")
	}
	return text + strings.Repeat(" ", width-w)
}

func blank(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
