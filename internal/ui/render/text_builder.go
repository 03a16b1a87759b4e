// Package render draws view lines and keeps painted panes between frames.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
)

// TextBuilder lays out the styled fields of one screen row. Text past the
// row width is dropped.
type TextBuilder struct {
	width int
	col   int
	b     strings.Builder
}

func NewTextBuilder(width int) *TextBuilder {
	return &TextBuilder{width: width}
}

// Remaining is the number of free cells left on the row.
func (tb *TextBuilder) Remaining() int {
	return max(tb.width-tb.col, 0)
}

func (tb *TextBuilder) Write(text string) *TextBuilder {
	return tb.Styled(text, lipgloss.NewStyle())
}

func (tb *TextBuilder) Styled(text string, style lipgloss.Style) *TextBuilder {
	if text == "" || tb.Remaining() == 0 {
		return tb
	}
	cut, w := Truncate(text, tb.Remaining())
	if w == 0 {
		return tb
	}
	tb.b.WriteString(style.Render(cut))
	tb.col += w
	return tb
}

func (tb *TextBuilder) Space(count int) *TextBuilder {
	if count <= 0 {
		return tb
	}
	return tb.Write(strings.Repeat(" ", count))
}

// Field writes text padded or cut to exactly cols cells, then a separating
// space. Cut text ends in "~".
func (tb *TextBuilder) Field(text string, cols int, style lipgloss.Style) *TextBuilder {
	if cols <= 0 {
		return tb
	}
	cut, w := Truncate(text, cols)
	if w < uniseg.StringWidth(text) {
		cut, w = Truncate(text, cols-1)
		cut += "~"
		w++
	}
	tb.Styled(cut, style)
	return tb.Space(cols - w + 1)
}

// RightField is Field with the text aligned to the right.
func (tb *TextBuilder) RightField(text string, cols int, style lipgloss.Style) *TextBuilder {
	if pad := cols - uniseg.StringWidth(text); pad > 0 {
		tb.Space(pad)
		cols -= pad
	}
	return tb.Field(text, cols, style)
}

func (tb *TextBuilder) Width() int {
	return tb.col
}

func (tb *TextBuilder) String() string {
	return tb.b.String()
}

// Truncate cuts s to at most cols display cells without splitting a
// grapheme cluster and returns the result with its width.
func Truncate(s string, cols int) (string, int) {
	if cols <= 0 {
		return "", 0
	}
	width := 0
	g := uniseg.NewGraphemes(s)
	end := 0
	for g.Next() {
		w := g.Width()
		if width+w > cols {
			break
		}
		width += w
		_, end = g.Positions()
	}
	return s[:end], width
}

// ExpandTabs replaces tabs with spaces up to the next tab stop.
func ExpandTabs(s string, size int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if g.Str() == "\t" {
			n := size - col%size
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteString(g.Str())
		col += g.Width()
	}
	return b.String()
}
