package graph

import "strings"

type Glyphs [Overflow + 1]string

var (
	ASCII = Glyphs{
		Empty:     " ",
		Vertical:  "|",
		Commit:    "*",
		Merge:     "M",
		Boundary:  "o",
		Initial:   "I",
		BranchOut: "\\",
		Collapse:  "/",
		Join:      "|-",
		Overflow:  "+",
	}
	UTF8 = Glyphs{
		Empty:     " ",
		Vertical:  "│",
		Commit:    "●",
		Merge:     "◎",
		Boundary:  "◯",
		Initial:   "◉",
		BranchOut: "╮",
		Collapse:  "╯",
		Join:      "├─",
		Overflow:  "…",
	}
)

// Render draws the row with one glyph and one space per lane. A Join
// glyph fills its space with a connector.
func (r Row) Render(g *Glyphs) string {
	var b strings.Builder
	for _, s := range r.Symbols {
		b.WriteString(g[s])
		if s != Join {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
