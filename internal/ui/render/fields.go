package render

import (
	"strconv"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui/context"
)

// LineNumber writes the line number column when line numbers are enabled.
// Only every LineNumberStep-th number is printed.
func (tb *TextBuilder) LineNumber(d *context.Display, lineno, total int) *TextBuilder {
	if !d.LineNumbers {
		return tb
	}
	cols := max(len(strconv.Itoa(total)), 3)
	text := ""
	if step := max(d.LineNumberStep, 1); lineno == 1 || lineno%step == 0 {
		text = strconv.Itoa(lineno)
	}
	return tb.RightField(text, cols, Style("line number"))
}

func (tb *TextBuilder) Date(d *context.Display, c *git.Commit) *TextBuilder {
	if d.Date == context.DateNone {
		return tb
	}
	text := ""
	if c != nil {
		text = d.FormatDate(c.Time)
	}
	return tb.Field(text, d.DateWidth(), Style("main date"))
}

func (tb *TextBuilder) Author(d *context.Display, c *git.Commit) *TextBuilder {
	if !d.Author {
		return tb
	}
	text := ""
	if c != nil {
		text = c.Author
	}
	return tb.Field(text, d.AuthorWidth, Style("main author"))
}

func (tb *TextBuilder) ID(d *context.Display, c *git.Commit) *TextBuilder {
	if !d.ID {
		return tb
	}
	text := ""
	if c != nil {
		text = c.ShortID()
	}
	return tb.Field(text, 7, Style("blame id"))
}

// Refs writes the reference labels of c, each followed by a space.
func (tb *TextBuilder) Refs(d *context.Display, c *git.Commit) *TextBuilder {
	if !d.Refs || c == nil {
		return tb
	}
	for _, ref := range c.Refs {
		tb.Styled(RefLabel(ref), RefStyle(ref)).Space(1)
	}
	return tb
}

// Title writes a commit title. With title overflow enabled the part past
// the configured limit is styled as overflow.
func (tb *TextBuilder) Title(d *context.Display, title string) *TextBuilder {
	if !d.TitleOverflow {
		return tb.Write(title)
	}
	head, _ := Truncate(title, d.TitleLimit)
	tb.Write(head)
	return tb.Styled(title[len(head):], Style("main overflow"))
}
