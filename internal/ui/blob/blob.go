// Package blob implements the blob view, which shows one file of a commit
// with optional syntax highlighting.
package blob

import (
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/git"
	appContext "github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/render"
	"github.com/tigview/tigview/internal/ui/view"
)

var (
	_ view.Ops     = (*Model)(nil)
	_ view.Starter = (*Model)(nil)
)

var ErrNoFile = errors.New("no file chosen, press t to open the tree view")

// Line is the payload of a blob view line.
type Line struct {
	Text string
	// Highlighted is Text rendered with syntax colors, once the whole file
	// has been read.
	Highlighted string
}

type Model struct {
	context *appContext.MainContext
	file    string
}

func New(context *appContext.MainContext) *Model {
	return &Model{context: context}
}

func (m *Model) Open(v *view.View) (view.Source, error) {
	if m.context.Selection.Blob == "" {
		return view.Source{}, ErrNoFile
	}
	cmd, err := m.context.Command(git.CmdBlob)
	if err != nil {
		return view.Source{}, err
	}
	return view.Source{Argv: cmd.Argv, NulSeparated: cmd.NulSeparated}, nil
}

func (m *Model) Start(v *view.View) {
	m.file = m.context.Selection.File
	v.Ref = m.file
}

func (m *Model) Read(v *view.View, record []byte) {
	if record != nil {
		text := render.ExpandTabs(strings.TrimSuffix(string(record), "\r"), m.context.Display.TabSize)
		v.Lines.Append(view.LineDefault, &Line{Text: text})
		return
	}
	highlight(&v.Lines, m.file)
}

func (m *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	l := line.Data.(*Line)
	d := &v.Ctx.Display
	tb := render.NewTextBuilder(width)
	tb.LineNumber(d, lineno, v.Lines.Len())
	if d.Highlight && l.Highlighted != "" {
		// Highlighted text is already styled, so cut it without restyling.
		cut := lipgloss.NewStyle().MaxWidth(tb.Remaining()).Render(l.Highlighted)
		return tb.String() + cut
	}
	tb.Write(l.Text)
	return tb.String()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	if req == intents.Enter {
		v.Scroll(1)
		return view.Action{}
	}
	return view.Forward(req)
}

func (m *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	return re.MatchString(line.Data.(*Line).Text)
}

func (m *Model) Select(v *view.View, line *view.Line) {}

func lexerForPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func highlightStyle() *chroma.Style {
	if st := styles.Get(config.Current.UI.HighlightStyle); st != nil {
		return st
	}
	return styles.Fallback
}

// highlight tokenises the whole file and stores each line's colored
// rendering next to its text.
func highlight(lines *view.LineStore, path string) {
	lexer := lexerForPath(path)
	if lexer == nil || lines.Len() == 0 {
		return
	}
	texts := make([]string, lines.Len())
	for i := range texts {
		texts[i] = lines.At(i).Data.(*Line).Text
	}
	iterator, err := lexer.Tokenise(nil, strings.Join(texts, "\n"))
	if err != nil {
		log.Printf("blob: highlighting %s: %v", path, err)
		return
	}
	style := highlightStyle()
	row := 0
	var b strings.Builder
	flush := func() {
		if row < lines.Len() {
			lines.At(row).Data.(*Line).Highlighted = b.String()
			lines.MarkDirty(row)
		}
		b.Reset()
		row++
	}
	for _, token := range iterator.Tokens() {
		s := tokenStyle(style.Get(token.Type))
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				flush()
			}
			if part != "" {
				b.WriteString(s.Render(part))
			}
		}
	}
	flush()
}

func tokenStyle(entry chroma.StyleEntry) lipgloss.Style {
	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	return s
}
