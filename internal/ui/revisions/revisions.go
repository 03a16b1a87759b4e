// Package revisions implements the main view: the commit log with its
// revision graph and references.
package revisions

import (
	"log"
	"regexp"

	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/parser"
	appContext "github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/render"
	"github.com/tigview/tigview/internal/ui/view"
)

var (
	_ view.Ops     = (*Model)(nil)
	_ view.Starter = (*Model)(nil)
)

type Model struct {
	context *appContext.MainContext
	parser  *parser.MainLog
}

func New(context *appContext.MainContext) *Model {
	return &Model{
		context: context,
		parser:  parser.NewMainLog(config.Current.UI.GraphMaxColumns),
	}
}

func (m *Model) Open(v *view.View) (view.Source, error) {
	cmd, err := m.context.Command(git.CmdMain)
	if err != nil {
		return view.Source{}, err
	}
	return view.Source{Argv: cmd.Argv, NulSeparated: cmd.NulSeparated}, nil
}

func (m *Model) Start(v *view.View) {
	if err := m.context.ReloadRefs(); err != nil {
		log.Printf("main: reloading refs: %v", err)
	}
	m.parser.Reset(m.context.Refs)
	v.Ref = m.context.Head()
	if len(m.context.RevArgs) > 0 {
		v.Ref = m.context.RevArgs[0]
	}
}

func (m *Model) Read(v *view.View, record []byte) {
	if record == nil {
		m.parser.Finish()
		if m.parser.Ignored > 0 {
			log.Printf("main: ignored %d malformed records", m.parser.Ignored)
		}
		return
	}
	m.parser.Read(&v.Lines, record)
}

func (m *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	cl := line.Data.(*parser.CommitLine)
	c := cl.Commit
	d := &m.context.Display
	tb := render.NewTextBuilder(width)
	tb.LineNumber(d, lineno, v.Lines.Len())
	tb.Date(d, c).Author(d, c).ID(d, c)
	if d.RevGraph {
		style := render.Style("main graph")
		if cl.Graph.Overflowed() {
			style = render.Style("main overflow")
		}
		tb.Styled(cl.Graph.Render(d.Glyphs()), style)
	}
	tb.Refs(d, c)
	if c.Boundary {
		tb.Styled(c.Title, render.LineStyle(line.Type))
	} else {
		tb.Title(d, c.Title)
	}
	return tb.String()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	switch req {
	case intents.Enter:
		if line == nil {
			return view.Action{}
		}
		return view.OpenChild(view.Diff, view.OpenSplit)
	default:
		return view.Forward(req)
	}
}

func (m *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	c := line.Data.(*parser.CommitLine).Commit
	if re.MatchString(c.Title) || re.MatchString(c.Author) || re.MatchString(c.ID) {
		return true
	}
	for _, ref := range c.Refs {
		if re.MatchString(ref.Name) {
			return true
		}
	}
	return false
}

func (m *Model) Select(v *view.View, line *view.Line) {
	c := line.Data.(*parser.CommitLine).Commit
	m.context.Selection.Commit = c.ID
}
