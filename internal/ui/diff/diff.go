// Package diff implements the pager views that show git output as text:
// the diff view and the base the log and stage views build on.
package diff

import (
	"bytes"
	"regexp"
	"strings"

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

// Model pages the output of one entry of the command table.
type Model struct {
	context *appContext.MainContext
	command string
	pager   parser.Pager
}

// New returns the diff view, which shows the selected commit.
func New(context *appContext.MainContext) *Model {
	return NewPager(context, git.CmdDiff)
}

func NewPager(context *appContext.MainContext, command string) *Model {
	return &Model{context: context, command: command}
}

func (m *Model) Context() *appContext.MainContext {
	return m.context
}

func (m *Model) Open(v *view.View) (view.Source, error) {
	name := m.command
	if name == git.CmdDiff && m.context.Selection.Commit == git.NullID {
		name = git.CmdDiffUncommitted
	}
	return m.Source(name)
}

// Source expands the named command for the current selection.
func (m *Model) Source(name string) (view.Source, error) {
	cmd, err := m.context.Command(name)
	if err != nil {
		return view.Source{}, err
	}
	return view.Source{Argv: cmd.Argv, NulSeparated: cmd.NulSeparated}, nil
}

func (m *Model) Start(v *view.View) {
	switch commit := m.context.Vars().Values[git.CommitID]; {
	case m.command != git.CmdDiff:
		v.Ref = m.context.Head()
	case commit == git.NullID:
		v.Ref = "uncommitted changes"
	case git.IsID(commit):
		v.Ref = commit[:7]
	default:
		v.Ref = commit
	}
}

func (m *Model) Read(v *view.View, record []byte) {
	if record == nil {
		return
	}
	m.pager.Read(&v.Lines, bytes.TrimSuffix(record, []byte("\r")))
}

func (m *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	return DrawText(v, line, lineno, width)
}

// DrawText draws a plain text line styled by its type.
func DrawText(v *view.View, line *view.Line, lineno, width int) string {
	d := &v.Ctx.Display
	tb := render.NewTextBuilder(width)
	tb.LineNumber(d, lineno, v.Lines.Len())
	tb.Styled(render.ExpandTabs(line.Data.(string), d.TabSize), render.LineStyle(line.Type))
	return tb.String()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	switch req {
	case intents.Enter:
		v.Scroll(1)
		return view.Action{}
	default:
		return view.Forward(req)
	}
}

func (m *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	return re.MatchString(line.Data.(string))
}

// Select makes the file of a diff header the selected file.
func (m *Model) Select(v *view.View, line *view.Line) {
	if file, ok := headerFile(line); ok {
		m.context.Selection.File = file
	}
}

func headerFile(line *view.Line) (string, bool) {
	if line.Type != view.LineDiffHeader {
		return "", false
	}
	text := line.Data.(string)
	i := strings.LastIndex(text, " b/")
	if i < 0 {
		return "", false
	}
	return text[i+len(" b/"):], true
}
