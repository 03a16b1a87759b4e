// Package tree implements the tree view, which lists one directory of a
// commit with directories first.
package tree

import (
	"errors"
	"path"
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

type Model struct {
	context *appContext.MainContext
	parser  parser.Tree
	commit  string
	dir     string
	// positions holds the cursor of each directory above the current one.
	positions []int
	restore   int

	pendingCommit string
	pendingDir    string
}

func New(context *appContext.MainContext) *Model {
	return &Model{context: context, restore: -1}
}

func (m *Model) Open(v *view.View) (view.Source, error) {
	vars := m.context.Vars()
	commit := vars.Values[git.CommitID]
	dir := m.dir
	if commit != m.commit {
		dir = ""
	}
	vars.Values[git.Directory] = dir
	cmd, err := m.context.Commands.Format(git.CmdTree, vars)
	if err != nil {
		return view.Source{}, err
	}
	m.pendingCommit, m.pendingDir = commit, dir
	return view.Source{Argv: cmd.Argv, NulSeparated: cmd.NulSeparated}, nil
}

func (m *Model) Start(v *view.View) {
	if m.pendingCommit != m.commit {
		m.positions = nil
		m.restore = -1
	}
	m.commit, m.dir = m.pendingCommit, m.pendingDir
	m.context.Selection.Directory = m.dir
	m.context.Selection.Ref = m.commit
	m.parser.Reset(&v.Lines, m.dir)
	v.Ref = shortID(m.commit) + ":/" + m.dir
}

func (m *Model) Read(v *view.View, record []byte) {
	if record != nil {
		m.parser.Read(&v.Lines, record)
		return
	}
	if m.restore >= 0 {
		v.Cursor = m.restore
		m.restore = -1
	}
}

func (m *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	e := line.Data.(*parser.TreeEntry)
	d := &v.Ctx.Display
	tb := render.NewTextBuilder(width)
	tb.LineNumber(d, lineno, v.Lines.Len())
	if line.Type != view.LineTreeParent {
		tb.Field(e.Mode, 6, render.Style("tree file"))
	}
	name := e.Name
	if e.IsDir() && line.Type != view.LineTreeParent {
		name += "/"
	}
	tb.Styled(name, render.LineStyle(line.Type))
	return tb.String()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	switch req {
	case intents.Enter:
		if line == nil {
			return view.Action{}
		}
		e := line.Data.(*parser.TreeEntry)
		switch {
		case line.Type == view.LineTreeParent:
			return m.up()
		case e.IsDir():
			m.positions = append(m.positions, v.Cursor)
			m.dir = m.dir + e.Name + "/"
			return view.Action{Request: intents.ViewTree, Flags: view.OpenReload}
		default:
			return view.OpenChild(view.Blob, view.OpenSplit)
		}
	case intents.Parent:
		if m.dir == "" {
			return view.Action{}
		}
		return m.up()
	case intents.ViewBlame:
		if line == nil || line.Data.(*parser.TreeEntry).IsDir() {
			return view.Failed(errors.New("cannot blame a directory"))
		}
		return view.Forward(req)
	default:
		return view.Forward(req)
	}
}

func (m *Model) up() view.Action {
	parent := path.Dir(strings.TrimSuffix(m.dir, "/"))
	if parent == "." {
		m.dir = ""
	} else {
		m.dir = parent + "/"
	}
	if n := len(m.positions); n > 0 {
		m.restore = m.positions[n-1]
		m.positions = m.positions[:n-1]
	}
	return view.Action{Request: intents.ViewTree, Flags: view.OpenReload}
}

func (m *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	return re.MatchString(line.Data.(*parser.TreeEntry).Name)
}

// Select publishes the file under the cursor and its blob id.
func (m *Model) Select(v *view.View, line *view.Line) {
	e := line.Data.(*parser.TreeEntry)
	if e.IsDir() {
		return
	}
	m.context.Selection.File = m.dir + e.Name
	m.context.Selection.Blob = e.ID
}

func shortID(id string) string {
	if git.IsID(id) {
		return id[:7]
	}
	return id
}
