// Package blame implements the blame view. The file's content is shown
// first and attributed to commits as `git blame --incremental` reports
// them.
package blame

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strconv"

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
	_ view.Chained = (*Model)(nil)
	_ view.Titler  = (*Model)(nil)
)

var ErrNoFile = errors.New("no file chosen, press t to open the tree view")

type Model struct {
	context     *appContext.MainContext
	parser      *parser.Blame
	file        string
	ref         string
	attribution view.Source
	pending     view.Source
}

func New(context *appContext.MainContext) *Model {
	return &Model{context: context, parser: parser.NewBlame()}
}

// Open returns the content source. Without a revision the file is read
// from the working tree.
func (m *Model) Open(v *view.View) (view.Source, error) {
	sel := m.context.Selection
	if sel.File == "" {
		return view.Source{}, ErrNoFile
	}
	blame, err := m.context.Command(git.CmdBlame)
	if err != nil {
		return view.Source{}, err
	}
	m.pending = view.Source{Argv: blame.Argv, NulSeparated: blame.NulSeparated}
	if sel.Ref == "" {
		return view.Source{File: filepath.Join(m.context.Location, sel.File)}, nil
	}
	content, err := m.context.Command(git.CmdBlameContent)
	if err != nil {
		return view.Source{}, err
	}
	return view.Source{Argv: content.Argv, NulSeparated: content.NulSeparated}, nil
}

func (m *Model) Start(v *view.View) {
	m.parser.Reset()
	m.attribution = m.pending
	m.file = m.context.Selection.File
	m.ref = m.context.Selection.Ref
	v.Ref = m.file
	if m.ref != "" {
		v.Ref = m.ref + ":" + m.file
	}
}

// Next starts the attribution once the content has been read.
func (m *Model) Next(v *view.View) (view.Source, bool) {
	if m.parser.Attributing() {
		return view.Source{}, false
	}
	m.parser.StartAttribution()
	return m.attribution, true
}

func (m *Model) Read(v *view.View, record []byte) {
	if record != nil {
		m.parser.Read(&v.Lines, record)
		return
	}
	m.parser.Finish()
	if m.parser.Ignored > 0 {
		log.Printf("blame: ignored %d records for %s", m.parser.Ignored, m.file)
	}
}

func (m *Model) Title(v *view.View) string {
	if !v.Loading() || !m.parser.Attributing() {
		return ""
	}
	return fmt.Sprintf("(%d%%)", m.parser.Progress(v.Lines.Len()))
}

func (m *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	bl := line.Data.(*parser.BlameLine)
	d := &v.Ctx.Display
	tb := render.NewTextBuilder(width)
	c := bl.Commit
	if c != nil && !bl.Header {
		// Only the first line of a group repeats the commit.
		c = &git.Commit{}
	}
	tb.Date(d, c).Author(d, c)
	id := ""
	if c != nil && c.ID != "" {
		id = c.ShortID()
	}
	tb.Field(id, 7, render.Style("blame id"))
	tb.RightField(strconv.Itoa(bl.Lineno), len(strconv.Itoa(v.Lines.Len())), render.Style("line number"))
	tb.Write(render.ExpandTabs(bl.Text, d.TabSize))
	return tb.String()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	if req != intents.Enter {
		return view.Forward(req)
	}
	if line == nil || line.Data.(*parser.BlameLine).Commit == nil {
		return view.Failed(errors.New("line not attributed yet"))
	}
	return view.OpenChild(view.Diff, view.OpenSplit)
}

func (m *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	bl := line.Data.(*parser.BlameLine)
	if re.MatchString(bl.Text) {
		return true
	}
	return bl.Commit != nil && (re.MatchString(bl.Commit.Author) || re.MatchString(bl.Commit.Title))
}

// Select publishes the commit of the line; uncommitted lines select the
// null id, which makes the diff view show the staged changes of the file.
func (m *Model) Select(v *view.View, line *view.Line) {
	bl := line.Data.(*parser.BlameLine)
	m.context.Selection.Lineno = bl.Lineno
	if bl.Commit != nil {
		m.context.Selection.Commit = bl.Commit.ID
	}
}
