// Package logview implements the log view: `git log --stat` paged as text.
package logview

import (
	"strings"

	"github.com/tigview/tigview/internal/git"
	appContext "github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/diff"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/view"
)

var _ view.Ops = (*Model)(nil)

type Model struct {
	*diff.Model
	// commits holds, per line, the commit whose section the line is in.
	commits []string
}

func New(context *appContext.MainContext) *Model {
	return &Model{Model: diff.NewPager(context, git.CmdLog)}
}

func (m *Model) Start(v *view.View) {
	m.Model.Start(v)
	m.commits = m.commits[:0]
}

func (m *Model) Read(v *view.View, record []byte) {
	if record == nil {
		return
	}
	m.Model.Read(v, record)
	last := ""
	if n := len(m.commits); n > 0 {
		last = m.commits[n-1]
	}
	line := v.Lines.At(v.Lines.Len() - 1)
	if line.Type == view.LineCommit {
		if fields := strings.Fields(line.Data.(string)); len(fields) > 1 && git.IsID(fields[1]) {
			last = fields[1]
		}
	}
	m.commits = append(m.commits, last)
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	if req == intents.Enter && m.commitAt(v.Cursor) != "" {
		return view.OpenChild(view.Diff, view.OpenSplit)
	}
	return m.Model.Request(v, req, line)
}

// Select makes the commit the cursor is in the selected commit.
func (m *Model) Select(v *view.View, line *view.Line) {
	if id := m.commitAt(v.Cursor); id != "" {
		m.Context().Selection.Commit = id
	}
}

func (m *Model) commitAt(i int) string {
	if i < 0 || i >= len(m.commits) {
		return ""
	}
	return m.commits[i]
}
