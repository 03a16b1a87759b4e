// Package worktree implements the status view: the staged, unstaged and
// untracked paths of the working tree, one section each.
package worktree

import (
	"errors"
	"log"
	"regexp"

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
)

var errNothingToUpdate = errors.New("nothing to update")

type pass struct {
	section git.Section
	fixed   byte
	source  view.Source
}

type Model struct {
	context *appContext.MainContext
	parser  parser.Status
	passes  []pass
	current int
	pending []pass
}

func New(context *appContext.MainContext) *Model {
	return &Model{context: context}
}

func (m *Model) Open(v *view.View) (view.Source, error) {
	staged := pass{section: git.SectionStaged}
	name := git.CmdStatusStaged
	if !m.context.HasHead() {
		name, staged.fixed = git.CmdStatusNoHead, 'A'
	}
	var untrackedArgs []string
	if !m.context.Display.UntrackedDirs {
		untrackedArgs = append(untrackedArgs, "--directory")
	}
	passes := []pass{
		staged,
		{section: git.SectionUnstaged},
		{section: git.SectionUntracked, fixed: '?'},
	}
	names := []string{name, git.CmdStatusUnstaged, git.CmdStatusUntracked}
	for i := range passes {
		var extra []string
		if passes[i].section == git.SectionUntracked {
			extra = untrackedArgs
		}
		cmd, err := m.context.Command(names[i], extra...)
		if err != nil {
			return view.Source{}, err
		}
		passes[i].source = view.Source{Argv: cmd.Argv, NulSeparated: cmd.NulSeparated}
	}
	m.pending = passes
	return passes[0].source, nil
}

func (m *Model) Start(v *view.View) {
	m.passes = m.pending
	m.current = 0
	m.parser.Ignored = 0
	m.context.Selection.Ref = ""
	v.Ref = m.context.Location
	m.parser.Head(&v.Lines, parser.StatusHead(headLine(m.context)))
	first := m.passes[0]
	m.parser.BeginSection(&v.Lines, first.section, first.fixed)
}

func headLine(ctx *appContext.MainContext) string {
	switch {
	case ctx.Refs.Detached():
		return "Not currently on any branch"
	case ctx.HasHead():
		return "On branch " + ctx.Head()
	}
	if ctx.Repo != nil {
		if branch, ok := ctx.Repo.HeadBranch(); ok {
			return "Initial commit on branch " + branch
		}
	}
	return "Initial commit"
}

// Next closes the finished section and starts the following pass.
func (m *Model) Next(v *view.View) (view.Source, bool) {
	m.parser.EndSection(&v.Lines)
	m.current++
	if m.current >= len(m.passes) {
		return view.Source{}, false
	}
	p := m.passes[m.current]
	m.parser.BeginSection(&v.Lines, p.section, p.fixed)
	return p.source, true
}

func (m *Model) Read(v *view.View, record []byte) {
	if record != nil {
		m.parser.Read(&v.Lines, record)
		return
	}
	m.parser.EndSection(&v.Lines)
	if m.parser.Ignored > 0 {
		log.Printf("status: ignored %d records", m.parser.Ignored)
	}
}

func (m *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	tb := render.NewTextBuilder(width)
	style := render.LineStyle(line.Type)
	switch data := line.Data.(type) {
	case parser.StatusHead:
		tb.Styled(string(data), style)
	case git.Section:
		tb.Styled(data.Title(), style)
	case *git.StatusEntry:
		tb.Styled(string(data.Status), style).Space(1)
		path := data.Path()
		if data.Renamed() && data.OldPath != data.NewPath {
			path = data.OldPath + " -> " + data.NewPath
		}
		tb.Write(path)
	default:
		tb.Styled("  (no files)", style)
	}
	return tb.String()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	switch req {
	case intents.Enter:
		if line == nil {
			return view.Action{}
		}
		if _, ok := line.Data.(*git.StatusEntry); !ok {
			return view.Action{}
		}
		return view.OpenChild(view.Stage, view.OpenSplit)
	case intents.StatusUpdate:
		entries := m.updateTargets(v)
		if len(entries) == 0 {
			return view.Failed(errNothingToUpdate)
		}
		if err := Update(m.context, entries); err != nil {
			return view.Failed(err)
		}
		if err := v.Reload(); err != nil {
			return view.Failed(err)
		}
		return view.Action{}
	}
	return view.Forward(req)
}

// updateTargets is the entry under the cursor, or every entry of the
// section when the cursor is on its header.
func (m *Model) updateTargets(v *view.View) []*git.StatusEntry {
	line := v.Selected()
	if line == nil {
		return nil
	}
	switch data := line.Data.(type) {
	case *git.StatusEntry:
		return []*git.StatusEntry{data}
	case git.Section:
		var entries []*git.StatusEntry
		for i := v.Cursor + 1; i < v.Lines.Len(); i++ {
			entry, ok := v.Lines.At(i).Data.(*git.StatusEntry)
			if !ok || entry.Section != data {
				break
			}
			entries = append(entries, entry)
		}
		return entries
	}
	return nil
}

func (m *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	switch data := line.Data.(type) {
	case *git.StatusEntry:
		return re.MatchString(data.Path()) || re.MatchString(data.OldPath)
	case parser.StatusHead:
		return re.MatchString(string(data))
	}
	return false
}

func (m *Model) Select(v *view.View, line *view.Line) {
	sel := &m.context.Selection
	sel.Ref = ""
	sel.Status = nil
	sel.File = ""
	if entry, ok := line.Data.(*git.StatusEntry); ok {
		sel.Status = entry
		sel.File = entry.Path()
	}
}
