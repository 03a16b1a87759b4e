// Package stage implements the stage view: the diff of one status entry
// against the side of the index it is on.
package stage

import (
	"errors"

	"github.com/tigview/tigview/internal/git"
	appContext "github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/diff"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/view"
	"github.com/tigview/tigview/internal/ui/worktree"
)

var (
	_ view.Ops     = (*Model)(nil)
	_ view.Starter = (*Model)(nil)
)

var ErrNoEntry = errors.New("no file selected, choose one in the status view")

type Model struct {
	*diff.Model
	entry   *git.StatusEntry
	pending *git.StatusEntry
}

func New(context *appContext.MainContext) *Model {
	return &Model{Model: diff.NewPager(context, git.CmdStageUnstaged)}
}

func (m *Model) Open(v *view.View) (view.Source, error) {
	entry := m.Context().Selection.Status
	if entry == nil {
		return view.Source{}, ErrNoEntry
	}
	var name string
	switch entry.Section {
	case git.SectionStaged:
		name = git.CmdStageStaged
	case git.SectionUntracked:
		name = git.CmdStageUntracked
	default:
		name = git.CmdStageUnstaged
	}
	vars := m.Context().Vars()
	vars.Values[git.File] = entry.Path()
	cmd, err := m.Context().Commands.Format(name, vars)
	if err != nil {
		return view.Source{}, err
	}
	m.pending = entry
	return view.Source{Argv: cmd.Argv, NulSeparated: cmd.NulSeparated}, nil
}

func (m *Model) Start(v *view.View) {
	m.entry = m.pending
	v.Ref = m.entry.Section.Title() + " " + m.entry.Path()
}

func (m *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	if req != intents.StatusUpdate {
		return m.Model.Request(v, req, line)
	}
	if m.entry == nil {
		return view.Failed(ErrNoEntry)
	}
	if err := worktree.Update(m.Context(), []*git.StatusEntry{m.entry}); err != nil {
		return view.Failed(err)
	}
	if p := v.Parent; p != nil && p.Type == view.Status {
		if err := p.Reload(); err != nil {
			return view.Failed(err)
		}
	}
	return view.Forward(intents.Back)
}
