package context

import (
	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/git"
)

// Selection is the cross-view state written by the focused view when its
// cursor moves and read by the next view that opens.
type Selection struct {
	Ref       string
	Commit    string
	File      string
	Blob      string
	Directory string
	Lineno    int
	Status    *git.StatusEntry
}

// MainContext is the session state shared by the dispatcher and every view.
type MainContext struct {
	Spawner
	Repo      *git.Repo
	Location  string
	Refs      *git.RefStore
	Commands  git.CommandTable
	Selection Selection
	Display   Display
	KeyMap    *config.KeyMap
	RevArgs   []string
	FileArgs  []string
	Version   string
}

func NewAppContext(repo *git.Repo, commands git.CommandTable, keyMap *config.KeyMap) *MainContext {
	ctx := &MainContext{
		Spawner:  NewProcessSpawner(repo.WorkTree, config.Current.UI.Probe()),
		Repo:     repo,
		Location: repo.WorkTree,
		Commands: commands,
		Display:  NewDisplay(config.Current.Options),
		KeyMap:   keyMap,
	}
	ctx.ReloadRefs()
	return ctx
}

// ReloadRefs re-reads references from the repository. Failures leave the
// previous references in place.
func (ctx *MainContext) ReloadRefs() error {
	if ctx.Repo == nil {
		return nil
	}
	refs, err := ctx.Repo.LoadRefs()
	if err != nil {
		return err
	}
	ctx.Refs = refs
	return nil
}

func (ctx *MainContext) Head() string {
	return ctx.Refs.HeadName()
}

// HasHead reports whether the repository has at least one commit.
func (ctx *MainContext) HasHead() bool {
	if ctx.Repo == nil {
		return ctx.Refs.HeadID() != ""
	}
	return ctx.Repo.HasHead()
}

// Vars returns the placeholder values for the current selection. Commit
// defaults to the active head until a view selects one.
func (ctx *MainContext) Vars() git.Vars {
	sel := ctx.Selection
	commit := sel.Commit
	if commit == "" {
		commit = ctx.Head()
	}
	return git.Vars{
		Values: map[git.Placeholder]string{
			git.Directory: sel.Directory,
			git.File:      sel.File,
			git.Ref:       sel.Ref,
			git.Head:      ctx.Head(),
			git.CommitID:  commit,
			git.Blob:      sel.Blob,
		},
		Lists: map[git.Placeholder][]string{
			git.RevArgs:  ctx.RevArgs,
			git.FileArgs: ctx.FileArgs,
			git.DiffArgs: ctx.Display.DiffArgs(),
			git.LogArgs:  ctx.Display.LogArgs(),
		},
	}
}

// Command expands the named command for the current selection.
func (ctx *MainContext) Command(name string, extra ...string) (git.Command, error) {
	return ctx.Commands.Format(name, ctx.Vars(), extra...)
}
