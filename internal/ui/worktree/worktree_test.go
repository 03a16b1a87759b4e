package worktree

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/parser"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/view"
	"github.com/tigview/tigview/test"
)

var (
	idA = strings.Repeat("a", 40)
	idB = strings.Repeat("b", 40)
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newStatusView(t *testing.T, refs ...*git.Reference) (*view.View, *test.Spawner) {
	s := test.NewSpawner(t,
		test.Response{Match: "git diff-index -z --cached", Output: ":100644 100644 " + idA + " " + idB + " M\x00a.txt\x00"},
		test.Response{Match: "git ls-files -z --others", Output: "new.txt\x00"},
		test.Response{Match: "git ls-files -z --cached", Output: "first.txt\x00"},
	)
	ctx := test.NewContext(t, s, refs...)
	v := view.New(view.Status, ctx, New(ctx))
	v.Resize(80, 10)
	return v, s
}

func headRef() *git.Reference {
	return &git.Reference{Name: "main", ID: idA, Flags: git.RefHead}
}

func TestStatusView_Sections(t *testing.T) {
	v, s := newStatusView(t, headRef())
	v.Ctx.Display.UntrackedDirs = false
	test.Load(t, v, view.OpenDefault)

	require.Equal(t, 7, v.Lines.Len())
	assert.Equal(t, view.Ready, v.State)
	assert.Equal(t, parser.StatusHead("On branch main"), v.Lines.At(0).Data)
	assert.Equal(t, git.SectionStaged, v.Lines.At(1).Data)
	staged := v.Lines.At(2).Data.(*git.StatusEntry)
	assert.Equal(t, byte('M'), staged.Status)
	assert.Equal(t, "a.txt", staged.Path())
	assert.Equal(t, git.SectionUnstaged, v.Lines.At(3).Data)
	assert.Equal(t, view.LineStatusNone, v.Lines.At(4).Type)
	assert.Equal(t, git.SectionUntracked, v.Lines.At(5).Data)
	untracked := v.Lines.At(6).Data.(*git.StatusEntry)
	assert.Equal(t, byte('?'), untracked.Status)

	assert.True(t, s.Called("git ls-files -z --others --exclude-standard --directory"))
	assert.Equal(t, "On branch main", v.Ops.Draw(v, v.Lines.At(0), 1, 80))
	assert.Equal(t, "M a.txt", v.Ops.Draw(v, v.Lines.At(2), 3, 80))
	assert.Equal(t, "  (no files)", v.Ops.Draw(v, v.Lines.At(4), 5, 80))
}

func TestStatusView_InitialCommit(t *testing.T) {
	v, s := newStatusView(t)
	test.Load(t, v, view.OpenDefault)

	assert.True(t, s.Called("git ls-files -z --cached"))
	assert.False(t, s.Called("git diff-index"))
	assert.Equal(t, parser.StatusHead("Initial commit"), v.Lines.At(0).Data)
	entry := v.Lines.At(2).Data.(*git.StatusEntry)
	assert.Equal(t, byte('A'), entry.Status)
	assert.Equal(t, "first.txt", entry.Path())
}

func TestStatusView_Detached(t *testing.T) {
	v, _ := newStatusView(t, &git.Reference{Name: "HEAD", ID: idA, Flags: git.RefHead})
	test.Load(t, v, view.OpenDefault)
	assert.Equal(t, parser.StatusHead("Not currently on any branch"), v.Lines.At(0).Data)
}

func TestStatusView_SelectAndEnter(t *testing.T) {
	v, _ := newStatusView(t, headRef())
	v.Ctx.Selection.Ref = idA
	test.Load(t, v, view.OpenDefault)

	v.MoveTo(2)
	sel := v.Ctx.Selection
	assert.Empty(t, sel.Ref)
	assert.Equal(t, "a.txt", sel.File)
	require.NotNil(t, sel.Status)
	assert.Equal(t, git.SectionStaged, sel.Status.Section)

	action := v.Ops.Request(v, intents.Enter, v.Selected())
	assert.Equal(t, intents.ViewStage, action.Request)
	assert.Equal(t, view.OpenSplit, action.Flags)

	v.MoveTo(1)
	assert.Nil(t, v.Ctx.Selection.Status)
	assert.Equal(t, view.Action{}, v.Ops.Request(v, intents.Enter, v.Selected()))
	assert.Equal(t, intents.Quit, v.Ops.Request(v, intents.Quit, v.Selected()).Request)
}

func TestStatusView_UpdateEntry(t *testing.T) {
	v, s := newStatusView(t, headRef())
	test.Load(t, v, view.OpenDefault)

	v.MoveTo(2)
	action := v.Ops.Request(v, intents.StatusUpdate, v.Selected())
	require.NoError(t, action.Err)
	assert.True(t, s.Called("git update-index -z --index-info"))
	assert.Equal(t, "100644 "+idA+"\ta.txt\x00", s.Written())

	test.Drain(t, v)
	assert.Equal(t, 2, v.Cursor, "reload keeps the cursor")
	assert.Equal(t, 7, v.Lines.Len())
}

func TestStatusView_UpdateSection(t *testing.T) {
	v, s := newStatusView(t, headRef())
	test.Load(t, v, view.OpenDefault)

	v.MoveTo(5)
	require.NoError(t, v.Ops.Request(v, intents.StatusUpdate, v.Selected()).Err)
	assert.True(t, s.Called("git update-index -z --add --remove --stdin"))
	assert.Equal(t, "new.txt\x00", s.Written())
	test.Drain(t, v)

	v.MoveTo(4)
	assert.Error(t, v.Ops.Request(v, intents.StatusUpdate, v.Selected()).Err)
}

func TestStatusView_UntrackedDirectories(t *testing.T) {
	v, s := newStatusView(t, headRef())
	v.Ctx.Display.UntrackedDirs = true
	test.Load(t, v, view.OpenDefault)
	assert.False(t, s.Called("--directory"))
}
