package ui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/parser"
	"github.com/tigview/tigview/internal/ui/common"
	"github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/view"
	"github.com/tigview/tigview/test"
)

var (
	idA = strings.Repeat("a", 40)
	idB = strings.Repeat("b", 40)
	idC = strings.Repeat("c", 40)
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func rawCommit(header, subject string) string {
	return header + "\n" +
		"tree " + idC + "\n" +
		"author A U Thor <author@example.com> 1700000000 +0000\n" +
		"committer A U Thor <author@example.com> 1700000000 +0000\n" +
		"\n" +
		"    " + subject + "\n" +
		"\n"
}

var mainOutput = rawCommit("commit "+idA+" "+idB, "Third") +
	rawCommit("commit "+idB+" "+idC, "Second") +
	rawCommit("commit -"+idC, "First")

const showOutput = "commit placeholder\n" +
	"Author:     A U Thor <author@example.com>\n" +
	"\n" +
	"    Change\n" +
	"\n" +
	"diff --git a/main.go b/main.go\n" +
	"@@ -1 +1 @@\n" +
	"-old\n" +
	"+new\n"

func newContext(t *testing.T) (*context.MainContext, *test.Spawner) {
	s := test.NewSpawner(t,
		test.Response{Match: "git log --no-color --pretty=raw", Output: mainOutput},
		test.Response{Match: "git show", Output: showOutput},
	)
	return test.NewContext(t, s, &git.Reference{Name: "main", ID: idA, Flags: git.RefHead}), s
}

func newModel(t *testing.T) (*Model, *test.Spawner) {
	ctx, s := newContext(t)
	m := NewUI(ctx, view.Main)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Init()
	test.Drain(t, m.Focused())
	return m, s
}

// messages runs cmd and every command batched into it. The resulting
// messages are not fed back to the model.
func messages(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func reports(cmd tea.Cmd) []common.ReportMsg {
	var out []common.ReportMsg
	for _, msg := range messages(cmd) {
		if r, ok := msg.(common.ReportMsg); ok {
			out = append(out, r)
		}
	}
	return out
}

func quits(cmd tea.Cmd) bool {
	for _, msg := range messages(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func press(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUI_OpensInitialView(t *testing.T) {
	m, _ := newModel(t)

	main := m.Focused()
	require.NotNil(t, main)
	assert.Equal(t, view.Main, main.Type)
	assert.Equal(t, 3, main.Lines.Len())
	assert.Equal(t, 100, main.Width)
	assert.Equal(t, 28, main.Height, "one row for the title and one for the status line")
}

func TestUI_EnterOpensSplitAndBackCloses(t *testing.T) {
	m, s := newModel(t)
	main := m.Focused()

	m.Update(intents.Enter)
	require.Len(t, m.Displayed(), 2)
	d := m.Focused()
	assert.Equal(t, view.Diff, d.Type)
	assert.Same(t, main, d.Parent)
	assert.Same(t, main, m.Displayed()[0])
	assert.True(t, s.Called("git show"))
	assert.True(t, s.Called(idA))
	assert.Equal(t, 27, main.Height+d.Height, "two title rows and the status line")
	assert.Greater(t, d.Height, main.Height)

	test.Drain(t, d)
	m.Update(intents.Back)
	require.Len(t, m.Displayed(), 1)
	assert.Same(t, main, m.Focused())
	assert.True(t, d.Closed)
	assert.Equal(t, 28, main.Height)

	assert.True(t, quits(m.Update(intents.Back)), "closing the last view quits")
}

func TestUI_OpenReplacesDisplay(t *testing.T) {
	m, _ := newModel(t)
	main := m.Focused()

	m.Update(intents.ViewHelp)
	require.Len(t, m.Displayed(), 1)
	help := m.Focused()
	assert.Equal(t, view.Help, help.Type)
	assert.Same(t, main, help.Parent)

	m.Update(intents.Back)
	assert.Same(t, main, m.Focused())
}

func TestUI_ParentSkipsClosedViews(t *testing.T) {
	m, _ := newModel(t)
	a, b, c := m.ViewOf(view.Main), m.ViewOf(view.Log), m.ViewOf(view.Help)

	c.Parent, b.Parent = b, a
	b.Closed = true
	assert.Same(t, a, parentOf(c))

	a.Parent = c
	a.Closed = true
	assert.Nil(t, parentOf(c), "a cycle of closed views ends the walk")
}

func TestUI_NextSelectsFollowingCommit(t *testing.T) {
	m, s := newModel(t)
	main := m.Focused()
	m.Update(intents.Enter)
	d := m.Focused()
	test.Drain(t, d)

	m.Update(intents.Next)
	assert.Equal(t, 1, main.Cursor)
	assert.Same(t, d, m.Focused(), "the child keeps the focus")
	assert.True(t, s.Called(idB))
	assert.True(t, d.Loading())

	test.Drain(t, d)
	m.Update(intents.Previous)
	assert.Equal(t, 0, main.Cursor)
}

func TestUI_ViewNextAndMaximize(t *testing.T) {
	m, _ := newModel(t)
	main := m.Focused()
	m.Update(intents.Enter)
	d := m.Focused()

	m.Update(intents.ViewNext)
	assert.Same(t, main, m.Focused())
	m.Update(intents.ViewNext)
	assert.Same(t, d, m.Focused())

	m.Update(intents.Maximize)
	require.Len(t, m.Displayed(), 1)
	assert.Same(t, d, m.Focused())
}

func TestUI_KeysResolveThroughKeyMap(t *testing.T) {
	m, _ := newModel(t)
	main := m.Focused()

	m.Update(press('j'))
	assert.Equal(t, 1, main.Cursor)
	assert.Equal(t, idB, m.context.Selection.Commit)

	m.Update(press('k'))
	assert.Equal(t, 0, main.Cursor)

	assert.True(t, quits(m.Update(press('Q'))))
}

func TestUI_StopLoading(t *testing.T) {
	ctx, _ := newContext(t)
	m := NewUI(ctx, view.Main)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Init()
	main := m.Focused()
	require.True(t, main.Loading())

	r := reports(m.Update(intents.StopLoading))
	require.Len(t, r, 1)
	assert.Equal(t, "Stopped loading 1 views", r[0].Text)
	assert.False(t, main.Loading())

	r = reports(m.Update(intents.StopLoading))
	require.Len(t, r, 1)
	assert.Equal(t, "No views are loading", r[0].Text)
}

func TestUI_PollDrainsLoadingViews(t *testing.T) {
	ctx, _ := newContext(t)
	m := NewUI(ctx, view.Main)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Init()
	main := m.Focused()

	deadline := time.Now().Add(5 * time.Second)
	for main.Loading() {
		require.True(t, time.Now().Before(deadline), "main view did not finish loading")
		m.Update(pollMsg{})
	}
	assert.Equal(t, view.Ready, main.State)
	assert.Equal(t, 3, main.Lines.Len())
}

func TestUI_ToggleRepaintReports(t *testing.T) {
	m, _ := newModel(t)
	before := m.context.Display.LineNumbers

	r := reports(m.Update(intents.ToggleLineNumbers))
	require.Len(t, r, 1)
	assert.NotEqual(t, before, m.context.Display.LineNumbers)
	assert.True(t, strings.HasSuffix(r[0].Text, "line numbers"), r[0].Text)
	assert.False(t, m.Focused().Loading(), "a repaint does not reload")
}

func TestUI_ToggleReloadsLogViews(t *testing.T) {
	m, s := newModel(t)
	calls := len(s.Calls)

	m.Update(intents.ToggleCommitOrder)
	assert.True(t, m.Focused().Loading())
	assert.Greater(t, len(s.Calls), calls)

	test.Drain(t, m.Focused())
	assert.Equal(t, 3, m.Focused().Lines.Len())
}

func TestUI_ToggleVerticalSplit(t *testing.T) {
	m, _ := newModel(t)
	m.Update(intents.Enter)
	main, d := m.Displayed()[0], m.Displayed()[1]

	m.Update(intents.ToggleVerticalSplit)
	assert.True(t, m.split.Vertical)
	assert.Equal(t, 99, main.Width+d.Width, "one column for the separator")
	assert.Equal(t, 28, main.Height)
	assert.Equal(t, 28, d.Height)
}

func TestUI_UnsupportedRequestReports(t *testing.T) {
	m, _ := newModel(t)

	r := reports(m.Update(intents.StatusUpdate))
	require.Len(t, r, 1)
	require.Error(t, r[0].Err)
	assert.Contains(t, r[0].Err.Error(), "not supported by the main view")
}

func TestUI_SearchPromptFindsCommit(t *testing.T) {
	m, _ := newModel(t)
	main := m.Focused()

	m.Update(press('/'))
	require.True(t, m.status.IsFocused())

	m.Update(common.SearchMsg{Pattern: "First"})
	assert.Equal(t, 2, main.Cursor)
	require.NotNil(t, main.Pattern)
	assert.Equal(t, "First", main.Pattern.String())

	m.Update(press('N'))
	assert.Equal(t, 2, main.Cursor, "no earlier match")
}

func TestUI_EditNeedsAFile(t *testing.T) {
	m, _ := newModel(t)

	r := reports(m.Update(intents.Edit))
	require.Len(t, r, 1)
	assert.ErrorIs(t, r[0].Err, errNoFile)
}

func TestUI_ViewRendersPanesAndStatusLine(t *testing.T) {
	m, _ := newModel(t)

	out := m.View()
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 30)
	assert.Contains(t, rows[0], "Third")
	assert.True(t, strings.HasPrefix(rows[28], "[main] main - line 1 of 3"), rows[28])

	m.Update(intents.Enter)
	test.Drain(t, m.Focused())
	rows = strings.Split(m.View(), "\n")
	require.Len(t, rows, 30)
	assert.True(t, strings.HasPrefix(rows[28], "[diff]"), rows[28])
}

func TestUI_EndToEnd(t *testing.T) {
	ctx, _ := newContext(t)
	tm := teatest.NewTestModel(t, New(ctx, view.Main), teatest.WithInitialTermSize(100, 20))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "line 1 of 3")
	}, teatest.WithDuration(5*time.Second))

	tm.Send(press('Q'))
	fm, ok := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second)).(*wrapper)
	require.True(t, ok)

	main := fm.ui.views[view.Main]
	require.NotNil(t, main)
	require.Equal(t, 3, main.Lines.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, main.Lines.At(i).Data.(*parser.CommitLine).Graph.Column, "row %d", i)
	}
	head := main.Lines.At(0).Data.(*parser.CommitLine).Commit
	require.NotEmpty(t, head.Refs)
	assert.True(t, head.Refs[0].Is(git.RefHead))
	assert.True(t, main.Lines.At(2).Data.(*parser.CommitLine).Commit.Boundary)
	assert.False(t, main.Loading())
}
