package status

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigview/tigview/internal/ui/common"
	"github.com/tigview/tigview/test"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newModel(t *testing.T) *Model {
	return New(test.NewContext(t, test.NewSpawner(t)))
}

func TestStatus_ReportClearsAfterDelay(t *testing.T) {
	m := newModel(t)
	cmd := m.Update(common.ReportMsg{Text: "first"})
	require.NotNil(t, cmd)
	assert.Equal(t, "first", m.Message())

	m.Update(common.ReportMsg{Text: "boom", Err: errors.New("boom")})
	m.Update(clearMsg(1))
	assert.Equal(t, "boom", m.Message(), "a stale clear keeps the newer message")
	assert.True(t, strings.HasPrefix(m.View("main", 20), "boom"))

	m.Update(clearMsg(2))
	assert.Empty(t, m.Message())
}

func TestStatus_SearchPrompt(t *testing.T) {
	m := newModel(t)
	m.StartSearch(true)
	require.True(t, m.IsFocused())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fix")})
	assert.Contains(t, m.View("main", 40), "?fix")

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, common.SearchMsg{Pattern: "fix", Backwards: true}, cmd())
	assert.False(t, m.IsFocused())
}

func TestStatus_TypedSearch(t *testing.T) {
	m := newModel(t)
	m.StartSearch(false)

	var searches []common.SearchMsg
	test.SimulateModel(m, tea.Sequence(test.Type("ab"), test.Press(tea.KeyEnter)), func(msg tea.Msg) {
		if s, ok := msg.(common.SearchMsg); ok {
			searches = append(searches, s)
		}
	})
	assert.Equal(t, []common.SearchMsg{{Pattern: "ab"}}, searches)
	assert.False(t, m.IsFocused())
}

func TestStatus_SearchCancel(t *testing.T) {
	m := newModel(t)
	m.StartSearch(false)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, m.IsFocused())
}

func TestStatus_ShortHelp(t *testing.T) {
	m := newModel(t)
	view := m.View("status", 200)
	assert.Equal(t, 200, lipgloss.Width(view))
	assert.Contains(t, view, "u Stage or unstage the selected entry")
	assert.Contains(t, view, "Quit")
}

func TestStatus_SpinnerWhileLoading(t *testing.T) {
	m := newModel(t)
	assert.NotNil(t, m.SetLoading(true))
	assert.Nil(t, m.SetLoading(true), "already spinning")
	assert.Nil(t, m.SetLoading(false))
}
