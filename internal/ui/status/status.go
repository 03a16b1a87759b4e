// Package status implements the status line under the panes: the search
// prompt, reported messages and a short help of the focused view.
package status

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tigview/tigview/internal/ui/common"
	"github.com/tigview/tigview/internal/ui/context"
)

var (
	accept = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept"))
	cancel = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
)

const MessageClearDuration = 3 * time.Second

type clearMsg int

type Model struct {
	context   *context.MainContext
	spinner   spinner.Model
	input     textinput.Model
	help      help.Model
	message   string
	failed    bool
	seq       int
	searching bool
	backwards bool
	loading   bool
	styles    styles
}

type styles struct {
	text     lipgloss.Style
	error    lipgloss.Style
	shortcut lipgloss.Style
	dimmed   lipgloss.Style
}

func New(context *context.MainContext) *Model {
	styles := styles{
		text:     common.DefaultPalette.Get("status"),
		error:    common.DefaultPalette.Get("error"),
		shortcut: common.DefaultPalette.Get("status shortcut"),
		dimmed:   common.DefaultPalette.Get("status dimmed"),
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	t := textinput.New()
	t.TextStyle = styles.text
	t.PlaceholderStyle = styles.dimmed

	h := help.New()
	h.ShortSeparator = " • "
	h.Styles.ShortKey = styles.shortcut
	h.Styles.ShortDesc = styles.dimmed
	h.Styles.ShortSeparator = styles.dimmed

	return &Model{
		context: context,
		spinner: s,
		input:   t,
		help:    h,
		styles:  styles,
	}
}

// IsFocused reports whether the search prompt takes the keyboard.
func (m *Model) IsFocused() bool {
	return m.searching
}

func (m *Model) Message() string {
	return m.message
}

// StartSearch opens the search prompt.
func (m *Model) StartSearch(backwards bool) tea.Cmd {
	m.searching = true
	m.backwards = backwards
	m.input.Prompt = "/"
	if backwards {
		m.input.Prompt = "?"
	}
	m.input.Reset()
	return m.input.Focus()
}

// SetLoading starts the spinner when some view begins loading.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	started := loading && !m.loading
	m.loading = loading
	if started {
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clearMsg:
		if int(msg) == m.seq {
			m.message = ""
			m.failed = false
		}
		return nil
	case common.ReportMsg:
		m.message = msg.Text
		m.failed = msg.Err != nil
		m.seq++
		seq := m.seq
		return tea.Tick(MessageClearDuration, func(time.Time) tea.Msg {
			return clearMsg(seq)
		})
	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if !m.searching {
			return nil
		}
		switch {
		case key.Matches(msg, cancel):
			m.searching = false
			m.input.Blur()
			return nil
		case key.Matches(msg, accept):
			search := common.SearchMsg{Pattern: m.input.Value(), Backwards: m.backwards}
			m.searching = false
			m.input.Blur()
			return func() tea.Msg { return search }
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

// View renders the line for the focused view, width cells wide.
func (m *Model) View(focused string, width int) string {
	var content string
	switch {
	case m.searching:
		m.input.Width = max(width-len(m.input.Prompt)-1, 1)
		content = m.input.View()
	case m.message != "" && m.failed:
		content = m.styles.error.Render(m.message)
	case m.message != "":
		content = m.styles.text.Render(m.message)
	case m.context.KeyMap != nil:
		m.help.Width = width
		content = m.help.ShortHelpView(m.context.KeyMap.ShortHelp(focused))
	}
	if m.loading && !m.searching {
		content = m.spinner.View() + content
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, ansi.Truncate(content, width, ""))
}
