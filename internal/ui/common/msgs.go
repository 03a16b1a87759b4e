package common

import (
	tea "github.com/charmbracelet/bubbletea"
)

type (
	// ReportMsg puts a message on the status line. Err messages use the
	// error style.
	ReportMsg struct {
		Text string
		Err  error
	}
	// SearchMsg is sent when the search prompt is confirmed.
	SearchMsg struct {
		Pattern   string
		Backwards bool
	}
	// AutoRefreshMsg is sent when the repository changed on disk.
	AutoRefreshMsg          struct{}
	ExecProcessCompletedMsg struct {
		Err error
	}
)

func Report(text string) tea.Cmd {
	return func() tea.Msg {
		return ReportMsg{Text: text}
	}
}

func ReportError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return ReportMsg{Text: err.Error(), Err: err}
	}
}

func AutoRefresh() tea.Msg {
	return AutoRefreshMsg{}
}
