package intents

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Request is a user intent. It carries no payload; the focused view supplies
// the context when the request is applied.
type Request int

const (
	None Request = iota

	ViewMain
	ViewDiff
	ViewLog
	ViewTree
	ViewBlob
	ViewBlame
	ViewStatus
	ViewStage
	ViewHelp

	Enter
	Back
	Quit
	Refresh
	StopLoading
	ViewNext
	Maximize
	Next
	Previous
	Parent

	MoveUp
	MoveDown
	MovePageUp
	MovePageDown
	MoveFirst
	MoveLast
	ScrollLineUp
	ScrollLineDown
	ScrollPageUp
	ScrollPageDown

	Search
	SearchBack
	FindNext
	FindPrev

	ScreenRedraw
	ShowVersion
	StatusUpdate
	Edit

	ToggleLineNumbers
	ToggleDate
	ToggleAuthor
	ToggleGraphics
	ToggleRevGraph
	ToggleRefs
	ToggleID
	ToggleIgnoreSpace
	ToggleCommitOrder
	ToggleTitleOverflow
	ToggleUntrackedDirs
	ToggleVerticalSplit
	ToggleHighlight

	count
)

type info struct {
	name        string
	description string
}

var requests = [count]info{
	None:                {"none", "Do nothing"},
	ViewMain:            {"view-main", "Show main view"},
	ViewDiff:            {"view-diff", "Show diff view"},
	ViewLog:             {"view-log", "Show log view"},
	ViewTree:            {"view-tree", "Show tree view"},
	ViewBlob:            {"view-blob", "Show blob view"},
	ViewBlame:           {"view-blame", "Show blame view"},
	ViewStatus:          {"view-status", "Show status view"},
	ViewStage:           {"view-stage", "Show stage view"},
	ViewHelp:            {"view-help", "Show help view"},
	Enter:               {"enter", "Enter and open selected entry"},
	Back:                {"view-close", "Close the current view"},
	Quit:                {"quit", "Quit"},
	Refresh:             {"refresh", "Reload and refresh view"},
	StopLoading:         {"stop-loading", "Stop all loading views"},
	ViewNext:            {"view-next", "Move focus to the next view"},
	Maximize:            {"maximize", "Maximize the current view"},
	Next:                {"next", "Move to next"},
	Previous:            {"previous", "Move to previous"},
	Parent:              {"parent", "Move to parent"},
	MoveUp:              {"move-up", "Move cursor one line up"},
	MoveDown:            {"move-down", "Move cursor one line down"},
	MovePageUp:          {"move-page-up", "Move cursor one page up"},
	MovePageDown:        {"move-page-down", "Move cursor one page down"},
	MoveFirst:           {"move-first-line", "Move cursor to first line"},
	MoveLast:            {"move-last-line", "Move cursor to last line"},
	ScrollLineUp:        {"scroll-line-up", "Scroll one line up"},
	ScrollLineDown:      {"scroll-line-down", "Scroll one line down"},
	ScrollPageUp:        {"scroll-page-up", "Scroll one page up"},
	ScrollPageDown:      {"scroll-page-down", "Scroll one page down"},
	Search:              {"search", "Search the view"},
	SearchBack:          {"search-back", "Search backwards in the view"},
	FindNext:            {"find-next", "Find next search match"},
	FindPrev:            {"find-prev", "Find previous search match"},
	ScreenRedraw:        {"screen-redraw", "Redraw the screen"},
	ShowVersion:         {"show-version", "Show version information"},
	StatusUpdate:        {"status-update", "Stage or unstage the selected entry"},
	Edit:                {"edit", "Open in editor"},
	ToggleLineNumbers:   {"toggle-line-numbers", "Toggle line numbers"},
	ToggleDate:          {"toggle-date", "Toggle date display"},
	ToggleAuthor:        {"toggle-author", "Toggle author display"},
	ToggleGraphics:      {"toggle-line-graphics", "Toggle line graphics"},
	ToggleRevGraph:      {"toggle-rev-graph", "Toggle revision graph"},
	ToggleRefs:          {"toggle-refs", "Toggle reference display"},
	ToggleID:            {"toggle-id", "Toggle commit id display"},
	ToggleIgnoreSpace:   {"toggle-ignore-space", "Toggle ignoring whitespace in diffs"},
	ToggleCommitOrder:   {"toggle-commit-order", "Toggle commit ordering"},
	ToggleTitleOverflow: {"toggle-title-overflow", "Toggle highlighting of long titles"},
	ToggleUntrackedDirs: {"toggle-untracked-dirs", "Toggle showing files in untracked directories"},
	ToggleVerticalSplit: {"toggle-vertical-split", "Toggle vertical split"},
	ToggleHighlight:     {"toggle-highlight", "Toggle syntax highlighting"},
}

var byName = func() map[string]Request {
	m := make(map[string]Request, count)
	for r := None; r < count; r++ {
		m[requests[r].name] = r
	}
	return m
}()

func (r Request) String() string {
	if r < 0 || r >= count {
		return fmt.Sprintf("request(%d)", int(r))
	}
	return requests[r].name
}

func (r Request) Description() string {
	if r < 0 || r >= count {
		return ""
	}
	return requests[r].description
}

// Parse resolves a request by the name used in key bindings.
func Parse(name string) (Request, error) {
	if r, ok := byName[name]; ok {
		return r, nil
	}
	return None, fmt.Errorf("unknown request %q", name)
}

func (r Request) IsViewOpen() bool {
	return r >= ViewMain && r <= ViewHelp
}

func (r Request) IsToggle() bool {
	return r >= ToggleLineNumbers && r <= ToggleHighlight
}

// All lists every request except None in declaration order.
func All() []Request {
	out := make([]Request, 0, count-1)
	for r := None + 1; r < count; r++ {
		out = append(out, r)
	}
	return out
}

// Invoke delivers r to the dispatcher as a message.
func Invoke(r Request) tea.Cmd {
	return func() tea.Msg {
		return r
	}
}
