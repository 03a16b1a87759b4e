package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui/blame"
	"github.com/tigview/tigview/internal/ui/blob"
	"github.com/tigview/tigview/internal/ui/common"
	"github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/diff"
	"github.com/tigview/tigview/internal/ui/helppage"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/logview"
	"github.com/tigview/tigview/internal/ui/render"
	"github.com/tigview/tigview/internal/ui/revisions"
	"github.com/tigview/tigview/internal/ui/stage"
	"github.com/tigview/tigview/internal/ui/status"
	"github.com/tigview/tigview/internal/ui/tree"
	"github.com/tigview/tigview/internal/ui/view"
	"github.com/tigview/tigview/internal/ui/watch"
	"github.com/tigview/tigview/internal/ui/worktree"
)

var constructors = map[view.Type]func(*context.MainContext) view.Ops{
	view.Main:   func(c *context.MainContext) view.Ops { return revisions.New(c) },
	view.Diff:   func(c *context.MainContext) view.Ops { return diff.New(c) },
	view.Log:    func(c *context.MainContext) view.Ops { return logview.New(c) },
	view.Tree:   func(c *context.MainContext) view.Ops { return tree.New(c) },
	view.Blob:   func(c *context.MainContext) view.Ops { return blob.New(c) },
	view.Blame:  func(c *context.MainContext) view.Ops { return blame.New(c) },
	view.Status: func(c *context.MainContext) view.Ops { return worktree.New(c) },
	view.Stage:  func(c *context.MainContext) view.Ops { return stage.New(c) },
	view.Help:   func(c *context.MainContext) view.Ops { return helppage.New(c) },
}

var errNoFile = errors.New("no file selected")

type pollMsg struct{}

// Model is the dispatcher. It owns the views, decides which one or two of
// them are displayed and routes every request.
type Model struct {
	context *context.MainContext
	initial view.Type
	views   map[view.Type]*view.View
	// panes are the displayed views, top (or left) first.
	panes    []*view.View
	focus    int
	painters [2]render.Pane
	split    *split
	status   *status.Model
	watcher  *watch.Watcher
	polling  bool
	width    int
	height   int
	// Now is the clock of the loading indicator.
	Now func() time.Time
}

func NewUI(c *context.MainContext, initial view.Type) *Model {
	return &Model{
		context: c,
		initial: initial,
		views:   make(map[view.Type]*view.View),
		split: &split{
			State:    newSplitState(config.Current.UI.SplitRatio),
			Vertical: c.Display.VerticalSplit,
		},
		status: status.New(c),
		Now:    time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(fmt.Sprintf("tigview - %s", m.context.Location))}
	cmds = append(cmds, m.open(m.initial, view.OpenDefault), m.schedulePoll())
	if config.Current.UI.AutoRefresh && m.context.Repo != nil {
		w, err := watch.New(m.context.Repo.GitDir, m.context.Repo.WorkTree)
		if err != nil {
			log.Printf("auto refresh disabled: %v", err)
		} else {
			m.watcher = w
			cmds = append(cmds, w.Wait())
		}
	}
	return tea.Batch(cmds...)
}

// ViewOf returns the view of type t, creating it on first use.
func (m *Model) ViewOf(t view.Type) *view.View {
	v, ok := m.views[t]
	if !ok {
		v = view.New(t, m.context, constructors[t](m.context))
		m.views[t] = v
	}
	return v
}

func (m *Model) Focused() *view.View {
	if len(m.panes) == 0 {
		return nil
	}
	return m.panes[m.focus]
}

func (m *Model) Displayed() []*view.View {
	return m.panes
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.status.IsFocused() {
			return m.status.Update(msg)
		}
		v := m.Focused()
		name := ""
		if v != nil {
			name = v.Type.String()
		}
		if req := m.context.KeyMap.Resolve(name, msg); req != intents.None {
			return m.handle(req)
		}
		return nil
	case intents.Request:
		return m.handle(msg)
	case pollMsg:
		m.polling = false
		return m.poll()
	case common.SearchMsg:
		if v := m.Focused(); v != nil {
			return common.ReportError(v.Search(msg.Pattern, msg.Backwards))
		}
		return nil
	case common.ExecProcessCompletedMsg:
		return tea.Batch(common.ReportError(msg.Err), m.refresh())
	case watch.ChangedMsg:
		return tea.Batch(
			common.Debounce("auto-refresh", config.Current.UI.RefreshDelay(), common.AutoRefresh),
			m.watcher.Wait(),
		)
	case common.AutoRefreshMsg:
		return m.autoRefresh()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return nil
	}
	return m.status.Update(msg)
}

// handle routes a request to the focused view first. Whatever the view
// forwards is applied here.
func (m *Model) handle(req intents.Request) tea.Cmd {
	var flags view.OpenFlags
	if v := m.Focused(); v != nil {
		v.Select()
		action := v.Ops.Request(v, req, v.Selected())
		if action.Err != nil {
			return tea.Batch(common.ReportError(action.Err), m.schedulePoll())
		}
		if action.Request == intents.None {
			return m.schedulePoll()
		}
		req, flags = action.Request, action.Flags
	}
	return tea.Batch(m.apply(req, flags), m.schedulePoll())
}

func (m *Model) apply(req intents.Request, flags view.OpenFlags) tea.Cmd {
	if t, ok := view.TypeFor(req); ok {
		return m.open(t, flags)
	}
	if req.IsToggle() {
		return m.toggle(req)
	}
	v := m.Focused()
	switch req {
	case intents.Back:
		return m.closeFocused()
	case intents.Quit:
		return m.quit()
	case intents.Refresh:
		return m.refresh()
	case intents.StopLoading:
		stopped := 0
		for _, v := range m.views {
			if v.Stop() {
				stopped++
			}
		}
		m.status.SetLoading(false)
		if stopped == 0 {
			return common.Report("No views are loading")
		}
		return common.Report(fmt.Sprintf("Stopped loading %d views", stopped))
	case intents.ViewNext:
		if len(m.panes) > 1 {
			m.focus = (m.focus + 1) % len(m.panes)
		}
	case intents.Maximize:
		if v != nil && len(m.panes) > 1 {
			m.panes = []*view.View{v}
			m.focus = 0
			m.layout()
		}
	case intents.Next, intents.Previous:
		return m.step(req == intents.Next)
	case intents.Search, intents.SearchBack:
		return m.status.StartSearch(req == intents.SearchBack)
	case intents.FindNext, intents.FindPrev:
		if v != nil {
			return common.ReportError(v.Find(req == intents.FindPrev))
		}
	case intents.ScreenRedraw:
		m.invalidate()
		return tea.ClearScreen
	case intents.ShowVersion:
		return common.Report("tigview version " + m.context.Version)
	case intents.Edit:
		return m.edit()
	case intents.StatusUpdate, intents.Parent:
		if v != nil {
			return common.ReportError(fmt.Errorf("%s is not supported by the %s view", req, v.Type))
		}
	case intents.Enter:
	default:
		if v != nil {
			v.Navigate(req)
		}
	}
	return nil
}

// open loads the view of type t and displays it. A split open shows it
// under the focused view; otherwise it replaces the display. Views already
// displayed are reloaded in place.
func (m *Model) open(t view.Type, flags view.OpenFlags) tea.Cmd {
	v := m.ViewOf(t)
	prev := m.Focused()
	if _, err := v.Open(flags); err != nil {
		return common.ReportError(err)
	}
	v.Closed = false
	switch i := m.index(v); {
	case i >= 0:
		m.focus = i
	case prev != nil && flags&view.OpenSplit != 0:
		v.Parent = prev
		m.panes = []*view.View{prev, v}
		m.focus = 1
	default:
		if prev != nil {
			v.Parent = prev
		}
		m.panes = []*view.View{v}
		m.focus = 0
	}
	m.layout()
	return nil
}

func (m *Model) index(v *view.View) int {
	for i, p := range m.panes {
		if p == v {
			return i
		}
	}
	return -1
}

// parentOf is the nearest ancestor of v that was not closed.
func parentOf(v *view.View) *view.View {
	seen := map[*view.View]bool{v: true}
	for p := v.Parent; p != nil && !seen[p]; p = p.Parent {
		if !p.Closed {
			return p
		}
		seen[p] = true
	}
	return nil
}

func (m *Model) closeFocused() tea.Cmd {
	v := m.Focused()
	if v == nil {
		return m.quit()
	}
	v.Closed = true
	v.Stop()
	if len(m.panes) > 1 {
		m.panes = append(m.panes[:m.focus:m.focus], m.panes[m.focus+1:]...)
		m.focus = 0
		m.layout()
		return nil
	}
	parent := parentOf(v)
	if parent == nil {
		return m.quit()
	}
	m.panes = []*view.View{parent}
	m.focus = 0
	m.layout()
	return nil
}

// step moves the cursor of the parent pane and opens its child again for
// the new line. Without a displayed parent the focused view's cursor moves.
func (m *Model) step(forward bool) tea.Cmd {
	v := m.Focused()
	if v == nil {
		return nil
	}
	move := intents.MoveUp
	if forward {
		move = intents.MoveDown
	}
	if m.focus == 0 || m.panes[0] != v.Parent {
		v.Navigate(move)
		return nil
	}
	parent := m.panes[0]
	if !parent.Navigate(move) {
		return nil
	}
	action := parent.Ops.Request(parent, intents.Enter, parent.Selected())
	if action.Err != nil {
		return common.ReportError(action.Err)
	}
	if t, ok := view.TypeFor(action.Request); ok && t == v.Type {
		return m.open(t, action.Flags)
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	for _, v := range m.views {
		v.Stop()
	}
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.Printf("watch: %v", err)
		}
	}
	return tea.Quit
}

// refresh reloads the references and every displayed view.
func (m *Model) refresh() tea.Cmd {
	if err := m.context.ReloadRefs(); err != nil {
		log.Printf("refs: %v", err)
	}
	var errs []error
	for _, v := range m.panes {
		errs = append(errs, v.Reload())
	}
	return common.ReportError(errors.Join(errs...))
}

func (m *Model) autoRefresh() tea.Cmd {
	var errs []error
	for _, v := range m.panes {
		if v.Type == view.Main || v.Type.StatusLike() {
			errs = append(errs, v.Reload())
		}
	}
	return tea.Batch(common.ReportError(errors.Join(errs...)), m.schedulePoll())
}

func (m *Model) toggle(req intents.Request) tea.Cmd {
	t, ok := context.FindToggle(req)
	if !ok {
		return nil
	}
	report := t.Apply(&m.context.Display)
	var errs []error
	reload := func(match func(view.Type) bool) {
		for _, v := range m.panes {
			if match(v.Type) {
				errs = append(errs, v.Reload())
			}
		}
	}
	switch t.Scope {
	case context.Repaint:
		for _, v := range m.panes {
			v.Lines.MarkAllDirty()
		}
		m.invalidate()
	case context.ReloadDiff:
		reload(view.Type.DiffLike)
	case context.ReloadLog:
		reload(view.Type.LogLike)
	case context.ReloadStatus:
		reload(view.Type.StatusLike)
	case context.ResetDisplay:
		m.split.Vertical = m.context.Display.VerticalSplit
		m.layout()
	}
	if err := errors.Join(errs...); err != nil {
		return common.ReportError(err)
	}
	return common.Report(report)
}

func (m *Model) edit() tea.Cmd {
	if m.context.Selection.File == "" {
		return common.ReportError(errNoFile)
	}
	cmd, err := m.context.Command(git.CmdEdit)
	if err != nil {
		return common.ReportError(err)
	}
	return tea.ExecProcess(m.context.Interactive(cmd.Argv), func(err error) tea.Msg {
		return common.ExecProcessCompletedMsg{Err: err}
	})
}

// poll drains every loading view within the configured budget and
// schedules the next poll while any view is still loading.
func (m *Model) poll() tea.Cmd {
	var cmds []tea.Cmd
	budget := config.Current.UI.DrainBudget()
	loading := false
	for _, v := range m.views {
		if !v.Loading() {
			continue
		}
		v.Drain(budget)
		if v.Loading() {
			loading = true
		} else if v.State == view.Error {
			cmds = append(cmds, common.ReportError(fmt.Errorf("%s: %w", v.Type, v.Err)))
		}
	}
	cmds = append(cmds, m.status.SetLoading(loading))
	if loading {
		cmds = append(cmds, m.schedulePoll())
	}
	return tea.Batch(cmds...)
}

// schedulePoll keeps a single poll tick in flight while views load.
func (m *Model) schedulePoll() tea.Cmd {
	if m.polling {
		return nil
	}
	loading := false
	for _, v := range m.views {
		loading = loading || v.Loading()
	}
	if !loading {
		return nil
	}
	m.polling = true
	return tea.Batch(m.status.SetLoading(true), tea.Tick(config.Current.UI.PollInterval(), func(time.Time) tea.Msg {
		return pollMsg{}
	}))
}

func (m *Model) invalidate() {
	for i := range m.painters {
		m.painters[i].Invalidate()
	}
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	rects := m.split.layout(m.width, max(m.height-1, 0), len(m.panes))
	for i, v := range m.panes {
		// One row of every pane is its title.
		v.Resize(rects[i].width, max(rects[i].height-1, 0))
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	now := m.Now()
	rects := m.split.layout(m.width, max(m.height-1, 0), len(m.panes))
	var panes []string
	for i, v := range m.panes {
		r := rects[i]
		focused := i == m.focus
		body := m.painters[i].Paint(v, r.width, max(r.height-1, 0), focused)
		title := render.Title(v, focused, r.width, now)
		if r.height <= 1 {
			panes = append(panes, title)
			continue
		}
		panes = append(panes, body+"\n"+title)
	}
	var screen string
	switch {
	case len(panes) == 0:
		screen = strings.Repeat("\n", max(m.height-2, 0))
	case len(panes) == 1:
		screen = panes[0]
	case m.split.Vertical:
		sep := strings.TrimSuffix(strings.Repeat("│\n", max(m.height-1, 1)), "\n")
		screen = lipgloss.JoinHorizontal(lipgloss.Top, panes[0], render.Style("delimiter").Render(sep), panes[1])
	default:
		screen = lipgloss.JoinVertical(lipgloss.Left, panes[0], panes[1])
	}
	name := ""
	if v := m.Focused(); v != nil {
		name = v.Type.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, screen, m.status.View(name, m.width))
}

var _ tea.Model = (*wrapper)(nil)

type (
	frameTickMsg struct{}
	wrapper      struct {
		ui                 *Model
		scheduledNextFrame bool
		render             bool
		cachedFrame        string
	}
)

func (w *wrapper) Init() tea.Cmd {
	return w.ui.Init()
}

func (w *wrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameTickMsg); ok {
		w.render = true
		w.scheduledNextFrame = false
		return w, nil
	}
	cmd := w.ui.Update(msg)
	if !w.scheduledNextFrame {
		w.scheduledNextFrame = true
		return w, tea.Batch(cmd, tea.Tick(time.Millisecond*8, func(t time.Time) tea.Msg {
			return frameTickMsg{}
		}))
	}
	return w, cmd
}

func (w *wrapper) View() string {
	if w.render {
		w.cachedFrame = w.ui.View()
		w.render = false
	}
	return w.cachedFrame
}

// New returns the program model, which renders at most one frame per tick.
func New(c *context.MainContext, initial view.Type) tea.Model {
	return &wrapper{ui: NewUI(c, initial)}
}
