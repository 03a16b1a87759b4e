package view

import (
	"errors"
	"io"
	"log"
	"regexp"
	"slices"
	"time"

	"github.com/tigview/tigview/internal/process"
	"github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/intents"
)

type State int

const (
	Unloaded State = iota
	Loading
	Ready
	// Error is Ready with the failure kept in View.Err.
	Error
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

type OpenFlags int

const (
	OpenDefault OpenFlags = 0
	// OpenSplit shows the view next to the focused one.
	OpenSplit OpenFlags = 1 << iota
	// OpenReload loads even when the view already shows the same content.
	OpenReload
	// OpenRefresh keeps the cursor position across the reload.
	OpenRefresh
)

// Source names where a load reads its records from. The zero Source loads
// nothing; the view's Start fills its lines.
type Source struct {
	Argv         []string
	File         string
	NulSeparated bool
}

func (s Source) Empty() bool {
	return len(s.Argv) == 0 && s.File == ""
}

func (s Source) Equal(o Source) bool {
	return s.File == o.File && s.NulSeparated == o.NulSeparated && slices.Equal(s.Argv, o.Argv)
}

// Action is what a view hands back to the dispatcher after a request. The
// zero Action means the request was handled.
type Action struct {
	Request intents.Request
	Flags   OpenFlags
	// Err is reported on the status line.
	Err error
}

func Failed(err error) Action {
	return Action{Err: err}
}

func Forward(r intents.Request) Action {
	return Action{Request: r}
}

func OpenChild(t Type, flags OpenFlags) Action {
	return Action{Request: t.Request(), Flags: flags}
}

// Ops is the set of operations every view type implements.
type Ops interface {
	// Open computes the source of the next load from the shared selection.
	// It must not modify the view.
	Open(v *View) (Source, error)
	// Read consumes one record. A nil record ends the load and is delivered
	// exactly once per load.
	Read(v *View, record []byte)
	// Draw renders a line. It has no side effects.
	Draw(v *View, line *Line, lineno, width int) string
	Request(v *View, req intents.Request, line *Line) Action
	Grep(v *View, line *Line, re *regexp.Regexp) bool
	// Select publishes the line under the cursor to the shared selection.
	Select(v *View, line *Line)
}

// Starter resets parser state before the first record of a load.
type Starter interface {
	Start(v *View)
}

// Chained views read more than one source per load. Next is asked for the
// following source when one ends cleanly.
type Chained interface {
	Next(v *View) (Source, bool)
}

// Titler adds view specific text to the title bar.
type Titler interface {
	Title(v *View) string
}

type View struct {
	Type  Type
	Ctx   *context.MainContext
	Ops   Ops
	Lines LineStore
	State State
	Err   error

	// Parent is the view this one was opened from.
	Parent *View
	// Closed is set when the user closes the view; closed views are never
	// returned to.
	Closed bool

	Cursor int
	Offset int
	Height int
	Width  int

	// Ref describes what the view shows, for the title bar.
	Ref       string
	StartedAt time.Time
	Pattern   *regexp.Regexp
	backwards bool

	source  Source
	channel *process.Channel
}

func New(t Type, ctx *context.MainContext, ops Ops) *View {
	return &View{Type: t, Ctx: ctx, Ops: ops}
}

func (v *View) Loading() bool {
	return v.channel != nil
}

// Open starts a load unless the view already shows what Ops.Open asks for.
// It reports whether a load started. When it fails the view keeps its
// lines and state.
func (v *View) Open(flags OpenFlags) (bool, error) {
	src, err := v.Ops.Open(v)
	if err != nil {
		return false, err
	}
	if flags&(OpenReload|OpenRefresh) == 0 && v.State != Unloaded && src.Equal(v.source) {
		return false, nil
	}
	return true, v.load(src, flags)
}

// Reload restarts the view's load, keeping the cursor position.
func (v *View) Reload() error {
	_, err := v.Open(OpenRefresh)
	return err
}

func (v *View) load(src Source, flags OpenFlags) error {
	v.Stop()
	ch, err := v.spawn(src)
	if err != nil {
		log.Printf("%s: %v", v.Type, err)
		return err
	}
	log.Printf("%s: loading %v", v.Type, src.Argv)
	v.source = src
	v.channel = ch
	v.Lines.Reset()
	v.Err = nil
	v.State = Loading
	v.StartedAt = time.Now()
	if flags&OpenRefresh == 0 {
		v.Cursor, v.Offset = 0, 0
	}
	if s, ok := v.Ops.(Starter); ok {
		s.Start(v)
	}
	if ch == nil {
		v.finish(nil)
	}
	return nil
}

func (v *View) spawn(src Source) (*process.Channel, error) {
	switch {
	case src.File != "":
		return v.Ctx.OpenFile(src.File, src.NulSeparated)
	case len(src.Argv) > 0:
		return v.Ctx.Spawn(process.Options{Argv: src.Argv, Mode: process.ReadPipe, NulSeparated: src.NulSeparated})
	default:
		return nil, nil
	}
}

// Stop aborts a running load. Lines read so far are kept and the view ends
// up Ready. It reports whether a load was running.
func (v *View) Stop() bool {
	if v.channel == nil {
		return false
	}
	ch := v.channel
	v.channel = nil
	if err := ch.Kill(); err != nil {
		log.Printf("%s: %v", v.Type, err)
	}
	v.finish(process.ErrAborted)
	return true
}

// Drain feeds buffered records to the view until the channel has nothing
// ready or budget is spent. It reports whether any line may have changed.
func (v *View) Drain(budget time.Duration) bool {
	if v.channel == nil {
		return false
	}
	start := time.Now()
	changed := false
	for v.channel != nil && v.channel.Ready() {
		record, err := v.channel.Read()
		if err != nil {
			v.endSource(err)
			return true
		}
		v.Ops.Read(v, record)
		changed = true
		if budget > 0 && time.Since(start) >= budget {
			break
		}
	}
	return changed
}

func (v *View) endSource(readErr error) {
	ch := v.channel
	v.channel = nil
	var err error
	if errors.Is(readErr, io.EOF) {
		err = ch.Close()
	} else {
		ch.Kill()
		err = readErr
	}
	if err != nil {
		v.finish(err)
		return
	}
	if c, ok := v.Ops.(Chained); ok {
		for {
			src, more := c.Next(v)
			if !more {
				break
			}
			next, err := v.spawn(src)
			if err != nil {
				v.finish(err)
				return
			}
			if next != nil {
				v.channel = next
				return
			}
		}
	}
	v.finish(nil)
}

func (v *View) finish(err error) {
	v.Ops.Read(v, nil)
	if err == nil || errors.Is(err, process.ErrAborted) {
		v.State = Ready
	} else {
		log.Printf("%s: load failed: %v", v.Type, err)
		v.State = Error
		v.Err = err
	}
	if n := v.Lines.Len(); v.Cursor >= n {
		v.Cursor = max(n-1, 0)
	}
	v.ensureVisible()
}

// Selected returns the line under the cursor.
func (v *View) Selected() *Line {
	return v.Lines.At(v.Cursor)
}

// Select publishes the cursor line to the shared selection.
func (v *View) Select() {
	if line := v.Selected(); line != nil {
		v.Ops.Select(v, line)
	}
}

// MoveTo puts the cursor on line i. Only the previous and the new cursor
// line are marked dirty.
func (v *View) MoveTo(i int) bool {
	n := v.Lines.Len()
	if n == 0 {
		return false
	}
	i = min(max(i, 0), n-1)
	if i == v.Cursor {
		return false
	}
	v.Lines.MarkDirty(v.Cursor)
	v.Lines.MarkDirty(i)
	v.Cursor = i
	v.ensureVisible()
	v.Select()
	return true
}

// Scroll moves the window by delta rows and drags the cursor along when it
// would leave the window.
func (v *View) Scroll(delta int) bool {
	n := v.Lines.Len()
	height := v.pageSize()
	offset := min(max(v.Offset+delta, 0), max(n-height, 0))
	if offset == v.Offset {
		return false
	}
	v.Offset = offset
	switch {
	case v.Cursor < offset:
		v.MoveTo(offset)
	case v.Cursor >= offset+height:
		v.MoveTo(offset + height - 1)
	}
	return true
}

// Navigate applies a movement or scrolling request.
func (v *View) Navigate(req intents.Request) bool {
	page := v.pageSize()
	switch req {
	case intents.MoveUp:
		return v.MoveTo(v.Cursor - 1)
	case intents.MoveDown:
		return v.MoveTo(v.Cursor + 1)
	case intents.MovePageUp:
		return v.MoveTo(v.Cursor - page)
	case intents.MovePageDown:
		return v.MoveTo(v.Cursor + page)
	case intents.MoveFirst:
		return v.MoveTo(0)
	case intents.MoveLast:
		return v.MoveTo(v.Lines.Len() - 1)
	case intents.ScrollLineUp:
		return v.Scroll(-1)
	case intents.ScrollLineDown:
		return v.Scroll(1)
	case intents.ScrollPageUp:
		return v.Scroll(-page)
	case intents.ScrollPageDown:
		return v.Scroll(page)
	default:
		return false
	}
}

func (v *View) pageSize() int {
	return max(v.Height, 1)
}

func (v *View) ensureVisible() {
	height := v.pageSize()
	switch {
	case v.Cursor < v.Offset:
		v.Offset = v.Cursor
	case v.Cursor >= v.Offset+height:
		v.Offset = v.Cursor - height + 1
	}
}

// Resize sets the number of visible rows and keeps the cursor in view.
func (v *View) Resize(width, height int) {
	v.Width, v.Height = width, height
	v.ensureVisible()
}
