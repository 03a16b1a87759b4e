package context

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/graph"
)

type DateMode int

const (
	DateNone DateMode = iota
	DateDefault
	DateRelative
	DateShort
)

var dateModes = []string{"no", "default", "relative", "short"}

type GraphicsMode int

const (
	GraphicsASCII GraphicsMode = iota
	GraphicsUTF8
)

var graphicsModes = []string{"ascii", "utf-8"}

type IgnoreSpace int

const (
	IgnoreSpaceNo IgnoreSpace = iota
	IgnoreSpaceAll
	IgnoreSpaceSome
	IgnoreSpaceAtEOL
)

var ignoreSpaceModes = []string{"no", "all", "some", "at-eol"}

type CommitOrder int

const (
	OrderDefault CommitOrder = iota
	OrderTopo
	OrderDate
	OrderReverse
)

var commitOrders = []string{"default", "topo", "date", "reverse"}

// Display holds the global display toggles. Draw functions read it; only the
// toggle handling path writes it.
type Display struct {
	LineNumbers   bool
	Date          DateMode
	Author        bool
	Graphics      GraphicsMode
	RevGraph      bool
	Refs          bool
	ID            bool
	IgnoreSpace   IgnoreSpace
	CommitOrder   CommitOrder
	TitleOverflow bool
	UntrackedDirs bool
	VerticalSplit bool
	Highlight     bool

	AuthorWidth    int
	TitleLimit     int
	TabSize        int
	LineNumberStep int
	// Now anchors relative dates.
	Now func() time.Time
}

func NewDisplay(o config.OptionsConfig) Display {
	ui := config.Current.UI
	return Display{
		LineNumbers:    o.LineNumbers,
		Date:           DateMode(indexOf(dateModes, o.Date, int(DateDefault))),
		Author:         o.Author,
		Graphics:       GraphicsMode(indexOf(graphicsModes, o.LineGraphics, int(GraphicsUTF8))),
		RevGraph:       o.RevGraph,
		Refs:           o.Refs,
		ID:             o.ID,
		IgnoreSpace:    IgnoreSpace(indexOf(ignoreSpaceModes, o.IgnoreSpace, 0)),
		CommitOrder:    CommitOrder(indexOf(commitOrders, o.CommitOrder, 0)),
		TitleOverflow:  o.TitleOverflow,
		UntrackedDirs:  o.UntrackedDirs,
		VerticalSplit:  o.VerticalSplit,
		Highlight:      o.Highlight,
		AuthorWidth:    max(ui.AuthorWidth, 4),
		TitleLimit:     max(ui.TitleOverflow, 10),
		TabSize:        max(ui.TabSize, 1),
		LineNumberStep: 1,
		Now:            time.Now,
	}
}

func indexOf(values []string, value string, fallback int) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return fallback
}

// FormatDate renders t for the current date mode; an empty string means
// dates are hidden.
func (d *Display) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	switch d.Date {
	case DateDefault:
		return t.Format("2006-01-02 15:04 -0700")
	case DateRelative:
		now := time.Now
		if d.Now != nil {
			now = d.Now
		}
		return humanize.RelTime(t, now(), "ago", "from now")
	case DateShort:
		return t.Format("2006-01-02")
	default:
		return ""
	}
}

// DateWidth is the column width reserved for dates in the current mode.
func (d *Display) DateWidth() int {
	switch d.Date {
	case DateDefault:
		return len("2006-01-02 15:04 -0700")
	case DateRelative:
		return len("11 months ago")
	case DateShort:
		return len("2006-01-02")
	default:
		return 0
	}
}

func (d *Display) Glyphs() *graph.Glyphs {
	if d.Graphics == GraphicsASCII {
		return &graph.ASCII
	}
	return &graph.UTF8
}

// DiffArgs are the extra diff options implied by the toggles.
func (d *Display) DiffArgs() []string {
	switch d.IgnoreSpace {
	case IgnoreSpaceAll:
		return []string{"--ignore-all-space"}
	case IgnoreSpaceSome:
		return []string{"--ignore-space-change"}
	case IgnoreSpaceAtEOL:
		return []string{"--ignore-space-at-eol"}
	default:
		return nil
	}
}

// LogArgs are the extra log options implied by the toggles.
func (d *Display) LogArgs() []string {
	switch d.CommitOrder {
	case OrderTopo:
		return []string{"--topo-order"}
	case OrderDate:
		return []string{"--date-order"}
	case OrderReverse:
		return []string{"--reverse"}
	default:
		return nil
	}
}
