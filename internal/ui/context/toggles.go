package context

import (
	"fmt"

	"github.com/tigview/tigview/internal/ui/intents"
)

// ToggleScope tells the dispatcher what a toggle change invalidates.
type ToggleScope int

const (
	// Repaint redraws displayed views from the lines already loaded.
	Repaint ToggleScope = iota
	// ReloadDiff reloads displayed views whose command takes diff options.
	ReloadDiff
	// ReloadLog reloads displayed views whose command takes log options.
	ReloadLog
	// ReloadStatus reloads displayed working tree views.
	ReloadStatus
	// ResetDisplay recomputes the pane layout.
	ResetDisplay
)

type Toggle struct {
	Request intents.Request
	Label   string
	Scope   ToggleScope
	apply   func(d *Display) string
}

// Apply flips or cycles the option and returns the report for the status
// line.
func (t Toggle) Apply(d *Display) string {
	return t.apply(d)
}

func boolToggle(req intents.Request, label string, scope ToggleScope, field func(d *Display) *bool) Toggle {
	return Toggle{Request: req, Label: label, Scope: scope, apply: func(d *Display) string {
		v := field(d)
		*v = !*v
		if *v {
			return "Enabling " + label
		}
		return "Disabling " + label
	}}
}

func enumToggle[T ~int](req intents.Request, label string, scope ToggleScope, names []string, field func(d *Display) *T) Toggle {
	return Toggle{Request: req, Label: label, Scope: scope, apply: func(d *Display) string {
		v := field(d)
		*v = T((int(*v) + 1) % len(names))
		return fmt.Sprintf("Displaying %s %s", names[*v], label)
	}}
}

var Toggles = []Toggle{
	boolToggle(intents.ToggleLineNumbers, "line numbers", Repaint, func(d *Display) *bool { return &d.LineNumbers }),
	enumToggle(intents.ToggleDate, "dates", Repaint, dateModes, func(d *Display) *DateMode { return &d.Date }),
	boolToggle(intents.ToggleAuthor, "author names", Repaint, func(d *Display) *bool { return &d.Author }),
	enumToggle(intents.ToggleGraphics, "line graphics", Repaint, graphicsModes, func(d *Display) *GraphicsMode { return &d.Graphics }),
	boolToggle(intents.ToggleRevGraph, "revision graph", Repaint, func(d *Display) *bool { return &d.RevGraph }),
	boolToggle(intents.ToggleRefs, "reference display", Repaint, func(d *Display) *bool { return &d.Refs }),
	boolToggle(intents.ToggleID, "commit ids", Repaint, func(d *Display) *bool { return &d.ID }),
	enumToggle(intents.ToggleIgnoreSpace, "whitespace handling", ReloadDiff, ignoreSpaceModes, func(d *Display) *IgnoreSpace { return &d.IgnoreSpace }),
	enumToggle(intents.ToggleCommitOrder, "commit order", ReloadLog, commitOrders, func(d *Display) *CommitOrder { return &d.CommitOrder }),
	boolToggle(intents.ToggleTitleOverflow, "title overflow highlight", Repaint, func(d *Display) *bool { return &d.TitleOverflow }),
	boolToggle(intents.ToggleUntrackedDirs, "untracked directory contents", ReloadStatus, func(d *Display) *bool { return &d.UntrackedDirs }),
	boolToggle(intents.ToggleVerticalSplit, "vertical split", ResetDisplay, func(d *Display) *bool { return &d.VerticalSplit }),
	boolToggle(intents.ToggleHighlight, "syntax highlighting", Repaint, func(d *Display) *bool { return &d.Highlight }),
}

func FindToggle(req intents.Request) (Toggle, bool) {
	for _, t := range Toggles {
		if t.Request == req {
			return t, true
		}
	}
	return Toggle{}, false
}
