// Package helppage implements the help view, which lists the key bindings
// of every keymap section.
package helppage

import (
	"maps"
	"regexp"
	"slices"

	"github.com/tigview/tigview/internal/config"
	appContext "github.com/tigview/tigview/internal/ui/context"
	"github.com/tigview/tigview/internal/ui/intents"
	"github.com/tigview/tigview/internal/ui/render"
	"github.com/tigview/tigview/internal/ui/view"
)

var (
	_ view.Ops     = (*Model)(nil)
	_ view.Starter = (*Model)(nil)
)

type group string

type Model struct {
	context *appContext.MainContext
}

func New(context *appContext.MainContext) *Model {
	return &Model{context: context}
}

// Open loads nothing; the lines are built from the keymap in Start.
func (h *Model) Open(v *view.View) (view.Source, error) {
	return view.Source{}, nil
}

func (h *Model) Start(v *view.View) {
	v.Ref = "key bindings"
	km := h.context.KeyMap
	if km == nil {
		return
	}
	h.appendGroup(v, config.GenericSection, km.Generic)
	for _, section := range slices.Sorted(maps.Keys(km.Views)) {
		h.appendGroup(v, section, km.Views[section])
	}
}

func (h *Model) appendGroup(v *view.View, name string, bindings []config.Binding) {
	if len(bindings) == 0 {
		return
	}
	v.Lines.Append(view.LineHelpGroup, group(name))
	for _, b := range bindings {
		v.Lines.Append(view.LineHelpKey, b)
	}
}

func (h *Model) Read(v *view.View, record []byte) {}

func (h *Model) Draw(v *view.View, line *view.Line, lineno, width int) string {
	tb := render.NewTextBuilder(width)
	switch data := line.Data.(type) {
	case group:
		tb.Styled("["+string(data)+"] bindings", render.LineStyle(view.LineHelpGroup))
	case config.Binding:
		help := data.Help()
		tb.RightField(help.Key, 10, render.LineStyle(view.LineHelpKey)).Space(1)
		tb.Field(data.Request.String(), 24, render.Style("default"))
		tb.Write(help.Desc)
	}
	return tb.String()
}

func (h *Model) Request(v *view.View, req intents.Request, line *view.Line) view.Action {
	if req == intents.Enter {
		v.Scroll(1)
		return view.Action{}
	}
	return view.Forward(req)
}

func (h *Model) Grep(v *view.View, line *view.Line, re *regexp.Regexp) bool {
	switch data := line.Data.(type) {
	case group:
		return re.MatchString(string(data))
	case config.Binding:
		help := data.Help()
		return re.MatchString(help.Key) || re.MatchString(help.Desc) || re.MatchString(data.Request.String())
	}
	return false
}

func (h *Model) Select(v *view.View, line *view.Line) {}
