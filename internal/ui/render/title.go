package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/tigview/tigview/internal/ui/view"
)

// Title renders the title bar of v: its type, what it shows, the cursor
// position and how far the window is scrolled.
func Title(v *view.View, focused bool, width int, now time.Time) string {
	var left strings.Builder
	fmt.Fprintf(&left, "[%s]", v.Type)
	if v.Ref != "" {
		left.WriteString(" " + v.Ref)
	}
	if n := v.Lines.Len(); n > 0 {
		fmt.Fprintf(&left, " - line %d of %d", v.Cursor+1, n)
	}
	if t, ok := v.Ops.(view.Titler); ok {
		if extra := t.Title(v); extra != "" {
			left.WriteString(" " + extra)
		}
	}

	var right string
	switch {
	case v.Loading():
		right = fmt.Sprintf("loading %ds", int(now.Sub(v.StartedAt).Seconds()))
	case v.State == view.Error:
		right = "error"
	case v.Lines.Len() > 0:
		right = fmt.Sprintf("%d%%", percent(v))
	}

	style := Style("title blurred")
	if focused {
		style = Style("title focused")
	}
	tb := NewTextBuilder(width)
	tb.Write(left.String())
	if pad := width - tb.Width() - len(right); pad > 0 {
		tb.Space(pad).Write(right)
	} else {
		tb.Space(width - tb.Width())
	}
	return style.Render(tb.String())
}

func percent(v *view.View) int {
	n := v.Lines.Len()
	end := min(v.Offset+max(v.Height, 1), n)
	return min(end*100/n, 100)
}
