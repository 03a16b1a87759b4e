package test

import (
	"reflect"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SimulateModel runs first and feeds every resulting message to model,
// following the commands it returns until none are left. Each message is
// shown to the observers before the model sees it. Cursor blinks and
// spinner ticks are dropped since they never stop on their own.
func SimulateModel[T interface {
	Update(tea.Msg) tea.Cmd
}](model T, first tea.Cmd, observers ...func(tea.Msg)) {
	pending := []tea.Cmd{first}
	for len(pending) > 0 {
		cmd := pending[0]
		pending = pending[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		if cmds, ok := expand(msg); ok {
			pending = append(cmds, pending...)
			continue
		}
		switch msg.(type) {
		case nil, cursor.BlinkMsg, spinner.TickMsg:
			continue
		}
		for _, observe := range observers {
			observe(msg)
		}
		if next := model.Update(msg); next != nil {
			pending = append(pending, next)
		}
	}
}

// Type presses each rune of runes in order.
func Type(runes string) tea.Cmd {
	var keys []tea.Cmd
	for _, r := range runes {
		keys = append(keys, key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	}
	return tea.Sequence(keys...)
}

func Press(k tea.KeyType) tea.Cmd {
	return key(tea.KeyMsg{Type: k})
}

func key(msg tea.KeyMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

var cmdType = reflect.TypeOf((tea.Cmd)(nil))

// expand unpacks batches and sequences. The unpacked commands run before
// anything already pending so sequences keep their order. Sequences are
// unexported slice types, so any slice of commands qualifies.
func expand(msg tea.Msg) ([]tea.Cmd, bool) {
	if batch, ok := msg.(tea.BatchMsg); ok {
		return batch, true
	}
	val := reflect.ValueOf(msg)
	if !val.IsValid() || val.Kind() != reflect.Slice || !val.Type().Elem().AssignableTo(cmdType) {
		return nil, false
	}
	cmds := make([]tea.Cmd, val.Len())
	for i := range cmds {
		cmds[i], _ = val.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}
