package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tigview/tigview/internal/ui/intents"
)

// GenericSection holds the bindings shared by every view.
const GenericSection = "generic"

type Binding struct {
	key.Binding
	Request intents.Request
}

// KeyMap resolves keys per view type first and falls back to the generic
// table.
type KeyMap struct {
	Generic []Binding
	Views   map[string][]Binding
}

func (c *Config) KeyMap() (*KeyMap, error) {
	km := &KeyMap{Views: make(map[string][]Binding)}
	var errs []error
	for _, section := range slices.Sorted(maps.Keys(c.Keys)) {
		bindings, err := buildBindings(c.Keys[section])
		if err != nil {
			errs = append(errs, fmt.Errorf("keys.%s: %w", section, err))
		}
		if section == GenericSection {
			km.Generic = bindings
		} else {
			km.Views[section] = bindings
		}
	}
	return km, errors.Join(errs...)
}

func buildBindings(table map[string]string) ([]Binding, error) {
	keysByRequest := make(map[intents.Request][]string)
	var errs []error
	for _, k := range slices.Sorted(maps.Keys(table)) {
		request, err := intents.Parse(table[k])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		keysByRequest[request] = append(keysByRequest[request], k)
	}
	bindings := make([]Binding, 0, len(keysByRequest))
	for _, request := range slices.Sorted(maps.Keys(keysByRequest)) {
		keys := keysByRequest[request]
		bindings = append(bindings, Binding{
			Binding: key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(helpKeys(keys), request.Description()),
			),
			Request: request,
		})
	}
	return bindings, errors.Join(errs...)
}

func helpKeys(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}

// Resolve maps a key press to a request for the given view type.
func (k *KeyMap) Resolve(view string, msg tea.KeyMsg) intents.Request {
	for _, b := range k.Views[view] {
		if key.Matches(msg, b.Binding) {
			return b.Request
		}
	}
	for _, b := range k.Generic {
		if key.Matches(msg, b.Binding) {
			return b.Request
		}
	}
	return intents.None
}

// ShortHelp lists the view specific bindings followed by a few generic ones.
func (k *KeyMap) ShortHelp(view string) []key.Binding {
	var out []key.Binding
	for _, b := range k.Views[view] {
		out = append(out, b.Binding)
	}
	for _, b := range k.Generic {
		switch b.Request {
		case intents.Enter, intents.Back, intents.ViewHelp, intents.Quit:
			out = append(out, b.Binding)
		}
	}
	return out
}
