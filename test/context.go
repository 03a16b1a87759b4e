package test

import (
	"testing"
	"time"

	"github.com/tigview/tigview/internal/config"
	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui/context"
)

// Epoch is the clock used by test contexts.
var Epoch = time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

// NewContext builds a session context backed by s instead of a repository.
func NewContext(t *testing.T, s *Spawner, refs ...*git.Reference) *context.MainContext {
	keyMap, err := config.Current.KeyMap()
	if err != nil {
		t.Fatal(err)
	}
	display := context.NewDisplay(config.Current.Options)
	display.Now = func() time.Time { return Epoch }
	return &context.MainContext{
		Spawner:  s,
		Location: s.Dir(),
		Refs:     git.NewRefStore(refs),
		Commands: git.DefaultCommandTable(),
		Display:  display,
		KeyMap:   keyMap,
	}
}
