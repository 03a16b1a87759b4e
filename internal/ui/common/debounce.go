package common

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	debounceMu  sync.Mutex
	generations = map[string]uint64{}
)

// Debounce runs cmd once duration has passed, unless another call with the
// same identifier came in meanwhile. Superseded commands produce no message.
func Debounce(identifier string, duration time.Duration, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	debounceMu.Lock()
	generations[identifier]++
	generation := generations[identifier]
	debounceMu.Unlock()

	return tea.Tick(duration, func(time.Time) tea.Msg {
		debounceMu.Lock()
		latest := generations[identifier]
		debounceMu.Unlock()
		if latest != generation {
			return nil
		}
		return cmd()
	})
}
