// Package watch reports changes to the repository so the views can reload
// after commands run outside the program.
package watch

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ChangedMsg is sent for the first change after the previous Wait.
type ChangedMsg struct{}

type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
}

// New watches the git directory, its branch and tag directories and the
// top of the work tree. Missing directories are skipped.
func New(gitDir, workTree string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, path := range Paths(gitDir, workTree) {
		if err := w.Add(path); err != nil {
			return nil, errors.Join(fmt.Errorf("watch %s: %w", path, err), w.Close())
		}
	}
	watcher := &Watcher{
		watcher: w,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go watcher.loop()
	return watcher, nil
}

func Paths(gitDir, workTree string) []string {
	var paths []string
	candidates := []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
		workTree,
	}
	seen := map[string]bool{}
	for _, p := range candidates {
		if p == "" || seen[p] {
			continue
		}
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

// Ignored reports events that never change what the views show.
func Ignored(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lock", ".ipc", ".swp":
		return true
	}
	base := filepath.Base(name)
	return base == ".git" || strings.HasPrefix(base, "tmp_obj_")
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || Ignored(ev.Name) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		case <-w.done:
			return
		}
	}
}

// Wait returns a command that blocks until the next change.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.changes:
			return ChangedMsg{}
		case <-w.done:
			return nil
		}
	}
}

func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.watcher.Close()
}
