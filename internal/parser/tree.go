package parser

import (
	"strings"

	"github.com/tigview/tigview/internal/ui/view"
)

// TreeEntry is the payload of a tree view line.
type TreeEntry struct {
	Mode string
	Kind string
	ID   string
	// Name is relative to the listed directory.
	Name string
}

func (e *TreeEntry) IsDir() bool {
	return e.Kind == "tree"
}

// Tree reads `git ls-tree -z` records for one directory and keeps them
// sorted with directories first.
type Tree struct {
	dir     string
	Ignored int
}

// Reset starts listing dir, which is empty for the root or ends in "/".
// Below the root an entry for the parent directory comes first.
func (p *Tree) Reset(lines *view.LineStore, dir string) {
	p.dir = dir
	p.Ignored = 0
	if dir != "" {
		lines.Append(view.LineTreeParent, &TreeEntry{Kind: "tree", Name: ".."})
	}
}

func (p *Tree) Read(lines *view.LineStore, record []byte) {
	entry, ok := parseTreeEntry(string(record), p.dir)
	if !ok {
		if len(record) > 0 {
			p.Ignored++
		}
		return
	}
	lineType := view.LineTreeFile
	if entry.IsDir() {
		lineType = view.LineTreeDir
	}
	from := 0
	if p.dir != "" {
		from = 1
	}
	lines.InsertSorted(from, lineType, entry, compareTreeLines)
}

// parseTreeEntry reads "<mode> <type> <id>\t<path>".
func parseTreeEntry(text, dir string) (*TreeEntry, bool) {
	meta, path, ok := strings.Cut(text, "\t")
	if !ok {
		return nil, false
	}
	fields := strings.Fields(meta)
	if len(fields) != 3 {
		return nil, false
	}
	return &TreeEntry{
		Mode: fields[0],
		Kind: fields[1],
		ID:   fields[2],
		Name: strings.TrimPrefix(path, dir),
	}, true
}

func compareTreeLines(a, b *view.Line) int {
	ea, eb := a.Data.(*TreeEntry), b.Data.(*TreeEntry)
	if ea.IsDir() != eb.IsDir() {
		if ea.IsDir() {
			return -1
		}
		return 1
	}
	return strings.Compare(ea.Name, eb.Name)
}
