// Package parser turns the records of git commands into view lines, one
// record at a time.
package parser

import (
	"log"
	"strings"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/graph"
	"github.com/tigview/tigview/internal/ui/view"
)

// CommitLine is the payload of a main view line.
type CommitLine struct {
	Commit *git.Commit
	Graph  graph.Row
}

// MainLog reads `git log --pretty=raw --parents --boundary` output.
type MainLog struct {
	refs    *git.RefStore
	graph   *graph.Builder
	current *view.Line
	Ignored int
}

func NewMainLog(maxColumns int) *MainLog {
	return &MainLog{graph: graph.NewBuilder(maxColumns)}
}

// Reset prepares for a new load. refs may be nil.
func (p *MainLog) Reset(refs *git.RefStore) {
	p.refs = refs
	p.graph.Reset()
	p.current = nil
	p.Ignored = 0
}

func (p *MainLog) Read(lines *view.LineStore, record []byte) {
	text := string(record)
	switch {
	case strings.HasPrefix(text, "commit "):
		p.readCommit(lines, text[len("commit "):])
	case p.current == nil:
		return
	case strings.HasPrefix(text, "author "):
		c := p.commit()
		c.Author, c.Email, c.Time = git.ParseIdent(text[len("author "):])
		p.current.Dirty = true
	case strings.HasPrefix(text, "    "):
		if c := p.commit(); c.Title == "" {
			c.Title = strings.TrimSpace(text)
			p.current.Dirty = true
		}
	}
}

func (p *MainLog) readCommit(lines *view.LineStore, text string) {
	boundary := strings.HasPrefix(text, "-")
	fields := strings.Fields(strings.TrimPrefix(text, "-"))
	if len(fields) == 0 || !git.IsID(fields[0]) {
		p.Ignored++
		p.current = nil
		log.Printf("main: ignoring commit record %q", text)
		return
	}
	c := &git.Commit{ID: fields[0], Parents: fields[1:], Boundary: boundary}
	if p.refs != nil {
		c.Refs = p.refs.For(c.ID)
	}
	row := p.graph.Add(c.ID, c.Parents, boundary)
	lineType := view.LineMainCommit
	if boundary {
		lineType = view.LineMainBoundary
	}
	p.current = lines.Append(lineType, &CommitLine{Commit: c, Graph: row})
}

func (p *MainLog) commit() *git.Commit {
	return p.current.Data.(*CommitLine).Commit
}

// Finish ends the current load.
func (p *MainLog) Finish() {
	p.current = nil
}
