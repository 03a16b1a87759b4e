package parser

import (
	"log"
	"strings"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui/view"
)

// StatusHead is the payload of the first status line.
type StatusHead string

// Status reads the NUL separated output of diff-index, diff-files and
// ls-files, one section per pass.
type Status struct {
	section git.Section
	// fixed is the status given to path-only records; zero means the pass
	// produces raw diff metadata records.
	fixed    byte
	pending  *git.StatusEntry
	unmerged string
	entries  int
	Ignored  int
}

// Head appends the branch line that starts the view.
func (p *Status) Head(lines *view.LineStore, head StatusHead) {
	lines.Append(view.LineStatusHead, head)
}

// BeginSection starts a pass. fixed is the status for path-only output, or
// zero for raw diff output.
func (p *Status) BeginSection(lines *view.LineStore, section git.Section, fixed byte) {
	p.section = section
	p.fixed = fixed
	p.pending = nil
	p.unmerged = ""
	p.entries = 0
	lines.Append(view.LineStatusSection, section)
}

// EndSection closes the current pass, marking it empty when it listed
// nothing.
func (p *Status) EndSection(lines *view.LineStore) {
	if p.section == git.SectionNone {
		return
	}
	if p.pending != nil {
		p.Ignored++
		log.Printf("status: dropping entry without path")
		p.pending = nil
	}
	if p.entries == 0 {
		lines.Append(view.LineStatusNone, nil)
	}
	p.section = git.SectionNone
}

func (p *Status) Read(lines *view.LineStore, record []byte) {
	if p.section == git.SectionNone {
		return
	}
	text := string(record)
	if p.fixed != 0 {
		if text == "" {
			return
		}
		entry := &git.StatusEntry{Section: p.section, Status: p.fixed, OldPath: text, NewPath: text}
		if p.fixed == 'A' {
			entry.OldMode, entry.OldID = "000000", git.NullID
		}
		p.add(lines, entry)
		return
	}

	if p.pending == nil {
		entry, ok := parseStatusMetadata(text)
		if !ok {
			p.Ignored++
			log.Printf("status: ignoring record %q", text)
			return
		}
		entry.Section = p.section
		p.pending = entry
		return
	}

	entry := p.pending
	if entry.Renamed() && entry.OldPath == "" {
		entry.OldPath = text
		return
	}
	entry.NewPath = text
	if !entry.Renamed() {
		entry.OldPath = text
	}
	p.pending = nil

	if p.unmerged != "" {
		prev := p.unmerged
		p.unmerged = ""
		if entry.Path() == prev {
			return
		}
	}
	if entry.Status == 'U' {
		p.unmerged = entry.Path()
	}
	p.add(lines, entry)
}

func (p *Status) add(lines *view.LineStore, entry *git.StatusEntry) {
	p.entries++
	lines.Append(statusLineType(entry.Section), entry)
}

func statusLineType(s git.Section) view.LineType {
	switch s {
	case git.SectionStaged:
		return view.LineStatusStaged
	case git.SectionUnstaged:
		return view.LineStatusUnstaged
	default:
		return view.LineStatusUntracked
	}
}

// parseStatusMetadata reads ":<old mode> <new mode> <old id> <new id> <status>".
// The status may carry a similarity score, as in R087.
func parseStatusMetadata(text string) (*git.StatusEntry, bool) {
	if !strings.HasPrefix(text, ":") {
		return nil, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) != 5 || len(fields[0]) != 6 || len(fields[1]) != 6 ||
		!git.IsID(fields[2]) || !git.IsID(fields[3]) || fields[4] == "" {
		return nil, false
	}
	return &git.StatusEntry{
		OldMode: fields[0],
		NewMode: fields[1],
		OldID:   fields[2],
		NewID:   fields[3],
		Status:  fields[4][0],
	}, true
}
