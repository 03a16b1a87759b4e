package parser

import (
	"log"
	"strconv"
	"strings"

	"github.com/tigview/tigview/internal/git"
	"github.com/tigview/tigview/internal/ui/view"
)

// BlameLine is the payload of a blame view line. Commit is nil until the
// line has been attributed.
type BlameLine struct {
	Commit *git.Commit
	Lineno int
	Text   string
	// Header is set on the first line of an attribution group.
	Header bool
}

type blamePhase int

const (
	blameContent blamePhase = iota
	blameAttribution
)

// Blame reads a file's content first, one line per record, and then the
// output of `git blame --incremental` for the same file.
type Blame struct {
	registry   *git.Registry
	phase      blamePhase
	current    *git.Commit
	authorTime int64
	// group is the line range of the last header, [start, end).
	groupStart int
	groupEnd   int
	blamed     int
	Ignored    int
}

func NewBlame() *Blame {
	return &Blame{registry: git.NewRegistry()}
}

func (b *Blame) Reset() {
	b.registry.Reset()
	b.phase = blameContent
	b.current = nil
	b.authorTime = 0
	b.blamed = 0
	b.Ignored = 0
}

// StartAttribution switches from content records to blame records.
func (b *Blame) StartAttribution() {
	b.phase = blameAttribution
	b.current = nil
}

func (b *Blame) Attributing() bool {
	return b.phase == blameAttribution
}

// Progress is the share of lines attributed so far, in percent.
func (b *Blame) Progress(total int) int {
	if total == 0 {
		return 0
	}
	return min(b.blamed*100/total, 100)
}

func (b *Blame) Commits() int {
	return b.registry.Len()
}

func (b *Blame) Read(lines *view.LineStore, record []byte) {
	if b.phase == blameContent {
		lines.Append(view.LineBlame, &BlameLine{Lineno: lines.Len() + 1, Text: string(record)})
		return
	}
	text := string(record)
	if b.current == nil {
		b.readHeader(lines, text)
		return
	}
	c := b.current
	switch {
	case strings.HasPrefix(text, "author "):
		c.Author = text[len("author "):]
	case strings.HasPrefix(text, "author-mail "):
		c.Email = strings.Trim(text[len("author-mail "):], "<>")
	case strings.HasPrefix(text, "author-time "):
		if t, err := strconv.ParseInt(text[len("author-time "):], 10, 64); err == nil {
			b.authorTime = t
		}
	case strings.HasPrefix(text, "author-tz "):
		c.Time = git.AuthorTime(b.authorTime, text[len("author-tz "):])
	case strings.HasPrefix(text, "summary "):
		c.Title = text[len("summary "):]
	case strings.HasPrefix(text, "boundary"):
		c.Boundary = true
	case strings.HasPrefix(text, "filename "):
		c.Filename = text[len("filename "):]
		b.redirtyGroup(lines)
		b.current = nil
	}
}

// readHeader handles "<id> <orig-line> <line> <count>"; the older three
// field form without the original line is accepted too.
func (b *Blame) readHeader(lines *view.LineStore, text string) {
	id, lineno, group, ok := parseBlameHeader(text, lines.Len())
	if !ok {
		b.Ignored++
		log.Printf("blame: ignoring record %q", text)
		return
	}
	commit, _ := b.registry.Intern(id)
	for i := 0; i < group; i++ {
		line := lines.At(lineno - 1 + i)
		bl := line.Data.(*BlameLine)
		bl.Commit = commit
		bl.Header = i == 0
		line.Dirty = true
	}
	b.blamed += group
	b.current = commit
	b.groupStart, b.groupEnd = lineno-1, lineno-1+group
}

// redirtyGroup marks the last group dirty again once the commit's header
// block is complete.
func (b *Blame) redirtyGroup(lines *view.LineStore) {
	for i := b.groupStart; i < b.groupEnd; i++ {
		lines.MarkDirty(i)
	}
}

func parseBlameHeader(text string, total int) (id string, lineno, group int, ok bool) {
	fields := strings.Fields(text)
	if (len(fields) != 3 && len(fields) != 4) || !git.IsID(fields[0]) {
		return "", 0, 0, false
	}
	nums := fields[len(fields)-2:]
	lineno, err := strconv.Atoi(nums[0])
	if err != nil || lineno < 1 || lineno > total {
		return "", 0, 0, false
	}
	group, err = strconv.Atoi(nums[1])
	if err != nil || group < 1 || group > total-lineno+1 {
		return "", 0, 0, false
	}
	return fields[0], lineno, group, true
}

// Finish ends the current load.
func (b *Blame) Finish() {
	b.phase = blameContent
	b.current = nil
}
