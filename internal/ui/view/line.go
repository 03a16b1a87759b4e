package view

import "slices"

// LineType selects the style a line is drawn with.
type LineType int

const (
	LineDefault LineType = iota
	LineDelimiter
	LineCommit
	LineMerge
	LineParent
	LineAuthor
	LineDate
	LineDiffHeader
	LineDiffIndex
	LineDiffOld
	LineDiffNew
	LineDiffChunk
	LineDiffAdd
	LineDiffDel
	LineDiffStat
	LineMainCommit
	LineMainBoundary
	LineTreeParent
	LineTreeDir
	LineTreeFile
	LineBlame
	LineStatusHead
	LineStatusSection
	LineStatusStaged
	LineStatusUnstaged
	LineStatusUntracked
	LineStatusNone
	LineHelpGroup
	LineHelpKey
)

// Line is one row of a view. Data holds the view specific payload.
type Line struct {
	Type  LineType
	Dirty bool
	Data  any
}

// LineStore holds the lines of one load. Lines are appended while the load
// runs and only replaced as a whole by Reset.
type LineStore struct {
	lines []*Line
}

func (s *LineStore) Len() int {
	return len(s.lines)
}

// At returns line i or nil when i is out of range.
func (s *LineStore) At(i int) *Line {
	if i < 0 || i >= len(s.lines) {
		return nil
	}
	return s.lines[i]
}

func (s *LineStore) Append(t LineType, data any) *Line {
	line := &Line{Type: t, Dirty: true, Data: data}
	s.lines = append(s.lines, line)
	return line
}

// InsertSorted places a new line among lines[from:] according to cmp and
// returns its index. Lines after the insertion point move down one row and
// are marked dirty.
func (s *LineStore) InsertSorted(from int, t LineType, data any, cmp func(a, b *Line) int) int {
	line := &Line{Type: t, Dirty: true, Data: data}
	from = min(max(from, 0), len(s.lines))
	pos, _ := slices.BinarySearchFunc(s.lines[from:], line, cmp)
	pos += from
	s.lines = slices.Insert(s.lines, pos, line)
	for _, l := range s.lines[pos+1:] {
		l.Dirty = true
	}
	return pos
}

// Truncate drops lines from n onwards.
func (s *LineStore) Truncate(n int) {
	if n < len(s.lines) {
		clear(s.lines[n:])
		s.lines = s.lines[:n]
	}
}

func (s *LineStore) Reset() {
	s.lines = nil
}

func (s *LineStore) MarkDirty(i int) {
	if line := s.At(i); line != nil {
		line.Dirty = true
	}
}

func (s *LineStore) MarkAllDirty() {
	for _, line := range s.lines {
		line.Dirty = true
	}
}

// Window returns the lines visible from offset for height rows.
func (s *LineStore) Window(offset, height int) []*Line {
	if offset >= len(s.lines) || height <= 0 {
		return nil
	}
	offset = max(offset, 0)
	return s.lines[offset:min(offset+height, len(s.lines))]
}
