package parser

import (
	"strings"

	"github.com/tigview/tigview/internal/ui/view"
)

var pagerPrefixes = []struct {
	prefix string
	kind   view.LineType
}{
	{"diff --", view.LineDiffHeader},
	{"index ", view.LineDiffIndex},
	{"--- ", view.LineDiffOld},
	{"+++ ", view.LineDiffNew},
	{"@@", view.LineDiffChunk},
	{"+", view.LineDiffAdd},
	{"-", view.LineDiffDel},
	{"commit ", view.LineCommit},
	{"Merge: ", view.LineMerge},
	{"parent ", view.LineParent},
	{"Author: ", view.LineAuthor},
	{"Commit: ", view.LineAuthor},
	{"Date: ", view.LineDate},
	{"AuthorDate: ", view.LineDate},
	{"CommitDate: ", view.LineDate},
}

// Classify picks the line type of one line of git output.
func Classify(text string) view.LineType {
	for _, p := range pagerPrefixes {
		if strings.HasPrefix(text, p.prefix) {
			return p.kind
		}
	}
	if isStatLine(text) {
		return view.LineDiffStat
	}
	return view.LineDefault
}

func isStatLine(text string) bool {
	if !strings.HasPrefix(text, " ") {
		return false
	}
	if strings.Contains(text, " | ") {
		return true
	}
	return strings.Contains(text, " changed, ") || strings.HasSuffix(text, " changed")
}

// Pager appends every record as a plain text line.
type Pager struct{}

func (Pager) Read(lines *view.LineStore, record []byte) {
	text := string(record)
	lines.Append(Classify(text), text)
}
